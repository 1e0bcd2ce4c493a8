package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"gopkg.in/redis.v5"
)

// RedisOptions accepts either a redis:// URL or a bare host:port address.
func RedisOptions(redisUrl string) (*redis.Options, error) {
	if !strings.Contains(redisUrl, "://") {
		return &redis.Options{Addr: redisUrl}, nil
	}

	opts, err := redis.ParseURL(redisUrl)
	if err != nil {
		// url.Error repeats the whole URL, password included
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	return opts, nil
}

func SetupRedis(redisUrl string) (*redis.Client, error) {
	opts, err := RedisOptions(redisUrl)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	if err := client.Ping().Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis at %s (db %d): %w", opts.Addr, opts.DB, err)
	}

	return client, nil
}
