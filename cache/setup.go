package cache

import "books/config"

// SetupCacher returns a Redis backed cacher when a Redis URL is configured
// and an in-process one otherwise, together with a function releasing it.
func SetupCacher(conf *config.Config) (RequestCacher, func() error, error) {
	if conf.RedisURL == "" {
		return CreateMemoryCache(conf.ActivitySize), func() error { return nil }, nil
	}

	client, err := config.SetupRedis(conf.RedisURL)
	if err != nil {
		return nil, nil, err
	}

	return CreateRedisCache(client, conf.ActivitySize), client.Close, nil
}
