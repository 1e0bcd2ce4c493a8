package cache

import "gopkg.in/redis.v5"

// RedisRequestCacher keeps the newest MaxNumber values of each key in a
// Redis list.
type RedisRequestCacher struct {
	Client    *redis.Client
	MaxNumber int
}

func CreateRedisCache(client *redis.Client, maxNumber int) *RedisRequestCacher {
	return &RedisRequestCacher{Client: client, MaxNumber: maxNumber}
}

// Write pushes value and trims the list in one round trip.
func (cacher *RedisRequestCacher) Write(key string, value []byte) error {
	_, err := cacher.Client.Pipelined(func(pipe *redis.Pipeline) error {
		pipe.LPush(key, value)
		pipe.LTrim(key, 0, cacher.lastIndex())
		return nil
	})
	return err
}

func (cacher *RedisRequestCacher) Read(key string) ([]string, error) {
	return cacher.Client.LRange(key, 0, cacher.lastIndex()).Result()
}

func (cacher *RedisRequestCacher) lastIndex() int64 {
	return int64(cacher.MaxNumber - 1)
}
