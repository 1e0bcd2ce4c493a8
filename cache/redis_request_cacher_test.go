package cache

import (
	"testing"
	"time"

	"books/config"
	"books/models"
	"books/testutil/redisfake"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCacher(t *testing.T, maxNumber int) (*RedisRequestCacher, *redisfake.Server) {
	t.Helper()

	server := redisfake.Start(t)
	client, err := config.SetupRedis(server.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return CreateRedisCache(client, maxNumber), server
}

func Test_RedisRequestCacher_KeepsNewestFirstUpToMax(t *testing.T) {
	// setup
	cacher, _ := newRedisCacher(t, 3)

	// act
	for _, value := range []string{"a", "b", "c", "d"} {
		require.NoError(t, cacher.Write("ann", []byte(value)))
	}

	// assert
	values, err := cacher.Read("ann")
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "c", "b"}, values)
}

func Test_RedisRequestCacher_Write_PushesThenTrims(t *testing.T) {
	cacher, server := newRedisCacher(t, 2)

	require.NoError(t, cacher.Write("ann", []byte("a")))

	assert.Equal(t, []string{"PING", "LPUSH", "LTRIM"}, server.Commands())
}

func Test_SetupCacher_UsesRedisWhenConfigured(t *testing.T) {
	server := redisfake.Start(t)

	cacher, closeCacher, err := SetupCacher(&config.Config{RedisURL: "redis://" + server.Addr(), ActivitySize: 3})
	require.NoError(t, err)
	defer func() { _ = closeCacher() }()

	assert.IsType(t, &RedisRequestCacher{}, cacher)
	require.NoError(t, Record(cacher, "ann", models.UserRequest{Method: "GET", Route: "/books", At: time.Now()}))
	assert.Contains(t, server.Commands(), "LPUSH")
}
