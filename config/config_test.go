package config

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Load_Defaults(t *testing.T) {
	InitConfig()

	conf, err := Load()

	require.NoError(t, err)
	assert.Equal(t, ":3000", conf.Addr)
	assert.Equal(t, StoreSQLite, conf.Store)
	assert.Equal(t, "books.db", conf.DSN)
	assert.True(t, conf.AutoMigrate)
	assert.Equal(t, 3, conf.ActivitySize)
}

func Test_Load_FromEnvironment(t *testing.T) {
	InitConfig()
	t.Setenv("BOOKS_STORE", "memory")
	t.Setenv("BOOKS_ACTIVITY_SIZE", "5")
	t.Setenv("REDIS_URL", "localhost:6379")

	conf, err := Load()

	require.NoError(t, err)
	assert.Equal(t, StoreMemory, conf.Store)
	assert.Equal(t, 5, conf.ActivitySize)
	assert.Equal(t, "localhost:6379", conf.RedisURL)
}

func Test_Load_RejectsInvalidValues(t *testing.T) {
	InitConfig()

	t.Run("store", func(t *testing.T) {
		t.Setenv("BOOKS_STORE", "mongo")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("activity size", func(t *testing.T) {
		t.Setenv("BOOKS_ACTIVITY_SIZE", "0")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("log level", func(t *testing.T) {
		t.Setenv("BOOKS_LOG_LEVEL", "loud")
		_, err := Load()
		assert.Error(t, err)
	})
}

func Test_NewLogger_RespectsLevelAndFormat(t *testing.T) {
	var out bytes.Buffer
	logger := NewLogger(&Config{LogLevel: "warn", LogFormat: "json"}, &out)

	logger.Info("hidden")
	logger.Warn("shown", slog.String("key", "value"))

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), `"msg":"shown"`)
	assert.Contains(t, out.String(), `"key":"value"`)
}
