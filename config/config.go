package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const EnvPrefix = "books"

const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StorePGX      = "pgx"
	StoreElastic  = "elastic"
	StoreMemory   = "memory"
)

type Config struct {
	Addr         string
	Store        string
	DSN          string
	AutoMigrate  bool
	ElasticURL   string
	ElasticIndex string
	RedisURL     string
	ActivitySize int
	LogLevel     string
	LogFormat    string
	GinMode      string
}

var defaults = map[string]interface{}{
	"addr":          ":3000",
	"store":         StoreSQLite,
	"dsn":           "books.db",
	"auto-migrate":  true,
	"elastic-url":   "http://localhost:9200",
	"elastic-index": "books",
	"redis-url":     "",
	"activity-size": 3,
	"log-level":     "info",
	"log-format":    "text",
	"gin-mode":      "release",
}

// InitConfig loads .env files and wires viper to the environment. The
// variables read by earlier deployments (REDIS_URL, ELASTIC_URL) are still
// honoured next to the prefixed ones.
func InitConfig() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	for key, value := range defaults {
		viper.SetDefault(key, value)
	}
	_ = viper.BindEnv("redis-url", "BOOKS_REDIS_URL", "REDIS_URL")
	_ = viper.BindEnv("elastic-url", "BOOKS_ELASTIC_URL", "ELASTIC_URL")
}

// SetupFlags registers the persistent flags shared by every command.
func SetupFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("addr", defaults["addr"].(string), "Address the HTTP server listens on")
	flags.String("store", defaults["store"].(string), "Book store backend: sqlite, postgres, pgx, elastic or memory")
	flags.String("dsn", defaults["dsn"].(string), "Data source name for the sqlite, postgres and pgx stores")
	flags.Bool("auto-migrate", defaults["auto-migrate"].(bool), "Create the schema on startup")
	flags.String("elastic-url", defaults["elastic-url"].(string), "Elasticsearch URL for the elastic store")
	flags.String("elastic-index", defaults["elastic-index"].(string), "Elasticsearch index holding the books")
	flags.String("redis-url", defaults["redis-url"].(string), "Redis address for the activity log (empty keeps it in memory)")
	flags.Int("activity-size", defaults["activity-size"].(int), "Number of recent requests remembered per user")
	flags.String("log-level", defaults["log-level"].(string), "Log level: debug, info, warn or error")
	flags.String("log-format", defaults["log-format"].(string), "Log format: text or json")
	flags.String("gin-mode", defaults["gin-mode"].(string), "gin mode: debug, release or test")
}

// BindFlags makes explicitly set flags take precedence over the environment.
func BindFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

func Load() (*Config, error) {
	conf := &Config{
		Addr:         viper.GetString("addr"),
		Store:        strings.ToLower(viper.GetString("store")),
		DSN:          viper.GetString("dsn"),
		AutoMigrate:  viper.GetBool("auto-migrate"),
		ElasticURL:   viper.GetString("elastic-url"),
		ElasticIndex: viper.GetString("elastic-index"),
		RedisURL:     viper.GetString("redis-url"),
		ActivitySize: viper.GetInt("activity-size"),
		LogLevel:     viper.GetString("log-level"),
		LogFormat:    viper.GetString("log-format"),
		GinMode:      viper.GetString("gin-mode"),
	}

	switch conf.Store {
	case StoreSQLite, StorePostgres, StorePGX, StoreElastic, StoreMemory:
	default:
		return nil, fmt.Errorf("invalid store %q (expected one of: sqlite, postgres, pgx, elastic, memory)", conf.Store)
	}
	if conf.ActivitySize < 1 {
		return nil, fmt.Errorf("invalid activity-size %d: must be at least 1", conf.ActivitySize)
	}
	if _, err := ParseLogLevel(conf.LogLevel); err != nil {
		return nil, err
	}

	return conf, nil
}
