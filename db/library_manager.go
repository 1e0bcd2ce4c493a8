package db

import (
	"context"
	"fmt"
	"io"

	"books/config"
	"books/models"
)

// Migrator is implemented by stores that need a schema before first use.
type Migrator interface {
	Migrate(ctx context.Context) error
}

var (
	_ models.Library = (*SQLLibraryManager)(nil)
	_ models.Library = (*ElasticLibraryManager)(nil)
	_ models.Library = (*MemoryLibraryManager)(nil)
	_ models.Pinger  = (*SQLLibraryManager)(nil)
	_ models.Pinger  = (*ElasticLibraryManager)(nil)
	_ Migrator       = (*SQLLibraryManager)(nil)
	_ Migrator       = (*ElasticLibraryManager)(nil)
)

// SetupLibrary connects the store selected by conf.Store. The returned
// closer releases the backend connection.
func SetupLibrary(ctx context.Context, conf *config.Config) (models.Library, io.Closer, error) {
	switch conf.Store {
	case config.StoreMemory:
		return CreateMemoryLibrary(), closerFunc(func() error { return nil }), nil
	case config.StoreElastic:
		elasticClient, err := config.SetupElasticSearch(conf.ElasticURL)
		if err != nil {
			return nil, nil, err
		}
		return CreateElasticLibrary(conf.ElasticIndex, elasticClient), closerFunc(func() error {
			elasticClient.Stop()
			return nil
		}), nil
	case config.StoreSQLite, config.StorePostgres, config.StorePGX:
		sqlDB, dialect, err := config.SetupSQL(ctx, conf.Store, conf.DSN)
		if err != nil {
			return nil, nil, err
		}
		library := CreateSQLLibrary(sqlDB, dialect)
		return library, library, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q", conf.Store)
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
