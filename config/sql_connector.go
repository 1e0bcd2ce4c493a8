package config

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // pure go sqlite driver
)

const (
	DialectSQLite   = "sqlite3"
	DialectPostgres = "postgres"
)

// SetupSQL opens and pings the relational database behind store and returns
// it together with the goqu dialect its queries must be built with.
func SetupSQL(ctx context.Context, store, dsn string) (*sqlx.DB, string, error) {
	const defaultMaxOpenConnections = 50
	const defaultMaxIdleConnections = 10
	const defaultMaxConnLifetime = time.Hour
	const defaultMaxConnIdleTime = time.Minute * 5

	var driver, dialect string
	switch store {
	case StoreSQLite:
		driver, dialect = "sqlite", DialectSQLite
	case StorePostgres:
		driver, dialect = "postgres", DialectPostgres
	case StorePGX:
		driver, dialect = "pgx", DialectPostgres
	default:
		return nil, "", fmt.Errorf("store %q is not a relational store", store)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, "", fmt.Errorf("open %s database: %w", driver, err)
	}

	if dialect == DialectSQLite {
		// sqlite allows a single writer; in-memory databases are per connection
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(defaultMaxOpenConnections)
		db.SetMaxIdleConns(defaultMaxIdleConnections)
		db.SetConnMaxLifetime(defaultMaxConnLifetime)
		db.SetConnMaxIdleTime(defaultMaxConnIdleTime)
	}

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("ping %s database: %w", driver, pingErr)
	}

	return db, dialect, nil
}
