package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/glebarez/sqlite"
	_ "github.com/lib/pq"
	"github.com/lumiere-jewels/storefront/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options selects and locates a backend.
type Options struct {
	Driver string
	// URL is the postgres connection string.
	URL string
	// Path is the sqlite database file; ":memory:" is allowed.
	Path string
}

// Open connects to the configured backend and migrates its schema.
func Open(ctx context.Context, opts Options) (*Store, error) {
	var (
		dialector gorm.Dialector
		sqlDB     *sql.DB
	)

	switch opts.Driver {
	case "", DriverMemory:
		slog.Info("Using in-memory store; data is lost on restart")
		return NewMemoryStore(), nil
	case DriverSQLite:
		if opts.Path == "" {
			return nil, fmt.Errorf("open sqlite: DB_PATH is required")
		}
		dialector = sqlite.Open(sqliteDSN(opts.Path))
	case DriverPostgres:
		if opts.URL == "" {
			return nil, fmt.Errorf("open postgres: DATABASE_URL is required")
		}
		var err error
		sqlDB, err = sql.Open("postgres", opts.URL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
		dialector = postgres.New(postgres.Config{Conn: sqlDB})
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		if sqlDB != nil {
			sqlDB.Close()
		}
		return nil, fmt.Errorf("open %s: %w", opts.Driver, err)
	}

	if opts.Driver == DriverSQLite {
		// sqlite allows one writer; a single connection also keeps a
		// ":memory:" database alive and private to this store.
		if handle, err := db.DB(); err == nil {
			handle.SetMaxOpenConns(1)
		}
	}

	if err := OpenGorm(ctx, db); err != nil {
		return nil, err
	}

	s := NewGormStore(db)
	s.Driver = opts.Driver
	slog.Info("Store opened", "driver", opts.Driver)
	return s, nil
}

// OpenGorm pings and migrates an existing gorm connection.
func OpenGorm(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("store handle: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return fmt.Errorf("ping store: %w", err)
	}
	if err := models.AutoMigrate(db.WithContext(ctx)); err != nil {
		sqlDB.Close()
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// sqliteDSN turns on foreign keys and a busy timeout for file databases.
func sqliteDSN(path string) string {
	if path == ":memory:" {
		return ":memory:?_pragma=foreign_keys(1)"
	}
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}
