// Package db opens the SQL connection pool for the configured driver.
// The users table itself is owned by the database; the expected schema is
// documented in the sqldb repository package.
package db

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"registration-backend/internal/common/config"
	"registration-backend/internal/common/logger"
)

// Open initializes the connection pool and verifies connectivity.
func Open(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("empty database DSN")
	}

	dsn, err := normalizeDSN(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	pool, err := sqlx.Open(cfg.Database.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	pool.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.PingContext(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().
		Str("driver", cfg.Database.Driver).
		Int("max_open_conns", cfg.Database.MaxOpenConns).
		Msg("Database connection established")

	return pool, nil
}

// normalizeDSN forces parseTime on mysql DSNs so created_at scans into
// time.Time; without it every row read fails. Other drivers pass through
// unchanged.
func normalizeDSN(driver, dsn string) (string, error) {
	if driver != "mysql" {
		return dsn, nil
	}

	mysqlCfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("failed to parse mysql DSN: %w", err)
	}
	mysqlCfg.ParseTime = true

	return mysqlCfg.FormatDSN(), nil
}

// Placeholder returns the statement placeholder format for a driver:
// $1..$N for postgres, ? for mysql and sqlite3.
func Placeholder(driver string) sq.PlaceholderFormat {
	if driver == "postgres" {
		return sq.Dollar
	}
	return sq.Question
}
