package postgres

import (
	// Go Internal Packages
	"context"
	"fmt"
	"time"

	// External Packages
	"github.com/jackc/pgx/v5/pgxpool"
)

const createTransactionsTable = `
CREATE TABLE IF NOT EXISTS transactions (
	authority TEXT PRIMARY KEY,
	name      TEXT NOT NULL,
	amount    BIGINT NOT NULL CHECK (amount >= 0),
	referrer  TEXT NOT NULL,
	date      TIMESTAMPTZ NOT NULL
)`

// Connect opens a pool, verifies it and makes sure the ledger table exists.
func Connect(ctx context.Context, uri string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DB config: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.HealthCheckPeriod = time.Minute

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	if _, err := pool.Exec(ctx, createTransactionsTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("cannot create tables: %w", err)
	}
	return pool, nil
}
