// Package database opens the PostgreSQL pool and applies schema migrations.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolOptions sizes the connection pool. Zero fields keep the defaults.
type PoolOptions struct {
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// DefaultPoolOptions suits a single server instance serving a few hundred tables.
var DefaultPoolOptions = PoolOptions{
	MaxConns:        25,
	MinConns:        2,
	MaxConnLifetime: 30 * time.Minute,
	MaxConnIdleTime: 5 * time.Minute,
}

// Connect opens a pool for dsn and pings it.
func Connect(ctx context.Context, dsn string, opts ...PoolOptions) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database DSN: %w", err)
	}
	o := DefaultPoolOptions
	if len(opts) > 0 {
		o = o.merge(opts[0])
	}
	cfg.MaxConns = o.MaxConns
	cfg.MinConns = o.MinConns
	cfg.MaxConnLifetime = o.MaxConnLifetime
	cfg.MaxConnIdleTime = o.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

func (o PoolOptions) merge(over PoolOptions) PoolOptions {
	if over.MaxConns > 0 {
		o.MaxConns = over.MaxConns
	}
	if over.MinConns > 0 {
		o.MinConns = over.MinConns
	}
	if over.MaxConnLifetime > 0 {
		o.MaxConnLifetime = over.MaxConnLifetime
	}
	if over.MaxConnIdleTime > 0 {
		o.MaxConnIdleTime = over.MaxConnIdleTime
	}
	if o.MinConns > o.MaxConns {
		o.MinConns = o.MaxConns
	}
	return o
}
