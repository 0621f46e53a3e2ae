// Package db opens the PostgreSQL pool behind the record repository and
// the export log, and applies the embedded goose migrations.
package db

import (
	"context"
	"fmt"
	"time"

	"serveon_backend/platform/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	minIdleConns    = 1
	connMaxLifetime = time.Hour
	connMaxIdle     = 15 * time.Minute
	healthPeriod    = time.Minute
)

// NewPool connects and pings. The pool is closed again if the ping fails.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	maxConns := int32(max(cfg.GetDatabaseMaxConns(), 1))
	poolConfig.MaxConns = maxConns
	poolConfig.MinConns = min(minIdleConns, maxConns)
	poolConfig.MaxConnLifetime = connMaxLifetime
	poolConfig.MaxConnIdleTime = connMaxIdle
	poolConfig.HealthCheckPeriod = healthPeriod

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Pinger adapts a pool to the router's readiness check.
type Pinger struct {
	pool *pgxpool.Pool
}

func NewPinger(pool *pgxpool.Pool) Pinger {
	return Pinger{pool: pool}
}

func (p Pinger) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}
