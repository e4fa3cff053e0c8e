// Package postgres holds the remote ledger's connection plumbing: the pgx
// pool, its schema and the transaction helpers the ledger repository uses.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/wordsync-backend/internal/config"
)

// NewPool creates a PostgreSQL connection pool configured from RemoteConfig.
// It parses the DSN and applies pool settings but does not ping: with
// MinConns 0 no connection is made until first use, so the process starts
// even when the remote ledger is unreachable.
func NewPool(ctx context.Context, cfg config.RemoteConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse remote DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	return pool, nil
}
