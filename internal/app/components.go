package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/wordsync-backend/internal/adapter/postgres"
	"github.com/heartmarshall/wordsync-backend/internal/adapter/postgres/ledger"
	"github.com/heartmarshall/wordsync-backend/internal/adapter/sqlite"
	"github.com/heartmarshall/wordsync-backend/internal/adapter/sqlite/meta"
	"github.com/heartmarshall/wordsync-backend/internal/adapter/sqlite/queue"
	"github.com/heartmarshall/wordsync-backend/internal/adapter/sqlite/word"
	"github.com/heartmarshall/wordsync-backend/internal/config"
	"github.com/heartmarshall/wordsync-backend/internal/domain"
	"github.com/heartmarshall/wordsync-backend/internal/service/coordinator"
	"github.com/heartmarshall/wordsync-backend/internal/service/vocabulary"
)

// remoteLedger is everything the process needs from the remote side.
type remoteLedger interface {
	Ping(ctx context.Context) error
	Append(ctx context.Context, originID string, entry domain.SyncQueueEntry) error
	Stats(ctx context.Context, userID string) (*domain.UserWordStats, error)
	Close()
}

// Components is the wired object graph shared by the server and the CLI.
type Components struct {
	Config      *config.Config
	Log         *slog.Logger
	Store       *sql.DB
	Ledger      remoteLedger
	Queue       *queue.Repo
	Words       *word.Repo
	OriginID    string
	Coordinator *coordinator.Coordinator
	Vocabulary  *vocabulary.Service
}

// Build opens the local store, creates the lazy remote pool and wires the
// services. It does not contact the remote ledger, so it succeeds offline.
func Build(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Components, error) {
	pool, err := postgres.NewPool(ctx, cfg.Remote)
	if err != nil {
		return nil, err
	}

	c, err := build(ctx, cfg, log, ledger.New(log, pool))
	if err != nil {
		pool.Close()
		return nil, err
	}
	return c, nil
}

func build(ctx context.Context, cfg *config.Config, log *slog.Logger, remote remoteLedger) (*Components, error) {
	store, err := sqlite.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	originID, err := meta.New(store).OriginID(ctx)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("load origin id: %w", err)
	}

	words := word.New(store)
	queueRepo := queue.New(store)
	txm := sqlite.NewTxManager(store)

	coord := coordinator.New(log, queueRepo, words, remote, originID, cfg.Sync)
	if err := coord.RefreshPending(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("count pending: %w", err)
	}

	return &Components{
		Config:      cfg,
		Log:         log,
		Store:       store,
		Ledger:      remote,
		Queue:       queueRepo,
		Words:       words,
		OriginID:    originID,
		Coordinator: coord,
		Vocabulary:  vocabulary.NewService(log, words, queueRepo, txm, remote),
	}, nil
}

// MigrateRemote applies the ledger schema. Offline it returns an error
// wrapping domain.ErrRemoteUnavailable.
func (c *Components) MigrateRemote(ctx context.Context) error {
	return postgres.Migrate(ctx, c.Config.Remote.DSN)
}

// Close stops the coordinator and releases both stores.
func (c *Components) Close(ctx context.Context) error {
	var errs []error
	if err := c.Coordinator.Stop(ctx); err != nil {
		errs = append(errs, fmt.Errorf("stop coordinator: %w", err))
	}
	c.Ledger.Close()
	if err := c.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	return errors.Join(errs...)
}
