// Package meta stores key/value facts about the local store itself.
package meta

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/heartmarshall/wordsync-backend/internal/adapter/sqlite"
	"github.com/heartmarshall/wordsync-backend/internal/domain"
)

const (
	table = "meta"

	keyOriginID = "origin_id"
)

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// Repo provides access to the meta table.
type Repo struct {
	db *sql.DB
}

// New creates a new meta repository.
func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// OriginID returns the identity of this local store, generating and
// persisting a new UUID on first use. The remote ledger uses it together
// with the queue sequence number to recognize resent entries.
func (r *Repo) OriginID(ctx context.Context) (string, error) {
	id, err := r.get(ctx, keyOriginID)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	query, args, err := builder.Insert(table).
		Columns("key", "value").
		Values(keyOriginID, uuid.NewString()).
		Suffix("ON CONFLICT (key) DO NOTHING").
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build insert origin id: %w", err)
	}
	if _, err := sqlite.QuerierFromCtx(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return "", sqlite.MapError(err, "meta", keyOriginID)
	}

	// Re-read so a concurrent first call settles on the same value.
	return r.get(ctx, keyOriginID)
}

func (r *Repo) get(ctx context.Context, key string) (string, error) {
	query, args, err := builder.Select("value").From(table).Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return "", fmt.Errorf("build select meta: %w", err)
	}

	var value string
	if err := sqlite.QuerierFromCtx(ctx, r.db).QueryRowContext(ctx, query, args...).Scan(&value); err != nil {
		return "", sqlite.MapError(err, "meta", key)
	}
	return value, nil
}
