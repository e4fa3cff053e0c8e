// Package queue implements the sync queue: the ordered, durable log of
// operations waiting for delivery to the remote ledger.
package queue

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"

	"github.com/heartmarshall/wordsync-backend/internal/adapter/sqlite"
	"github.com/heartmarshall/wordsync-backend/internal/domain"
)

const table = "sync_queue"

var columns = []string{"seq", "operation", "user_id", "word_id", "word", "result", "context", "payload", "created_at"}

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// Repo provides sync queue persistence backed by SQLite.
type Repo struct {
	db *sql.DB
}

// New creates a new queue repository.
func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

type row struct {
	Seq       int64   `db:"seq"`
	Operation string  `db:"operation"`
	UserID    string  `db:"user_id"`
	WordID    *int64  `db:"word_id"`
	Word      string  `db:"word"`
	Result    *string `db:"result"`
	Context   *string `db:"context"`
	Payload   *string `db:"payload"`
	CreatedAt string  `db:"created_at"`
}

// Enqueue appends e and returns its sequence number. Inside RunInTx it joins
// the caller's transaction; otherwise the insert commits on its own.
func (r *Repo) Enqueue(ctx context.Context, e domain.SyncQueueEntry) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}

	data, err := domain.EncodePayload(e.Payload)
	if err != nil {
		return 0, err
	}
	var payload *string
	if data != nil {
		s := string(data)
		payload = &s
	}

	var result *string
	if e.Result != nil {
		s := e.Result.String()
		result = &s
	}

	query, args, err := builder.Insert(table).
		Columns(columns[1:]...).
		Values(e.Kind.String(), e.UserID, e.WordID, e.Word, result, e.Context, payload, sqlite.FormatTime(e.CreatedAt)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build enqueue: %w", err)
	}

	res, err := sqlite.QuerierFromCtx(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, sqlite.MapError(err, "sync_queue", e.Kind)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return 0, sqlite.MapError(err, "sync_queue", e.Kind)
	}
	return seq, nil
}

// ListPending returns every queued entry in ascending sequence order. The
// single SELECT reads one consistent snapshot. Entries whose stored payload
// cannot be decoded are returned with a nil Payload.
func (r *Repo) ListPending(ctx context.Context) ([]domain.SyncQueueEntry, error) {
	query, args, err := builder.Select(columns...).From(table).OrderBy("seq").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list pending: %w", err)
	}

	var rows []row
	if err := sqlscan.Select(ctx, sqlite.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, sqlite.MapError(err, "sync_queue", "pending")
	}

	entries := make([]domain.SyncQueueEntry, 0, len(rows))
	for _, rw := range rows {
		e, err := toDomain(rw)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Remove deletes the entry with the given sequence number. Removing an
// entry that is already gone is not an error.
func (r *Repo) Remove(ctx context.Context, seq int64) error {
	query, args, err := builder.Delete(table).Where(sq.Eq{"seq": seq}).ToSql()
	if err != nil {
		return fmt.Errorf("build remove: %w", err)
	}

	if _, err := sqlite.QuerierFromCtx(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return sqlite.MapError(err, "sync_queue", seq)
	}
	return nil
}

// CountPending returns the number of queued entries.
func (r *Repo) CountPending(ctx context.Context) (int, error) {
	var n int
	err := sqlite.QuerierFromCtx(ctx, r.db).
		QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).
		Scan(&n)
	if err != nil {
		return 0, sqlite.MapError(err, "sync_queue", "count")
	}
	return n, nil
}

func toDomain(rw row) (domain.SyncQueueEntry, error) {
	kind := domain.OperationKind(rw.Operation)

	var raw []byte
	if rw.Payload != nil {
		raw = []byte(*rw.Payload)
	}
	// An undecodable payload is left nil: delivery of this entry then fails
	// and it stays queued without holding back the entries after it.
	payload, _ := domain.DecodePayload(kind, raw)

	created, err := sqlite.ParseTime(rw.CreatedAt)
	if err != nil {
		return domain.SyncQueueEntry{}, domain.NewStorageError(fmt.Sprintf("sync_queue %d", rw.Seq), err)
	}

	var result *domain.QuizResult
	if rw.Result != nil {
		r := domain.QuizResult(*rw.Result)
		result = &r
	}

	return domain.SyncQueueEntry{
		Seq:       rw.Seq,
		Kind:      kind,
		UserID:    rw.UserID,
		WordID:    rw.WordID,
		Word:      rw.Word,
		Result:    result,
		Context:   rw.Context,
		Payload:   payload,
		CreatedAt: created,
	}, nil
}
