// Package ledger is the remote store that accepts delivered sync queue
// entries and keeps per-user aggregates over them.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/wordsync-backend/internal/adapter/postgres"
	"github.com/heartmarshall/wordsync-backend/internal/domain"
)

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// DB is satisfied by *pgxpool.Pool and by pgxmock pools.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Ledger is the PostgreSQL-backed remote ledger.
type Ledger struct {
	db  DB
	tx  *postgres.TxManager
	log *slog.Logger
}

// New creates a Ledger over db. The caller keeps ownership of the pool
// lifecycle unless it calls Close.
func New(log *slog.Logger, db DB) *Ledger {
	return &Ledger{
		db:  db,
		tx:  postgres.NewTxManager(db),
		log: log.With("adapter", "ledger"),
	}
}

// Ping reports whether the ledger is reachable.
func (l *Ledger) Ping(ctx context.Context) error {
	if err := l.db.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrRemoteUnavailable, err)
	}
	return nil
}

// Close releases the underlying pool.
func (l *Ledger) Close() {
	l.db.Close()
}

const upsertStats = `
INSERT INTO user_word_stats (user_id, total_operations, quiz_correct, quiz_incorrect, last_updated)
VALUES ($1, 1, $2, $3, now())
ON CONFLICT (user_id) DO UPDATE SET
    total_operations = user_word_stats.total_operations + 1,
    quiz_correct     = user_word_stats.quiz_correct + EXCLUDED.quiz_correct,
    quiz_incorrect   = user_word_stats.quiz_incorrect + EXCLUDED.quiz_incorrect,
    last_updated     = EXCLUDED.last_updated`

const upsertOperationCount = `
INSERT INTO user_operation_counts (user_id, operation, count)
VALUES ($1, $2, 1)
ON CONFLICT (user_id, operation) DO UPDATE SET count = user_operation_counts.count + 1`

const insertSeenWord = `
INSERT INTO user_seen_words (user_id, word)
VALUES ($1, $2)
ON CONFLICT DO NOTHING`

// Append records entry under (originID, entry.Seq). A pair that was already
// recorded is accepted without touching the aggregates, so redelivery after a
// lost acknowledgement is safe.
func (l *Ledger) Append(ctx context.Context, originID string, entry domain.SyncQueueEntry) error {
	if originID == "" {
		return domain.NewValidationError("origin_id", "required")
	}
	if entry.Payload == nil {
		return domain.NewValidationError("payload", "required")
	}
	payload, err := domain.EncodePayload(entry.Payload)
	if err != nil {
		return err
	}

	var result *string
	if entry.Result != nil {
		s := entry.Result.String()
		result = &s
	}

	query, args, err := builder.Insert("word_operations").
		Columns("origin_id", "seq", "operation", "user_id", "word_id", "word", "result", "context", "payload", "created_at").
		Values(originID, entry.Seq, entry.Kind.String(), entry.UserID, entry.WordID, entry.Word, result, entry.Context, payload, entry.CreatedAt).
		Suffix("ON CONFLICT (origin_id, seq) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build append: %w", err)
	}

	return l.tx.RunInTx(ctx, func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, l.db)

		tag, err := q.Exec(ctx, query, args...)
		if err != nil {
			return postgres.MapError(err, "insert word operation")
		}
		if tag.RowsAffected() == 0 {
			l.log.DebugContext(ctx, "duplicate delivery ignored",
				slog.String("origin_id", originID),
				slog.Int64("seq", entry.Seq),
			)
			return nil
		}

		correct, incorrect := 0, 0
		if entry.Result != nil {
			if *entry.Result == domain.QuizCorrect {
				correct = 1
			} else {
				incorrect = 1
			}
		}

		if _, err := q.Exec(ctx, upsertStats, entry.UserID, correct, incorrect); err != nil {
			return postgres.MapError(err, "upsert user stats")
		}
		if _, err := q.Exec(ctx, upsertOperationCount, entry.UserID, entry.Kind.String()); err != nil {
			return postgres.MapError(err, "upsert operation count")
		}
		if entry.Kind != domain.OperationListAll {
			if _, err := q.Exec(ctx, insertSeenWord, entry.UserID, entry.Word); err != nil {
				return postgres.MapError(err, "insert seen word")
			}
		}
		return nil
	})
}

type statsRow struct {
	TotalOperations int        `db:"total_operations"`
	QuizCorrect     int        `db:"quiz_correct"`
	QuizIncorrect   int        `db:"quiz_incorrect"`
	LastUpdated     *time.Time `db:"last_updated"`
}

type countRow struct {
	Operation string `db:"operation"`
	Count     int    `db:"count"`
}

// Stats returns the aggregates for userID. A user the ledger has never seen
// gets zero stats.
func (l *Ledger) Stats(ctx context.Context, userID string) (*domain.UserWordStats, error) {
	stats := &domain.UserWordStats{
		UserID:      userID,
		ByOperation: make(map[domain.OperationKind]int),
	}

	query, args, err := builder.
		Select("total_operations", "quiz_correct", "quiz_incorrect", "last_updated").
		From("user_word_stats").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build stats query: %w", err)
	}

	var row statsRow
	if err := pgxscan.Get(ctx, l.db, &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return stats, nil
		}
		return nil, postgres.MapError(err, "read user stats")
	}
	stats.TotalOperations = row.TotalOperations
	stats.QuizCorrect = row.QuizCorrect
	stats.QuizIncorrect = row.QuizIncorrect
	stats.LastUpdated = row.LastUpdated
	stats.QuizSuccessRate = domain.QuizRate(row.QuizCorrect, row.QuizIncorrect)

	query, args, err = builder.
		Select("operation", "count").
		From("user_operation_counts").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("operation").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build operation counts query: %w", err)
	}

	var counts []countRow
	if err := pgxscan.Select(ctx, l.db, &counts, query, args...); err != nil {
		return nil, postgres.MapError(err, "read operation counts")
	}
	for _, c := range counts {
		stats.ByOperation[domain.OperationKind(c.Operation)] = c.Count
	}

	query, args, err = builder.
		Select("COUNT(*)").
		From("user_seen_words").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build seen words query: %w", err)
	}
	if err := l.db.QueryRow(ctx, query, args...).Scan(&stats.UniqueWords); err != nil {
		return nil, postgres.MapError(err, "count seen words")
	}

	return stats, nil
}
