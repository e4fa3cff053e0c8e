// Package word implements vocabulary entry persistence in the local store.
package word

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"

	"github.com/heartmarshall/wordsync-backend/internal/adapter/sqlite"
	"github.com/heartmarshall/wordsync-backend/internal/domain"
)

const table = "words"

var columns = []string{"id", "word", "en_meaning", "ch_meaning", "part_of_speech", "created_at", "synced"}

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// Repo provides vocabulary entry persistence backed by SQLite.
type Repo struct {
	db *sql.DB
}

// New creates a new word repository.
func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

type row struct {
	ID           int64  `db:"id"`
	Word         string `db:"word"`
	EnMeaning    string `db:"en_meaning"`
	ChMeaning    string `db:"ch_meaning"`
	PartOfSpeech string `db:"part_of_speech"`
	CreatedAt    string `db:"created_at"`
	Synced       bool   `db:"synced"`
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// NextID returns MAX(id)+1, or 1 for an empty store. Call it inside the
// transaction that inserts the row.
func (r *Repo) NextID(ctx context.Context) (int64, error) {
	var next int64
	err := sqlite.QuerierFromCtx(ctx, r.db).
		QueryRowContext(ctx, "SELECT COALESCE(MAX(id), 0) + 1 FROM "+table).
		Scan(&next)
	if err != nil {
		return 0, sqlite.MapError(err, "word", "next id")
	}
	return next, nil
}

// Create inserts e with its assigned id.
func (r *Repo) Create(ctx context.Context, e domain.VocabularyEntry) error {
	pos, err := encodePartsOfSpeech(e.PartsOfSpeech)
	if err != nil {
		return err
	}

	query, args, err := builder.Insert(table).
		Columns(columns...).
		Values(e.ID, e.Word, e.EnMeaning, e.ChMeaning, pos, sqlite.FormatTime(e.CreatedAt), e.Synced).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert word: %w", err)
	}

	if _, err := sqlite.QuerierFromCtx(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return sqlite.MapError(err, "word", e.Word)
	}
	return nil
}

// Update applies the non-nil fields of upd and clears the synced flag.
// Returns domain.ErrNotFound if id does not exist.
func (r *Repo) Update(ctx context.Context, id int64, upd domain.WordUpdate) error {
	b := builder.Update(table).Set("synced", false).Where(sq.Eq{"id": id})

	if upd.Word != nil {
		b = b.Set("word", *upd.Word)
	}
	if upd.EnMeaning != nil {
		b = b.Set("en_meaning", *upd.EnMeaning)
	}
	if upd.ChMeaning != nil {
		b = b.Set("ch_meaning", *upd.ChMeaning)
	}
	if upd.PartsOfSpeech != nil {
		pos, err := encodePartsOfSpeech(*upd.PartsOfSpeech)
		if err != nil {
			return err
		}
		b = b.Set("part_of_speech", pos)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build update word: %w", err)
	}

	res, err := sqlite.QuerierFromCtx(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return sqlite.MapError(err, "word", id)
	}
	return requireAffected(res, id)
}

// Delete removes the row. Returns domain.ErrNotFound if id does not exist.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	query, args, err := builder.Delete(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete word: %w", err)
	}

	res, err := sqlite.QuerierFromCtx(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return sqlite.MapError(err, "word", id)
	}
	return requireAffected(res, id)
}

// MarkSynced sets the synced flag for the given ids, skipping any word that
// still has an add or update waiting in the sync queue. The check and the
// update run as one statement, so a mutation committed concurrently keeps
// its word unsynced.
func (r *Repo) MarkSynced(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := builder.Update(table).
		Set("synced", true).
		Where(sq.Eq{"id": ids}).
		Where(`NOT EXISTS (SELECT 1 FROM sync_queue q WHERE q.word_id = words.id AND q.operation IN ('add', 'update'))`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark synced: %w", err)
	}

	if _, err := sqlite.QuerierFromCtx(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return sqlite.MapError(err, "word", ids)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns the entry with the given id or domain.ErrNotFound.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.VocabularyEntry, error) {
	return r.getOne(ctx, sq.Eq{"id": id}, id)
}

// GetByWord returns the entry whose word matches exactly or domain.ErrNotFound.
func (r *Repo) GetByWord(ctx context.Context, word string) (*domain.VocabularyEntry, error) {
	return r.getOne(ctx, sq.Eq{"word": word}, word)
}

// Search returns entries whose word contains substr, case-insensitively
// for ASCII, ordered by id.
func (r *Repo) Search(ctx context.Context, substr string) ([]domain.VocabularyEntry, error) {
	pattern := "%" + escapeLike(substr) + "%"
	return r.list(ctx, sq.Expr(`word LIKE ? ESCAPE '\'`, pattern), substr)
}

// List returns every entry ordered by id.
func (r *Repo) List(ctx context.Context) ([]domain.VocabularyEntry, error) {
	return r.list(ctx, nil, "all")
}

// Count returns the number of stored entries.
func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	err := sqlite.QuerierFromCtx(ctx, r.db).
		QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).
		Scan(&n)
	if err != nil {
		return 0, sqlite.MapError(err, "word", "count")
	}
	return n, nil
}

func (r *Repo) getOne(ctx context.Context, pred sq.Sqlizer, key any) (*domain.VocabularyEntry, error) {
	query, args, err := builder.Select(columns...).From(table).Where(pred).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select word: %w", err)
	}

	var rw row
	if err := sqlscan.Get(ctx, sqlite.QuerierFromCtx(ctx, r.db), &rw, query, args...); err != nil {
		if sqlscan.NotFound(err) {
			err = sql.ErrNoRows
		}
		return nil, sqlite.MapError(err, "word", key)
	}

	e, err := toDomain(rw)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repo) list(ctx context.Context, pred sq.Sqlizer, key any) ([]domain.VocabularyEntry, error) {
	b := builder.Select(columns...).From(table).OrderBy("id")
	if pred != nil {
		b = b.Where(pred)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list words: %w", err)
	}

	var rows []row
	if err := sqlscan.Select(ctx, sqlite.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, sqlite.MapError(err, "word", key)
	}

	entries := make([]domain.VocabularyEntry, 0, len(rows))
	for _, rw := range rows {
		e, err := toDomain(rw)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func toDomain(rw row) (domain.VocabularyEntry, error) {
	created, err := sqlite.ParseTime(rw.CreatedAt)
	if err != nil {
		return domain.VocabularyEntry{}, domain.NewStorageError(fmt.Sprintf("word %d", rw.ID), err)
	}

	var pos []string
	if err := json.Unmarshal([]byte(rw.PartOfSpeech), &pos); err != nil {
		return domain.VocabularyEntry{}, domain.NewStorageError(fmt.Sprintf("word %d part_of_speech", rw.ID), err)
	}
	if pos == nil {
		pos = []string{}
	}

	return domain.VocabularyEntry{
		ID:            rw.ID,
		Word:          rw.Word,
		EnMeaning:     rw.EnMeaning,
		ChMeaning:     rw.ChMeaning,
		PartsOfSpeech: pos,
		CreatedAt:     created,
		Synced:        rw.Synced,
	}, nil
}

func encodePartsOfSpeech(pos []string) (string, error) {
	if pos == nil {
		pos = []string{}
	}
	data, err := json.Marshal(pos)
	if err != nil {
		return "", fmt.Errorf("encode part_of_speech: %w", err)
	}
	return string(data), nil
}

func requireAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return sqlite.MapError(err, "word", id)
	}
	if n == 0 {
		return fmt.Errorf("word %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
