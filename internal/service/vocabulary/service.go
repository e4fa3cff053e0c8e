package vocabulary

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/wordsync-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type wordRepo interface {
	NextID(ctx context.Context) (int64, error)
	Create(ctx context.Context, e domain.VocabularyEntry) error
	Update(ctx context.Context, id int64, upd domain.WordUpdate) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.VocabularyEntry, error)
	GetByWord(ctx context.Context, word string) (*domain.VocabularyEntry, error)
	Search(ctx context.Context, substr string) ([]domain.VocabularyEntry, error)
	List(ctx context.Context) ([]domain.VocabularyEntry, error)
}

type queueRepo interface {
	Enqueue(ctx context.Context, e domain.SyncQueueEntry) (int64, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type statsReader interface {
	Stats(ctx context.Context, userID string) (*domain.UserWordStats, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service applies vocabulary mutations to the local store. Every mutation
// commits together with the sync queue entry that describes it.
type Service struct {
	words wordRepo
	queue queueRepo
	tx    txManager
	stats statsReader
	log   *slog.Logger
}

// NewService creates a new vocabulary service.
func NewService(
	log *slog.Logger,
	words wordRepo,
	queue queueRepo,
	tx txManager,
	stats statsReader,
) *Service {
	return &Service{
		words: words,
		queue: queue,
		tx:    tx,
		stats: stats,
		log:   log.With("service", "vocabulary"),
	}
}
