package vocabulary

import (
	"context"
	"sync"

	"github.com/heartmarshall/wordsync-backend/internal/domain"
)

// ===========================================================================
// Manual mocks (moq-style with func fields)
// ===========================================================================

type mockWordRepo struct {
	NextIDFunc    func(ctx context.Context) (int64, error)
	CreateFunc    func(ctx context.Context, e domain.VocabularyEntry) error
	UpdateFunc    func(ctx context.Context, id int64, upd domain.WordUpdate) error
	DeleteFunc    func(ctx context.Context, id int64) error
	GetByIDFunc   func(ctx context.Context, id int64) (*domain.VocabularyEntry, error)
	GetByWordFunc func(ctx context.Context, word string) (*domain.VocabularyEntry, error)
	SearchFunc    func(ctx context.Context, substr string) ([]domain.VocabularyEntry, error)
	ListFunc      func(ctx context.Context) ([]domain.VocabularyEntry, error)
}

func (m *mockWordRepo) NextID(ctx context.Context) (int64, error) {
	if m.NextIDFunc != nil {
		return m.NextIDFunc(ctx)
	}
	return 1, nil
}

func (m *mockWordRepo) Create(ctx context.Context, e domain.VocabularyEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, e)
	}
	return nil
}

func (m *mockWordRepo) Update(ctx context.Context, id int64, upd domain.WordUpdate) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, upd)
	}
	return nil
}

func (m *mockWordRepo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockWordRepo) GetByID(ctx context.Context, id int64) (*domain.VocabularyEntry, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockWordRepo) GetByWord(ctx context.Context, word string) (*domain.VocabularyEntry, error) {
	if m.GetByWordFunc != nil {
		return m.GetByWordFunc(ctx, word)
	}
	return nil, domain.ErrNotFound
}

func (m *mockWordRepo) Search(ctx context.Context, substr string) ([]domain.VocabularyEntry, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, substr)
	}
	return nil, nil
}

func (m *mockWordRepo) List(ctx context.Context) ([]domain.VocabularyEntry, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

type mockQueueRepo struct {
	EnqueueFunc func(ctx context.Context, e domain.SyncQueueEntry) (int64, error)

	mu    sync.Mutex
	calls []domain.SyncQueueEntry
}

func (m *mockQueueRepo) Enqueue(ctx context.Context, e domain.SyncQueueEntry) (int64, error) {
	m.mu.Lock()
	m.calls = append(m.calls, e)
	n := int64(len(m.calls))
	m.mu.Unlock()

	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(ctx, e)
	}
	return n, nil
}

func (m *mockQueueRepo) EnqueueCalls() []domain.SyncQueueEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.SyncQueueEntry(nil), m.calls...)
}

type mockTxManager struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunInTxFunc != nil {
		return m.RunInTxFunc(ctx, fn)
	}
	return fn(ctx)
}

type mockStatsReader struct {
	StatsFunc func(ctx context.Context, userID string) (*domain.UserWordStats, error)
}

func (m *mockStatsReader) Stats(ctx context.Context, userID string) (*domain.UserWordStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx, userID)
	}
	return &domain.UserWordStats{UserID: userID}, nil
}
