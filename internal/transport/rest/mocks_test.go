package rest

import (
	"context"
	"sync"

	"github.com/heartmarshall/wordsync-backend/internal/domain"
	"github.com/heartmarshall/wordsync-backend/internal/service/vocabulary"
)

type pingerMock struct {
	err error
}

func (m *pingerMock) Ping(_ context.Context) error {
	return m.err
}

type vocabularyServiceMock struct {
	AddWordFunc           func(ctx context.Context, input vocabulary.AddWordInput) (int64, error)
	FindWordFunc          func(ctx context.Context, input vocabulary.FindWordInput) (vocabulary.FindResult, error)
	UpdateWordFunc        func(ctx context.Context, id int64, upd domain.WordUpdate, userID string) (bool, error)
	DeleteWordFunc        func(ctx context.Context, input vocabulary.DeleteWordInput) (bool, error)
	RecordQuizAttemptFunc func(ctx context.Context, userID string, id int64, isCorrect bool, note *string) (bool, error)
	MarkWordFunc          func(ctx context.Context, userID string, id int64, note *string) (bool, error)
	StatsFunc             func(ctx context.Context, userID string) (*domain.UserWordStats, error)
}

func (m *vocabularyServiceMock) AddWord(ctx context.Context, input vocabulary.AddWordInput) (int64, error) {
	return m.AddWordFunc(ctx, input)
}

func (m *vocabularyServiceMock) FindWord(ctx context.Context, input vocabulary.FindWordInput) (vocabulary.FindResult, error) {
	return m.FindWordFunc(ctx, input)
}

func (m *vocabularyServiceMock) UpdateWord(ctx context.Context, id int64, upd domain.WordUpdate, userID string) (bool, error) {
	return m.UpdateWordFunc(ctx, id, upd, userID)
}

func (m *vocabularyServiceMock) DeleteWord(ctx context.Context, input vocabulary.DeleteWordInput) (bool, error) {
	return m.DeleteWordFunc(ctx, input)
}

func (m *vocabularyServiceMock) RecordQuizAttempt(ctx context.Context, userID string, id int64, isCorrect bool, note *string) (bool, error) {
	return m.RecordQuizAttemptFunc(ctx, userID, id, isCorrect, note)
}

func (m *vocabularyServiceMock) MarkWord(ctx context.Context, userID string, id int64, note *string) (bool, error) {
	return m.MarkWordFunc(ctx, userID, id, note)
}

func (m *vocabularyServiceMock) Stats(ctx context.Context, userID string) (*domain.UserWordStats, error) {
	return m.StatsFunc(ctx, userID)
}

type refresherMock struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (m *refresherMock) RefreshPending(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.err
}

func (m *refresherMock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type coordinatorMock struct {
	StartFunc     func()
	StopFunc      func(ctx context.Context) error
	ForceSyncFunc func(ctx context.Context) domain.DrainResult
	StatusFunc    func() domain.SyncStatus
	PendingFunc   func(ctx context.Context) ([]domain.SyncQueueEntry, error)
	SubscribeFunc func() (<-chan domain.SyncStatus, func())
}

func (m *coordinatorMock) Start() { m.StartFunc() }

func (m *coordinatorMock) Stop(ctx context.Context) error { return m.StopFunc(ctx) }

func (m *coordinatorMock) ForceSync(ctx context.Context) domain.DrainResult {
	return m.ForceSyncFunc(ctx)
}

func (m *coordinatorMock) Status() domain.SyncStatus {
	if m.StatusFunc == nil {
		return domain.SyncStatus{State: domain.CoordinatorStopped}
	}
	return m.StatusFunc()
}

func (m *coordinatorMock) Pending(ctx context.Context) ([]domain.SyncQueueEntry, error) {
	return m.PendingFunc(ctx)
}

func (m *coordinatorMock) Subscribe() (<-chan domain.SyncStatus, func()) {
	return m.SubscribeFunc()
}
