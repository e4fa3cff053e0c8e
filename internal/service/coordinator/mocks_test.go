package coordinator

import (
	"context"
	"sort"
	"sync"

	"github.com/heartmarshall/wordsync-backend/internal/domain"
)

// ===========================================================================
// Manual mocks (moq-style with func fields)
// ===========================================================================

// memQueue is an in-memory queue keyed by sequence number.
type memQueue struct {
	mu      sync.Mutex
	entries map[int64]domain.SyncQueueEntry
	removed []int64

	ListPendingErr error
	RemoveFunc     func(seq int64) error
}

func newMemQueue(entries ...domain.SyncQueueEntry) *memQueue {
	q := &memQueue{entries: make(map[int64]domain.SyncQueueEntry)}
	for _, e := range entries {
		q.entries[e.Seq] = e
	}
	return q
}

func (q *memQueue) ListPending(ctx context.Context) ([]domain.SyncQueueEntry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.ListPendingErr != nil {
		return nil, q.ListPendingErr
	}
	out := make([]domain.SyncQueueEntry, 0, len(q.entries))
	for _, e := range q.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (q *memQueue) Remove(ctx context.Context, seq int64) error {
	if q.RemoveFunc != nil {
		if err := q.RemoveFunc(seq); err != nil {
			return err
		}
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.entries, seq)
	q.removed = append(q.removed, seq)
	return nil
}

func (q *memQueue) CountPending(ctx context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries), nil
}

func (q *memQueue) seqs() []int64 {
	pending, _ := q.ListPending(context.Background())
	out := make([]int64, 0, len(pending))
	for _, e := range pending {
		out = append(out, e.Seq)
	}
	return out
}

type mockLedger struct {
	PingFunc   func(ctx context.Context) error
	AppendFunc func(ctx context.Context, originID string, entry domain.SyncQueueEntry) error

	mu        sync.Mutex
	delivered []int64
	origins   []string
}

func (m *mockLedger) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

func (m *mockLedger) Append(ctx context.Context, originID string, entry domain.SyncQueueEntry) error {
	if m.AppendFunc != nil {
		if err := m.AppendFunc(ctx, originID, entry); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.delivered = append(m.delivered, entry.Seq)
	m.origins = append(m.origins, originID)
	m.mu.Unlock()
	return nil
}

func (m *mockLedger) Delivered() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int64(nil), m.delivered...)
}

type mockMarker struct {
	mu    sync.Mutex
	calls [][]int64
}

func (m *mockMarker) MarkSynced(ctx context.Context, ids []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, append([]int64(nil), ids...))
	return nil
}

func (m *mockMarker) Calls() [][]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]int64(nil), m.calls...)
}
