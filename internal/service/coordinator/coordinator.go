// Package coordinator drains the local sync queue into the remote ledger,
// on a schedule and on demand, and publishes the sync status.
package coordinator

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/heartmarshall/wordsync-backend/internal/config"
	"github.com/heartmarshall/wordsync-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type queueRepo interface {
	ListPending(ctx context.Context) ([]domain.SyncQueueEntry, error)
	Remove(ctx context.Context, seq int64) error
	CountPending(ctx context.Context) (int, error)
}

type wordMarker interface {
	MarkSynced(ctx context.Context, ids []int64) error
}

type ledger interface {
	Ping(ctx context.Context) error
	Append(ctx context.Context, originID string, entry domain.SyncQueueEntry) error
}

// ---------------------------------------------------------------------------
// Coordinator
// ---------------------------------------------------------------------------

// Coordinator owns the background sync loop. At most one drain runs at a
// time, whether started by the loop or by ForceSync.
type Coordinator struct {
	log      *slog.Logger
	queue    queueRepo
	words    wordMarker
	ledger   ledger
	originID string
	cfg      config.SyncConfig
	now      func() time.Time

	draining atomic.Bool

	// lifecycle
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	done    chan struct{}

	// status writers and subscribers
	statusMu sync.Mutex
	status   atomic.Pointer[domain.SyncStatus]
	subs     map[int]chan domain.SyncStatus
	nextSub  int
}

// New creates a stopped coordinator. originID identifies the local store
// to the ledger.
func New(
	log *slog.Logger,
	queue queueRepo,
	words wordMarker,
	ledger ledger,
	originID string,
	cfg config.SyncConfig,
) *Coordinator {
	c := &Coordinator{
		log:      log.With("service", "coordinator"),
		queue:    queue,
		words:    words,
		ledger:   ledger,
		originID: originID,
		cfg:      cfg,
		now:      func() time.Time { return time.Now().UTC() },
		subs:     make(map[int]chan domain.SyncStatus),
	}
	c.status.Store(&domain.SyncStatus{State: domain.CoordinatorStopped})
	return c
}

// Start launches the background loop. Starting a running coordinator is a
// no-op.
func (c *Coordinator) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		c.log.Info("coordinator already running")
		return
	}

	c.running = true
	c.stopCh = make(chan struct{})
	c.done = make(chan struct{})

	c.updateStatus(func(s *domain.SyncStatus) {
		if !s.InProgress {
			s.State = domain.CoordinatorRunning
		}
	})

	go c.loop(c.stopCh, c.done)

	c.log.Info("coordinator started", slog.Duration("interval", c.cfg.Interval()))
}

// Stop signals the loop to exit and waits for it up to cfg.StopTimeout or
// until ctx is done. A delivery already in flight is allowed to finish.
// On timeout it returns domain.ErrStopTimeout; the loop still exits at its
// next check point. Stopping a stopped coordinator is a no-op.
func (c *Coordinator) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return nil
	}
	c.running = false
	close(c.stopCh)
	done := c.done
	c.mu.Unlock()

	timer := time.NewTimer(c.cfg.StopTimeout)
	defer timer.Stop()

	select {
	case <-done:
	case <-timer.C:
		c.log.Warn("coordinator did not stop in time", slog.Duration("timeout", c.cfg.StopTimeout))
		return domain.ErrStopTimeout
	case <-ctx.Done():
		return ctx.Err()
	}

	c.updateStatus(func(s *domain.SyncStatus) {
		if !s.InProgress {
			s.State = domain.CoordinatorStopped
		}
	})

	c.log.Info("coordinator stopped")
	return nil
}

// ForceSync runs one drain now and returns its result. If a drain is
// already running it returns immediately with Success=false.
func (c *Coordinator) ForceSync(ctx context.Context) domain.DrainResult {
	res, ok := c.tryDrain(ctx, c.stopSignal())
	if !ok {
		return domain.DrainResult{
			Success:   false,
			Message:   MsgInProgress,
			Remaining: c.Status().PendingCount,
		}
	}
	return res
}

// Status returns the latest published snapshot without blocking.
func (c *Coordinator) Status() domain.SyncStatus {
	return *c.status.Load()
}

// RefreshPending recounts the queue and republishes the status. Call it
// after local mutations so the pending count does not wait for a drain.
func (c *Coordinator) RefreshPending(ctx context.Context) error {
	n, err := c.queue.CountPending(ctx)
	if err != nil {
		return err
	}
	c.updateStatus(func(s *domain.SyncStatus) { s.PendingCount = n })
	return nil
}

// Pending lists the queued entries in delivery order.
func (c *Coordinator) Pending(ctx context.Context) ([]domain.SyncQueueEntry, error) {
	return c.queue.ListPending(ctx)
}

// Subscribe returns a channel that receives the current status and every
// later change. A slow reader only sees the latest snapshot. The returned
// func unsubscribes and closes the channel.
func (c *Coordinator) Subscribe() (<-chan domain.SyncStatus, func()) {
	ch := make(chan domain.SyncStatus, 1)

	c.statusMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	ch <- *c.status.Load()
	c.statusMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.statusMu.Lock()
			delete(c.subs, id)
			close(ch)
			c.statusMu.Unlock()
		})
	}
}

// ---------------------------------------------------------------------------
// Loop
// ---------------------------------------------------------------------------

func (c *Coordinator) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ctx := context.Background()
	c.runScheduled(ctx, stop)

	ticker := time.NewTicker(c.cfg.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.runScheduled(ctx, stop)
		}
	}
}

func (c *Coordinator) runScheduled(ctx context.Context, stop <-chan struct{}) {
	select {
	case <-stop:
		return
	default:
	}

	res, ok := c.tryDrain(ctx, stop)
	if !ok {
		c.log.Debug("scheduled sync skipped, drain in progress")
		return
	}

	c.log.Debug("scheduled sync finished",
		slog.Bool("success", res.Success),
		slog.String("message", res.Message),
		slog.Int("remaining", res.Remaining),
	)
}

func (c *Coordinator) stopSignal() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return nil
	}
	return c.stopCh
}

func (c *Coordinator) isRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// ---------------------------------------------------------------------------
// Status publishing
// ---------------------------------------------------------------------------

// updateStatus copies the current snapshot, applies fn and publishes the
// copy. Published snapshots are never mutated.
func (c *Coordinator) updateStatus(fn func(s *domain.SyncStatus)) domain.SyncStatus {
	c.statusMu.Lock()
	defer c.statusMu.Unlock()

	next := *c.status.Load()
	fn(&next)
	c.status.Store(&next)

	for _, ch := range c.subs {
		select {
		case ch <- next:
		default:
			// Replace the stale snapshot the reader has not taken yet.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- next:
			default:
			}
		}
	}
	return next
}
