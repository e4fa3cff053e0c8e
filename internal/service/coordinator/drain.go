package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/wordsync-backend/internal/domain"
)

// Drain result messages.
const (
	MsgInProgress  = "sync already in progress"
	MsgUnreachable = "remote ledger unreachable"
	MsgNothing     = "no pending operations"
)

var errNoPayload = errors.New("entry payload could not be decoded")

func (c *Coordinator) tryDrain(ctx context.Context, stop <-chan struct{}) (domain.DrainResult, bool) {
	if !c.draining.CompareAndSwap(false, true) {
		return domain.DrainResult{}, false
	}
	defer c.draining.Store(false)

	return c.drain(ctx, stop), true
}

// drain runs one full cycle: probe, deliver every pending entry in order,
// then publish the new status. ctx bounds the probe and the queue read and
// is checked between entries; deliveries and local bookkeeping use a
// context that ctx cancellation does not reach, so an entry in flight is
// never cut off halfway.
func (c *Coordinator) drain(ctx context.Context, stop <-chan struct{}) domain.DrainResult {
	c.updateStatus(func(s *domain.SyncStatus) {
		s.InProgress = true
		s.State = domain.CoordinatorSyncing
	})

	work := context.WithoutCancel(ctx)
	res := c.deliverPending(ctx, work, stop)

	pending, countErr := c.queue.CountPending(work)
	if countErr != nil {
		c.log.Error("count pending operations", slog.String("error", countErr.Error()))
	}

	state := domain.CoordinatorStopped
	if c.isRunning() {
		state = domain.CoordinatorRunning
	}
	attempt := c.now()

	final := c.updateStatus(func(s *domain.SyncStatus) {
		if countErr == nil {
			s.PendingCount = pending
		}
		s.LastSyncAttempt = &attempt
		s.InProgress = false
		s.State = state
	})
	res.Remaining = final.PendingCount

	return res
}

func (c *Coordinator) deliverPending(ctx, work context.Context, stop <-chan struct{}) domain.DrainResult {
	if err := c.probe(ctx); err != nil {
		c.updateStatus(func(s *domain.SyncStatus) { s.Reachable = false })
		c.log.Warn("remote ledger unreachable", slog.String("error", err.Error()))
		return domain.DrainResult{Success: false, Message: MsgUnreachable}
	}

	reachedAt := c.now()
	c.updateStatus(func(s *domain.SyncStatus) {
		s.Reachable = true
		s.LastSuccessfulSync = &reachedAt
	})

	entries, err := c.queue.ListPending(ctx)
	if err != nil {
		c.log.Error("list pending operations", slog.String("error", err.Error()))
		return domain.DrainResult{Success: false, Message: fmt.Sprintf("read sync queue: %v", err)}
	}
	if len(entries) == 0 {
		return domain.DrainResult{Success: true, Message: MsgNothing}
	}

	var (
		res    = domain.DrainResult{Success: true}
		synced []int64
	)

	for _, e := range entries {
		if stopRequested(ctx, stop) {
			c.log.Info("drain interrupted", slog.Int("delivered", res.Processed))
			break
		}

		if err := c.deliver(work, e); err != nil {
			res.Failed++
			c.log.Warn("deliver operation",
				slog.Int64("seq", e.Seq),
				slog.String("operation", e.Kind.String()),
				slog.String("error", err.Error()),
			)
			continue
		}

		// Delivered. If the remove fails the entry is resent next cycle and
		// the ledger ignores the duplicate.
		if err := c.queue.Remove(work, e.Seq); err != nil {
			res.Failed++
			c.log.Error("remove delivered operation",
				slog.Int64("seq", e.Seq),
				slog.String("error", err.Error()),
			)
			continue
		}

		res.Processed++
		if e.WordID != nil && (e.Kind == domain.OperationAdd || e.Kind == domain.OperationUpdate) {
			synced = append(synced, *e.WordID)
		}
	}

	if len(synced) > 0 {
		if err := c.words.MarkSynced(work, synced); err != nil {
			c.log.Error("mark words synced", slog.String("error", err.Error()))
		}
	}

	if res.Processed == len(entries) {
		res.Message = fmt.Sprintf("synced %d operations", res.Processed)
	} else {
		res.Message = fmt.Sprintf("synced %d of %d operations", res.Processed, len(entries))
	}

	c.log.Info("sync finished",
		slog.Int("processed", res.Processed),
		slog.Int("failed", res.Failed),
		slog.Int("total", len(entries)),
	)
	return res
}

func (c *Coordinator) probe(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, c.cfg.ProbeTimeout)
	defer cancel()
	return c.ledger.Ping(probeCtx)
}

func (c *Coordinator) deliver(ctx context.Context, e domain.SyncQueueEntry) error {
	if e.Payload == nil {
		return errNoPayload
	}

	deliverCtx, cancel := context.WithTimeout(ctx, c.cfg.DeliveryTimeout)
	defer cancel()
	return c.ledger.Append(deliverCtx, c.originID, e)
}

func stopRequested(ctx context.Context, stop <-chan struct{}) bool {
	select {
	case <-stop:
		return true
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
