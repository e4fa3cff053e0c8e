package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/heartmarshall/wordsync-backend/internal/domain"
)

const streamWriteTimeout = 5 * time.Second

type syncCoordinator interface {
	Start()
	Stop(ctx context.Context) error
	ForceSync(ctx context.Context) domain.DrainResult
	Status() domain.SyncStatus
	Pending(ctx context.Context) ([]domain.SyncQueueEntry, error)
	Subscribe() (<-chan domain.SyncStatus, func())
}

// SyncHandler exposes the sync coordinator's control surface.
type SyncHandler struct {
	coord syncCoordinator
	log   *slog.Logger
}

// NewSyncHandler creates a SyncHandler.
func NewSyncHandler(coord syncCoordinator, logger *slog.Logger) *SyncHandler {
	return &SyncHandler{coord: coord, log: logger.With("handler", "sync")}
}

type pendingEntry struct {
	Seq       int64                `json:"seq"`
	Operation domain.OperationKind `json:"operation"`
	UserID    string               `json:"user_id"`
	WordID    *int64               `json:"word_id"`
	Word      string               `json:"word"`
	Result    *domain.QuizResult   `json:"result,omitempty"`
	Context   *string              `json:"context,omitempty"`
	Payload   domain.Payload       `json:"payload"`
	CreatedAt time.Time            `json:"created_at"`
}

type pendingResponse struct {
	Count      int            `json:"count"`
	Operations []pendingEntry `json:"operations"`
}

// Status handles GET /sync/status.
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.coord.Status())
}

// Force handles POST /sync/force. The drain runs synchronously; a drain
// already in progress is reported in the result, not as an error.
func (h *SyncHandler) Force(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.coord.ForceSync(r.Context()))
}

// Start handles POST /sync/start.
func (h *SyncHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.coord.Start()
	writeJSON(w, http.StatusOK, h.coord.Status())
}

// Stop handles POST /sync/stop. When an in-flight delivery outlasts the
// stop timeout the stop is still in effect and 202 is returned.
func (h *SyncHandler) Stop(w http.ResponseWriter, r *http.Request) {
	if err := h.coord.Stop(r.Context()); err != nil {
		if errors.Is(err, domain.ErrStopTimeout) {
			writeJSON(w, http.StatusAccepted, h.coord.Status())
			return
		}
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.coord.Status())
}

// Pending handles GET /sync/pending.
func (h *SyncHandler) Pending(w http.ResponseWriter, r *http.Request) {
	entries, err := h.coord.Pending(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := pendingResponse{Count: len(entries), Operations: make([]pendingEntry, 0, len(entries))}
	for _, e := range entries {
		resp.Operations = append(resp.Operations, pendingEntry{
			Seq:       e.Seq,
			Operation: e.Kind,
			UserID:    e.UserID,
			WordID:    e.WordID,
			Word:      e.Word,
			Result:    e.Result,
			Context:   e.Context,
			Payload:   e.Payload,
			CreatedAt: e.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// Stream handles GET /sync/status/stream. It upgrades to a WebSocket and
// pushes the current status followed by every change until the client
// goes away. Client messages are ignored.
func (h *SyncHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.log.WarnContext(r.Context(), "websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.CloseNow() //nolint:errcheck

	ctx := conn.CloseRead(r.Context())

	updates, unsubscribe := h.coord.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "") //nolint:errcheck
			return
		case status, ok := <-updates:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "status stream closed") //nolint:errcheck
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
			err := wsjson.Write(writeCtx, conn, status)
			cancel()
			if err != nil {
				h.log.DebugContext(r.Context(), "status stream write failed", slog.String("error", err.Error()))
				return
			}
		}
	}
}
