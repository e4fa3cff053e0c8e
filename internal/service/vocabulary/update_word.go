package vocabulary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/heartmarshall/wordsync-backend/internal/domain"
)

// UpdateWord writes the supplied fields, clears the synced flag and queues
// an update entry carrying the diff. It returns false without error when
// the id is unknown or upd has no fields.
func (s *Service) UpdateWord(ctx context.Context, id int64, upd domain.WordUpdate, userID string) (bool, error) {
	if err := validateUpdate(id, upd, userID); err != nil {
		return false, err
	}
	if upd.IsEmpty() {
		return false, nil
	}
	if upd.Word != nil {
		trimmed := strings.TrimSpace(*upd.Word)
		upd.Word = &trimmed
	}

	updated := false
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := s.words.GetByID(txCtx, id)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get word: %w", err)
		}

		if err := s.words.Update(txCtx, id, upd); err != nil {
			return fmt.Errorf("update word: %w", err)
		}

		_, err = s.queue.Enqueue(txCtx, domain.SyncQueueEntry{
			Kind:      domain.OperationUpdate,
			UserID:    userID,
			WordID:    &id,
			Word:      current.Word,
			Payload:   domain.UpdatePayload{Changes: upd},
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("enqueue update: %w", err)
		}

		updated = true
		return nil
	})
	if txErr != nil {
		return false, txErr
	}

	if updated {
		s.log.InfoContext(ctx, "word updated",
			slog.String("user_id", userID),
			slog.Int64("word_id", id),
		)
	}
	return updated, nil
}
