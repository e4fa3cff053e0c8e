package vocabulary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/wordsync-backend/internal/domain"
)

// DeleteWord removes the word identified by id or text and queues a delete
// entry carrying both. It returns false when nothing matched.
func (s *Service) DeleteWord(ctx context.Context, input DeleteWordInput) (bool, error) {
	if err := input.Validate(); err != nil {
		return false, err
	}

	var deleted *domain.VocabularyEntry
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var (
			e   *domain.VocabularyEntry
			err error
		)
		if input.ID != nil {
			e, err = s.words.GetByID(txCtx, *input.ID)
		} else {
			e, err = s.words.GetByWord(txCtx, *input.Word)
		}
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("resolve word: %w", err)
		}

		if err := s.words.Delete(txCtx, e.ID); err != nil {
			return fmt.Errorf("delete word: %w", err)
		}

		_, err = s.queue.Enqueue(txCtx, domain.SyncQueueEntry{
			Kind:      domain.OperationDelete,
			UserID:    input.UserID,
			WordID:    &e.ID,
			Word:      e.Word,
			Payload:   domain.DeletePayload{WordID: e.ID, Word: e.Word},
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("enqueue delete: %w", err)
		}

		deleted = e
		return nil
	})
	if txErr != nil {
		return false, txErr
	}
	if deleted == nil {
		return false, nil
	}

	s.log.InfoContext(ctx, "word deleted",
		slog.String("user_id", input.UserID),
		slog.Int64("word_id", deleted.ID),
		slog.String("word", deleted.Word),
	)
	return true, nil
}
