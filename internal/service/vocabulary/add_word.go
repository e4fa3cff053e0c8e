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

// AddWord stores a new word and queues an add entry in the same
// transaction. If the word already exists its id is returned and a view
// entry is queued for the user instead.
func (s *Service) AddWord(ctx context.Context, input AddWordInput) (int64, error) {
	if err := input.Validate(); err != nil {
		return 0, err
	}

	text := strings.TrimSpace(input.Word)
	pos := input.PartsOfSpeech
	if pos == nil {
		pos = []string{}
	}

	var (
		id      int64
		existed bool
	)
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		existing, err := s.words.GetByWord(txCtx, text)
		switch {
		case err == nil:
			id, existed = existing.ID, true
			_, err = s.queue.Enqueue(txCtx, domain.SyncQueueEntry{
				Kind:      domain.OperationView,
				UserID:    input.UserID,
				WordID:    &id,
				Word:      existing.Word,
				Payload:   domain.ViewPayload{},
				CreatedAt: time.Now().UTC(),
			})
			if err != nil {
				return fmt.Errorf("enqueue view: %w", err)
			}
			return nil
		case !errors.Is(err, domain.ErrNotFound):
			return fmt.Errorf("check duplicate: %w", err)
		}

		id, err = s.words.NextID(txCtx)
		if err != nil {
			return fmt.Errorf("next word id: %w", err)
		}

		now := time.Now().UTC()
		entry := domain.VocabularyEntry{
			ID:            id,
			Word:          text,
			EnMeaning:     input.EnMeaning,
			ChMeaning:     input.ChMeaning,
			PartsOfSpeech: pos,
			CreatedAt:     now,
		}
		if err := s.words.Create(txCtx, entry); err != nil {
			return fmt.Errorf("create word: %w", err)
		}

		_, err = s.queue.Enqueue(txCtx, domain.SyncQueueEntry{
			Kind:   domain.OperationAdd,
			UserID: input.UserID,
			WordID: &id,
			Word:   text,
			Payload: domain.AddPayload{
				Word:          text,
				EnMeaning:     input.EnMeaning,
				ChMeaning:     input.ChMeaning,
				PartsOfSpeech: pos,
				CreatedAt:     now,
			},
			CreatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("enqueue add: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return 0, txErr
	}

	if existed {
		s.log.DebugContext(ctx, "word already exists, recorded view",
			slog.String("user_id", input.UserID),
			slog.Int64("word_id", id),
		)
		return id, nil
	}

	s.log.InfoContext(ctx, "word added",
		slog.String("user_id", input.UserID),
		slog.Int64("word_id", id),
		slog.String("word", text),
	)
	return id, nil
}
