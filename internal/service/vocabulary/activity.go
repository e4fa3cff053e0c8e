package vocabulary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/wordsync-backend/internal/domain"
)

// RecordQuizAttempt queues a quiz entry tagged correct or incorrect. It
// returns false when id is unknown. The word row is not modified.
func (s *Service) RecordQuizAttempt(ctx context.Context, userID string, id int64, isCorrect bool, note *string) (bool, error) {
	result := domain.QuizResultOf(isCorrect)
	ok, err := s.recordActivity(ctx, userID, id, note, func(e *domain.SyncQueueEntry) {
		e.Kind = domain.OperationQuiz
		e.Result = &result
		e.Payload = domain.QuizPayload{Correct: isCorrect}
	})
	if err != nil || !ok {
		return ok, err
	}

	s.log.InfoContext(ctx, "quiz attempt recorded",
		slog.String("user_id", userID),
		slog.Int64("word_id", id),
		slog.String("result", result.String()),
	)
	return true, nil
}

// MarkWord queues a mark entry for the word. It returns false when id is
// unknown.
func (s *Service) MarkWord(ctx context.Context, userID string, id int64, note *string) (bool, error) {
	ok, err := s.recordActivity(ctx, userID, id, note, func(e *domain.SyncQueueEntry) {
		e.Kind = domain.OperationMark
		e.Payload = domain.MarkPayload{}
	})
	if err != nil || !ok {
		return ok, err
	}

	s.log.InfoContext(ctx, "word marked",
		slog.String("user_id", userID),
		slog.Int64("word_id", id),
	)
	return true, nil
}

// recordActivity resolves the word text and enqueues the entry built by fill
// in one transaction, so the word cannot disappear in between.
func (s *Service) recordActivity(
	ctx context.Context,
	userID string,
	id int64,
	note *string,
	fill func(e *domain.SyncQueueEntry),
) (bool, error) {
	if err := validateActivity(userID, id, note); err != nil {
		return false, err
	}

	found := false
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		w, err := s.words.GetByID(txCtx, id)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get word: %w", err)
		}

		entry := domain.SyncQueueEntry{
			UserID:    userID,
			WordID:    &w.ID,
			Word:      w.Word,
			Context:   note,
			CreatedAt: time.Now().UTC(),
		}
		fill(&entry)

		if _, err := s.queue.Enqueue(txCtx, entry); err != nil {
			return fmt.Errorf("enqueue %s: %w", entry.Kind, err)
		}
		found = true
		return nil
	})
	if txErr != nil {
		return false, txErr
	}
	return found, nil
}
