package vocabulary

import (
	"context"
	"fmt"

	"github.com/heartmarshall/wordsync-backend/internal/domain"
)

// Stats reads the user's aggregated statistics from the remote ledger.
// It fails with domain.ErrRemoteUnavailable while offline; nothing is
// cached locally.
func (s *Service) Stats(ctx context.Context, userID string) (*domain.UserWordStats, error) {
	if errs := validateUser(nil, userID); len(errs) > 0 {
		return nil, domain.NewValidationErrors(errs)
	}

	stats, err := s.stats.Stats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read stats: %w", err)
	}
	return stats, nil
}
