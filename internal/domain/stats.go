package domain

import (
	"math"
	"time"
)

// UserWordStats aggregates a user's operations in the remote ledger.
type UserWordStats struct {
	UserID          string                `json:"user_id"`
	TotalOperations int                   `json:"total_operations"`
	ByOperation     map[OperationKind]int `json:"by_operation"`
	UniqueWords     int                   `json:"unique_words_seen"`
	QuizCorrect     int                   `json:"quiz_correct"`
	QuizIncorrect   int                   `json:"quiz_incorrect"`
	QuizSuccessRate float64               `json:"quiz_success_rate"`
	LastUpdated     *time.Time            `json:"last_updated,omitempty"`
}

// QuizRate returns the percentage of correct answers rounded to two decimals.
// Zero attempts yields 0.
func QuizRate(correct, incorrect int) float64 {
	total := correct + incorrect
	if total == 0 {
		return 0
	}
	rate := float64(correct) / float64(total) * 100
	return math.Round(rate*100) / 100
}
