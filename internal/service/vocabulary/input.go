package vocabulary

import (
	"strings"
	"unicode/utf8"

	"github.com/heartmarshall/wordsync-backend/internal/domain"
)

const (
	maxWordLen    = 200
	maxGlossLen   = 2000
	maxContextLen = 2000
	maxPOSCount   = 20
	maxPOSLen     = 50
	maxUserIDLen  = 128
)

// AddWordInput holds the parameters for adding a word.
type AddWordInput struct {
	Word          string
	EnMeaning     string
	ChMeaning     string
	PartsOfSpeech []string
	UserID        string
}

// Validate checks all fields and collects all errors.
func (i AddWordInput) Validate() error {
	var errs []domain.FieldError

	errs = validateUser(errs, i.UserID)
	errs = validateWord(errs, "word", i.Word)
	errs = validateLen(errs, "en_meaning", i.EnMeaning, maxGlossLen)
	errs = validateLen(errs, "ch_meaning", i.ChMeaning, maxGlossLen)
	errs = validatePOS(errs, i.PartsOfSpeech)

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// FindWordInput selects entries by id, by exact word, by substring, or
// (with no criteria) all entries. ID wins when both ID and Word are set.
// A non-empty UserID attributes the read and produces an audit entry.
type FindWordInput struct {
	ID      *int64
	Word    *string
	Partial bool
	UserID  string
}

// Validate checks all fields and collects all errors.
func (i FindWordInput) Validate() error {
	var errs []domain.FieldError

	if i.ID != nil && *i.ID <= 0 {
		errs = append(errs, domain.FieldError{Field: "id", Message: "must be positive"})
	}
	if i.ID == nil && i.Word != nil {
		if strings.TrimSpace(*i.Word) == "" {
			errs = append(errs, domain.FieldError{Field: "word", Message: "must not be empty"})
		}
		errs = validateLen(errs, "word", *i.Word, maxWordLen)
	}
	if i.UserID != "" {
		errs = validateUser(errs, i.UserID)
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// DeleteWordInput identifies the word to delete by id or by exact text.
type DeleteWordInput struct {
	ID     *int64
	Word   *string
	UserID string
}

// Validate checks all fields and collects all errors.
func (i DeleteWordInput) Validate() error {
	var errs []domain.FieldError

	errs = validateUser(errs, i.UserID)
	switch {
	case i.ID == nil && (i.Word == nil || strings.TrimSpace(*i.Word) == ""):
		errs = append(errs, domain.FieldError{Field: "id", Message: "id or word required"})
	case i.ID != nil && *i.ID <= 0:
		errs = append(errs, domain.FieldError{Field: "id", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func validateUpdate(id int64, upd domain.WordUpdate, userID string) error {
	var errs []domain.FieldError

	errs = validateUser(errs, userID)
	if id <= 0 {
		errs = append(errs, domain.FieldError{Field: "id", Message: "must be positive"})
	}
	if upd.Word != nil {
		errs = validateWord(errs, "word", *upd.Word)
	}
	if upd.EnMeaning != nil {
		errs = validateLen(errs, "en_meaning", *upd.EnMeaning, maxGlossLen)
	}
	if upd.ChMeaning != nil {
		errs = validateLen(errs, "ch_meaning", *upd.ChMeaning, maxGlossLen)
	}
	if upd.PartsOfSpeech != nil {
		errs = validatePOS(errs, *upd.PartsOfSpeech)
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func validateActivity(userID string, id int64, note *string) error {
	var errs []domain.FieldError

	errs = validateUser(errs, userID)
	if id <= 0 {
		errs = append(errs, domain.FieldError{Field: "id", Message: "must be positive"})
	}
	if note != nil {
		errs = validateLen(errs, "context", *note, maxContextLen)
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Field helpers
// ---------------------------------------------------------------------------

func validateUser(errs []domain.FieldError, userID string) []domain.FieldError {
	if strings.TrimSpace(userID) == "" {
		return append(errs, domain.FieldError{Field: "user_id", Message: "required"})
	}
	return validateLen(errs, "user_id", userID, maxUserIDLen)
}

func validateWord(errs []domain.FieldError, field, word string) []domain.FieldError {
	if strings.TrimSpace(word) == "" {
		return append(errs, domain.FieldError{Field: field, Message: "required"})
	}
	return validateLen(errs, field, word, maxWordLen)
}

func validateLen(errs []domain.FieldError, field, s string, limit int) []domain.FieldError {
	if utf8.RuneCountInString(s) > limit {
		return append(errs, domain.FieldError{Field: field, Message: "too long"})
	}
	return errs
}

func validatePOS(errs []domain.FieldError, pos []string) []domain.FieldError {
	if len(pos) > maxPOSCount {
		return append(errs, domain.FieldError{Field: "part_of_speech", Message: "too many (max 20)"})
	}
	for _, p := range pos {
		if strings.TrimSpace(p) == "" {
			return append(errs, domain.FieldError{Field: "part_of_speech", Message: "must not contain empty values"})
		}
		if utf8.RuneCountInString(p) > maxPOSLen {
			return append(errs, domain.FieldError{Field: "part_of_speech", Message: "value too long"})
		}
	}
	return errs
}
