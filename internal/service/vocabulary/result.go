package vocabulary

import "github.com/heartmarshall/wordsync-backend/internal/domain"

// FindMode tells which lookup FindWord performed.
type FindMode string

const (
	FindByID      FindMode = "id"
	FindByWord    FindMode = "word"
	FindByPartial FindMode = "partial"
	FindAll       FindMode = "all"
)

// FindResult holds Entry for exact lookups and Entries for partial and
// full listings. A nil Entry or empty Entries means nothing matched.
type FindResult struct {
	Mode    FindMode
	Entry   *domain.VocabularyEntry
	Entries []domain.VocabularyEntry
}

// Found reports whether the lookup matched anything.
func (r FindResult) Found() bool {
	return r.Entry != nil || len(r.Entries) > 0
}
