package vocabulary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/heartmarshall/wordsync-backend/internal/domain"
)

// FindWord looks entries up by id, exact word, substring or lists them all.
//
// Reads attributed to a user (non-empty UserID) that find something are
// recorded in the sync queue: view for exact lookups, search for partial
// lookups (targeting the first match) and list_all for full listings. The
// remote ledger builds per-user statistics from these entries.
func (s *Service) FindWord(ctx context.Context, input FindWordInput) (FindResult, error) {
	if err := input.Validate(); err != nil {
		return FindResult{}, err
	}

	res, err := s.lookup(ctx, input)
	if err != nil {
		return FindResult{}, err
	}

	if input.UserID == "" || !res.Found() {
		return res, nil
	}

	if err := s.recordRead(ctx, input, res); err != nil {
		return FindResult{}, err
	}
	return res, nil
}

func (s *Service) lookup(ctx context.Context, input FindWordInput) (FindResult, error) {
	switch {
	case input.ID != nil:
		e, err := s.words.GetByID(ctx, *input.ID)
		return exactResult(FindByID, e, err)

	case input.Word != nil && !input.Partial:
		e, err := s.words.GetByWord(ctx, *input.Word)
		return exactResult(FindByWord, e, err)

	case input.Word != nil:
		entries, err := s.words.Search(ctx, *input.Word)
		if err != nil {
			return FindResult{}, fmt.Errorf("search words: %w", err)
		}
		return FindResult{Mode: FindByPartial, Entries: entries}, nil

	default:
		entries, err := s.words.List(ctx)
		if err != nil {
			return FindResult{}, fmt.Errorf("list words: %w", err)
		}
		return FindResult{Mode: FindAll, Entries: entries}, nil
	}
}

func exactResult(mode FindMode, e *domain.VocabularyEntry, err error) (FindResult, error) {
	if errors.Is(err, domain.ErrNotFound) {
		return FindResult{Mode: mode}, nil
	}
	if err != nil {
		return FindResult{}, fmt.Errorf("get word: %w", err)
	}
	return FindResult{Mode: mode, Entry: e}, nil
}

// recordRead queues the audit entry for a successful attributed read. It
// runs as its own statement; there is no mutation to pair it with.
func (s *Service) recordRead(ctx context.Context, input FindWordInput, res FindResult) error {
	entry := domain.SyncQueueEntry{
		UserID:    input.UserID,
		CreatedAt: time.Now().UTC(),
	}

	switch res.Mode {
	case FindByID, FindByWord:
		entry.Kind = domain.OperationView
		entry.WordID = &res.Entry.ID
		entry.Word = res.Entry.Word
		entry.Payload = domain.ViewPayload{}

	case FindByPartial:
		first := res.Entries[0]
		note := "partial search: " + *input.Word
		entry.Kind = domain.OperationSearch
		entry.WordID = &first.ID
		entry.Word = first.Word
		entry.Context = &note
		entry.Payload = domain.SearchPayload{Query: *input.Word, Matches: len(res.Entries)}

	case FindAll:
		entry.Kind = domain.OperationListAll
		entry.Word = domain.ListAllWord
		entry.Payload = domain.ListAllPayload{Count: len(res.Entries)}
	}

	if _, err := s.queue.Enqueue(ctx, entry); err != nil {
		return fmt.Errorf("enqueue %s: %w", entry.Kind, err)
	}
	return nil
}
