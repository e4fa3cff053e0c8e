package domain

import "time"

// OperationKind identifies what a sync queue entry records.
type OperationKind string

const (
	OperationAdd     OperationKind = "add"
	OperationUpdate  OperationKind = "update"
	OperationDelete  OperationKind = "delete"
	OperationView    OperationKind = "view"
	OperationSearch  OperationKind = "search"
	OperationListAll OperationKind = "list_all"
	OperationMark    OperationKind = "mark"
	OperationQuiz    OperationKind = "quiz"
)

// AllOperationKinds lists every kind in a stable order.
var AllOperationKinds = []OperationKind{
	OperationAdd, OperationUpdate, OperationDelete, OperationView,
	OperationSearch, OperationListAll, OperationMark, OperationQuiz,
}

func (k OperationKind) String() string { return string(k) }

func (k OperationKind) IsValid() bool {
	switch k {
	case OperationAdd, OperationUpdate, OperationDelete, OperationView,
		OperationSearch, OperationListAll, OperationMark, OperationQuiz:
		return true
	}
	return false
}

// IsMutation reports whether the kind changes a VocabularyEntry.
func (k OperationKind) IsMutation() bool {
	switch k {
	case OperationAdd, OperationUpdate, OperationDelete:
		return true
	}
	return false
}

// QuizResult is the result tag of a quiz entry.
type QuizResult string

const (
	QuizCorrect   QuizResult = "correct"
	QuizIncorrect QuizResult = "incorrect"
)

func (r QuizResult) String() string { return string(r) }

func (r QuizResult) IsValid() bool {
	return r == QuizCorrect || r == QuizIncorrect
}

// QuizResultOf converts a boolean answer into its result tag.
func QuizResultOf(correct bool) QuizResult {
	if correct {
		return QuizCorrect
	}
	return QuizIncorrect
}

// ListAllWord is the word text recorded for list_all entries, which have no
// single target.
const ListAllWord = "all_words"

// SyncQueueEntry is one durable record of a mutation or audited read,
// waiting for delivery to the remote ledger. Seq defines delivery order.
type SyncQueueEntry struct {
	Seq       int64
	Kind      OperationKind
	UserID    string
	WordID    *int64
	Word      string
	Result    *QuizResult
	Context   *string
	Payload   Payload
	CreatedAt time.Time
}

// Validate checks the entry before it is written to the queue.
func (e *SyncQueueEntry) Validate() error {
	var errs []FieldError

	if !e.Kind.IsValid() {
		errs = append(errs, FieldError{Field: "operation", Message: "unknown operation kind"})
	}
	if e.UserID == "" {
		errs = append(errs, FieldError{Field: "user_id", Message: "required"})
	}
	if e.Word == "" {
		errs = append(errs, FieldError{Field: "word", Message: "required"})
	}
	if e.Kind != OperationListAll && e.WordID == nil {
		errs = append(errs, FieldError{Field: "word_id", Message: "required"})
	}
	if e.Payload == nil {
		errs = append(errs, FieldError{Field: "payload", Message: "required"})
	} else if e.Payload.Kind() != e.Kind {
		errs = append(errs, FieldError{Field: "payload", Message: "does not match operation " + e.Kind.String()})
	}

	switch {
	case e.Kind == OperationQuiz && e.Result == nil:
		errs = append(errs, FieldError{Field: "result", Message: "required for quiz"})
	case e.Kind == OperationQuiz && !e.Result.IsValid():
		errs = append(errs, FieldError{Field: "result", Message: "must be correct or incorrect"})
	case e.Kind != OperationQuiz && e.Result != nil:
		errs = append(errs, FieldError{Field: "result", Message: "only allowed for quiz"})
	}

	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}
