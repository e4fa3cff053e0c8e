package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Payload is the typed body of a sync queue entry. There is exactly one
// implementation per OperationKind.
type Payload interface {
	Kind() OperationKind
	sealed()
}

// AddPayload carries the full record of a newly added word.
type AddPayload struct {
	Word          string    `json:"word"`
	EnMeaning     string    `json:"en_meaning"`
	ChMeaning     string    `json:"ch_meaning"`
	PartsOfSpeech []string  `json:"part_of_speech"`
	CreatedAt     time.Time `json:"created_at"`
}

// UpdatePayload carries only the fields that changed.
type UpdatePayload struct {
	Changes WordUpdate `json:"changes"`
}

// DeletePayload carries the resolved identity of a removed word.
type DeletePayload struct {
	WordID int64  `json:"word_id"`
	Word   string `json:"word"`
}

type ViewPayload struct{}

// SearchPayload records a partial-match lookup.
type SearchPayload struct {
	Query   string `json:"query"`
	Matches int    `json:"matches"`
}

// ListAllPayload records a full listing.
type ListAllPayload struct {
	Count int `json:"count"`
}

type MarkPayload struct{}

// QuizPayload records a quiz answer.
type QuizPayload struct {
	Correct bool `json:"correct"`
}

func (AddPayload) Kind() OperationKind     { return OperationAdd }
func (UpdatePayload) Kind() OperationKind  { return OperationUpdate }
func (DeletePayload) Kind() OperationKind  { return OperationDelete }
func (ViewPayload) Kind() OperationKind    { return OperationView }
func (SearchPayload) Kind() OperationKind  { return OperationSearch }
func (ListAllPayload) Kind() OperationKind { return OperationListAll }
func (MarkPayload) Kind() OperationKind    { return OperationMark }
func (QuizPayload) Kind() OperationKind    { return OperationQuiz }

func (AddPayload) sealed()     {}
func (UpdatePayload) sealed()  {}
func (DeletePayload) sealed()  {}
func (ViewPayload) sealed()    {}
func (SearchPayload) sealed()  {}
func (ListAllPayload) sealed() {}
func (MarkPayload) sealed()    {}
func (QuizPayload) sealed()    {}

// EncodePayload serializes p for storage. Variants without fields encode to
// nil so they are stored as NULL.
func EncodePayload(p Payload) ([]byte, error) {
	switch p.(type) {
	case nil:
		return nil, NewValidationError("payload", "required")
	case ViewPayload, MarkPayload:
		return nil, nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", p.Kind(), err)
	}
	return data, nil
}

// DecodePayload restores the variant for kind from its stored form.
func DecodePayload(kind OperationKind, data []byte) (Payload, error) {
	var p Payload
	var err error

	switch kind {
	case OperationAdd:
		var v AddPayload
		err = unmarshalOptional(data, &v)
		p = v
	case OperationUpdate:
		var v UpdatePayload
		err = unmarshalOptional(data, &v)
		p = v
	case OperationDelete:
		var v DeletePayload
		err = unmarshalOptional(data, &v)
		p = v
	case OperationView:
		p = ViewPayload{}
	case OperationSearch:
		var v SearchPayload
		err = unmarshalOptional(data, &v)
		p = v
	case OperationListAll:
		var v ListAllPayload
		err = unmarshalOptional(data, &v)
		p = v
	case OperationMark:
		p = MarkPayload{}
	case OperationQuiz:
		var v QuizPayload
		err = unmarshalOptional(data, &v)
		p = v
	default:
		return nil, NewValidationError("operation", fmt.Sprintf("unknown operation kind %q", kind))
	}

	if err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", kind, err)
	}
	return p, nil
}

func unmarshalOptional(data []byte, v any) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	return json.Unmarshal(data, v)
}
