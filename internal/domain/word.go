package domain

import "time"

// VocabularyEntry is the local, authoritative copy of a word.
type VocabularyEntry struct {
	ID            int64
	Word          string
	EnMeaning     string
	ChMeaning     string
	PartsOfSpeech []string
	CreatedAt     time.Time
	Synced        bool
}

// WordUpdate carries a partial update. Nil fields are left untouched.
type WordUpdate struct {
	Word          *string   `json:"word,omitempty"`
	EnMeaning     *string   `json:"en_meaning,omitempty"`
	ChMeaning     *string   `json:"ch_meaning,omitempty"`
	PartsOfSpeech *[]string `json:"part_of_speech,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (u WordUpdate) IsEmpty() bool {
	return u.Word == nil && u.EnMeaning == nil && u.ChMeaning == nil && u.PartsOfSpeech == nil
}

// Apply returns a copy of e with the update applied.
func (u WordUpdate) Apply(e VocabularyEntry) VocabularyEntry {
	if u.Word != nil {
		e.Word = *u.Word
	}
	if u.EnMeaning != nil {
		e.EnMeaning = *u.EnMeaning
	}
	if u.ChMeaning != nil {
		e.ChMeaning = *u.ChMeaning
	}
	if u.PartsOfSpeech != nil {
		e.PartsOfSpeech = append([]string(nil), (*u.PartsOfSpeech)...)
	}
	e.Synced = false
	return e
}
