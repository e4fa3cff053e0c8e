package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/heartmarshall/wordsync-backend/internal/domain"
	"github.com/heartmarshall/wordsync-backend/internal/service/vocabulary"
	"github.com/heartmarshall/wordsync-backend/pkg/ctxutil"
)

type vocabularyService interface {
	AddWord(ctx context.Context, input vocabulary.AddWordInput) (int64, error)
	FindWord(ctx context.Context, input vocabulary.FindWordInput) (vocabulary.FindResult, error)
	UpdateWord(ctx context.Context, id int64, upd domain.WordUpdate, userID string) (bool, error)
	DeleteWord(ctx context.Context, input vocabulary.DeleteWordInput) (bool, error)
	RecordQuizAttempt(ctx context.Context, userID string, id int64, isCorrect bool, note *string) (bool, error)
	MarkWord(ctx context.Context, userID string, id int64, note *string) (bool, error)
	Stats(ctx context.Context, userID string) (*domain.UserWordStats, error)
}

// pendingRefresher republishes the pending count after local writes.
type pendingRefresher interface {
	RefreshPending(ctx context.Context) error
}

// WordHandler is a thin HTTP passthrough to the vocabulary service.
type WordHandler struct {
	svc     vocabularyService
	pending pendingRefresher
	log     *slog.Logger
}

// NewWordHandler creates a WordHandler.
func NewWordHandler(svc vocabularyService, pending pendingRefresher, logger *slog.Logger) *WordHandler {
	return &WordHandler{svc: svc, pending: pending, log: logger.With("handler", "words")}
}

type addWordRequest struct {
	Word          string   `json:"word"`
	EnMeaning     string   `json:"en_meaning"`
	ChMeaning     string   `json:"ch_meaning"`
	PartsOfSpeech []string `json:"part_of_speech"`
}

type quizRequest struct {
	Correct *bool   `json:"correct"`
	Context *string `json:"context"`
}

type markRequest struct {
	Context *string `json:"context"`
}

type wordResponse struct {
	ID            int64     `json:"id"`
	Word          string    `json:"word"`
	EnMeaning     string    `json:"en_meaning"`
	ChMeaning     string    `json:"ch_meaning"`
	PartsOfSpeech []string  `json:"part_of_speech"`
	CreatedAt     time.Time `json:"created_at"`
	Synced        bool      `json:"synced"`
}

type wordListResponse struct {
	Mode  vocabulary.FindMode `json:"mode"`
	Count int                 `json:"count"`
	Words []wordResponse      `json:"words"`
}

// Add handles POST /words. Adding an existing word returns its id.
func (h *WordHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addWordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	userID, _ := ctxutil.UserIDFromCtx(r.Context())
	id, err := h.svc.AddWord(r.Context(), vocabulary.AddWordInput{
		Word:          req.Word,
		EnMeaning:     req.EnMeaning,
		ChMeaning:     req.ChMeaning,
		PartsOfSpeech: req.PartsOfSpeech,
		UserID:        userID,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	h.refresh(r)
	writeJSON(w, http.StatusOK, map[string]int64{"id": id})
}

// Find handles GET /words?id=&word=&partial=. Without criteria it lists
// every word.
func (h *WordHandler) Find(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID, _ := ctxutil.UserIDFromCtx(r.Context())
	input := vocabulary.FindWordInput{UserID: userID}

	if v := q.Get("id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "id must be an integer")
			return
		}
		input.ID = &id
	}
	if q.Has("word") {
		word := q.Get("word")
		input.Word = &word
	}
	if v := q.Get("partial"); v != "" {
		partial, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "partial must be a boolean")
			return
		}
		input.Partial = partial
	}

	res, err := h.svc.FindWord(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if userID != "" && res.Found() {
		h.refresh(r)
	}

	switch res.Mode {
	case vocabulary.FindByID, vocabulary.FindByWord:
		if res.Entry == nil {
			writeError(w, http.StatusNotFound, "word not found")
			return
		}
		writeJSON(w, http.StatusOK, toWordResponse(*res.Entry))
	default:
		words := make([]wordResponse, 0, len(res.Entries))
		for _, e := range res.Entries {
			words = append(words, toWordResponse(e))
		}
		writeJSON(w, http.StatusOK, wordListResponse{Mode: res.Mode, Count: len(words), Words: words})
	}
}

// Update handles PATCH /words/{id}. Absent fields stay unchanged.
func (h *WordHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var upd domain.WordUpdate
	if !decodeBody(w, r, &upd) {
		return
	}

	userID, _ := ctxutil.UserIDFromCtx(r.Context())
	updated, err := h.svc.UpdateWord(r.Context(), id, upd, userID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if !updated {
		if upd.IsEmpty() {
			writeJSON(w, http.StatusOK, map[string]bool{"updated": false})
			return
		}
		writeError(w, http.StatusNotFound, "word not found")
		return
	}

	h.refresh(r)
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// DeleteByID handles DELETE /words/{id}.
func (h *WordHandler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	h.delete(w, r, vocabulary.DeleteWordInput{ID: &id})
}

// DeleteByWord handles DELETE /words?word=.
func (h *WordHandler) DeleteByWord(w http.ResponseWriter, r *http.Request) {
	input := vocabulary.DeleteWordInput{}
	if r.URL.Query().Has("word") {
		word := r.URL.Query().Get("word")
		input.Word = &word
	}
	h.delete(w, r, input)
}

func (h *WordHandler) delete(w http.ResponseWriter, r *http.Request, input vocabulary.DeleteWordInput) {
	input.UserID, _ = ctxutil.UserIDFromCtx(r.Context())

	deleted, err := h.svc.DeleteWord(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "word not found")
		return
	}

	h.refresh(r)
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// Quiz handles POST /words/{id}/quiz.
func (h *WordHandler) Quiz(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req quizRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Correct == nil {
		handleError(h.log, w, r, domain.NewValidationError("correct", "required"))
		return
	}

	userID, _ := ctxutil.UserIDFromCtx(r.Context())
	recorded, err := h.svc.RecordQuizAttempt(r.Context(), userID, id, *req.Correct, req.Context)
	h.writeRecorded(w, r, recorded, err)
}

// Mark handles POST /words/{id}/mark.
func (h *WordHandler) Mark(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req markRequest
	if !decodeBody(w, r, &req) {
		return
	}

	userID, _ := ctxutil.UserIDFromCtx(r.Context())
	recorded, err := h.svc.MarkWord(r.Context(), userID, id, req.Context)
	h.writeRecorded(w, r, recorded, err)
}

func (h *WordHandler) writeRecorded(w http.ResponseWriter, r *http.Request, recorded bool, err error) {
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if !recorded {
		writeError(w, http.StatusNotFound, "word not found")
		return
	}
	h.refresh(r)
	writeJSON(w, http.StatusOK, map[string]bool{"recorded": true})
}

// Stats handles GET /stats for the acting user. It reads through to the
// remote ledger and answers 503 while offline.
func (h *WordHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, _ := ctxutil.UserIDFromCtx(r.Context())
	stats, err := h.svc.Stats(r.Context(), userID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// refresh is best effort: the write already committed.
func (h *WordHandler) refresh(r *http.Request) {
	if err := h.pending.RefreshPending(r.Context()); err != nil {
		h.log.WarnContext(r.Context(), "refresh pending count", slog.String("error", err.Error()))
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be an integer")
		return 0, false
	}
	return id, true
}

func toWordResponse(e domain.VocabularyEntry) wordResponse {
	pos := e.PartsOfSpeech
	if pos == nil {
		pos = []string{}
	}
	return wordResponse{
		ID:            e.ID,
		Word:          e.Word,
		EnMeaning:     e.EnMeaning,
		ChMeaning:     e.ChMeaning,
		PartsOfSpeech: pos,
		CreatedAt:     e.CreatedAt,
		Synced:        e.Synced,
	}
}
