package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wordsync-backend/internal/domain"
	"github.com/heartmarshall/wordsync-backend/internal/service/vocabulary"
	"github.com/heartmarshall/wordsync-backend/internal/transport/middleware"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRouter(svc *vocabularyServiceMock, refresher *refresherMock, coord *coordinatorMock) http.Handler {
	if coord == nil {
		coord = &coordinatorMock{}
	}
	log := discardLogger()
	return NewRouter(
		NewHealthHandler(&pingerMock{}, &pingerMock{}, "test"),
		NewSyncHandler(coord, log),
		NewWordHandler(svc, refresher, log),
		middleware.Chain(middleware.Recovery(log), middleware.Identity()),
	)
}

func do(t *testing.T, h http.Handler, method, target, user, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if user != "" {
		req.Header.Set(middleware.UserIDHeader, user)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

func TestAddWord(t *testing.T) {
	var got vocabulary.AddWordInput
	svc := &vocabularyServiceMock{
		AddWordFunc: func(ctx context.Context, input vocabulary.AddWordInput) (int64, error) {
			got = input
			return 7, nil
		},
	}
	refresher := &refresherMock{}

	rec := do(t, newRouter(svc, refresher, nil), http.MethodPost, "/words", "alice",
		`{"word":"apple","en_meaning":"a fruit","part_of_speech":["noun"]}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, map[string]int64{"id": 7}, decode[map[string]int64](t, rec))
	assert.Equal(t, vocabulary.AddWordInput{
		Word:          "apple",
		EnMeaning:     "a fruit",
		PartsOfSpeech: []string{"noun"},
		UserID:        "alice",
	}, got)
	assert.Equal(t, 1, refresher.Calls())
}

func TestAddWord_BadBody(t *testing.T) {
	svc := &vocabularyServiceMock{}
	h := newRouter(svc, &refresherMock{}, nil)

	rec := do(t, h, http.MethodPost, "/words", "alice", `{"word":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/words", "alice", `{"word":"a","unknown":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddWord_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"validation", domain.NewValidationError("word", "required"), http.StatusBadRequest},
		{"conflict", fmt.Errorf("create: %w", domain.ErrAlreadyExists), http.StatusConflict},
		{"storage", domain.NewStorageError("commit", errors.New("disk full")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &vocabularyServiceMock{
				AddWordFunc: func(context.Context, vocabulary.AddWordInput) (int64, error) { return 0, tt.err },
			}
			refresher := &refresherMock{}

			rec := do(t, newRouter(svc, refresher, nil), http.MethodPost, "/words", "alice", `{"word":"x"}`)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Zero(t, refresher.Calls())
		})
	}
}

func TestAddWord_ValidationFields(t *testing.T) {
	svc := &vocabularyServiceMock{
		AddWordFunc: func(context.Context, vocabulary.AddWordInput) (int64, error) {
			return 0, domain.NewValidationErrors([]domain.FieldError{
				{Field: "user_id", Message: "required"},
				{Field: "word", Message: "required"},
			})
		},
	}

	rec := do(t, newRouter(svc, &refresherMock{}, nil), http.MethodPost, "/words", "", `{}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[errorResponse](t, rec)
	assert.Equal(t, []domain.FieldError{
		{Field: "user_id", Message: "required"},
		{Field: "word", Message: "required"},
	}, resp.Fields)
}

func TestFindWord_Exact(t *testing.T) {
	entry := domain.VocabularyEntry{ID: 3, Word: "apple", CreatedAt: time.Now().UTC()}
	var got vocabulary.FindWordInput
	svc := &vocabularyServiceMock{
		FindWordFunc: func(ctx context.Context, input vocabulary.FindWordInput) (vocabulary.FindResult, error) {
			got = input
			return vocabulary.FindResult{Mode: vocabulary.FindByWord, Entry: &entry}, nil
		},
	}
	refresher := &refresherMock{}

	rec := do(t, newRouter(svc, refresher, nil), http.MethodGet, "/words?word=apple", "alice", "")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[wordResponse](t, rec)
	assert.Equal(t, int64(3), resp.ID)
	assert.Equal(t, []string{}, resp.PartsOfSpeech)
	require.NotNil(t, got.Word)
	assert.Equal(t, "apple", *got.Word)
	assert.Equal(t, "alice", got.UserID)
	assert.Equal(t, 1, refresher.Calls())
}

func TestFindWord_NotFound(t *testing.T) {
	svc := &vocabularyServiceMock{
		FindWordFunc: func(context.Context, vocabulary.FindWordInput) (vocabulary.FindResult, error) {
			return vocabulary.FindResult{Mode: vocabulary.FindByID}, nil
		},
	}
	refresher := &refresherMock{}

	rec := do(t, newRouter(svc, refresher, nil), http.MethodGet, "/words?id=99", "alice", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, refresher.Calls())
}

func TestFindWord_ListAndPartial(t *testing.T) {
	var got vocabulary.FindWordInput
	svc := &vocabularyServiceMock{
		FindWordFunc: func(ctx context.Context, input vocabulary.FindWordInput) (vocabulary.FindResult, error) {
			got = input
			return vocabulary.FindResult{
				Mode:    vocabulary.FindByPartial,
				Entries: []domain.VocabularyEntry{{ID: 1, Word: "apple"}, {ID: 2, Word: "pineapple"}},
			}, nil
		},
	}
	refresher := &refresherMock{}

	rec := do(t, newRouter(svc, refresher, nil), http.MethodGet, "/words?word=apple&partial=true", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[wordListResponse](t, rec)
	assert.Equal(t, vocabulary.FindByPartial, resp.Mode)
	assert.Equal(t, 2, resp.Count)
	assert.True(t, got.Partial)
	assert.Empty(t, got.UserID)
	// anonymous reads are not audited, so nothing to refresh
	assert.Zero(t, refresher.Calls())
}

func TestFindWord_BadQuery(t *testing.T) {
	h := newRouter(&vocabularyServiceMock{}, &refresherMock{}, nil)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/words?id=abc", "", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/words?partial=maybe", "", "").Code)
}

func TestUpdateWord(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		updated   bool
		wantCode  int
		wantCalls int
	}{
		{"updated", `{"en_meaning":"new"}`, true, http.StatusOK, 1},
		{"missing word", `{"en_meaning":"new"}`, false, http.StatusNotFound, 0},
		{"empty update", `{}`, false, http.StatusOK, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotID int64
			var gotUpd domain.WordUpdate
			svc := &vocabularyServiceMock{
				UpdateWordFunc: func(ctx context.Context, id int64, upd domain.WordUpdate, userID string) (bool, error) {
					gotID, gotUpd = id, upd
					assert.Equal(t, "alice", userID)
					return tt.updated, nil
				},
			}
			refresher := &refresherMock{}

			rec := do(t, newRouter(svc, refresher, nil), http.MethodPatch, "/words/5", "alice", tt.body)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, int64(5), gotID)
			assert.Equal(t, tt.wantCalls, refresher.Calls())
			if tt.body != `{}` {
				require.NotNil(t, gotUpd.EnMeaning)
				assert.Equal(t, "new", *gotUpd.EnMeaning)
				assert.Nil(t, gotUpd.Word)
			}
		})
	}
}

func TestUpdateWord_BadID(t *testing.T) {
	rec := do(t, newRouter(&vocabularyServiceMock{}, &refresherMock{}, nil), http.MethodPatch, "/words/abc", "alice", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteWord(t *testing.T) {
	var got []vocabulary.DeleteWordInput
	svc := &vocabularyServiceMock{
		DeleteWordFunc: func(ctx context.Context, input vocabulary.DeleteWordInput) (bool, error) {
			got = append(got, input)
			if input.ID != nil && *input.ID == 404 {
				return false, nil
			}
			if input.ID == nil && input.Word == nil {
				return false, domain.NewValidationError("id", "id or word is required")
			}
			return true, nil
		},
	}
	refresher := &refresherMock{}
	h := newRouter(svc, refresher, nil)

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodDelete, "/words/3", "alice", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodDelete, "/words?word=apple", "alice", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/words/404", "alice", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodDelete, "/words", "alice", "").Code)

	require.Len(t, got, 4)
	assert.Equal(t, int64(3), *got[0].ID)
	assert.Equal(t, "apple", *got[1].Word)
	assert.Equal(t, "alice", got[1].UserID)
	assert.Equal(t, 2, refresher.Calls())
}

func TestQuizAndMark(t *testing.T) {
	var quizCorrect bool
	var markNote *string
	svc := &vocabularyServiceMock{
		RecordQuizAttemptFunc: func(ctx context.Context, userID string, id int64, isCorrect bool, note *string) (bool, error) {
			quizCorrect = isCorrect
			return id != 404, nil
		},
		MarkWordFunc: func(ctx context.Context, userID string, id int64, note *string) (bool, error) {
			markNote = note
			return true, nil
		},
	}
	refresher := &refresherMock{}
	h := newRouter(svc, refresher, nil)

	rec := do(t, h, http.MethodPost, "/words/2/quiz", "alice", `{"correct":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, quizCorrect)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/words/2/quiz", "alice", `{}`).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/words/404/quiz", "alice", `{"correct":false}`).Code)

	rec = do(t, h, http.MethodPost, "/words/2/mark", "alice", `{"context":"hard one"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, markNote)
	assert.Equal(t, "hard one", *markNote)

	rec = do(t, h, http.MethodPost, "/words/2/mark", "alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, markNote)

	assert.Equal(t, 3, refresher.Calls())
}

func TestStats(t *testing.T) {
	svc := &vocabularyServiceMock{
		StatsFunc: func(ctx context.Context, userID string) (*domain.UserWordStats, error) {
			if userID == "offline" {
				return nil, fmt.Errorf("read stats: %w", domain.ErrRemoteUnavailable)
			}
			return &domain.UserWordStats{UserID: userID, TotalOperations: 4, QuizSuccessRate: 50}, nil
		},
	}
	h := newRouter(svc, &refresherMock{}, nil)

	rec := do(t, h, http.MethodGet, "/stats", "alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[domain.UserWordStats](t, rec)
	assert.Equal(t, "alice", stats.UserID)
	assert.Equal(t, 4, stats.TotalOperations)

	assert.Equal(t, http.StatusServiceUnavailable, do(t, h, http.MethodGet, "/stats", "offline", "").Code)
}

func TestRefreshFailureDoesNotFailRequest(t *testing.T) {
	svc := &vocabularyServiceMock{
		MarkWordFunc: func(context.Context, string, int64, *string) (bool, error) { return true, nil },
	}
	refresher := &refresherMock{err: errors.New("database is locked")}

	rec := do(t, newRouter(svc, refresher, nil), http.MethodPost, "/words/1/mark", "alice", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, refresher.Calls())
}
