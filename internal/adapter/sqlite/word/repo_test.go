package word_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wordsync-backend/internal/adapter/sqlite/queue"
	"github.com/heartmarshall/wordsync-backend/internal/adapter/sqlite/testhelper"
	"github.com/heartmarshall/wordsync-backend/internal/adapter/sqlite/word"
	"github.com/heartmarshall/wordsync-backend/internal/domain"
)

func seed(t *testing.T, repo *word.Repo, words ...string) {
	t.Helper()
	ctx := context.Background()
	for _, w := range words {
		id, err := repo.NextID(ctx)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, domain.VocabularyEntry{
			ID:            id,
			Word:          w,
			EnMeaning:     w + " gloss",
			PartsOfSpeech: []string{"noun"},
			CreatedAt:     time.Date(2026, 1, 2, 3, 4, 5, 6, time.UTC),
		}))
	}
}

func TestRepo_NextID(t *testing.T) {
	repo := word.New(testhelper.SetupTestDB(t))
	ctx := context.Background()

	id, err := repo.NextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	seed(t, repo, "cat", "dog")

	id, err = repo.NextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
}

func TestRepo_CreateAndGet(t *testing.T) {
	repo := word.New(testhelper.SetupTestDB(t))
	ctx := context.Background()
	seed(t, repo, "cat")

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "cat", got.Word)
	assert.Equal(t, "cat gloss", got.EnMeaning)
	assert.Equal(t, []string{"noun"}, got.PartsOfSpeech)
	assert.False(t, got.Synced)
	assert.True(t, got.CreatedAt.Equal(time.Date(2026, 1, 2, 3, 4, 5, 6, time.UTC)))

	byWord, err := repo.GetByWord(ctx, "cat")
	require.NoError(t, err)
	assert.Equal(t, int64(1), byWord.ID)

	_, err = repo.GetByID(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.GetByWord(ctx, "Cat")
	assert.ErrorIs(t, err, domain.ErrNotFound, "exact lookup is case-sensitive")
}

func TestRepo_Create_DuplicateWord(t *testing.T) {
	repo := word.New(testhelper.SetupTestDB(t))
	seed(t, repo, "cat")

	err := repo.Create(context.Background(), domain.VocabularyEntry{ID: 2, Word: "cat", CreatedAt: time.Now()})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestRepo_Search(t *testing.T) {
	repo := word.New(testhelper.SetupTestDB(t))
	seed(t, repo, "Category", "cat", "dog", "scatter", "100%_sure")
	ctx := context.Background()

	got, err := repo.Search(ctx, "CAT")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"Category", "cat", "scatter"}, []string{got[0].Word, got[1].Word, got[2].Word})

	got, err = repo.Search(ctx, "%_")
	require.NoError(t, err)
	require.Len(t, got, 1, "wildcards in the query are literal")
	assert.Equal(t, "100%_sure", got[0].Word)

	got, err = repo.Search(ctx, "zebra")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRepo_List(t *testing.T) {
	repo := word.New(testhelper.SetupTestDB(t))
	ctx := context.Background()

	got, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	seed(t, repo, "cat", "dog")
	got, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRepo_Update(t *testing.T) {
	db := testhelper.SetupTestDB(t)
	repo := word.New(db)
	ctx := context.Background()
	seed(t, repo, "cat", "dog")
	require.NoError(t, repo.MarkSynced(ctx, []int64{1}))

	gloss := "a small domesticated feline"
	pos := []string{"noun", "verb"}
	require.NoError(t, repo.Update(ctx, 1, domain.WordUpdate{EnMeaning: &gloss, PartsOfSpeech: &pos}))

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, gloss, got.EnMeaning)
	assert.Equal(t, pos, got.PartsOfSpeech)
	assert.Equal(t, "cat", got.Word)
	assert.False(t, got.Synced)

	err = repo.Update(ctx, 999, domain.WordUpdate{EnMeaning: &gloss})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	dup := "dog"
	err = repo.Update(ctx, 1, domain.WordUpdate{Word: &dup})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestRepo_Delete(t *testing.T) {
	repo := word.New(testhelper.SetupTestDB(t))
	ctx := context.Background()
	seed(t, repo, "cat")

	require.NoError(t, repo.Delete(ctx, 1))
	_, err := repo.GetByID(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, 1), domain.ErrNotFound)
}

func TestRepo_MarkSynced_SkipsWordsWithPendingMutations(t *testing.T) {
	db := testhelper.SetupTestDB(t)
	repo := word.New(db)
	q := queue.New(db)
	ctx := context.Background()
	seed(t, repo, "cat", "dog")

	dogID := int64(2)
	_, err := q.Enqueue(ctx, domain.SyncQueueEntry{
		Kind: domain.OperationUpdate, UserID: "u1", WordID: &dogID, Word: "dog",
		Payload: domain.UpdatePayload{}, CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, repo.MarkSynced(ctx, []int64{1, 2}))

	cat, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, cat.Synced)

	dog, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.False(t, dog.Synced, "dog still has an update waiting")

	require.NoError(t, repo.MarkSynced(ctx, nil))
}
