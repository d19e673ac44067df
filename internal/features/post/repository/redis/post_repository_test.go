package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telewall/internal/features/post/models"
	"telewall/internal/features/post/repository"
)

func newTestRepository(t *testing.T) repository.PostRepository {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewPostRepository(client)
}

func TestPostRepository_FeedIsNewestFirst(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"p1", "p2", "p3"} {
		userID := "alice"
		if id == "p2" {
			userID = "bob"
		}
		require.NoError(t, repo.Create(ctx, &models.Post{
			ID:        id,
			UserID:    userID,
			Type:      "text",
			Content:   id,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	feed, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, feed, 3)
	assert.Equal(t, "p3", feed[0].ID)
	assert.Equal(t, "p1", feed[2].ID)

	page, err := repo.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "p2", page[0].ID)

	alice, err := repo.ListByUser(ctx, "alice", 10, 0)
	require.NoError(t, err)
	require.Len(t, alice, 2)
	assert.Equal(t, "p3", alice[0].ID)

	empty, err := repo.ListByUser(ctx, "carol", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPostRepository_GetByID(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Post{ID: "p1", UserID: "u", Type: "text", Content: "hi", CreatedAt: time.Now()}))

	post, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "hi", post.Content)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
