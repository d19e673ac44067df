package directory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	usermodels "telewall/internal/features/user/models"
)

func TestMockSource(t *testing.T) {
	src := NewMockSource()
	ctx := context.Background()

	found, err := src.Search(ctx, "МАРИЯ")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "2", found[0].ID)

	found, err = src.Search(ctx, "ov")
	require.NoError(t, err)
	assert.Len(t, found, 3, "username match")

	found, err = src.Search(ctx, "   ")
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = src.Search(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, found)
}

type fakeSearcher struct {
	query string
	limit int
}

func (f *fakeSearcher) SearchUsers(_ context.Context, query string, limit int) ([]usermodels.UserProfile, error) {
	f.query, f.limit = query, limit
	return []usermodels.UserProfile{{ID: "u1"}}, nil
}

func TestRemoteSource(t *testing.T) {
	api := &fakeSearcher{}
	src := NewRemoteSource(api)

	found, err := src.Search(context.Background(), "  dmitry ")
	require.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Equal(t, "dmitry", api.query)
	assert.Equal(t, defaultLimit, api.limit)

	api.query = ""
	found, err = src.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.Empty(t, api.query, "blank queries never reach the backend")
}

func TestRecent(t *testing.T) {
	r := DefaultRecent()
	assert.Equal(t, []string{"рисунки", "дизайн", "telegram", "мемы", "подарки"}, r.Terms())

	r.Add("  котики ")
	assert.Equal(t, []string{"котики", "рисунки", "дизайн", "telegram", "мемы"}, r.Terms())

	r.Add("дизайн")
	assert.Equal(t, []string{"котики", "рисунки", "дизайн", "telegram", "мемы"}, r.Terms())

	r.Add("")
	assert.Len(t, r.Terms(), 5)

	terms := r.Terms()
	terms[0] = "mutated"
	assert.Equal(t, "котики", r.Terms()[0])
}
