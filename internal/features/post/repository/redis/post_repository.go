package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"telewall/internal/features/post/models"
	"telewall/internal/features/post/repository"
)

const (
	keyPrefixPost      = "posts:item:"
	keyPrefixUserPosts = "posts:user:"
	keyFeed            = "posts:feed"
)

type postRepository struct {
	client *redis.Client
}

func NewPostRepository(client *redis.Client) repository.PostRepository {
	return &postRepository{client: client}
}

func postKey(id string) string          { return keyPrefixPost + id }
func userPostsKey(userID string) string { return keyPrefixUserPosts + userID }

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	data, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("failed to marshal post: %w", err)
	}

	score := float64(post.CreatedAt.UnixMilli())
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, postKey(post.ID), data, 0)
	pipe.ZAdd(ctx, keyFeed, redis.Z{Score: score, Member: post.ID})
	pipe.ZAdd(ctx, userPostsKey(post.UserID), redis.Z{Score: score, Member: post.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save post: %w", err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	data, err := r.client.Get(ctx, postKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var post models.Post
	if err := json.Unmarshal(data, &post); err != nil {
		return nil, fmt.Errorf("failed to unmarshal post %s: %w", id, err)
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return r.page(ctx, keyFeed, limit, offset)
}

func (r *postRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Post, error) {
	return r.page(ctx, userPostsKey(userID), limit, offset)
}

func (r *postRepository) page(ctx context.Context, index string, limit, offset int) ([]*models.Post, error) {
	ids, err := r.client.ZRevRange(ctx, index, int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", index, err)
	}
	if len(ids) == 0 {
		return []*models.Post{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = postKey(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}

	posts := make([]*models.Post, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var post models.Post
		if err := json.Unmarshal([]byte(s), &post); err != nil {
			continue
		}
		posts = append(posts, &post)
	}
	return posts, nil
}
