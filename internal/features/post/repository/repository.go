package repository

import (
	"context"
	"errors"

	"telewall/internal/features/post/models"
)

var ErrNotFound = errors.New("post not found")

// PostRepository stores posts; listings are newest first.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context, limit, offset int) ([]*models.Post, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Post, error)
}
