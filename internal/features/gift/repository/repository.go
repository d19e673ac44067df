package repository

import (
	"context"

	"telewall/internal/features/gift/models"
)

type GiftRepository interface {
	Create(ctx context.Context, gift *models.Gift) error
	// ListByReceiver returns the gifts a user received, newest first.
	ListByReceiver(ctx context.Context, receiverID string, limit, offset int) ([]*models.Gift, error)
}
