package repository

import (
	"context"
	"errors"

	"telewall/internal/features/store/models"
)

var ErrNotFound = errors.New("store item not found")

// StoreRepository keeps the catalog in display order.
type StoreRepository interface {
	Save(ctx context.Context, item *models.StoreItem, position int) error
	GetByID(ctx context.Context, id string) (*models.StoreItem, error)
	List(ctx context.Context) ([]*models.StoreItem, error)
}
