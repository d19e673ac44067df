package repository

import (
	"context"
	"errors"

	"telewall/internal/features/user/models"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	// Create fails with ErrAlreadyExists when the telegram id is already mapped.
	Create(ctx context.Context, user *models.UserProfile) error
	GetByID(ctx context.Context, id string) (*models.UserProfile, error)
	GetByTelegramID(ctx context.Context, telegramID string) (*models.UserProfile, error)
	Update(ctx context.Context, user *models.UserProfile) error
	List(ctx context.Context) ([]*models.UserProfile, error)
}
