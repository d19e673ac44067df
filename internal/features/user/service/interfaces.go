package service

import (
	"context"

	"telewall/internal/features/user/models"
)

type UserService interface {
	// Login validates Mini App init-data and returns the profile bound to its Telegram user,
	// creating it on first login.
	Login(ctx context.Context, initDataStr string) (*models.UserProfile, error)
	// CreateUser is the deprecated bootstrap path; it returns the existing profile
	// when the telegram id is already known.
	CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.UserProfile, error)
	// GetUser resolves an internal id, falling back to a telegram id.
	GetUser(ctx context.Context, idOrTelegramID string) (*models.UserProfile, error)
	UpdateUser(ctx context.Context, idOrTelegramID string, req models.UpdateUserRequest) (*models.UserProfile, error)
	SearchUsers(ctx context.Context, query string, limit int) ([]*models.UserProfile, error)
}
