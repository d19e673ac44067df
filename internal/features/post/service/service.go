package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telewall/internal/common/validation"
	"telewall/internal/features/post/models"
	"telewall/internal/features/post/repository"
	usermodels "telewall/internal/features/user/models"
	userservice "telewall/internal/features/user/service"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidInput = errors.New("invalid input")
)

// UserLookup resolves an internal id or a telegram id to a profile.
type UserLookup interface {
	GetUser(ctx context.Context, idOrTelegramID string) (*usermodels.UserProfile, error)
}

type PostService interface {
	CreatePost(ctx context.Context, req models.CreatePostRequest) (*models.Post, error)
	ListPosts(ctx context.Context, limit, offset int) ([]*models.Post, error)
	ListUserPosts(ctx context.Context, idOrTelegramID string, limit, offset int) ([]*models.Post, error)
}

type postService struct {
	repo   repository.PostRepository
	users  UserLookup
	logger zerolog.Logger
	now    func() time.Time
}

func NewPostService(repo repository.PostRepository, users UserLookup, logger zerolog.Logger) PostService {
	return &postService{
		repo:   repo,
		users:  users,
		logger: logger.With().Str("component", "post_service").Logger(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *postService) CreatePost(ctx context.Context, req models.CreatePostRequest) (*models.Post, error) {
	if err := validation.ValidatePost(req.Type, req.Content); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	author, err := s.resolveUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	post := &models.Post{
		ID:        uuid.New().String(),
		UserID:    author.ID,
		Type:      req.Type,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.logger.Debug().Str("post_id", post.ID).Str("user_id", author.ID).Str("type", post.Type).Msg("Post created")
	return post, nil
}

func (s *postService) ListPosts(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	limit, offset = validation.ValidatePage(limit, offset)
	return s.repo.List(ctx, limit, offset)
}

func (s *postService) ListUserPosts(ctx context.Context, idOrTelegramID string, limit, offset int) ([]*models.Post, error) {
	user, err := s.resolveUser(ctx, idOrTelegramID)
	if err != nil {
		return nil, err
	}
	limit, offset = validation.ValidatePage(limit, offset)
	return s.repo.ListByUser(ctx, user.ID, limit, offset)
}

func (s *postService) resolveUser(ctx context.Context, idOrTelegramID string) (*usermodels.UserProfile, error) {
	user, err := s.users.GetUser(ctx, idOrTelegramID)
	if errors.Is(err, userservice.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", idOrTelegramID, err)
	}
	return user, nil
}
