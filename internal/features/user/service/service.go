package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	initdata "github.com/telegram-mini-apps/init-data-golang"

	"telewall/internal/common/validation"
	"telewall/internal/features/user/models"
	"telewall/internal/features/user/repository"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidInitData = errors.New("invalid init data")
	ErrInvalidInput    = errors.New("invalid input")
)

type userService struct {
	repo     repository.UserRepository
	botToken string
	initTTL  time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

func NewUserService(repo repository.UserRepository, botToken string, initTTL time.Duration, logger zerolog.Logger) UserService {
	return &userService{
		repo:     repo,
		botToken: botToken,
		initTTL:  initTTL,
		logger:   logger.With().Str("component", "user_service").Logger(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *userService) Login(ctx context.Context, initDataStr string) (*models.UserProfile, error) {
	if err := initdata.Validate(initDataStr, s.botToken, s.initTTL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInitData, err)
	}

	parsed, err := initdata.Parse(initDataStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInitData, err)
	}
	if parsed.User.ID == 0 {
		return nil, fmt.Errorf("%w: no user in init data", ErrInvalidInitData)
	}

	tgUser := parsed.User
	name := strings.TrimSpace(tgUser.FirstName + " " + tgUser.LastName)
	if name == "" {
		name = tgUser.Username
	}

	profile, err := s.getOrCreate(ctx, strconv.FormatInt(tgUser.ID, 10), tgUser.Username, name, tgUser.PhotoURL, "", true)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", profile.ID).Str("telegram_id", profile.TelegramID).Msg("User logged in")
	return profile, nil
}

func (s *userService) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.UserProfile, error) {
	if err := validation.ValidateName(req.Name); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := validation.ValidateUsername(req.Username); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := validation.ValidateDescription(req.Description); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	// The legacy route carries no init data, so it never touches an existing profile.
	return s.getOrCreate(ctx, req.TelegramID, req.Username, req.Name, req.PhotoURL, req.Description, false)
}

// getOrCreate returns the profile for telegramID, creating it when absent.
// With refresh set, the Telegram-owned fields of an existing profile follow
// the caller's values; only verified init data may ask for that.
func (s *userService) getOrCreate(ctx context.Context, telegramID, username, name, photoURL, description string, refresh bool) (*models.UserProfile, error) {
	existing, err := s.repo.GetByTelegramID(ctx, telegramID)
	if err == nil {
		if refresh && (existing.Username != username || existing.PhotoURL != photoURL) {
			existing.Username = username
			existing.PhotoURL = photoURL
			if err := s.repo.Update(ctx, existing); err != nil {
				return nil, fmt.Errorf("update user %s: %w", existing.ID, err)
			}
		}
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("get user by telegram id: %w", err)
	}

	now := s.now()
	profile := &models.UserProfile{
		ID:          uuid.New().String(),
		TelegramID:  telegramID,
		Name:        name,
		Username:    username,
		PhotoURL:    photoURL,
		Description: description,
		Privacy:     models.DefaultPrivacy(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			// Lost a race with a concurrent login for the same Telegram user.
			return s.repo.GetByTelegramID(ctx, telegramID)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info().Str("user_id", profile.ID).Str("telegram_id", telegramID).Msg("User created")
	return profile, nil
}

func (s *userService) GetUser(ctx context.Context, idOrTelegramID string) (*models.UserProfile, error) {
	user, err := s.repo.GetByID(ctx, idOrTelegramID)
	if errors.Is(err, repository.ErrNotFound) {
		user, err = s.repo.GetByTelegramID(ctx, idOrTelegramID)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, idOrTelegramID string, req models.UpdateUserRequest) (*models.UserProfile, error) {
	user, err := s.GetUser(ctx, idOrTelegramID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := validation.ValidateName(*req.Name); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Username != nil {
		if err := validation.ValidateUsername(*req.Username); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		user.Username = strings.TrimPrefix(*req.Username, "@")
	}
	if req.PhotoURL != nil {
		user.PhotoURL = *req.PhotoURL
	}
	if req.Description != nil {
		if err := validation.ValidateDescription(*req.Description); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		user.Description = *req.Description
	}
	if req.Privacy != nil {
		if err := validation.ValidateVisibility("wall_visibility", req.Privacy.WallVisibility); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if err := validation.ValidateVisibility("can_post", req.Privacy.CanPost); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		privacy := *req.Privacy
		user.Privacy = &privacy
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user %s: %w", user.ID, err)
	}
	return user, nil
}

func (s *userService) SearchUsers(ctx context.Context, query string, limit int) ([]*models.UserProfile, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, nil
	}

	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	var matches []*models.UserProfile
	for _, u := range all {
		if strings.Contains(strings.ToLower(u.Name), query) || strings.Contains(strings.ToLower(u.Username), query) {
			matches = append(matches, u)
		}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}
