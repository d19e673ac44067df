package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telewall/internal/common/validation"
	"telewall/internal/features/gift/models"
	"telewall/internal/features/gift/repository"
	usermodels "telewall/internal/features/user/models"
	userservice "telewall/internal/features/user/service"
)

const maxGiftTypeLength = 64

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidInput = errors.New("invalid input")
)

type UserLookup interface {
	GetUser(ctx context.Context, idOrTelegramID string) (*usermodels.UserProfile, error)
}

type GiftService interface {
	SendGift(ctx context.Context, req models.CreateGiftRequest) (*models.Gift, error)
	ListReceived(ctx context.Context, idOrTelegramID string, limit, offset int) ([]*models.Gift, error)
}

type giftService struct {
	repo   repository.GiftRepository
	users  UserLookup
	logger zerolog.Logger
}

func NewGiftService(repo repository.GiftRepository, users UserLookup, logger zerolog.Logger) GiftService {
	return &giftService{
		repo:   repo,
		users:  users,
		logger: logger.With().Str("component", "gift_service").Logger(),
	}
}

func (s *giftService) SendGift(ctx context.Context, req models.CreateGiftRequest) (*models.Gift, error) {
	giftType := strings.TrimSpace(req.Type)
	if giftType == "" || len(giftType) > maxGiftTypeLength {
		return nil, fmt.Errorf("%w: gift type must be 1-%d characters", ErrInvalidInput, maxGiftTypeLength)
	}
	if err := validation.ValidateGiftMessage(req.Message); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	sender, err := s.resolveUser(ctx, req.SenderID)
	if err != nil {
		return nil, err
	}
	receiver, err := s.resolveUser(ctx, req.ReceiverID)
	if err != nil {
		return nil, err
	}

	gift := &models.Gift{
		ID:         uuid.New().String(),
		Type:       giftType,
		Message:    req.Message,
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Status:     models.StatusActive,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, gift); err != nil {
		return nil, fmt.Errorf("create gift: %w", err)
	}

	s.logger.Info().
		Str("gift_id", gift.ID).
		Str("sender_id", sender.ID).
		Str("receiver_id", receiver.ID).
		Msg("Gift sent")
	return gift, nil
}

func (s *giftService) ListReceived(ctx context.Context, idOrTelegramID string, limit, offset int) ([]*models.Gift, error) {
	user, err := s.resolveUser(ctx, idOrTelegramID)
	if err != nil {
		return nil, err
	}
	limit, offset = validation.ValidatePage(limit, offset)
	return s.repo.ListByReceiver(ctx, user.ID, limit, offset)
}

func (s *giftService) resolveUser(ctx context.Context, idOrTelegramID string) (*usermodels.UserProfile, error) {
	user, err := s.users.GetUser(ctx, idOrTelegramID)
	if errors.Is(err, userservice.ErrUserNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, idOrTelegramID)
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", idOrTelegramID, err)
	}
	return user, nil
}
