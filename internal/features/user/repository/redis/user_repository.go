package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"telewall/internal/features/user/models"
	"telewall/internal/features/user/repository"
)

const (
	keyPrefixProfile  = "users:profile:"
	keyPrefixTelegram = "users:tg:"
	keyAllUsers       = "users:all"
)

type userRepository struct {
	client *redis.Client
}

func NewUserRepository(client *redis.Client) repository.UserRepository {
	return &userRepository{
		client: client,
	}
}

func profileKey(id string) string          { return keyPrefixProfile + id }
func telegramKey(telegramID string) string { return keyPrefixTelegram + telegramID }

func (r *userRepository) Create(ctx context.Context, user *models.UserProfile) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	// Claim the telegram id first so concurrent logins cannot create two profiles.
	claimed, err := r.client.SetNX(ctx, telegramKey(user.TelegramID), user.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to claim telegram id: %w", err)
	}
	if !claimed {
		return repository.ErrAlreadyExists
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, profileKey(user.ID), userJSON, 0)
	pipe.SAdd(ctx, keyAllUsers, user.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		r.client.Del(ctx, telegramKey(user.TelegramID))
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.UserProfile, error) {
	userJSON, err := r.client.Get(ctx, profileKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	var user models.UserProfile
	if err := json.Unmarshal(userJSON, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user %s: %w", id, err)
	}
	return &user, nil
}

func (r *userRepository) GetByTelegramID(ctx context.Context, telegramID string) (*models.UserProfile, error) {
	id, err := r.client.Get(ctx, telegramKey(telegramID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *userRepository) Update(ctx context.Context, user *models.UserProfile) error {
	user.UpdatedAt = time.Now().UTC()
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	return r.client.Set(ctx, profileKey(user.ID), userJSON, 0).Err()
}

func (r *userRepository) List(ctx context.Context) ([]*models.UserProfile, error) {
	ids, err := r.client.SMembers(ctx, keyAllUsers).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = profileKey(id)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	users := make([]*models.UserProfile, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var user models.UserProfile
		if err := json.Unmarshal([]byte(s), &user); err != nil {
			continue
		}
		users = append(users, &user)
	}
	return users, nil
}
