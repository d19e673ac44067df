package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"telewall/internal/features/gift/models"
	"telewall/internal/features/gift/repository"
)

const (
	keyPrefixGift     = "gifts:item:"
	keyPrefixReceived = "gifts:received:"
)

type giftRepository struct {
	client *redis.Client
}

func NewGiftRepository(client *redis.Client) repository.GiftRepository {
	return &giftRepository{client: client}
}

func (r *giftRepository) Create(ctx context.Context, gift *models.Gift) error {
	data, err := json.Marshal(gift)
	if err != nil {
		return fmt.Errorf("failed to marshal gift: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, keyPrefixGift+gift.ID, data, 0)
	pipe.ZAdd(ctx, keyPrefixReceived+gift.ReceiverID, redis.Z{Score: float64(gift.CreatedAt.UnixMilli()), Member: gift.ID})
	_, err = pipe.Exec(ctx)
	return err
}

func (r *giftRepository) ListByReceiver(ctx context.Context, receiverID string, limit, offset int) ([]*models.Gift, error) {
	ids, err := r.client.ZRevRange(ctx, keyPrefixReceived+receiverID, int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, err
	}
	gifts := make([]*models.Gift, 0, len(ids))
	if len(ids) == 0 {
		return gifts, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = keyPrefixGift + id
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var gift models.Gift
		if err := json.Unmarshal([]byte(s), &gift); err != nil {
			continue
		}
		gifts = append(gifts, &gift)
	}
	return gifts, nil
}
