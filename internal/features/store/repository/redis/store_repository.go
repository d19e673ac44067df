package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"telewall/internal/features/store/models"
	"telewall/internal/features/store/repository"
)

const (
	keyPrefixItem = "store:item:"
	keyCatalog    = "store:catalog"
)

type storeRepository struct {
	client *redis.Client
}

func NewStoreRepository(client *redis.Client) repository.StoreRepository {
	return &storeRepository{client: client}
}

func (r *storeRepository) Save(ctx context.Context, item *models.StoreItem, position int) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal store item: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, keyPrefixItem+item.ID, data, 0)
	pipe.ZAdd(ctx, keyCatalog, redis.Z{Score: float64(position), Member: item.ID})
	_, err = pipe.Exec(ctx)
	return err
}

func (r *storeRepository) GetByID(ctx context.Context, id string) (*models.StoreItem, error) {
	data, err := r.client.Get(ctx, keyPrefixItem+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var item models.StoreItem
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal store item %s: %w", id, err)
	}
	return &item, nil
}

func (r *storeRepository) List(ctx context.Context) ([]*models.StoreItem, error) {
	ids, err := r.client.ZRange(ctx, keyCatalog, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	items := make([]*models.StoreItem, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = keyPrefixItem + id
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
		var item models.StoreItem
		if err := json.Unmarshal([]byte(s), &item); err != nil {
			continue
		}
		items = append(items, &item)
	}
	return items, nil
}
