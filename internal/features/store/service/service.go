package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"telewall/internal/common/cache"
	"telewall/internal/features/store/models"
	"telewall/internal/features/store/repository"
)

const listCacheTTL = 30 * time.Second

var (
	ErrItemNotFound = errors.New("store item not found")
	ErrItemInactive = errors.New("store item is not available")
)

type StoreService interface {
	// Seed writes items when the catalog is empty and reports how many were written.
	Seed(ctx context.Context, items []models.StoreItem) (int, error)
	ListItems(ctx context.Context, activeOnly bool) ([]*models.StoreItem, error)
	// GetPurchasable returns an active item or ErrItemNotFound / ErrItemInactive.
	GetPurchasable(ctx context.Context, id string) (*models.StoreItem, error)
}

type storeService struct {
	repo   repository.StoreRepository
	cache  *cache.CacheService
	logger zerolog.Logger
}

func NewStoreService(repo repository.StoreRepository, cache *cache.CacheService, logger zerolog.Logger) StoreService {
	return &storeService{
		repo:   repo,
		cache:  cache,
		logger: logger.With().Str("component", "store_service").Logger(),
	}
}

const listCacheFamily = "store_items"

func listCacheKey(activeOnly bool) string {
	return listCacheFamily + ":" + strconv.FormatBool(activeOnly)
}

func (s *storeService) Seed(ctx context.Context, items []models.StoreItem) (int, error) {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list catalog: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for i := range items {
		if err := s.repo.Save(ctx, &items[i], i); err != nil {
			return i, fmt.Errorf("save %s: %w", items[i].ID, err)
		}
	}
	if s.cache != nil {
		_ = s.cache.DeletePattern(ctx, listCacheFamily+":*")
	}

	s.logger.Info().Int("items", len(items)).Msg("Store catalog seeded")
	return len(items), nil
}

func (s *storeService) ListItems(ctx context.Context, activeOnly bool) ([]*models.StoreItem, error) {
	load := func() (interface{}, error) {
		all, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		if !activeOnly {
			return all, nil
		}
		active := make([]*models.StoreItem, 0, len(all))
		for _, item := range all {
			if item.IsActive {
				active = append(active, item)
			}
		}
		return active, nil
	}

	if s.cache == nil {
		v, err := load()
		if err != nil {
			return nil, err
		}
		return v.([]*models.StoreItem), nil
	}

	var items []*models.StoreItem
	if err := s.cache.GetOrSet(ctx, listCacheKey(activeOnly), &items, listCacheTTL, load); err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.StoreItem{}
	}
	return items, nil
}

func (s *storeService) GetPurchasable(ctx context.Context, id string) (*models.StoreItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get store item %s: %w", id, err)
	}
	if !item.IsActive {
		return nil, ErrItemInactive
	}
	return item, nil
}
