package repository

import (
	"context"
	"encoding/json"
	"time"

	"taskhub/internal/models"
	"taskhub/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const categoryListKey = "categories:all"

type categoryBackend interface {
	Create(ctx context.Context, c *models.Category) error
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id int) error
	GetByID(ctx context.Context, id int) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
}

// CategoryCache wraps a category store with a Redis read-through cache for
// the full category list. Every write evicts the cached list.
type CategoryCache struct {
	base  categoryBackend
	redis *redis.Client
	ttl   time.Duration
}

func NewCategoryCache(base categoryBackend, client *redis.Client, ttl time.Duration) *CategoryCache {
	if base == nil {
		panic("repository.NewCategoryCache: base store is nil")
	}
	return &CategoryCache{base: base, redis: client, ttl: ttl}
}

func (c *CategoryCache) List(ctx context.Context) ([]models.Category, error) {
	if cached, err := c.redis.Get(ctx, categoryListKey).Result(); err == nil {
		var categories []models.Category
		if err := json.Unmarshal([]byte(cached), &categories); err == nil {
			return categories, nil
		}
	} else if err != redis.Nil {
		logger.ErrorLogger.Warn("Error reading category cache", zap.Error(err))
	}

	categories, err := c.base.List(ctx)
	if err != nil {
		return nil, err
	}

	// Simpan ke Redis dengan waktu kadaluarsa ttl
	if data, err := json.Marshal(categories); err == nil {
		if err := c.redis.Set(ctx, categoryListKey, data, c.ttl).Err(); err != nil {
			logger.ErrorLogger.Warn("Error caching categories", zap.Error(err))
		}
	}
	return categories, nil
}

func (c *CategoryCache) GetByID(ctx context.Context, id int) (*models.Category, error) {
	return c.base.GetByID(ctx, id)
}

func (c *CategoryCache) Create(ctx context.Context, cat *models.Category) error {
	if err := c.base.Create(ctx, cat); err != nil {
		return err
	}
	c.evict(ctx)
	return nil
}

func (c *CategoryCache) Update(ctx context.Context, cat *models.Category) error {
	if err := c.base.Update(ctx, cat); err != nil {
		return err
	}
	c.evict(ctx)
	return nil
}

func (c *CategoryCache) Delete(ctx context.Context, id int) error {
	if err := c.base.Delete(ctx, id); err != nil {
		return err
	}
	c.evict(ctx)
	return nil
}

func (c *CategoryCache) evict(ctx context.Context) {
	if err := c.redis.Del(ctx, categoryListKey).Err(); err != nil {
		logger.ErrorLogger.Warn("Error evicting category cache", zap.Error(err))
	}
}
