package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskhub/internal/models"
	"taskhub/pkg/logger"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCategories struct {
	listCalls  int
	categories []models.Category
	createErr  error
}

func (s *stubCategories) Create(ctx context.Context, c *models.Category) error {
	if s.createErr != nil {
		return s.createErr
	}
	c.ID = len(s.categories) + 1
	s.categories = append(s.categories, *c)
	return nil
}

func (s *stubCategories) Update(ctx context.Context, c *models.Category) error {
	for i := range s.categories {
		if s.categories[i].ID == c.ID {
			s.categories[i] = *c
			return nil
		}
	}
	return ErrNotFound
}

func (s *stubCategories) Delete(ctx context.Context, id int) error {
	for i := range s.categories {
		if s.categories[i].ID == id {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *stubCategories) GetByID(ctx context.Context, id int) (*models.Category, error) {
	for _, c := range s.categories {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (s *stubCategories) List(ctx context.Context) ([]models.Category, error) {
	s.listCalls++
	out := make([]models.Category, len(s.categories))
	copy(out, s.categories)
	return out, nil
}

func newTestCache(t *testing.T, base categoryBackend) (*CategoryCache, *miniredis.Miniredis) {
	t.Helper()
	logger.InitNopLoggers()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewCategoryCache(base, client, time.Minute), mr
}

func TestCategoryCacheListMissThenHit(t *testing.T) {
	base := &stubCategories{categories: []models.Category{{ID: 1, Name: "Work"}}}
	cache, mr := newTestCache(t, base)
	ctx := context.Background()

	first, err := cache.List(ctx)
	require.NoError(t, err)
	second, err := cache.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, base.listCalls)
	assert.True(t, mr.Exists(categoryListKey))
	assert.Equal(t, time.Minute, mr.TTL(categoryListKey))
}

func TestCategoryCacheWritesEvict(t *testing.T) {
	base := &stubCategories{categories: []models.Category{{ID: 1, Name: "Work"}}}
	cache, mr := newTestCache(t, base)
	ctx := context.Background()

	_, err := cache.List(ctx)
	require.NoError(t, err)
	require.True(t, mr.Exists(categoryListKey))

	require.NoError(t, cache.Create(ctx, &models.Category{Name: "Health"}))
	assert.False(t, mr.Exists(categoryListKey))

	list, err := cache.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, 2, base.listCalls)

	require.NoError(t, cache.Update(ctx, &models.Category{ID: 2, Name: "Fitness"}))
	assert.False(t, mr.Exists(categoryListKey))

	_, err = cache.List(ctx)
	require.NoError(t, err)
	require.NoError(t, cache.Delete(ctx, 1))
	assert.False(t, mr.Exists(categoryListKey))
}

func TestCategoryCacheFailedWriteKeepsCache(t *testing.T) {
	base := &stubCategories{createErr: ErrDuplicate}
	cache, mr := newTestCache(t, base)
	ctx := context.Background()

	_, err := cache.List(ctx)
	require.NoError(t, err)

	err = cache.Create(ctx, &models.Category{Name: "Work"})
	assert.True(t, errors.Is(err, ErrDuplicate))
	assert.True(t, mr.Exists(categoryListKey))
}

func TestCategoryCacheFallsBackWhenRedisDown(t *testing.T) {
	base := &stubCategories{categories: []models.Category{{ID: 1, Name: "Work"}}}
	cache, mr := newTestCache(t, base)
	mr.Close()

	list, err := cache.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
