package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCRUD(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	c, err := e.categories.Create(ctx, CategoryInput{Name: " Work ", Description: strPtr("office")})
	require.NoError(t, err)
	assert.Equal(t, "Work", c.Name)

	got, err := e.categories.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "office", *got.Description)

	updated, err := e.categories.Update(ctx, c.ID, UpdateCategoryInput{Name: strPtr("Office")})
	require.NoError(t, err)
	assert.Equal(t, "Office", updated.Name)
	assert.Equal(t, "office", *updated.Description)

	cleared, err := e.categories.Update(ctx, c.ID, UpdateCategoryInput{Description: Null[string]()})
	require.NoError(t, err)
	assert.Equal(t, "Office", cleared.Name)
	assert.Nil(t, cleared.Description)

	list, err := e.categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, e.categories.Delete(ctx, c.ID))
	_, err = e.categories.Get(ctx, c.ID)
	se := requireKind(t, err, KindNotFound)
	assert.Equal(t, "Category not found", se.Message)

	err = e.categories.Delete(ctx, c.ID)
	requireKind(t, err, KindNotFound)
}

func TestCategoryValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.categories.Create(ctx, CategoryInput{Name: ""})
	se := requireKind(t, err, KindValidation)
	assert.Equal(t, "This field is required.", se.Fields["name"])

	_, err = e.categories.Create(ctx, CategoryInput{Name: "a very long category name"})
	se = requireKind(t, err, KindValidation)
	assert.Contains(t, se.Fields["name"], "20")

	_, err = e.categories.Create(ctx, CategoryInput{Name: "Home"})
	require.NoError(t, err)
	_, err = e.categories.Create(ctx, CategoryInput{Name: "Home"})
	se = requireKind(t, err, KindValidation)
	assert.Equal(t, "category with this name already exists.", se.Fields["name"])

	other, err := e.categories.Create(ctx, CategoryInput{Name: "Garden"})
	require.NoError(t, err)
	_, err = e.categories.Update(ctx, other.ID, UpdateCategoryInput{Name: strPtr("Home")})
	se = requireKind(t, err, KindValidation)
	assert.Equal(t, "category with this name already exists.", se.Fields["name"])
}

func TestDeleteCategoryKeepsTasks(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "owner@example.com")
	c, err := e.categories.Create(ctx, CategoryInput{Name: "Errands"})
	require.NoError(t, err)
	task := e.task(t, owner, "Buy milk", nil, withCategory(c.ID))
	require.NotNil(t, task.Category)

	require.NoError(t, e.categories.Delete(ctx, c.ID))

	got, err := e.tasks.Get(ctx, task.ID, owner.UserID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
	assert.Nil(t, got.Category)
}
