package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"taskhub/internal/models"
	"taskhub/internal/repository"
)

const duplicateCategoryMessage = "category with this name already exists."

// CategoryService manages the global category namespace.
type CategoryService struct {
	categories CategoryStore
}

func NewCategoryService(categories CategoryStore) *CategoryService {
	return &CategoryService{categories: categories}
}

type CategoryInput struct {
	Name        string  `json:"name" validate:"required,max=20"`
	Description *string `json:"description"`
}

type UpdateCategoryInput struct {
	Name        *string          `json:"name" validate:"omitempty,max=20"`
	Description Optional[string] `json:"description"`
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validate(in); err != nil {
		return nil, err
	}

	c := &models.Category{Name: in.Name, Description: in.Description}
	if err := s.categories.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, FieldError("name", duplicateCategoryMessage)
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id int) (*models.Category, error) {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, categoryLookupError(err)
	}
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id int, in UpdateCategoryInput) (*models.Category, error) {
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		if trimmed == "" {
			return nil, FieldError("name", "This field may not be blank.")
		}
		in.Name = &trimmed
	}
	if err := validate(in); err != nil {
		return nil, err
	}

	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, categoryLookupError(err)
	}
	if in.Name != nil {
		c.Name = *in.Name
	}
	in.Description.apply(&c.Description)

	if err := s.categories.Update(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, FieldError("name", duplicateCategoryMessage)
		}
		return nil, categoryLookupError(err)
	}
	return c, nil
}

// Delete removes a category; its tasks survive with no category.
func (s *CategoryService) Delete(ctx context.Context, id int) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return categoryLookupError(err)
	}
	return nil
}

func categoryLookupError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return NotFoundError("Category not found", err)
	}
	return fmt.Errorf("category lookup: %w", err)
}
