package repository

import (
	"context"
	"database/sql"

	"taskhub/internal/models"
)

// CategoryRepository manages the global category table.
type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO categories (name, description) VALUES ($1, $2) RETURNING id",
		c.Name, c.Description,
	).Scan(&c.ID)
	return translate("create category", err)
}

func (r *CategoryRepository) Update(ctx context.Context, c *models.Category) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE categories SET name = $1, description = $2 WHERE id = $3",
		c.Name, c.Description, c.ID,
	)
	if err != nil {
		return translate("update category", err)
	}
	return expectAffected("update category", res)
}

// Delete removes the category. Tasks keep existing with category_id set to NULL
// by the ON DELETE SET NULL constraint.
func (r *CategoryRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		return translate("delete category", err)
	}
	return expectAffected("delete category", res)
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int) (*models.Category, error) {
	var c models.Category
	var desc sql.NullString
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, description FROM categories WHERE id = $1", id,
	).Scan(&c.ID, &c.Name, &desc)
	if err != nil {
		return nil, translate("get category", err)
	}
	c.Description = nullString(desc)
	return &c, nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, description FROM categories ORDER BY id")
	if err != nil {
		return nil, translate("list categories", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		var desc sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &desc); err != nil {
			return nil, translate("scan category", err)
		}
		c.Description = nullString(desc)
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("iterate categories", err)
	}
	return categories, nil
}
