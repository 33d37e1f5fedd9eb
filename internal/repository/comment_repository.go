package repository

import (
	"context"
	"database/sql"

	"taskhub/internal/models"
)

type CommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

const commentSelect = `
SELECT tc.id, tc.task_id, tc.user_id, u.email, tc.text, tc.timestamp
FROM task_comments tc
JOIN users u ON u.id = tc.user_id`

func (r *CommentRepository) Create(ctx context.Context, c *models.Comment) error {
	var id int
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO task_comments (task_id, user_id, text) VALUES ($1, $2, $3) RETURNING id",
		c.TaskID, c.User.ID, c.Text,
	).Scan(&id)
	if err != nil {
		return translate("create comment", err)
	}

	created, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	*c = *created
	return nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id int) (*models.Comment, error) {
	var c models.Comment
	err := r.db.QueryRowContext(ctx, commentSelect+" WHERE tc.id = $1", id).
		Scan(&c.ID, &c.TaskID, &c.User.ID, &c.User.Email, &c.Text, &c.Timestamp)
	if err != nil {
		return nil, translate("get comment", err)
	}
	return &c, nil
}

// ListByTask returns the task's comments, newest first.
func (r *CommentRepository) ListByTask(ctx context.Context, taskID int) ([]models.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		commentSelect+" WHERE tc.task_id = $1 ORDER BY tc.timestamp DESC, tc.id DESC", taskID)
	if err != nil {
		return nil, translate("list comments", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.User.ID, &c.User.Email, &c.Text, &c.Timestamp); err != nil {
			return nil, translate("scan comment", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("iterate comments", err)
	}
	return comments, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM task_comments WHERE id = $1", id)
	if err != nil {
		return translate("delete comment", err)
	}
	return expectAffected("delete comment", res)
}
