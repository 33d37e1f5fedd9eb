package repository

import (
	"context"
	"database/sql"
	"time"

	"taskhub/internal/models"
)

// TaskRepository handles CRUD and queries for tasks. Every owner-facing
// lookup carries the owner in its WHERE clause so other users' rows are
// indistinguishable from missing ones.
type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskSelect = `
SELECT t.id, t.user_id, u.email, t.category_id, c.name, c.description,
       t.assigned_to, a.email, t.title, t.description, t.status, t.due_date,
       t.created_at, t.updated_at
FROM tasks t
JOIN users u ON u.id = t.user_id
LEFT JOIN categories c ON c.id = t.category_id
LEFT JOIN users a ON a.id = t.assigned_to`

func (r *TaskRepository) Create(ctx context.Context, t *models.Task) error {
	var id int
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO tasks (user_id, category_id, title, description, status, due_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		t.UserID, t.CategoryID, t.Title, t.Description, t.Status, t.DueDate,
	).Scan(&id)
	if err != nil {
		return translate("create task", err)
	}

	created, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	*t = *created
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id int) (*models.Task, error) {
	return r.getOne(ctx, "get task", taskSelect+" WHERE t.id = $1", id)
}

func (r *TaskRepository) GetForOwner(ctx context.Context, id, ownerID int) (*models.Task, error) {
	return r.getOne(ctx, "get task", taskSelect+" WHERE t.id = $1 AND t.user_id = $2", id, ownerID)
}

// Update writes the mutable fields of an owner's task and reloads it.
func (r *TaskRepository) Update(ctx context.Context, t *models.Task) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, category_id = $4, due_date = $5, updated_at = NOW()
		WHERE id = $6 AND user_id = $7`,
		t.Title, t.Description, t.Status, t.CategoryID, t.DueDate, t.ID, t.UserID,
	)
	if err != nil {
		return translate("update task", err)
	}
	if err := expectAffected("update task", res); err != nil {
		return err
	}

	updated, err := r.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	*t = *updated
	return nil
}

// DeleteForOwner removes the task; comments go with it via ON DELETE CASCADE.
func (r *TaskRepository) DeleteForOwner(ctx context.Context, id, ownerID int) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = $1 AND user_id = $2", id, ownerID)
	if err != nil {
		return translate("delete task", err)
	}
	return expectAffected("delete task", res)
}

// SetAssignee sets or clears (nil) assigned_to in a single statement.
func (r *TaskRepository) SetAssignee(ctx context.Context, id int, assigneeID *int) (*models.Task, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE tasks SET assigned_to = $1, updated_at = NOW() WHERE id = $2",
		assigneeID, id,
	)
	if err != nil {
		return nil, translate("assign task", err)
	}
	if err := expectAffected("assign task", res); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// ListByOwner returns the owner's tasks matching every predicate of f.
func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID int, f models.TaskFilter) ([]models.Task, error) {
	where, args := buildTaskFilter(ownerID, f)
	return r.list(ctx, "list tasks", taskSelect+where+" ORDER BY t.id", args...)
}

func (r *TaskRepository) ListAssignedTo(ctx context.Context, userID int) ([]models.Task, error) {
	return r.list(ctx, "list assigned tasks", taskSelect+" WHERE t.assigned_to = $1 ORDER BY t.id", userID)
}

// ListDueBetween returns tasks of every owner with from <= due_date <= to.
func (r *TaskRepository) ListDueBetween(ctx context.Context, from, to time.Time) ([]models.Task, error) {
	return r.list(ctx, "list due tasks",
		taskSelect+" WHERE t.due_date >= $1 AND t.due_date <= $2 ORDER BY t.due_date ASC, t.id ASC",
		from, to)
}

// ListPendingDueBefore returns pending tasks of every owner with due_date <= cutoff.
func (r *TaskRepository) ListPendingDueBefore(ctx context.Context, cutoff time.Time) ([]models.Task, error) {
	return r.list(ctx, "list reminder tasks",
		taskSelect+" WHERE t.due_date <= $1 AND t.status = $2 ORDER BY t.due_date ASC, t.id ASC",
		cutoff, models.StatusPending)
}

func (r *TaskRepository) getOne(ctx context.Context, op, query string, args ...any) (*models.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, translate(op, err)
	}
	return t, nil
}

func (r *TaskRepository) list(ctx context.Context, op, query string, args ...any) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate(op, err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, translate(op, err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(op, err)
	}
	return tasks, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	var (
		t                      models.Task
		categoryID, assigneeID sql.NullInt64
		categoryName, catDesc  sql.NullString
		assigneeEmail, desc    sql.NullString
		due                    sql.NullTime
	)
	err := row.Scan(
		&t.ID, &t.UserID, &t.OwnerEmail, &categoryID, &categoryName, &catDesc,
		&assigneeID, &assigneeEmail, &t.Title, &desc, &t.Status, &due,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if categoryID.Valid {
		id := int(categoryID.Int64)
		t.CategoryID = &id
		t.Category = &models.Category{ID: id, Name: categoryName.String, Description: nullString(catDesc)}
	}
	if assigneeID.Valid {
		t.AssignedTo = &models.UserSummary{ID: int(assigneeID.Int64), Email: assigneeEmail.String}
	}
	t.Description = nullString(desc)
	if due.Valid {
		d := due.Time
		t.DueDate = &d
	}
	return &t, nil
}
