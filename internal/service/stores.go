package service

import (
	"context"
	"time"

	"taskhub/internal/models"
)

// UserStore is the persistence contract for accounts.
type UserStore interface {
	Create(ctx context.Context, email, passwordHash, role string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, string, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	List(ctx context.Context) ([]models.UserSummary, error)
	UpdateProfile(ctx context.Context, id int, p models.Profile) (*models.User, error)
}

// CategoryStore is the persistence contract for the global category set.
type CategoryStore interface {
	Create(ctx context.Context, c *models.Category) error
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id int) error
	GetByID(ctx context.Context, id int) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
}

// TaskStore is the persistence contract for tasks. Methods with an owner
// argument must treat other owners' tasks as missing.
type TaskStore interface {
	Create(ctx context.Context, t *models.Task) error
	GetByID(ctx context.Context, id int) (*models.Task, error)
	GetForOwner(ctx context.Context, id, ownerID int) (*models.Task, error)
	Update(ctx context.Context, t *models.Task) error
	DeleteForOwner(ctx context.Context, id, ownerID int) error
	SetAssignee(ctx context.Context, id int, assigneeID *int) (*models.Task, error)
	ListByOwner(ctx context.Context, ownerID int, f models.TaskFilter) ([]models.Task, error)
	ListAssignedTo(ctx context.Context, userID int) ([]models.Task, error)
	ListDueBetween(ctx context.Context, from, to time.Time) ([]models.Task, error)
	ListPendingDueBefore(ctx context.Context, cutoff time.Time) ([]models.Task, error)
}

// CommentStore is the persistence contract for task comments.
type CommentStore interface {
	Create(ctx context.Context, c *models.Comment) error
	GetByID(ctx context.Context, id int) (*models.Comment, error)
	ListByTask(ctx context.Context, taskID int) ([]models.Comment, error)
	Delete(ctx context.Context, id int) error
}

// Event is pushed to connected clients of a single user.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Notifier delivers events to a user's live connections.
type Notifier interface {
	Notify(userID int, ev Event)
}

type nopNotifier struct{}

func (nopNotifier) Notify(int, Event) {}
