package models

import (
	"time"
)

// Role values stored in users.role. RoleAdmin is the staff privilege.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// Task status values.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Statuses lists the valid task statuses in display order.
var Statuses = []string{StatusPending, StatusInProgress, StatusCompleted}

// ValidStatus reports whether status is one of Statuses.
func ValidStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

type User struct {
	ID          int       `json:"id"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Bio         *string   `json:"bio"`
	Avatar      *string   `json:"avatar"`
	PhoneNumber *string   `json:"phone_number"`
	Location    *string   `json:"location"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Profile holds the mutable profile fields of a user.
type Profile struct {
	Bio         *string
	Avatar      *string
	PhoneNumber *string
	Location    *string
}

// UserSummary is the public view of a user embedded in other resources.
type UserSummary struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
}

// Identity is the authenticated caller taken from the access token.
type Identity struct {
	UserID int
	Role   string
}

func (i Identity) IsStaff() bool {
	return i.Role == RoleAdmin
}

type Category struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type Task struct {
	ID          int          `json:"id"`
	UserID      int          `json:"user"`
	OwnerEmail  string       `json:"-"`
	CategoryID  *int         `json:"category_id"`
	Category    *Category    `json:"category"`
	AssignedTo  *UserSummary `json:"assigned_to"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	Status      string       `json:"status"`
	DueDate     *time.Time   `json:"due_date"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type Comment struct {
	ID        int         `json:"id"`
	TaskID    int         `json:"task"`
	User      UserSummary `json:"user"`
	Text      string      `json:"text"`
	Timestamp time.Time   `json:"timestamp"`
}

// TaskFilter is a set of optional predicates over one owner's tasks.
// Nil fields are not applied; all applied fields are AND-ed.
type TaskFilter struct {
	CategoryID *int
	Status     *string
	// DueFrom is inclusive; DueBefore is exclusive; DueUntil is inclusive.
	DueFrom   *time.Time
	DueBefore *time.Time
	DueUntil  *time.Time
}
