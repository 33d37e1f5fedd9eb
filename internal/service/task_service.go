package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"taskhub/internal/models"
	"taskhub/internal/repository"
)

const (
	// undefinedParam is sent by the web client for unset filter values.
	undefinedParam = "undefined"
	dueDateLayout  = "2006-01-02"
)

// TaskService implements task CRUD, filtering, due-soon selection and assignment.
type TaskService struct {
	tasks      TaskStore
	categories CategoryStore
	users      UserStore
	notifier   Notifier
	now        func() time.Time
	loc        *time.Location
}

func NewTaskService(tasks TaskStore, categories CategoryStore, users UserStore, notifier Notifier, now func() time.Time, loc *time.Location) *TaskService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &TaskService{tasks: tasks, categories: categories, users: users, notifier: notifier, now: now, loc: loc}
}

type CreateTaskInput struct {
	Title       string     `json:"title" validate:"required,min=3,max=255"`
	Description *string    `json:"description"`
	Status      string     `json:"status" validate:"omitempty,taskstatus"`
	CategoryID  *int       `json:"category_id"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateTaskInput is a partial update. Absent fields keep their value; an
// explicit null clears description, category_id or due_date.
type UpdateTaskInput struct {
	Title       *string             `json:"title" validate:"omitempty,min=3,max=255"`
	Description Optional[string]    `json:"description"`
	Status      *string             `json:"status" validate:"omitempty,taskstatus"`
	CategoryID  Optional[int]       `json:"category_id"`
	DueDate     Optional[time.Time] `json:"due_date"`
}

// FilterParams are the raw query parameters of the filter endpoint.
type FilterParams struct {
	CategoryID   string
	Status       string
	DueDate      string
	DueWithin24h string
}

func (s *TaskService) Create(ctx context.Context, ownerID int, in CreateTaskInput) (*models.Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, FieldError("title", "This field is required.")
	}
	if err := validate(in); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = models.StatusPending
	}
	task := &models.Task{
		UserID:      ownerID,
		CategoryID:  in.CategoryID,
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		DueDate:     in.DueDate,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			return nil, invalidCategory(in.CategoryID)
		}
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

func (s *TaskService) Get(ctx context.Context, id, ownerID int) (*models.Task, error) {
	task, err := s.tasks.GetForOwner(ctx, id, ownerID)
	if err != nil {
		return nil, taskLookupError(err)
	}
	return task, nil
}

func (s *TaskService) List(ctx context.Context, ownerID int) ([]models.Task, error) {
	return s.tasks.ListByOwner(ctx, ownerID, models.TaskFilter{})
}

func (s *TaskService) Update(ctx context.Context, id, ownerID int, in UpdateTaskInput) (*models.Task, error) {
	if in.Title != nil {
		trimmed := strings.TrimSpace(*in.Title)
		in.Title = &trimmed
		if trimmed == "" {
			return nil, FieldError("title", "This field may not be blank.")
		}
	}
	if err := validate(in); err != nil {
		return nil, err
	}

	task, err := s.tasks.GetForOwner(ctx, id, ownerID)
	if err != nil {
		return nil, taskLookupError(err)
	}
	if err := s.checkCategory(ctx, in.CategoryID.Value); err != nil {
		return nil, err
	}

	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Status != nil {
		task.Status = *in.Status
	}
	in.Description.apply(&task.Description)
	in.CategoryID.apply(&task.CategoryID)
	in.DueDate.apply(&task.DueDate)

	if err := s.tasks.Update(ctx, task); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, taskLookupError(err)
		case errors.Is(err, repository.ErrInvalidReference):
			return nil, invalidCategory(in.CategoryID.Value)
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, id, ownerID int) error {
	if err := s.tasks.DeleteForOwner(ctx, id, ownerID); err != nil {
		return taskLookupError(err)
	}
	return nil
}

// ByCategory returns the caller's tasks in an existing category.
func (s *TaskService) ByCategory(ctx context.Context, ownerID, categoryID int) ([]models.Task, error) {
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFoundError("Category not found", err)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return s.tasks.ListByOwner(ctx, ownerID, models.TaskFilter{CategoryID: &categoryID})
}

// Filter parses the raw parameters into a TaskFilter and applies it to the
// caller's tasks.
func (s *TaskService) Filter(ctx context.Context, ownerID int, p FilterParams) ([]models.Task, error) {
	f, err := s.ParseFilter(p)
	if err != nil {
		return nil, err
	}
	return s.tasks.ListByOwner(ctx, ownerID, f)
}

// ParseFilter validates p. due_date selects one calendar day in the server
// location. due_within_24h compares against calendar dates: from today's
// midnight up to and including tomorrow's midnight.
func (s *TaskService) ParseFilter(p FilterParams) (models.TaskFilter, error) {
	var f models.TaskFilter

	if v := param(p.CategoryID); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return f, FieldError("category_id", "A valid integer is required.")
		}
		f.CategoryID = &id
	}

	if v := param(p.Status); v != "" {
		if !models.ValidStatus(v) {
			return f, ValidationError("Invalid status filter. Choose from: " + statusChoices + ".")
		}
		f.Status = &v
	}

	if v := param(p.DueDate); v != "" {
		day, err := time.ParseInLocation(dueDateLayout, v, s.loc)
		if err != nil {
			return f, ValidationError("Invalid date format. Use YYYY-MM-DD.")
		}
		next := day.AddDate(0, 0, 1)
		f.DueFrom = &day
		f.DueBefore = &next
	}

	if strings.EqualFold(p.DueWithin24h, "true") {
		now := s.now().In(s.loc)
		today := startOfDay(now)
		tomorrow := startOfDay(now.AddDate(0, 0, 1))
		f.DueFrom = later(f.DueFrom, today)
		f.DueUntil = &tomorrow
	}

	return f, nil
}

// DueSoonWindow returns [start of today, end of tomorrow] in the server location.
func (s *TaskService) DueSoonWindow() (time.Time, time.Time) {
	todayStart := startOfDay(s.now().In(s.loc))
	tomorrowEnd := todayStart.AddDate(0, 0, 1).Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	return todayStart, tomorrowEnd
}

// DueSoon returns tasks of every owner due today or tomorrow, earliest first.
func (s *TaskService) DueSoon(ctx context.Context) ([]models.Task, error) {
	from, to := s.DueSoonWindow()
	return s.tasks.ListDueBetween(ctx, from, to)
}

// Assign sets the assignee of a task, or clears it when userID is nil.
// Only the owner or a staff user may change it.
func (s *TaskService) Assign(ctx context.Context, taskID int, requester models.Identity, userID *int) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFoundError("Task not found.", err)
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task.UserID != requester.UserID && !requester.IsStaff() {
		return nil, PermissionError("You do not have permission to modify this task.")
	}

	if userID != nil {
		if _, err := s.users.GetByID(ctx, *userID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, NotFoundError("User not found.", err)
			}
			return nil, fmt.Errorf("get user: %w", err)
		}
	}

	updated, err := s.tasks.SetAssignee(ctx, taskID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFoundError("Task not found.", err)
		}
		return nil, fmt.Errorf("assign task: %w", err)
	}

	if userID != nil {
		s.notifier.Notify(*userID, Event{Type: "task.assigned", Data: updated})
	}
	return updated, nil
}

func (s *TaskService) AssignedTo(ctx context.Context, userID int) ([]models.Task, error) {
	return s.tasks.ListAssignedTo(ctx, userID)
}

func (s *TaskService) checkCategory(ctx context.Context, id *int) error {
	if id == nil {
		return nil
	}
	if _, err := s.categories.GetByID(ctx, *id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return invalidCategory(id)
		}
		return fmt.Errorf("get category: %w", err)
	}
	return nil
}

func invalidCategory(id *int) *Error {
	v := 0
	if id != nil {
		v = *id
	}
	return FieldError("category_id", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", v))
}

func taskLookupError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return NotFoundError("Task not found", err)
	}
	return fmt.Errorf("task lookup: %w", err)
}

func param(v string) string {
	v = strings.TrimSpace(v)
	if v == undefinedParam {
		return ""
	}
	return v
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func later(cur *time.Time, t time.Time) *time.Time {
	if cur != nil && cur.After(t) {
		return cur
	}
	return &t
}
