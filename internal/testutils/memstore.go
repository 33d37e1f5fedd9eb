// Package testutils provides in-memory stores for service and handler tests.
// They follow the same rules as the PostgreSQL repository: sentinel errors,
// owner scoping, ON DELETE CASCADE for comments and SET NULL for categories
// and assignees.
package testutils

import (
	"context"
	"sort"
	"sync"
	"time"

	"taskhub/internal/models"
	"taskhub/internal/repository"
)

type userRow struct {
	user models.User
	hash string
}

type taskRow struct {
	task       models.Task
	assignedTo *int
}

// MemDB is the shared state behind the in-memory stores.
type MemDB struct {
	mu         sync.Mutex
	now        func() time.Time
	seq        int
	users      map[int]*userRow
	categories map[int]models.Category
	tasks      map[int]*taskRow
	comments   map[int]models.Comment
}

func NewMemDB() *MemDB {
	return &MemDB{
		now:        time.Now,
		users:      map[int]*userRow{},
		categories: map[int]models.Category{},
		tasks:      map[int]*taskRow{},
		comments:   map[int]models.Comment{},
	}
}

// SetClock overrides the timestamp source used for created/updated fields.
func (db *MemDB) SetClock(now func() time.Time) {
	db.mu.Lock()
	db.now = now
	db.mu.Unlock()
}

func (db *MemDB) Users() *UserStore         { return &UserStore{db: db} }
func (db *MemDB) Categories() *CategoryStore { return &CategoryStore{db: db} }
func (db *MemDB) Tasks() *TaskStore         { return &TaskStore{db: db} }
func (db *MemDB) Comments() *CommentStore   { return &CommentStore{db: db} }

func (db *MemDB) nextID() int {
	db.seq++
	return db.seq
}

// hydrate fills the denormalized fields of a stored task.
func (db *MemDB) hydrate(r *taskRow) models.Task {
	t := r.task
	if u, ok := db.users[t.UserID]; ok {
		t.OwnerEmail = u.user.Email
	}
	t.Category = nil
	if t.CategoryID != nil {
		if c, ok := db.categories[*t.CategoryID]; ok {
			c := c
			t.Category = &c
		}
	}
	t.AssignedTo = nil
	if r.assignedTo != nil {
		if u, ok := db.users[*r.assignedTo]; ok {
			t.AssignedTo = &models.UserSummary{ID: u.user.ID, Email: u.user.Email}
		}
	}
	return t
}

func (db *MemDB) selectTasks(keep func(*taskRow) bool) []models.Task {
	out := []models.Task{}
	for _, r := range db.tasks {
		if keep(r) {
			out = append(out, db.hydrate(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type UserStore struct{ db *MemDB }

func (s *UserStore) Create(ctx context.Context, email, passwordHash, role string) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	// users.email is a plain UNIQUE column, so the comparison is case-sensitive.
	for _, r := range s.db.users {
		if r.user.Email == email {
			return nil, repository.ErrDuplicate
		}
	}
	now := s.db.now()
	u := models.User{ID: s.db.nextID(), Email: email, Role: role, CreatedAt: now, UpdatedAt: now}
	s.db.users[u.ID] = &userRow{user: u, hash: passwordHash}
	return &u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, string, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, r := range s.db.users {
		if r.user.Email == email {
			u := r.user
			return &u, r.hash, nil
		}
	}
	return nil, "", repository.ErrNotFound
}

func (s *UserStore) GetByID(ctx context.Context, id int) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	r, ok := s.db.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := r.user
	return &u, nil
}

func (s *UserStore) List(ctx context.Context) ([]models.UserSummary, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []models.UserSummary{}
	for _, r := range s.db.users {
		out = append(out, models.UserSummary{ID: r.user.ID, Email: r.user.Email})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *UserStore) UpdateProfile(ctx context.Context, id int, p models.Profile) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	r, ok := s.db.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if p.Bio != nil {
		r.user.Bio = p.Bio
	}
	if p.Avatar != nil {
		r.user.Avatar = p.Avatar
	}
	if p.PhoneNumber != nil {
		r.user.PhoneNumber = p.PhoneNumber
	}
	if p.Location != nil {
		r.user.Location = p.Location
	}
	r.user.UpdatedAt = s.db.now()
	u := r.user
	return &u, nil
}

// SetRole changes a user's role, e.g. to make a staff account.
func (s *UserStore) SetRole(id int, role string) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if r, ok := s.db.users[id]; ok {
		r.user.Role = role
	}
}

type CategoryStore struct{ db *MemDB }

func (s *CategoryStore) Create(ctx context.Context, c *models.Category) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.nameTaken(c.Name, 0) {
		return repository.ErrDuplicate
	}
	c.ID = s.db.nextID()
	s.db.categories[c.ID] = *c
	return nil
}

func (s *CategoryStore) Update(ctx context.Context, c *models.Category) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.categories[c.ID]; !ok {
		return repository.ErrNotFound
	}
	if s.nameTaken(c.Name, c.ID) {
		return repository.ErrDuplicate
	}
	s.db.categories[c.ID] = *c
	return nil
}

// Delete removes the category and detaches it from every task.
func (s *CategoryStore) Delete(ctx context.Context, id int) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.db.categories, id)
	for _, r := range s.db.tasks {
		if r.task.CategoryID != nil && *r.task.CategoryID == id {
			r.task.CategoryID = nil
		}
	}
	return nil
}

func (s *CategoryStore) GetByID(ctx context.Context, id int) (*models.Category, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	c, ok := s.db.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []models.Category{}
	for _, c := range s.db.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *CategoryStore) nameTaken(name string, exceptID int) bool {
	for _, c := range s.db.categories {
		if c.ID != exceptID && c.Name == name {
			return true
		}
	}
	return false
}

type TaskStore struct{ db *MemDB }

func (s *TaskStore) Create(ctx context.Context, t *models.Task) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.users[t.UserID]; !ok {
		return repository.ErrInvalidReference
	}
	if t.CategoryID != nil {
		if _, ok := s.db.categories[*t.CategoryID]; !ok {
			return repository.ErrInvalidReference
		}
	}
	now := s.db.now()
	row := &taskRow{task: *t}
	row.task.ID = s.db.nextID()
	row.task.CreatedAt = now
	row.task.UpdatedAt = now
	s.db.tasks[row.task.ID] = row
	*t = s.db.hydrate(row)
	return nil
}

func (s *TaskStore) GetByID(ctx context.Context, id int) (*models.Task, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	r, ok := s.db.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	t := s.db.hydrate(r)
	return &t, nil
}

func (s *TaskStore) GetForOwner(ctx context.Context, id, ownerID int) (*models.Task, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	r, ok := s.db.tasks[id]
	if !ok || r.task.UserID != ownerID {
		return nil, repository.ErrNotFound
	}
	t := s.db.hydrate(r)
	return &t, nil
}

func (s *TaskStore) Update(ctx context.Context, t *models.Task) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	r, ok := s.db.tasks[t.ID]
	if !ok || r.task.UserID != t.UserID {
		return repository.ErrNotFound
	}
	if t.CategoryID != nil {
		if _, ok := s.db.categories[*t.CategoryID]; !ok {
			return repository.ErrInvalidReference
		}
	}
	r.task.Title = t.Title
	r.task.Description = t.Description
	r.task.Status = t.Status
	r.task.CategoryID = t.CategoryID
	r.task.DueDate = t.DueDate
	r.task.UpdatedAt = s.db.now()
	*t = s.db.hydrate(r)
	return nil
}

// DeleteForOwner removes the task and its comments.
func (s *TaskStore) DeleteForOwner(ctx context.Context, id, ownerID int) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	r, ok := s.db.tasks[id]
	if !ok || r.task.UserID != ownerID {
		return repository.ErrNotFound
	}
	delete(s.db.tasks, id)
	for cid, c := range s.db.comments {
		if c.TaskID == id {
			delete(s.db.comments, cid)
		}
	}
	return nil
}

func (s *TaskStore) SetAssignee(ctx context.Context, id int, assigneeID *int) (*models.Task, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	r, ok := s.db.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if assigneeID != nil {
		if _, ok := s.db.users[*assigneeID]; !ok {
			return nil, repository.ErrInvalidReference
		}
		v := *assigneeID
		assigneeID = &v
	}
	r.assignedTo = assigneeID
	r.task.UpdatedAt = s.db.now()
	t := s.db.hydrate(r)
	return &t, nil
}

func (s *TaskStore) ListByOwner(ctx context.Context, ownerID int, f models.TaskFilter) ([]models.Task, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return s.db.selectTasks(func(r *taskRow) bool {
		return r.task.UserID == ownerID && matchesFilter(f, r.task)
	}), nil
}

func (s *TaskStore) ListAssignedTo(ctx context.Context, userID int) ([]models.Task, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return s.db.selectTasks(func(r *taskRow) bool {
		return r.assignedTo != nil && *r.assignedTo == userID
	}), nil
}

func (s *TaskStore) ListDueBetween(ctx context.Context, from, to time.Time) ([]models.Task, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := s.db.selectTasks(func(r *taskRow) bool {
		d := r.task.DueDate
		return d != nil && !d.Before(from) && !d.After(to)
	})
	sortByDue(out)
	return out, nil
}

func (s *TaskStore) ListPendingDueBefore(ctx context.Context, cutoff time.Time) ([]models.Task, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := s.db.selectTasks(func(r *taskRow) bool {
		d := r.task.DueDate
		return d != nil && !d.After(cutoff) && r.task.Status == models.StatusPending
	})
	sortByDue(out)
	return out, nil
}

func sortByDue(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].DueDate.Before(*tasks[j].DueDate)
	})
}

type CommentStore struct{ db *MemDB }

func (s *CommentStore) Create(ctx context.Context, c *models.Comment) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.tasks[c.TaskID]; !ok {
		return repository.ErrInvalidReference
	}
	u, ok := s.db.users[c.User.ID]
	if !ok {
		return repository.ErrInvalidReference
	}
	c.ID = s.db.nextID()
	c.User.Email = u.user.Email
	c.Timestamp = s.db.now()
	s.db.comments[c.ID] = *c
	return nil
}

func (s *CommentStore) GetByID(ctx context.Context, id int) (*models.Comment, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	c, ok := s.db.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

// ListByTask returns the task's comments, newest first.
func (s *CommentStore) ListByTask(ctx context.Context, taskID int) ([]models.Comment, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := []models.Comment{}
	for _, c := range s.db.comments {
		if c.TaskID == taskID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID > out[j].ID
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func (s *CommentStore) Delete(ctx context.Context, id int) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.comments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.db.comments, id)
	return nil
}

// matchesFilter evaluates f the way the repository WHERE clause does.
func matchesFilter(f models.TaskFilter, t models.Task) bool {
	if f.CategoryID != nil && (t.CategoryID == nil || *t.CategoryID != *f.CategoryID) {
		return false
	}
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.DueFrom == nil && f.DueBefore == nil && f.DueUntil == nil {
		return true
	}
	if t.DueDate == nil {
		return false
	}
	due := *t.DueDate
	if f.DueFrom != nil && due.Before(*f.DueFrom) {
		return false
	}
	if f.DueBefore != nil && !due.Before(*f.DueBefore) {
		return false
	}
	if f.DueUntil != nil && due.After(*f.DueUntil) {
		return false
	}
	return true
}
