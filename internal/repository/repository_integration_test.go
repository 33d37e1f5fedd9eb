package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"taskhub/internal/models"
	"taskhub/pkg/database"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var (
	pgOnce     sync.Once
	pgDB       *sql.DB
	pgErr      error
	pgPool     *dockertest.Pool
	pgResource *dockertest.Resource
)

func TestMain(m *testing.M) {
	code := m.Run()
	if pgDB != nil {
		pgDB.Close()
	}
	if pgPool != nil && pgResource != nil {
		_ = pgPool.Purge(pgResource)
	}
	os.Exit(code)
}

// testDB starts one postgres container for the package and resets the schema
// for every caller. Tests are skipped in -short mode or without docker.
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	pgOnce.Do(func() {
		pgPool, pgErr = dockertest.NewPool("")
		if pgErr != nil {
			return
		}
		if pgErr = pgPool.Client.Ping(); pgErr != nil {
			return
		}
		pgResource, pgErr = pgPool.RunWithOptions(&dockertest.RunOptions{
			Repository: "postgres",
			Tag:        "16-alpine",
			Env: []string{
				"POSTGRES_USER=taskhub",
				"POSTGRES_PASSWORD=secret",
				"POSTGRES_DB=taskhub_test",
			},
		}, func(hc *docker.HostConfig) {
			hc.AutoRemove = true
			hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
		})
		if pgErr != nil {
			return
		}
		_ = pgResource.Expire(300)

		dsn := fmt.Sprintf("host=localhost port=%s user=taskhub password=secret dbname=taskhub_test sslmode=disable",
			pgResource.GetPort("5432/tcp"))
		pgPool.MaxWait = 2 * time.Minute
		pgErr = pgPool.Retry(func() error {
			var err error
			pgDB, err = database.Open(dsn)
			return err
		})
	})
	if pgErr != nil {
		t.Skipf("postgres unavailable: %v", pgErr)
	}

	require.NoError(t, DeleteAllTable(pgDB))
	require.NoError(t, CreateTableIfNotExists(pgDB))
	return pgDB
}

type fixture struct {
	users      *UserRepository
	categories *CategoryRepository
	tasks      *TaskRepository
	comments   *CommentRepository
}

func newFixture(t *testing.T) fixture {
	db := testDB(t)
	return fixture{
		users:      NewUserRepository(db, "test-key"),
		categories: NewCategoryRepository(db),
		tasks:      NewTaskRepository(db),
		comments:   NewCommentRepository(db),
	}
}

func (f fixture) user(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), email, "hash", models.RoleMember)
	require.NoError(t, err)
	return u
}

func (f fixture) task(t *testing.T, owner int, title string, due *time.Time, categoryID *int) *models.Task {
	t.Helper()
	task := &models.Task{UserID: owner, Title: title, Status: models.StatusPending, DueDate: due, CategoryID: categoryID}
	require.NoError(t, f.tasks.Create(context.Background(), task))
	return task
}

func TestUserRepositoryUniqueEmailAndProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.user(t, "a@example.com")
	_, err := f.users.Create(ctx, "a@example.com", "hash", models.RoleMember)
	assert.ErrorIs(t, err, ErrDuplicate)

	phone := "0812345"
	bio := "hello"
	updated, err := f.users.UpdateProfile(ctx, u.ID, models.Profile{Bio: &bio, PhoneNumber: &phone})
	require.NoError(t, err)
	assert.Equal(t, "hello", *updated.Bio)
	assert.Equal(t, "0812345", *updated.PhoneNumber)
	assert.Nil(t, updated.Location)

	var stored string
	require.NoError(t, pgDB.QueryRow("SELECT phone_number FROM users WHERE id = $1", u.ID).Scan(&stored))
	assert.NotEqual(t, "0812345", stored)

	_, hash, err := f.users.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "hash", hash)

	_, err = f.users.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateAdminUserUsesConfiguredCost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, CreateAdminUser(pgDB, "admin@example.com", "adminpass", bcrypt.MinCost+1))
	require.NoError(t, CreateAdminUser(pgDB, "admin@example.com", "other", bcrypt.MinCost))

	admin, hash, err := f.users.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost+1, cost)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("adminpass")))
}

func TestCategoryDeleteNullifiesTasks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")

	work := &models.Category{Name: "Work"}
	require.NoError(t, f.categories.Create(ctx, work))
	assert.ErrorIs(t, f.categories.Create(ctx, &models.Category{Name: "Work"}), ErrDuplicate)
	require.NoError(t, f.categories.Create(ctx, &models.Category{Name: "work"}))

	task := f.task(t, owner.ID, "Finish API", nil, &work.ID)
	require.NotNil(t, task.Category)
	assert.Equal(t, "Work", task.Category.Name)

	require.NoError(t, f.categories.Delete(ctx, work.ID))

	reloaded, err := f.tasks.GetForOwner(ctx, task.ID, owner.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.CategoryID)
	assert.Nil(t, reloaded.Category)

	assert.ErrorIs(t, f.categories.Delete(ctx, work.ID), ErrNotFound)
}

func TestTaskOwnershipScoping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	other := f.user(t, "other@example.com")
	task := f.task(t, owner.ID, "Private", nil, nil)

	_, err := f.tasks.GetForOwner(ctx, task.ID, other.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	task.UserID = other.ID
	task.Title = "Hijack"
	assert.ErrorIs(t, f.tasks.Update(ctx, task), ErrNotFound)
	assert.ErrorIs(t, f.tasks.DeleteForOwner(ctx, task.ID, other.ID), ErrNotFound)

	reloaded, err := f.tasks.GetForOwner(ctx, task.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Private", reloaded.Title)
	assert.False(t, reloaded.UpdatedAt.Before(reloaded.CreatedAt))
}

func TestTaskDeleteCascadesComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	task := f.task(t, owner.ID, "With comments", nil, nil)

	for _, text := range []string{"first", "second"} {
		require.NoError(t, f.comments.Create(ctx, &models.Comment{TaskID: task.ID, User: models.UserSummary{ID: owner.ID}, Text: text}))
	}
	comments, err := f.comments.ListByTask(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].Text)
	assert.Equal(t, "owner@example.com", comments[0].User.Email)

	require.NoError(t, f.tasks.DeleteForOwner(ctx, task.ID, owner.ID))

	var orphans int
	require.NoError(t, pgDB.QueryRow("SELECT COUNT(*) FROM task_comments WHERE task_id = $1", task.ID).Scan(&orphans))
	assert.Zero(t, orphans)
}

func TestTaskRejectsUnknownCategoryAndStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")

	missing := 4242
	err := f.tasks.Create(ctx, &models.Task{UserID: owner.ID, Title: "Bad", Status: models.StatusPending, CategoryID: &missing})
	assert.ErrorIs(t, err, ErrInvalidReference)

	err = f.tasks.Create(ctx, &models.Task{UserID: owner.ID, Title: "Bad", Status: "bogus"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestTaskAssignment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	helper := f.user(t, "helper@example.com")
	task := f.task(t, owner.ID, "Shared", nil, nil)

	assigned, err := f.tasks.SetAssignee(ctx, task.ID, &helper.ID)
	require.NoError(t, err)
	require.NotNil(t, assigned.AssignedTo)
	assert.Equal(t, "helper@example.com", assigned.AssignedTo.Email)

	mine, err := f.tasks.ListAssignedTo(ctx, helper.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	for i := 0; i < 2; i++ {
		cleared, err := f.tasks.SetAssignee(ctx, task.ID, nil)
		require.NoError(t, err)
		assert.Nil(t, cleared.AssignedTo)
	}

	_, err = f.tasks.SetAssignee(ctx, 9999, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskDueQueries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.user(t, "a@example.com")
	b := f.user(t, "b@example.com")

	todayStart := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	tomorrowEnd := todayStart.AddDate(0, 0, 1).Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	tomorrow := todayStart.AddDate(0, 0, 1).Add(9 * time.Hour)
	today := todayStart.Add(15 * time.Hour)
	past := tomorrowEnd.Add(time.Second)

	f.task(t, a.ID, "tomorrow", &tomorrow, nil)
	f.task(t, b.ID, "today", &today, nil)
	f.task(t, a.ID, "later", &past, nil)
	f.task(t, a.ID, "undated", nil, nil)

	soon, err := f.tasks.ListDueBetween(ctx, todayStart, tomorrowEnd)
	require.NoError(t, err)
	require.Len(t, soon, 2)
	assert.Equal(t, "today", soon[0].Title)
	assert.Equal(t, "tomorrow", soon[1].Title)

	pending, err := f.tasks.ListPendingDueBefore(ctx, today.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "b@example.com", pending[0].OwnerEmail)
}

func TestTaskListByOwnerFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	other := f.user(t, "other@example.com")

	work := &models.Category{Name: "Work"}
	require.NoError(t, f.categories.Create(ctx, work))

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	noon := day.Add(12 * time.Hour)
	next := day.AddDate(0, 0, 1).Add(time.Hour)

	f.task(t, owner.ID, "work noon", &noon, &work.ID)
	f.task(t, owner.ID, "home next", &next, nil)
	f.task(t, other.ID, "other work", &noon, &work.ID)

	all, err := f.tasks.ListByOwner(ctx, owner.ID, models.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byCat, err := f.tasks.ListByOwner(ctx, owner.ID, models.TaskFilter{CategoryID: &work.ID})
	require.NoError(t, err)
	require.Len(t, byCat, 1)
	assert.Equal(t, "work noon", byCat[0].Title)

	nextDay := day.AddDate(0, 0, 1)
	onDay, err := f.tasks.ListByOwner(ctx, owner.ID, models.TaskFilter{DueFrom: &day, DueBefore: &nextDay})
	require.NoError(t, err)
	require.Len(t, onDay, 1)
	assert.Equal(t, "work noon", onDay[0].Title)

	completed := models.StatusCompleted
	none, err := f.tasks.ListByOwner(ctx, owner.ID, models.TaskFilter{Status: &completed})
	require.NoError(t, err)
	assert.Empty(t, none)
}
