package repository

import (
	"testing"
	"time"

	"taskhub/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestBuildTaskFilterOwnerOnly(t *testing.T) {
	where, args := buildTaskFilter(7, models.TaskFilter{})

	assert.Equal(t, " WHERE t.user_id = $1", where)
	assert.Equal(t, []any{7}, args)
}

func TestBuildTaskFilterAllPredicates(t *testing.T) {
	cat := 3
	status := models.StatusCompleted
	from := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	before := from.AddDate(0, 0, 1)
	until := from.AddDate(0, 0, 2)

	where, args := buildTaskFilter(7, models.TaskFilter{
		CategoryID: &cat,
		Status:     &status,
		DueFrom:    &from,
		DueBefore:  &before,
		DueUntil:   &until,
	})

	assert.Equal(t,
		" WHERE t.user_id = $1 AND t.category_id = $2 AND t.status = $3"+
			" AND t.due_date >= $4 AND t.due_date < $5 AND t.due_date <= $6",
		where)
	assert.Equal(t, []any{7, 3, "completed", from, before, until}, args)
}

func TestBuildTaskFilterKeepsPlaceholdersDense(t *testing.T) {
	status := models.StatusPending
	until := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	where, args := buildTaskFilter(1, models.TaskFilter{Status: &status, DueUntil: &until})

	assert.Equal(t, " WHERE t.user_id = $1 AND t.status = $2 AND t.due_date <= $3", where)
	assert.Len(t, args, 3)
}
