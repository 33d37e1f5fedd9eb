package repository

import (
	"fmt"
	"strings"

	"taskhub/internal/models"
)

// whereBuilder accumulates AND-ed predicates with positional parameters.
type whereBuilder struct {
	clauses []string
	args    []any
}

func (w *whereBuilder) add(format string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, fmt.Sprintf(format, len(w.args)))
}

func (w *whereBuilder) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// buildTaskFilter renders the owner scope plus every set predicate of f.
func buildTaskFilter(ownerID int, f models.TaskFilter) (string, []any) {
	w := &whereBuilder{}
	w.add("t.user_id = $%d", ownerID)
	if f.CategoryID != nil {
		w.add("t.category_id = $%d", *f.CategoryID)
	}
	if f.Status != nil {
		w.add("t.status = $%d", *f.Status)
	}
	if f.DueFrom != nil {
		w.add("t.due_date >= $%d", *f.DueFrom)
	}
	if f.DueBefore != nil {
		w.add("t.due_date < $%d", *f.DueBefore)
	}
	if f.DueUntil != nil {
		w.add("t.due_date <= $%d", *f.DueUntil)
	}
	return w.String(), w.args
}
