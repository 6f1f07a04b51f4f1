package filter_test

import (
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"

	"taskvault/internal/core/domain"
	"taskvault/internal/core/filter"
)

func TestBaseClausesAlwaysPresent(t *testing.T) {
	f := filter.FromSearch(7, filter.TodoSearch{})

	assert.Equal(t, []string{"owner", "not_deleted", "root_only"}, f.Names())

	sql, args, err := sq.Select("id").From("todos").Where(f.Build()).ToSql()

	assert.NoError(t, err)
	assert.Contains(t, sql, "user_id = ?")
	assert.Contains(t, sql, "deleted_at IS NULL")
	assert.Contains(t, sql, "parent_id IS NULL")
	assert.Equal(t, []interface{}{int64(7)}, args)
}

func TestBlankQueryAddsNoClause(t *testing.T) {
	f := filter.FromSearch(1, filter.TodoSearch{Query: "   "})

	assert.False(t, f.Has("query"))
}

func TestQueryMatchesTitleOrDescriptionCaseInsensitive(t *testing.T) {
	f := filter.FromSearch(1, filter.TodoSearch{Query: " Groceries "})

	assert.True(t, f.Has("query"))

	sql, args, err := sq.Select("id").From("todos").Where(f.Build()).ToSql()

	assert.NoError(t, err)
	assert.Contains(t, sql, "LOWER(title) LIKE ?")
	assert.Contains(t, sql, "LOWER(description) LIKE ?")
	assert.Contains(t, args, "%groceries%")
}

func TestStatusPriorityCategoryClauses(t *testing.T) {
	status := domain.TodoStatusDone
	priority := domain.TodoPriorityHigh
	categoryID := int64(3)

	f := filter.FromSearch(1, filter.TodoSearch{
		Status:     &status,
		Priority:   &priority,
		CategoryID: &categoryID,
	})

	assert.Equal(t, []string{"owner", "not_deleted", "root_only", "status", "priority", "category"}, f.Names())
}

func TestTagClauseUsesSubquery(t *testing.T) {
	f := filter.FromSearch(1, filter.TodoSearch{TagIDs: []int64{4, 9}})

	sql, args, err := sq.Select("id").From("todos").Where(f.Build()).ToSql()

	assert.NoError(t, err)
	assert.Contains(t, sql, "id IN (SELECT todo_id FROM todo_tags WHERE tag_id IN (?,?))")
	assert.Contains(t, args, int64(4))
	assert.Contains(t, args, int64(9))
}

func TestDueDateBounds(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC)

	both := filter.FromSearch(1, filter.TodoSearch{DueFrom: &from, DueTo: &to})
	assert.True(t, both.Has("due_between"))

	onlyFrom := filter.FromSearch(1, filter.TodoSearch{DueFrom: &from})
	assert.True(t, onlyFrom.Has("due_from"))
	assert.False(t, onlyFrom.Has("due_between"))

	onlyTo := filter.FromSearch(1, filter.TodoSearch{DueTo: &to})
	assert.True(t, onlyTo.Has("due_to"))

	sql, _, err := sq.Select("id").From("todos").Where(onlyTo.Build()).ToSql()
	assert.NoError(t, err)
	assert.Contains(t, sql, "due_date <= ?")
}

func TestIncrementalAnd(t *testing.T) {
	f := filter.New(1)
	f.And("status", sq.Eq{"status": domain.TodoStatusPending})

	assert.Equal(t, 4, len(f.Names()))
	assert.True(t, f.Has("status"))
}
