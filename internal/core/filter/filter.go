// Package filter builds the dynamic search predicate for todos. A Filter is
// an ordered list of named clauses combined with AND; clause names make the
// composed predicate inspectable without touching a database.
package filter

import (
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"taskvault/internal/core/domain"
)

type Clause struct {
	Name string
	Pred sq.Sqlizer
}

type Filter struct {
	clauses []Clause
}

// New seeds the three non-negotiable clauses of every todo search: rows
// owned by ownerID, not soft-deleted, and root todos only. Request-derived
// clauses are ANDed on top and can never relax these.
func New(ownerID int64) *Filter {
	f := &Filter{}
	f.And("owner", sq.Eq{"user_id": ownerID})
	f.And("not_deleted", sq.Eq{"deleted_at": nil})
	f.And("root_only", sq.Eq{"parent_id": nil})
	return f
}

func (f *Filter) And(name string, pred sq.Sqlizer) *Filter {
	f.clauses = append(f.clauses, Clause{Name: name, Pred: pred})
	return f
}

func (f *Filter) Names() []string {
	names := make([]string, 0, len(f.clauses))
	for _, c := range f.clauses {
		names = append(names, c.Name)
	}
	return names
}

func (f *Filter) Has(name string) bool {
	for _, c := range f.clauses {
		if c.Name == name {
			return true
		}
	}
	return false
}

func (f *Filter) Build() sq.Sqlizer {
	and := make(sq.And, 0, len(f.clauses))
	for _, c := range f.clauses {
		and = append(and, c.Pred)
	}
	return and
}

// TodoSearch carries the optional search conditions after request parsing.
// Nil or empty fields contribute no clause.
type TodoSearch struct {
	Query      string
	Status     *domain.TodoStatus
	Priority   *domain.TodoPriority
	CategoryID *int64
	TagIDs     []int64
	DueFrom    *time.Time
	DueTo      *time.Time
}

// FromSearch composes the full predicate for a search request: the base
// clauses from New plus one clause per present condition.
func FromSearch(ownerID int64, s TodoSearch) *Filter {
	f := New(ownerID)

	if q := strings.TrimSpace(s.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		f.And("query", sq.Or{
			sq.Like{"LOWER(title)": pattern},
			sq.Like{"LOWER(description)": pattern},
		})
	}

	if s.Status != nil {
		f.And("status", sq.Eq{"status": *s.Status})
	}

	if s.Priority != nil {
		f.And("priority", sq.Eq{"priority": *s.Priority})
	}

	if s.CategoryID != nil {
		f.And("category", sq.Eq{"category_id": *s.CategoryID})
	}

	if len(s.TagIDs) > 0 {
		// Membership test through a subquery instead of a join, so a todo
		// carrying several matching tags still produces a single row.
		args := make([]interface{}, 0, len(s.TagIDs))
		for _, id := range s.TagIDs {
			args = append(args, id)
		}
		f.And("tags", sq.Expr(
			"id IN (SELECT todo_id FROM todo_tags WHERE tag_id IN ("+sq.Placeholders(len(args))+"))",
			args...,
		))
	}

	switch {
	case s.DueFrom != nil && s.DueTo != nil:
		f.And("due_between", sq.And{
			sq.GtOrEq{"due_date": *s.DueFrom},
			sq.LtOrEq{"due_date": *s.DueTo},
		})
	case s.DueFrom != nil:
		f.And("due_from", sq.GtOrEq{"due_date": *s.DueFrom})
	case s.DueTo != nil:
		f.And("due_to", sq.LtOrEq{"due_date": *s.DueTo})
	}

	return f
}
