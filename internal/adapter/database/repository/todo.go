package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"go.opentelemetry.io/otel/attribute"

	"taskvault/internal/adapter/database"
	"taskvault/internal/core/domain"
	"taskvault/internal/core/filter"
	"taskvault/internal/core/port"
	"taskvault/internal/core/util"
	"taskvault/pkg/tracing"
)

var todoColumns = []string{
	"id", "user_id", "title", "description", "status", "priority",
	"due_date", "remind_at", "estimated_minutes", "category_id", "parent_id",
	"deleted_at", "created_at", "created_by", "updated_at", "updated_by",
}

// smartOrder is the fixed default listing order: in-progress work first,
// then pending, then finished; earliest due date next with missing due
// dates pushed to the end, most recently touched first as tie-break.
const smartOrder = "CASE WHEN status = 'IN_PROGRESS' THEN 0 WHEN status = 'PENDING' THEN 1 ELSE 2 END, " +
	"COALESCE(due_date, '2999-12-31 23:59:59'), updated_at DESC"

var todoSortColumns = map[string]string{
	"title":      "title",
	"status":     "status",
	"priority":   "priority",
	"dueDate":    "due_date",
	"createdAt":  "created_at",
	"updatedAt":  "updated_at",
	"deletedAt":  "deleted_at",
	"due_date":   "due_date",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

type TodoRepository struct {
	db *database.DB
}

func NewTodoRepository(db *database.DB) port.TodoRepository {
	return &TodoRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (domain.Todo, error) {
	var t domain.Todo

	err := row.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.DueDate, &t.RemindAt, &t.EstimatedMinutes, &t.CategoryID, &t.ParentID,
		&t.DeletedAt, &t.CreatedAt, &t.CreatedBy, &t.UpdatedAt, &t.UpdatedBy,
	)

	return t, err
}

func (tr *TodoRepository) Create(ctx context.Context, todo domain.Todo, tagIDs []int64) (domain.Todo, error) {
	ctx, span := tracing.CreateChildSpan(ctx, "db.todo.Create", []attribute.KeyValue{
		attribute.String("db.table", "todos"),
		attribute.String("db.operation", "INSERT"),
		attribute.Int64("user.id", todo.UserID),
	})
	defer span.End()

	err := tr.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, args, err := tr.db.Builder.Insert("todos").
			Columns("user_id", "title", "description", "status", "priority",
				"due_date", "remind_at", "estimated_minutes", "category_id", "parent_id",
				"created_at", "created_by", "updated_at", "updated_by").
			Values(todo.UserID, todo.Title, todo.Description, todo.Status, todo.Priority,
				todo.DueDate, todo.RemindAt, todo.EstimatedMinutes, todo.CategoryID, todo.ParentID,
				todo.CreatedAt, todo.CreatedBy, todo.UpdatedAt, todo.UpdatedBy).
			Suffix("RETURNING id").
			ToSql()

		if err != nil {
			return err
		}

		if err := tx.QueryRowContext(ctx, stmt, args...).Scan(&todo.ID); err != nil {
			return err
		}

		return insertTodoTags(ctx, tx, tr.db.Builder, todo.ID, tagIDs)
	})

	if err != nil {
		tracing.AddSpanError(span, err)
		slog.Error("Error creating todo", "error", err)
		return domain.Todo{}, err
	}

	return todo, nil
}

func (tr *TodoRepository) Update(ctx context.Context, todo domain.Todo, tagIDs []int64) (domain.Todo, error) {
	err := tr.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, args, err := tr.db.Builder.Update("todos").
			SetMap(map[string]interface{}{
				"title":             todo.Title,
				"description":       todo.Description,
				"status":            todo.Status,
				"priority":          todo.Priority,
				"due_date":          todo.DueDate,
				"remind_at":         todo.RemindAt,
				"estimated_minutes": todo.EstimatedMinutes,
				"category_id":       todo.CategoryID,
				"updated_at":        todo.UpdatedAt,
				"updated_by":        todo.UpdatedBy,
			}).
			Where(sq.Eq{"id": todo.ID}).
			ToSql()

		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, stmt, args...)

		if err != nil {
			return err
		}

		if affected, _ := result.RowsAffected(); affected == 0 {
			return domain.NotFoundf("todo %d not found", todo.ID)
		}

		del, delArgs, err := tr.db.Builder.Delete("todo_tags").
			Where(sq.Eq{"todo_id": todo.ID}).
			ToSql()

		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, del, delArgs...); err != nil {
			return err
		}

		return insertTodoTags(ctx, tx, tr.db.Builder, todo.ID, tagIDs)
	})

	if err != nil {
		slog.Error("Error updating todo", "error", err, "todo_id", todo.ID)
		return domain.Todo{}, err
	}

	return todo, nil
}

func insertTodoTags(ctx context.Context, tx *sql.Tx, builder sq.StatementBuilderType, todoID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}

	insert := builder.Insert("todo_tags").Columns("todo_id", "tag_id")

	for _, tagID := range tagIDs {
		insert = insert.Values(todoID, tagID)
	}

	stmt, args, err := insert.ToSql()

	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, stmt, args...)

	return err
}

func (tr *TodoRepository) GetByIDAndOwner(ctx context.Context, id, ownerID int64, includeDeleted bool) (domain.Todo, error) {
	query := tr.db.Builder.Select(todoColumns...).
		From("todos").
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"user_id": ownerID})

	if !includeDeleted {
		query = query.Where(sq.Eq{"deleted_at": nil})
	}

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.Todo{}, err
	}

	todo, err := scanTodo(tr.db.QueryRowContext(ctx, stmt, args...))

	if err != nil {
		return domain.Todo{}, notFound(err, "todo %d not found", id)
	}

	return todo, nil
}

func (tr *TodoRepository) GetByID(ctx context.Context, id int64) (domain.Todo, error) {
	stmt, args, err := tr.db.Builder.Select(todoColumns...).
		From("todos").
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		return domain.Todo{}, err
	}

	todo, err := scanTodo(tr.db.QueryRowContext(ctx, stmt, args...))

	if err != nil {
		return domain.Todo{}, notFound(err, "todo %d not found", id)
	}

	return todo, nil
}

func (tr *TodoRepository) SetDeletedAt(ctx context.Context, id int64, deletedAt *time.Time, updatedBy int64) error {
	stmt, args, err := tr.db.Builder.Update("todos").
		Set("deleted_at", deletedAt).
		Set("updated_at", time.Now().UTC()).
		Set("updated_by", updatedBy).
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		return err
	}

	result, err := tr.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		return err
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.NotFoundf("todo %d not found", id)
	}

	return nil
}

func (tr *TodoRepository) UpdateStatus(ctx context.Context, id int64, status domain.TodoStatus, updatedBy int64) error {
	stmt, args, err := tr.db.Builder.Update("todos").
		Set("status", status).
		Set("updated_at", time.Now().UTC()).
		Set("updated_by", updatedBy).
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		return err
	}

	result, err := tr.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		return err
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.NotFoundf("todo %d not found", id)
	}

	return nil
}

func (tr *TodoRepository) ListActive(ctx context.Context, ownerID int64, page util.PageRequest) ([]domain.Todo, int64, error) {
	ctx, span := tracing.CreateChildSpan(ctx, "db.todo.ListActive", []attribute.KeyValue{
		attribute.String("db.table", "todos"),
		attribute.String("db.operation", "SELECT"),
		attribute.Int64("user.id", ownerID),
	})
	defer span.End()

	where := sq.And{sq.Eq{"user_id": ownerID}, sq.Eq{"deleted_at": nil}}

	// Caller-supplied sort specs are ignored here; the smart ordering is
	// fixed for the default listing.
	todos, err := tr.queryTodos(ctx, where, smartOrder, page)

	if err != nil {
		tracing.AddSpanError(span, err)
		return nil, 0, err
	}

	total, err := tr.countTodos(ctx, where)

	if err != nil {
		return nil, 0, err
	}

	span.SetAttributes(attribute.Int("db.rows_returned", len(todos)))

	return todos, total, nil
}

func (tr *TodoRepository) ListTrashed(ctx context.Context, ownerID int64, page util.PageRequest) ([]domain.Todo, int64, error) {
	where := sq.And{sq.Eq{"user_id": ownerID}, sq.NotEq{"deleted_at": nil}}

	todos, err := tr.queryTodos(ctx, where, page.OrderClause(todoSortColumns, "deleted_at DESC"), page)

	if err != nil {
		return nil, 0, err
	}

	total, err := tr.countTodos(ctx, where)

	if err != nil {
		return nil, 0, err
	}

	return todos, total, nil
}

func (tr *TodoRepository) Search(ctx context.Context, f *filter.Filter, page util.PageRequest) ([]domain.Todo, int64, error) {
	ctx, span := tracing.CreateChildSpan(ctx, "db.todo.Search", []attribute.KeyValue{
		attribute.String("db.table", "todos"),
		attribute.String("db.operation", "SELECT"),
		attribute.StringSlice("todo.filter", f.Names()),
	})
	defer span.End()

	where := f.Build()

	todos, err := tr.queryTodos(ctx, where, page.OrderClause(todoSortColumns, "created_at DESC"), page)

	if err != nil {
		tracing.AddSpanError(span, err)
		return nil, 0, err
	}

	total, err := tr.countTodos(ctx, where)

	if err != nil {
		return nil, 0, err
	}

	return todos, total, nil
}

func (tr *TodoRepository) queryTodos(ctx context.Context, where sq.Sqlizer, orderBy string, page util.PageRequest) ([]domain.Todo, error) {
	stmt, args, err := tr.db.Builder.Select(todoColumns...).
		From("todos").
		Where(where).
		OrderBy(orderBy).
		Limit(page.Limit()).
		Offset(page.Offset()).
		ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := tr.db.QueryContext(ctx, stmt, args...)

	if err != nil {
		slog.Error("Error fetching todos", "error", err)
		return nil, err
	}

	defer rows.Close()

	todos := []domain.Todo{}

	for rows.Next() {
		todo, err := scanTodo(rows)

		if err != nil {
			return nil, err
		}

		todos = append(todos, todo)
	}

	return todos, rows.Err()
}

func (tr *TodoRepository) countTodos(ctx context.Context, where sq.Sqlizer) (int64, error) {
	stmt, args, err := tr.db.Builder.Select("COUNT(*)").
		From("todos").
		Where(where).
		ToSql()

	if err != nil {
		return 0, err
	}

	var total int64

	if err := tr.db.QueryRowContext(ctx, stmt, args...).Scan(&total); err != nil {
		return 0, err
	}

	return total, nil
}

func (tr *TodoRepository) ListChildren(ctx context.Context, parentID int64) ([]domain.Todo, error) {
	stmt, args, err := tr.db.Builder.Select(todoColumns...).
		From("todos").
		Where(sq.Eq{"parent_id": parentID}).
		OrderBy("created_at ASC").
		ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := tr.db.QueryContext(ctx, stmt, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	children := []domain.Todo{}

	for rows.Next() {
		child, err := scanTodo(rows)

		if err != nil {
			return nil, err
		}

		children = append(children, child)
	}

	return children, rows.Err()
}

func (tr *TodoRepository) TagsForTodos(ctx context.Context, todoIDs []int64) (map[int64][]domain.Tag, error) {
	result := make(map[int64][]domain.Tag)

	if len(todoIDs) == 0 {
		return result, nil
	}

	stmt, args, err := tr.db.Builder.
		Select("tt.todo_id", "t.id", "t.user_id", "t.name", "t.color", "t.created_at", "t.updated_at").
		From("todo_tags tt").
		Join("tags t ON t.id = tt.tag_id").
		Where(sq.Eq{"tt.todo_id": todoIDs}).
		OrderBy("t.name ASC").
		ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := tr.db.QueryContext(ctx, stmt, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var todoID int64
		var tag domain.Tag

		if err := rows.Scan(&todoID, &tag.ID, &tag.UserID, &tag.Name, &tag.Color, &tag.CreatedAt, &tag.UpdatedAt); err != nil {
			return nil, err
		}

		result[todoID] = append(result[todoID], tag)
	}

	return result, rows.Err()
}

func (tr *TodoRepository) CountByOwnerAndStatus(ctx context.Context, ownerID int64, status domain.TodoStatus) (int64, error) {
	return tr.countTodos(ctx, sq.And{
		sq.Eq{"user_id": ownerID},
		sq.Eq{"status": status},
		sq.Eq{"deleted_at": nil},
	})
}

func (tr *TodoRepository) ListAll(ctx context.Context, search string, page util.PageRequest) ([]domain.Todo, int64, error) {
	var where sq.Sqlizer = sq.Expr("1 = 1")

	if search != "" {
		// Lowered on both sides; postgres LIKE is case-sensitive.
		pattern := "%" + strings.ToLower(search) + "%"
		where = sq.Or{
			sq.Like{"LOWER(title)": pattern},
			sq.Like{"LOWER(description)": pattern},
		}
	}

	todos, err := tr.queryTodos(ctx, where, page.OrderClause(todoSortColumns, "created_at DESC"), page)

	if err != nil {
		return nil, 0, err
	}

	total, err := tr.countTodos(ctx, where)

	if err != nil {
		return nil, 0, err
	}

	return todos, total, nil
}

func (tr *TodoRepository) CountAll(ctx context.Context) (int64, error) {
	return tr.countTodos(ctx, sq.Expr("1 = 1"))
}

func (tr *TodoRepository) CountByStatus(ctx context.Context, status domain.TodoStatus) (int64, error) {
	return tr.countTodos(ctx, sq.Eq{"status": status})
}

func (tr *TodoRepository) CountByOwner(ctx context.Context, ownerID int64) (int64, error) {
	return tr.countTodos(ctx, sq.Eq{"user_id": ownerID})
}

func (tr *TodoRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	return tr.countTodos(ctx, sq.And{
		sq.GtOrEq{"created_at": from},
		sq.LtOrEq{"created_at": to},
	})
}

// HardDelete permanently removes a todo, its subtasks, and the dependent
// attachment and tag-join rows, all in one transaction. Used by admin
// moderation only; user-facing deletes are soft.
func (tr *TodoRepository) HardDelete(ctx context.Context, id int64) error {
	return tr.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, args, err := tr.db.Builder.Select("id").
			From("todos").
			Where(sq.Eq{"parent_id": id}).
			ToSql()

		if err != nil {
			return err
		}

		rows, err := tx.QueryContext(ctx, stmt, args...)

		if err != nil {
			return err
		}

		ids := []int64{id}

		for rows.Next() {
			var childID int64

			if err := rows.Scan(&childID); err != nil {
				rows.Close()
				return err
			}

			ids = append(ids, childID)
		}

		rows.Close()

		if err := rows.Err(); err != nil {
			return err
		}

		for _, table := range []string{"attachments", "todo_tags"} {
			del, delArgs, err := tr.db.Builder.Delete(table).
				Where(sq.Eq{"todo_id": ids}).
				ToSql()

			if err != nil {
				return err
			}

			if _, err := tx.ExecContext(ctx, del, delArgs...); err != nil {
				return err
			}
		}

		del, delArgs, err := tr.db.Builder.Delete("todos").
			Where(sq.Eq{"id": ids}).
			ToSql()

		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, del, delArgs...)

		if err != nil {
			return err
		}

		if affected, _ := result.RowsAffected(); affected == 0 {
			return domain.NotFoundf("todo %d not found", id)
		}

		return nil
	})
}
