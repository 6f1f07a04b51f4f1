package repository

import (
	"context"
	"database/sql"
	"log/slog"

	sq "github.com/Masterminds/squirrel"

	"taskvault/internal/adapter/database"
	"taskvault/internal/core/domain"
	"taskvault/internal/core/port"
)

var categoryColumns = []string{
	"id", "user_id", "name", "color", "order_index", "created_at", "updated_at",
}

type CategoryRepository struct {
	db *database.DB
}

func NewCategoryRepository(db *database.DB) port.CategoryRepository {
	return &CategoryRepository{db: db}
}

func scanCategory(row rowScanner) (domain.Category, error) {
	var c domain.Category

	err := row.Scan(
		&c.ID, &c.UserID, &c.Name, &c.Color, &c.OrderIndex,
		&c.CreatedAt, &c.UpdatedAt,
	)

	return c, err
}

func (cr *CategoryRepository) Create(ctx context.Context, category domain.Category) (domain.Category, error) {
	stmt, args, err := cr.db.Builder.Insert("categories").
		Columns("user_id", "name", "color", "order_index", "created_at", "updated_at").
		Values(category.UserID, category.Name, category.Color,
			category.OrderIndex, category.CreatedAt, category.UpdatedAt).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return domain.Category{}, err
	}

	if err := cr.db.QueryRowContext(ctx, stmt, args...).Scan(&category.ID); err != nil {
		slog.Error("Error creating category", "error", err)
		return domain.Category{}, conflict(err, "category %q already exists", category.Name)
	}

	return category, nil
}

func (cr *CategoryRepository) GetByIDAndOwner(ctx context.Context, id, ownerID int64) (domain.Category, error) {
	stmt, args, err := cr.db.Builder.Select(categoryColumns...).
		From("categories").
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"user_id": ownerID}).
		ToSql()

	if err != nil {
		return domain.Category{}, err
	}

	category, err := scanCategory(cr.db.QueryRowContext(ctx, stmt, args...))

	if err != nil {
		return domain.Category{}, notFound(err, "category %d not found", id)
	}

	return category, nil
}

func (cr *CategoryRepository) GetByID(ctx context.Context, id int64) (domain.Category, error) {
	stmt, args, err := cr.db.Builder.Select(categoryColumns...).
		From("categories").
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		return domain.Category{}, err
	}

	category, err := scanCategory(cr.db.QueryRowContext(ctx, stmt, args...))

	if err != nil {
		return domain.Category{}, notFound(err, "category %d not found", id)
	}

	return category, nil
}

func (cr *CategoryRepository) GetByOwnerAndName(ctx context.Context, ownerID int64, name string) (domain.Category, error) {
	stmt, args, err := cr.db.Builder.Select(categoryColumns...).
		From("categories").
		Where(sq.Eq{"user_id": ownerID}).
		Where(sq.Eq{"name": name}).
		ToSql()

	if err != nil {
		return domain.Category{}, err
	}

	category, err := scanCategory(cr.db.QueryRowContext(ctx, stmt, args...))

	if err != nil {
		return domain.Category{}, notFound(err, "category %q not found", name)
	}

	return category, nil
}

func (cr *CategoryRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Category, error) {
	stmt, args, err := cr.db.Builder.Select(categoryColumns...).
		From("categories").
		Where(sq.Eq{"user_id": ownerID}).
		OrderBy("order_index ASC", "name ASC").
		ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := cr.db.QueryContext(ctx, stmt, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	categories := []domain.Category{}

	for rows.Next() {
		category, err := scanCategory(rows)

		if err != nil {
			return nil, err
		}

		categories = append(categories, category)
	}

	return categories, rows.Err()
}

func (cr *CategoryRepository) Update(ctx context.Context, category domain.Category) (domain.Category, error) {
	stmt, args, err := cr.db.Builder.Update("categories").
		SetMap(map[string]interface{}{
			"name":        category.Name,
			"color":       category.Color,
			"order_index": category.OrderIndex,
			"updated_at":  category.UpdatedAt,
		}).
		Where(sq.Eq{"id": category.ID}).
		ToSql()

	if err != nil {
		return domain.Category{}, err
	}

	result, err := cr.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		return domain.Category{}, conflict(err, "category %q already exists", category.Name)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.Category{}, domain.NotFoundf("category %d not found", category.ID)
	}

	return category, nil
}

func (cr *CategoryRepository) Delete(ctx context.Context, id int64) error {
	return cr.db.WithTx(ctx, func(tx *sql.Tx) error {
		clear, clearArgs, err := cr.db.Builder.Update("todos").
			Set("category_id", nil).
			Where(sq.Eq{"category_id": id}).
			ToSql()

		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, clear, clearArgs...); err != nil {
			return err
		}

		del, delArgs, err := cr.db.Builder.Delete("categories").
			Where(sq.Eq{"id": id}).
			ToSql()

		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, del, delArgs...)

		if err != nil {
			return err
		}

		if affected, _ := result.RowsAffected(); affected == 0 {
			return domain.NotFoundf("category %d not found", id)
		}

		return nil
	})
}

func (cr *CategoryRepository) countCategories(ctx context.Context, where sq.Sqlizer) (int64, error) {
	stmt, args, err := cr.db.Builder.Select("COUNT(*)").
		From("categories").
		Where(where).
		ToSql()

	if err != nil {
		return 0, err
	}

	var total int64

	if err := cr.db.QueryRowContext(ctx, stmt, args...).Scan(&total); err != nil {
		return 0, err
	}

	return total, nil
}

func (cr *CategoryRepository) CountAll(ctx context.Context) (int64, error) {
	return cr.countCategories(ctx, sq.Expr("1 = 1"))
}

func (cr *CategoryRepository) CountByOwner(ctx context.Context, ownerID int64) (int64, error) {
	return cr.countCategories(ctx, sq.Eq{"user_id": ownerID})
}
