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

var tagColumns = []string{
	"id", "user_id", "name", "color", "created_at", "updated_at",
}

type TagRepository struct {
	db *database.DB
}

func NewTagRepository(db *database.DB) port.TagRepository {
	return &TagRepository{db: db}
}

func scanTag(row rowScanner) (domain.Tag, error) {
	var t domain.Tag

	err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.Color, &t.CreatedAt, &t.UpdatedAt)

	return t, err
}

func (tr *TagRepository) Create(ctx context.Context, tag domain.Tag) (domain.Tag, error) {
	stmt, args, err := tr.db.Builder.Insert("tags").
		Columns("user_id", "name", "color", "created_at", "updated_at").
		Values(tag.UserID, tag.Name, tag.Color, tag.CreatedAt, tag.UpdatedAt).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return domain.Tag{}, err
	}

	if err := tr.db.QueryRowContext(ctx, stmt, args...).Scan(&tag.ID); err != nil {
		slog.Error("Error creating tag", "error", err)
		return domain.Tag{}, conflict(err, "tag %q already exists", tag.Name)
	}

	return tag, nil
}

func (tr *TagRepository) GetByIDAndOwner(ctx context.Context, id, ownerID int64) (domain.Tag, error) {
	stmt, args, err := tr.db.Builder.Select(tagColumns...).
		From("tags").
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"user_id": ownerID}).
		ToSql()

	if err != nil {
		return domain.Tag{}, err
	}

	tag, err := scanTag(tr.db.QueryRowContext(ctx, stmt, args...))

	if err != nil {
		return domain.Tag{}, notFound(err, "tag %d not found", id)
	}

	return tag, nil
}

func (tr *TagRepository) GetByID(ctx context.Context, id int64) (domain.Tag, error) {
	stmt, args, err := tr.db.Builder.Select(tagColumns...).
		From("tags").
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		return domain.Tag{}, err
	}

	tag, err := scanTag(tr.db.QueryRowContext(ctx, stmt, args...))

	if err != nil {
		return domain.Tag{}, notFound(err, "tag %d not found", id)
	}

	return tag, nil
}

func (tr *TagRepository) GetByOwnerAndName(ctx context.Context, ownerID int64, name string) (domain.Tag, error) {
	stmt, args, err := tr.db.Builder.Select(tagColumns...).
		From("tags").
		Where(sq.Eq{"user_id": ownerID}).
		Where(sq.Eq{"name": name}).
		ToSql()

	if err != nil {
		return domain.Tag{}, err
	}

	tag, err := scanTag(tr.db.QueryRowContext(ctx, stmt, args...))

	if err != nil {
		return domain.Tag{}, notFound(err, "tag %q not found", name)
	}

	return tag, nil
}

func (tr *TagRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Tag, error) {
	stmt, args, err := tr.db.Builder.Select(tagColumns...).
		From("tags").
		Where(sq.Eq{"user_id": ownerID}).
		OrderBy("name ASC").
		ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := tr.db.QueryContext(ctx, stmt, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	tags := []domain.Tag{}

	for rows.Next() {
		tag, err := scanTag(rows)

		if err != nil {
			return nil, err
		}

		tags = append(tags, tag)
	}

	return tags, rows.Err()
}

func (tr *TagRepository) Update(ctx context.Context, tag domain.Tag) (domain.Tag, error) {
	stmt, args, err := tr.db.Builder.Update("tags").
		SetMap(map[string]interface{}{
			"name":       tag.Name,
			"color":      tag.Color,
			"updated_at": tag.UpdatedAt,
		}).
		Where(sq.Eq{"id": tag.ID}).
		ToSql()

	if err != nil {
		return domain.Tag{}, err
	}

	result, err := tr.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		return domain.Tag{}, conflict(err, "tag %q already exists", tag.Name)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.Tag{}, domain.NotFoundf("tag %d not found", tag.ID)
	}

	return tag, nil
}

func (tr *TagRepository) Delete(ctx context.Context, id int64) error {
	return tr.db.WithTx(ctx, func(tx *sql.Tx) error {
		unlink, unlinkArgs, err := tr.db.Builder.Delete("todo_tags").
			Where(sq.Eq{"tag_id": id}).
			ToSql()

		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, unlink, unlinkArgs...); err != nil {
			return err
		}

		del, delArgs, err := tr.db.Builder.Delete("tags").
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
			return domain.NotFoundf("tag %d not found", id)
		}

		return nil
	})
}

func (tr *TagRepository) countTags(ctx context.Context, where sq.Sqlizer) (int64, error) {
	stmt, args, err := tr.db.Builder.Select("COUNT(*)").
		From("tags").
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

func (tr *TagRepository) CountAll(ctx context.Context) (int64, error) {
	return tr.countTags(ctx, sq.Expr("1 = 1"))
}

func (tr *TagRepository) CountByOwner(ctx context.Context, ownerID int64) (int64, error) {
	return tr.countTags(ctx, sq.Eq{"user_id": ownerID})
}
