package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"taskvault/internal/adapter/database"
	"taskvault/internal/core/domain"
	"taskvault/internal/core/port"
)

var attachmentColumns = []string{
	"id", "todo_id", "file_name", "file_url", "file_size", "created_at",
}

type AttachmentRepository struct {
	db *database.DB
}

func NewAttachmentRepository(db *database.DB) port.AttachmentRepository {
	return &AttachmentRepository{db: db}
}

func scanAttachment(row rowScanner) (domain.Attachment, error) {
	var a domain.Attachment

	err := row.Scan(&a.ID, &a.TodoID, &a.FileName, &a.FileURL, &a.FileSize, &a.CreatedAt)

	return a, err
}

func (ar *AttachmentRepository) Create(ctx context.Context, attachment domain.Attachment) (domain.Attachment, error) {
	stmt, args, err := ar.db.Builder.Insert("attachments").
		Columns("todo_id", "file_name", "file_url", "file_size", "created_at").
		Values(attachment.TodoID, attachment.FileName, attachment.FileURL,
			attachment.FileSize, attachment.CreatedAt).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return domain.Attachment{}, err
	}

	if err := ar.db.QueryRowContext(ctx, stmt, args...).Scan(&attachment.ID); err != nil {
		return domain.Attachment{}, err
	}

	return attachment, nil
}

func (ar *AttachmentRepository) GetByID(ctx context.Context, id int64) (domain.Attachment, error) {
	stmt, args, err := ar.db.Builder.Select(attachmentColumns...).
		From("attachments").
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		return domain.Attachment{}, err
	}

	attachment, err := scanAttachment(ar.db.QueryRowContext(ctx, stmt, args...))

	if err != nil {
		return domain.Attachment{}, notFound(err, "attachment %d not found", id)
	}

	return attachment, nil
}

func (ar *AttachmentRepository) ListByTodo(ctx context.Context, todoID int64) ([]domain.Attachment, error) {
	stmt, args, err := ar.db.Builder.Select(attachmentColumns...).
		From("attachments").
		Where(sq.Eq{"todo_id": todoID}).
		OrderBy("created_at ASC").
		ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := ar.db.QueryContext(ctx, stmt, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	attachments := []domain.Attachment{}

	for rows.Next() {
		attachment, err := scanAttachment(rows)

		if err != nil {
			return nil, err
		}

		attachments = append(attachments, attachment)
	}

	return attachments, rows.Err()
}

func (ar *AttachmentRepository) Delete(ctx context.Context, id int64) error {
	stmt, args, err := ar.db.Builder.Delete("attachments").
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		return err
	}

	result, err := ar.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		return err
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.NotFoundf("attachment %d not found", id)
	}

	return nil
}
