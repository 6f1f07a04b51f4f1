package port

import (
	"context"

	"taskvault/internal/core/domain"
	"taskvault/internal/core/model/request"
	"taskvault/internal/core/model/response"
)

type AttachmentRepository interface {
	Create(ctx context.Context, attachment domain.Attachment) (domain.Attachment, error)
	GetByID(ctx context.Context, id int64) (domain.Attachment, error)
	ListByTodo(ctx context.Context, todoID int64) ([]domain.Attachment, error)
	Delete(ctx context.Context, id int64) error
}

type AttachmentService interface {
	Add(ctx context.Context, ownerID, todoID int64, req request.AttachmentRequest) (*response.AttachmentResponse, error)
	ListByTodo(ctx context.Context, ownerID, todoID int64) ([]response.AttachmentResponse, error)
	Delete(ctx context.Context, ownerID, attachmentID int64) error
}
