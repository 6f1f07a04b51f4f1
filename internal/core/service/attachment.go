package service

import (
	"context"
	"time"

	"taskvault/internal/core/domain"
	"taskvault/internal/core/model/request"
	"taskvault/internal/core/model/response"
	"taskvault/internal/core/port"
)

// AttachmentService links file metadata to todos. Ownership is checked
// through the todo; the files themselves live in external storage and only
// their URLs are recorded here.
type AttachmentService struct {
	repo  port.AttachmentRepository
	todos port.TodoRepository
}

func NewAttachmentService(repo port.AttachmentRepository, todos port.TodoRepository) *AttachmentService {
	return &AttachmentService{repo: repo, todos: todos}
}

func (as *AttachmentService) Add(ctx context.Context, ownerID, todoID int64, req request.AttachmentRequest) (*response.AttachmentResponse, error) {
	todo, err := as.todos.GetByIDAndOwner(ctx, todoID, ownerID, false)

	if err != nil {
		return nil, err
	}

	attachment, err := as.repo.Create(ctx, domain.Attachment{
		TodoID:    todo.ID,
		FileName:  req.FileName,
		FileURL:   req.FileURL,
		FileSize:  req.FileSize,
		CreatedAt: time.Now().UTC(),
	})

	if err != nil {
		return nil, err
	}

	resp := toAttachmentResponse(attachment)

	return &resp, nil
}

func (as *AttachmentService) ListByTodo(ctx context.Context, ownerID, todoID int64) ([]response.AttachmentResponse, error) {
	todo, err := as.todos.GetByIDAndOwner(ctx, todoID, ownerID, false)

	if err != nil {
		return nil, err
	}

	attachments, err := as.repo.ListByTodo(ctx, todo.ID)

	if err != nil {
		return nil, err
	}

	items := make([]response.AttachmentResponse, 0, len(attachments))

	for _, a := range attachments {
		items = append(items, toAttachmentResponse(a))
	}

	return items, nil
}

func (as *AttachmentService) Delete(ctx context.Context, ownerID, attachmentID int64) error {
	attachment, err := as.repo.GetByID(ctx, attachmentID)

	if err != nil {
		return err
	}

	if _, err := as.todos.GetByIDAndOwner(ctx, attachment.TodoID, ownerID, false); err != nil {
		return err
	}

	return as.repo.Delete(ctx, attachment.ID)
}
