package port

import (
	"context"
	"time"

	"taskvault/internal/core/domain"
	"taskvault/internal/core/filter"
	"taskvault/internal/core/model/request"
	"taskvault/internal/core/model/response"
	"taskvault/internal/core/util"
)

// TodoRepository is the storage contract for todos. Every owner-scoped
// lookup states its own deleted-row policy through includeDeleted; nothing
// filters rows implicitly.
type TodoRepository interface {
	Create(ctx context.Context, todo domain.Todo, tagIDs []int64) (domain.Todo, error)
	Update(ctx context.Context, todo domain.Todo, tagIDs []int64) (domain.Todo, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID int64, includeDeleted bool) (domain.Todo, error)
	SetDeletedAt(ctx context.Context, id int64, deletedAt *time.Time, updatedBy int64) error
	UpdateStatus(ctx context.Context, id int64, status domain.TodoStatus, updatedBy int64) error

	ListActive(ctx context.Context, ownerID int64, page util.PageRequest) ([]domain.Todo, int64, error)
	ListTrashed(ctx context.Context, ownerID int64, page util.PageRequest) ([]domain.Todo, int64, error)
	Search(ctx context.Context, f *filter.Filter, page util.PageRequest) ([]domain.Todo, int64, error)
	ListChildren(ctx context.Context, parentID int64) ([]domain.Todo, error)

	TagsForTodos(ctx context.Context, todoIDs []int64) (map[int64][]domain.Tag, error)
	CountByOwnerAndStatus(ctx context.Context, ownerID int64, status domain.TodoStatus) (int64, error)

	// Admin operations; unscoped by design, the caller boundary has
	// already verified admin authority.
	GetByID(ctx context.Context, id int64) (domain.Todo, error)
	ListAll(ctx context.Context, search string, page util.PageRequest) ([]domain.Todo, int64, error)
	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status domain.TodoStatus) (int64, error)
	CountByOwner(ctx context.Context, ownerID int64) (int64, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	HardDelete(ctx context.Context, id int64) error
}

type TodoService interface {
	Create(ctx context.Context, ownerID int64, req request.TodoRequest) (*response.TodoResponse, error)
	Update(ctx context.Context, ownerID, todoID int64, req request.TodoRequest) (*response.TodoResponse, error)
	GetByID(ctx context.Context, ownerID, todoID int64) (*response.TodoDetailResponse, error)
	GetAll(ctx context.Context, ownerID int64, page util.PageRequest) (*response.Page[response.TodoResponse], error)
	Search(ctx context.Context, ownerID int64, search filter.TodoSearch, page util.PageRequest) (*response.Page[response.TodoResponse], error)
	Delete(ctx context.Context, ownerID, todoID int64) error
	Restore(ctx context.Context, ownerID, todoID int64) (*response.TodoResponse, error)
	GetTrashed(ctx context.Context, ownerID int64, page util.PageRequest) (*response.Page[response.TodoResponse], error)
	UpdateStatus(ctx context.Context, ownerID, todoID int64, status domain.TodoStatus) (*response.TodoResponse, error)
	CreateSubtask(ctx context.Context, ownerID, parentID int64, req request.TodoRequest) (*response.TodoResponse, error)
	GetSubtasks(ctx context.Context, ownerID, parentID int64) ([]response.TodoResponse, error)
	GetStatistics(ctx context.Context, ownerID int64) (map[string]int64, error)
}
