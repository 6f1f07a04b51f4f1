package port

import (
	"context"

	"taskvault/internal/core/domain"
	"taskvault/internal/core/model/request"
	"taskvault/internal/core/model/response"
)

type CategoryRepository interface {
	Create(ctx context.Context, category domain.Category) (domain.Category, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID int64) (domain.Category, error)
	GetByOwnerAndName(ctx context.Context, ownerID int64, name string) (domain.Category, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Category, error)
	Update(ctx context.Context, category domain.Category) (domain.Category, error)
	// Delete nulls the category reference on every todo pointing at the
	// row, then removes it, in one transaction.
	Delete(ctx context.Context, id int64) error
	CountAll(ctx context.Context) (int64, error)
	CountByOwner(ctx context.Context, ownerID int64) (int64, error)
	GetByID(ctx context.Context, id int64) (domain.Category, error)
}

type TagRepository interface {
	Create(ctx context.Context, tag domain.Tag) (domain.Tag, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID int64) (domain.Tag, error)
	GetByOwnerAndName(ctx context.Context, ownerID int64, name string) (domain.Tag, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Tag, error)
	Update(ctx context.Context, tag domain.Tag) (domain.Tag, error)
	// Delete removes the tag from every todo's tag set, then the row.
	Delete(ctx context.Context, id int64) error
	CountAll(ctx context.Context) (int64, error)
	CountByOwner(ctx context.Context, ownerID int64) (int64, error)
	GetByID(ctx context.Context, id int64) (domain.Tag, error)
}

type CategoryService interface {
	Create(ctx context.Context, ownerID int64, req request.CategoryRequest) (*response.CategoryResponse, error)
	GetAll(ctx context.Context, ownerID int64) ([]response.CategoryResponse, error)
	GetByID(ctx context.Context, ownerID, id int64) (*response.CategoryResponse, error)
	Update(ctx context.Context, ownerID, id int64, req request.CategoryRequest) (*response.CategoryResponse, error)
	Delete(ctx context.Context, ownerID, id int64) error
}

type TagService interface {
	Create(ctx context.Context, ownerID int64, req request.TagRequest) (*response.TagResponse, error)
	GetAll(ctx context.Context, ownerID int64) ([]response.TagResponse, error)
	GetByID(ctx context.Context, ownerID, id int64) (*response.TagResponse, error)
	Update(ctx context.Context, ownerID, id int64, req request.TagRequest) (*response.TagResponse, error)
	Delete(ctx context.Context, ownerID, id int64) error
}
