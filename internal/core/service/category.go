package service

import (
	"context"
	"errors"
	"time"

	"taskvault/internal/core/domain"
	"taskvault/internal/core/model/request"
	"taskvault/internal/core/model/response"
	"taskvault/internal/core/port"
)

// CategoryService manages per-user categories; names are unique within the
// owner and duplicates are a conflict.
type CategoryService struct {
	repo port.CategoryRepository
}

func NewCategoryService(repo port.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (cs *CategoryService) Create(ctx context.Context, ownerID int64, req request.CategoryRequest) (*response.CategoryResponse, error) {
	if err := cs.checkNameFree(ctx, ownerID, req.Name, 0); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	category, err := cs.repo.Create(ctx, domain.Category{
		UserID:     ownerID,
		Name:       req.Name,
		Color:      req.Color,
		OrderIndex: req.OrderIndex,
		CreatedAt:  now,
		UpdatedAt:  now,
	})

	if err != nil {
		return nil, err
	}

	return toCategoryResponse(category), nil
}

func (cs *CategoryService) checkNameFree(ctx context.Context, ownerID int64, name string, selfID int64) error {
	existing, err := cs.repo.GetByOwnerAndName(ctx, ownerID, name)

	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}

		return err
	}

	if existing.ID == selfID {
		return nil
	}

	return domain.Conflictf("category %q already exists", name)
}

func (cs *CategoryService) GetAll(ctx context.Context, ownerID int64) ([]response.CategoryResponse, error) {
	categories, err := cs.repo.ListByOwner(ctx, ownerID)

	if err != nil {
		return nil, err
	}

	items := make([]response.CategoryResponse, 0, len(categories))

	for _, category := range categories {
		items = append(items, *toCategoryResponse(category))
	}

	return items, nil
}

func (cs *CategoryService) GetByID(ctx context.Context, ownerID, id int64) (*response.CategoryResponse, error) {
	category, err := cs.repo.GetByIDAndOwner(ctx, id, ownerID)

	if err != nil {
		return nil, err
	}

	return toCategoryResponse(category), nil
}

func (cs *CategoryService) Update(ctx context.Context, ownerID, id int64, req request.CategoryRequest) (*response.CategoryResponse, error) {
	category, err := cs.repo.GetByIDAndOwner(ctx, id, ownerID)

	if err != nil {
		return nil, err
	}

	if err := cs.checkNameFree(ctx, ownerID, req.Name, category.ID); err != nil {
		return nil, err
	}

	category.Name = req.Name
	category.Color = req.Color
	category.OrderIndex = req.OrderIndex
	category.UpdatedAt = time.Now().UTC()

	updated, err := cs.repo.Update(ctx, category)

	if err != nil {
		return nil, err
	}

	return toCategoryResponse(updated), nil
}

// Delete removes the category; todos referencing it are detached, never
// deleted.
func (cs *CategoryService) Delete(ctx context.Context, ownerID, id int64) error {
	category, err := cs.repo.GetByIDAndOwner(ctx, id, ownerID)

	if err != nil {
		return err
	}

	return cs.repo.Delete(ctx, category.ID)
}
