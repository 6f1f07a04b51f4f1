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

type TagService struct {
	repo port.TagRepository
}

func NewTagService(repo port.TagRepository) *TagService {
	return &TagService{repo: repo}
}

func (ts *TagService) Create(ctx context.Context, ownerID int64, req request.TagRequest) (*response.TagResponse, error) {
	if err := ts.checkNameFree(ctx, ownerID, req.Name, 0); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	tag, err := ts.repo.Create(ctx, domain.Tag{
		UserID:    ownerID,
		Name:      req.Name,
		Color:     req.Color,
		CreatedAt: now,
		UpdatedAt: now,
	})

	if err != nil {
		return nil, err
	}

	resp := toTagResponse(tag)

	return &resp, nil
}

func (ts *TagService) checkNameFree(ctx context.Context, ownerID int64, name string, selfID int64) error {
	existing, err := ts.repo.GetByOwnerAndName(ctx, ownerID, name)

	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}

		return err
	}

	if existing.ID == selfID {
		return nil
	}

	return domain.Conflictf("tag %q already exists", name)
}

func (ts *TagService) GetAll(ctx context.Context, ownerID int64) ([]response.TagResponse, error) {
	tags, err := ts.repo.ListByOwner(ctx, ownerID)

	if err != nil {
		return nil, err
	}

	items := make([]response.TagResponse, 0, len(tags))

	for _, tag := range tags {
		items = append(items, toTagResponse(tag))
	}

	return items, nil
}

func (ts *TagService) GetByID(ctx context.Context, ownerID, id int64) (*response.TagResponse, error) {
	tag, err := ts.repo.GetByIDAndOwner(ctx, id, ownerID)

	if err != nil {
		return nil, err
	}

	resp := toTagResponse(tag)

	return &resp, nil
}

func (ts *TagService) Update(ctx context.Context, ownerID, id int64, req request.TagRequest) (*response.TagResponse, error) {
	tag, err := ts.repo.GetByIDAndOwner(ctx, id, ownerID)

	if err != nil {
		return nil, err
	}

	if err := ts.checkNameFree(ctx, ownerID, req.Name, tag.ID); err != nil {
		return nil, err
	}

	tag.Name = req.Name
	tag.Color = req.Color
	tag.UpdatedAt = time.Now().UTC()

	updated, err := ts.repo.Update(ctx, tag)

	if err != nil {
		return nil, err
	}

	resp := toTagResponse(updated)

	return &resp, nil
}

// Delete removes the tag and unlinks it from every todo carrying it.
func (ts *TagService) Delete(ctx context.Context, ownerID, id int64) error {
	tag, err := ts.repo.GetByIDAndOwner(ctx, id, ownerID)

	if err != nil {
		return err
	}

	return ts.repo.Delete(ctx, tag.ID)
}
