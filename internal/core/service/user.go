package service

import (
	"context"

	"taskvault/internal/core/domain"
	"taskvault/internal/core/model/request"
	"taskvault/internal/core/model/response"
	"taskvault/internal/core/port"
	"taskvault/internal/core/util"
)

type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// ResolveOwner maps an authenticated principal id onto its user record and
// is the single source of the effective owner for every scoped operation.
// Suspended and inactive accounts authenticate but resolve to forbidden.
func (us *UserService) ResolveOwner(ctx context.Context, userID int64) (domain.User, error) {
	user, err := us.repo.GetByID(ctx, userID)

	if err != nil {
		return domain.User{}, err
	}

	if !user.IsActive() {
		return domain.User{}, domain.ErrForbidden
	}

	return user, nil
}

func (us *UserService) GetProfile(ctx context.Context, userID int64) (*response.UserResponse, error) {
	user, err := us.repo.GetByID(ctx, userID)

	if err != nil {
		return nil, err
	}

	resp := toUserResponse(user)

	return &resp, nil
}

func (us *UserService) UpdateProfile(ctx context.Context, userID int64, req request.UpdateProfileRequest) (*response.UserResponse, error) {
	user, err := us.repo.UpdateProfile(ctx, userID, req.FullName)

	if err != nil {
		return nil, err
	}

	resp := toUserResponse(user)

	return &resp, nil
}

func (us *UserService) ChangePassword(ctx context.Context, userID int64, req request.ChangePasswordRequest) error {
	user, err := us.repo.GetByID(ctx, userID)

	if err != nil {
		return err
	}

	if err := util.ComparePassword(user.Password, req.CurrentPassword); err != nil {
		return domain.BadRequestf("current password is incorrect")
	}

	hashed, err := util.HashPassword(req.NewPassword)

	if err != nil {
		return err
	}

	return us.repo.UpdatePassword(ctx, userID, hashed)
}
