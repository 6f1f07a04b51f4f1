package port

import (
	"context"
	"time"

	"taskvault/internal/core/domain"
	"taskvault/internal/core/model/request"
	"taskvault/internal/core/model/response"
	"taskvault/internal/core/util"
)

type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	UpdateProfile(ctx context.Context, id int64, fullName string) (domain.User, error)
	UpdatePassword(ctx context.Context, id int64, hashed string) error
	UpdateStatus(ctx context.Context, id int64, status domain.UserStatus) (domain.User, error)
	UpdateRole(ctx context.Context, id int64, role domain.Role) (domain.User, error)

	ListAll(ctx context.Context, search string, page util.PageRequest) ([]domain.User, int64, error)
	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status domain.UserStatus) (int64, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
}

// UserService also acts as the identity resolver: ResolveOwner maps an
// authenticated principal id to its user record and is the only source of
// the effective owner for scoped operations.
type UserService interface {
	ResolveOwner(ctx context.Context, userID int64) (domain.User, error)
	GetProfile(ctx context.Context, userID int64) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, userID int64, req request.UpdateProfileRequest) (*response.UserResponse, error)
	ChangePassword(ctx context.Context, userID int64, req request.ChangePasswordRequest) error
}
