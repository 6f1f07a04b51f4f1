package port

import (
	"context"

	"taskvault/internal/core/domain"
	"taskvault/internal/core/model/request"
	"taskvault/internal/core/model/response"
)

// TokenIssuer is the opaque token capability: issuing an access token for a
// subject and verifying one back into the subject id.
type TokenIssuer interface {
	Issue(userID int64) (string, error)
	Verify(token string) (int64, error)
}

// SessionStore persists refresh tokens. Expired-session cleanup is the
// store's own concern and is not part of the request path.
type SessionStore interface {
	Create(ctx context.Context, token domain.RefreshToken) (domain.RefreshToken, error)
	GetByToken(ctx context.Context, token string) (domain.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, userID int64) error
}

type AuthService interface {
	Register(ctx context.Context, req request.RegisterRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, req request.LoginRequest) (*response.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*response.AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}
