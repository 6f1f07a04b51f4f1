package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"taskvault/internal/core/domain"
	"taskvault/internal/core/model/request"
	"taskvault/internal/core/model/response"
	"taskvault/internal/core/port"
	"taskvault/internal/core/util"
)

const refreshTokenTTL = 30 * 24 * time.Hour

// AuthService issues sessions: a short-lived JWT access token plus an
// opaque refresh token persisted in the session store. Login failures are
// reported uniformly so callers cannot probe which emails exist.
type AuthService struct {
	users    port.UserRepository
	sessions port.SessionStore
	tokens   port.TokenIssuer
}

func NewAuthService(users port.UserRepository, sessions port.SessionStore, tokens port.TokenIssuer) *AuthService {
	return &AuthService{users: users, sessions: sessions, tokens: tokens}
}

func (as *AuthService) Register(ctx context.Context, req request.RegisterRequest) (*response.AuthResponse, error) {
	if _, err := as.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, domain.Conflictf("email %s is already registered", req.Email)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hashed, err := util.HashPassword(req.Password)

	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	user, err := as.users.Create(ctx, domain.User{
		Email:     req.Email,
		Password:  hashed,
		FullName:  req.FullName,
		Role:      domain.RoleUser,
		Status:    domain.UserStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	})

	if err != nil {
		slog.Error("Error registering user", "error", err)
		return nil, err
	}

	return as.issueSession(ctx, user)
}

func (as *AuthService) Login(ctx context.Context, req request.LoginRequest) (*response.AuthResponse, error) {
	user, err := as.users.GetByEmail(ctx, req.Email)

	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, invalidCredentials()
		}

		return nil, err
	}

	if err := util.ComparePassword(user.Password, req.Password); err != nil {
		return nil, invalidCredentials()
	}

	if !user.IsActive() {
		return nil, domain.ErrForbidden
	}

	return as.issueSession(ctx, user)
}

func invalidCredentials() error {
	return domain.ErrUnauthenticated
}

// Refresh rotates the session: the presented token is revoked and a new
// pair is issued, so a stolen refresh token dies on first legitimate use.
func (as *AuthService) Refresh(ctx context.Context, refreshToken string) (*response.AuthResponse, error) {
	session, err := as.sessions.GetByToken(ctx, refreshToken)

	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthenticated
		}

		return nil, err
	}

	if !session.Usable(time.Now().UTC()) {
		return nil, domain.ErrUnauthenticated
	}

	user, err := as.users.GetByID(ctx, session.UserID)

	if err != nil {
		return nil, err
	}

	if !user.IsActive() {
		return nil, domain.ErrForbidden
	}

	if err := as.sessions.Revoke(ctx, refreshToken); err != nil {
		return nil, err
	}

	return as.issueSession(ctx, user)
}

func (as *AuthService) Logout(ctx context.Context, refreshToken string) error {
	err := as.sessions.Revoke(ctx, refreshToken)

	if errors.Is(err, domain.ErrNotFound) {
		// Logging out an unknown session is not an error worth reporting.
		return nil
	}

	return err
}

func (as *AuthService) issueSession(ctx context.Context, user domain.User) (*response.AuthResponse, error) {
	access, err := as.tokens.Issue(user.ID)

	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	session, err := as.sessions.Create(ctx, domain.RefreshToken{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(refreshTokenTTL),
		CreatedAt: now,
	})

	if err != nil {
		return nil, err
	}

	return &response.AuthResponse{
		AccessToken:  access,
		RefreshToken: session.Token,
		User:         toUserResponse(user),
	}, nil
}

func toUserResponse(user domain.User) response.UserResponse {
	return response.UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		FullName:      user.FullName,
		Role:          string(user.Role),
		Status:        string(user.Status),
		EmailVerified: user.EmailVerified,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}
