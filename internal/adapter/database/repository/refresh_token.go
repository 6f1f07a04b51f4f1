package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"taskvault/internal/adapter/database"
	"taskvault/internal/core/domain"
	"taskvault/internal/core/port"
)

type RefreshTokenRepository struct {
	db *database.DB
}

func NewRefreshTokenRepository(db *database.DB) port.SessionStore {
	return &RefreshTokenRepository{db: db}
}

func (rr *RefreshTokenRepository) Create(ctx context.Context, token domain.RefreshToken) (domain.RefreshToken, error) {
	stmt, args, err := rr.db.Builder.Insert("refresh_tokens").
		Columns("token", "user_id", "expires_at", "revoked", "created_at").
		Values(token.Token, token.UserID, token.ExpiresAt, token.Revoked, token.CreatedAt).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return domain.RefreshToken{}, err
	}

	if err := rr.db.QueryRowContext(ctx, stmt, args...).Scan(&token.ID); err != nil {
		return domain.RefreshToken{}, err
	}

	return token, nil
}

func (rr *RefreshTokenRepository) GetByToken(ctx context.Context, token string) (domain.RefreshToken, error) {
	stmt, args, err := rr.db.Builder.
		Select("id", "token", "user_id", "expires_at", "revoked", "created_at").
		From("refresh_tokens").
		Where(sq.Eq{"token": token}).
		ToSql()

	if err != nil {
		return domain.RefreshToken{}, err
	}

	var rt domain.RefreshToken

	err = rr.db.QueryRowContext(ctx, stmt, args...).
		Scan(&rt.ID, &rt.Token, &rt.UserID, &rt.ExpiresAt, &rt.Revoked, &rt.CreatedAt)

	if err != nil {
		return domain.RefreshToken{}, notFound(err, "refresh token not found")
	}

	return rt, nil
}

func (rr *RefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	stmt, args, err := rr.db.Builder.Update("refresh_tokens").
		Set("revoked", true).
		Where(sq.Eq{"token": token}).
		ToSql()

	if err != nil {
		return err
	}

	result, err := rr.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		return err
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.NotFoundf("refresh token not found")
	}

	return nil
}

func (rr *RefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID int64) error {
	stmt, args, err := rr.db.Builder.Update("refresh_tokens").
		Set("revoked", true).
		Where(sq.Eq{"user_id": userID}).
		ToSql()

	if err != nil {
		return err
	}

	_, err = rr.db.ExecContext(ctx, stmt, args...)

	return err
}
