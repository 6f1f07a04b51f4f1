package repository

import (
	"context"
	"log/slog"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"taskvault/internal/adapter/database"
	"taskvault/internal/core/domain"
	"taskvault/internal/core/port"
	"taskvault/internal/core/util"
)

var userColumns = []string{
	"id", "email", "password", "full_name", "role", "status",
	"email_verified", "created_at", "updated_at",
}

var userSortColumns = map[string]string{
	"email":      "email",
	"fullName":   "full_name",
	"role":       "role",
	"status":     "status",
	"createdAt":  "created_at",
	"created_at": "created_at",
}

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) port.UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row rowScanner) (domain.User, error) {
	var u domain.User

	err := row.Scan(
		&u.ID, &u.Email, &u.Password, &u.FullName, &u.Role, &u.Status,
		&u.EmailVerified, &u.CreatedAt, &u.UpdatedAt,
	)

	return u, err
}

func (ur *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	stmt, args, err := ur.db.Builder.Insert("users").
		Columns("email", "password", "full_name", "role", "status",
			"email_verified", "created_at", "updated_at").
		Values(user.Email, user.Password, user.FullName, user.Role, user.Status,
			user.EmailVerified, user.CreatedAt, user.UpdatedAt).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	if err := ur.db.QueryRowContext(ctx, stmt, args...).Scan(&user.ID); err != nil {
		slog.Error("Error creating user", "error", err)
		return domain.User{}, conflict(err, "email %s is already registered", user.Email)
	}

	return user, nil
}

func (ur *UserRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	stmt, args, err := ur.db.Builder.Select(userColumns...).
		From("users").
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	user, err := scanUser(ur.db.QueryRowContext(ctx, stmt, args...))

	if err != nil {
		return domain.User{}, notFound(err, "user %d not found", id)
	}

	return user, nil
}

func (ur *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	stmt, args, err := ur.db.Builder.Select(userColumns...).
		From("users").
		Where(sq.Eq{"email": email}).
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	user, err := scanUser(ur.db.QueryRowContext(ctx, stmt, args...))

	if err != nil {
		return domain.User{}, notFound(err, "user %s not found", email)
	}

	return user, nil
}

func (ur *UserRepository) UpdateProfile(ctx context.Context, id int64, fullName string) (domain.User, error) {
	stmt, args, err := ur.db.Builder.Update("users").
		Set("full_name", fullName).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	if _, err := ur.db.ExecContext(ctx, stmt, args...); err != nil {
		return domain.User{}, err
	}

	return ur.GetByID(ctx, id)
}

func (ur *UserRepository) UpdatePassword(ctx context.Context, id int64, hashed string) error {
	stmt, args, err := ur.db.Builder.Update("users").
		Set("password", hashed).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		return err
	}

	result, err := ur.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		return err
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.NotFoundf("user %d not found", id)
	}

	return nil
}

func (ur *UserRepository) UpdateStatus(ctx context.Context, id int64, status domain.UserStatus) (domain.User, error) {
	stmt, args, err := ur.db.Builder.Update("users").
		Set("status", status).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	result, err := ur.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		return domain.User{}, err
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.User{}, domain.NotFoundf("user %d not found", id)
	}

	return ur.GetByID(ctx, id)
}

func (ur *UserRepository) UpdateRole(ctx context.Context, id int64, role domain.Role) (domain.User, error) {
	stmt, args, err := ur.db.Builder.Update("users").
		Set("role", role).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	result, err := ur.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		return domain.User{}, err
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.User{}, domain.NotFoundf("user %d not found", id)
	}

	return ur.GetByID(ctx, id)
}

func (ur *UserRepository) ListAll(ctx context.Context, search string, page util.PageRequest) ([]domain.User, int64, error) {
	var where sq.Sqlizer = sq.Expr("1 = 1")

	if search != "" {
		// Lowered on both sides; postgres LIKE is case-sensitive.
		pattern := "%" + strings.ToLower(search) + "%"
		where = sq.Or{
			sq.Like{"LOWER(email)": pattern},
			sq.Like{"LOWER(full_name)": pattern},
		}
	}

	stmt, args, err := ur.db.Builder.Select(userColumns...).
		From("users").
		Where(where).
		OrderBy(page.OrderClause(userSortColumns, "created_at DESC")).
		Limit(page.Limit()).
		Offset(page.Offset()).
		ToSql()

	if err != nil {
		return nil, 0, err
	}

	rows, err := ur.db.QueryContext(ctx, stmt, args...)

	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	users := []domain.User{}

	for rows.Next() {
		user, err := scanUser(rows)

		if err != nil {
			return nil, 0, err
		}

		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	total, err := ur.countUsers(ctx, where)

	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (ur *UserRepository) countUsers(ctx context.Context, where sq.Sqlizer) (int64, error) {
	stmt, args, err := ur.db.Builder.Select("COUNT(*)").
		From("users").
		Where(where).
		ToSql()

	if err != nil {
		return 0, err
	}

	var total int64

	if err := ur.db.QueryRowContext(ctx, stmt, args...).Scan(&total); err != nil {
		return 0, err
	}

	return total, nil
}

func (ur *UserRepository) CountAll(ctx context.Context) (int64, error) {
	return ur.countUsers(ctx, sq.Expr("1 = 1"))
}

func (ur *UserRepository) CountByStatus(ctx context.Context, status domain.UserStatus) (int64, error) {
	return ur.countUsers(ctx, sq.Eq{"status": status})
}

func (ur *UserRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	return ur.countUsers(ctx, sq.And{
		sq.GtOrEq{"created_at": from},
		sq.LtOrEq{"created_at": to},
	})
}
