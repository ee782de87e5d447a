package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"admithub/internal/common"
	"admithub/internal/domain/user"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u user.User) (*user.User, error) {
	u.ID = common.NewUUID()
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	roles := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		roles = append(roles, string(role))
	}
	_, err := q(ctx, r.db).ExecContext(ctx, `INSERT INTO users (id, first_name, last_name, email, password_hash, status, roles, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.Status, pq.Array(roles), u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "an account with this email already exists", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create user", err)
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id common.UUID) (*user.User, error) {
	row := q(ctx, r.db).QueryRowContext(ctx, `SELECT id, first_name, last_name, email, password_hash, status, roles, created_at, updated_at FROM users WHERE id = $1`, id)
	return scanUser(row.Scan)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	row := q(ctx, r.db).QueryRowContext(ctx, `SELECT id, first_name, last_name, email, password_hash, status, roles, created_at, updated_at FROM users WHERE lower(email) = lower($1)`, email)
	return scanUser(row.Scan)
}

func (r *UserRepository) SetRoles(ctx context.Context, userID common.UUID, roles []user.Role) error {
	values := make([]string, 0, len(roles))
	for _, role := range roles {
		values = append(values, string(role))
	}
	_, err := q(ctx, r.db).ExecContext(ctx, `UPDATE users SET roles = $1, updated_at = $2 WHERE id = $3`, pq.Array(values), time.Now().UTC(), userID)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to update roles", err)
	}
	return nil
}

func scanUser(scan func(dest ...any) error) (*user.User, error) {
	var u user.User
	var roles pq.StringArray
	if err := scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Status, &roles, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "user not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load user", err)
	}
	u.Roles = make([]user.Role, 0, len(roles))
	for _, role := range roles {
		u.Roles = append(u.Roles, user.Role(role))
	}
	return &u, nil
}
