package postgres

import (
	"context"
	"database/sql"
	"time"

	"admithub/internal/common"
	"admithub/internal/domain/auth"
)

type TokenRepository struct {
	db *sql.DB
}

func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Store(ctx context.Context, token auth.Token) (*auth.Token, error) {
	token.ID = common.NewUUID()
	token.CreatedAt = time.Now().UTC()
	_, err := q(ctx, r.db).ExecContext(ctx, `INSERT INTO tokens (id, user_id, token, type, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		token.ID, token.UserID, token.Token, token.Type, token.ExpiresAt, token.CreatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to store token", err)
	}
	return &token, nil
}
