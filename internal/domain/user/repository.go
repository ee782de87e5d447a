package user

import (
	"context"

	"admithub/internal/common"
)

type Repository interface {
	Create(ctx context.Context, u User) (*User, error)
	GetByID(ctx context.Context, id common.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	SetRoles(ctx context.Context, userID common.UUID, roles []Role) error
}
