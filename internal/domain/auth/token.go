package auth

import (
	"context"
	"time"

	"admithub/internal/common"
)

type TokenType string

const TokenTypeInvite TokenType = "invite"

type Token struct {
	ID        common.UUID `json:"id"`
	UserID    common.UUID `json:"user_id"`
	Token     string      `json:"token"`
	Type      TokenType   `json:"type"`
	ExpiresAt time.Time   `json:"expires_at"`
	UsedAt    *time.Time  `json:"used_at,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

type TokenRepository interface {
	Store(ctx context.Context, token Token) (*Token, error)
}
