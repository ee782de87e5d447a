package audit

import (
	"context"
	"time"

	"admithub/internal/common"
)

type Record struct {
	ID        common.UUID  `json:"id"`
	ActorID   *common.UUID `json:"actor_id,omitempty"`
	Action    string       `json:"action"`
	Message   string       `json:"message"`
	CreatedAt time.Time    `json:"created_at"`
}

type Repository interface {
	Create(ctx context.Context, record Record) error
}
