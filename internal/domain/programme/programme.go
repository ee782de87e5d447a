package programme

import (
	"context"
	"time"

	"admithub/internal/common"
)

type Programme struct {
	ID             common.UUID `json:"id"`
	OrganizationID common.UUID `json:"organization_id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	CreatedAt      time.Time   `json:"created_at"`
}

type Repository interface {
	GetByID(ctx context.Context, id common.UUID) (*Programme, error)
}
