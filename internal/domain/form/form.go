package form

import (
	"context"
	"time"

	"admithub/internal/common"
)

// Form is the dynamic form shell attached to a campaign at creation.
// Question building and submissions are handled elsewhere.
type Form struct {
	ID           common.UUID `json:"id"`
	ActivityID   common.UUID `json:"activity_id"`
	ActivityType string      `json:"activity_type"`
	Title        string      `json:"title"`
	CreatedAt    time.Time   `json:"created_at"`
}

type Repository interface {
	Create(ctx context.Context, f Form) (*Form, error)
}
