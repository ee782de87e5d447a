package postgres

import (
	"context"
	"database/sql"
	"time"

	"admithub/internal/common"
	"admithub/internal/domain/form"
)

type FormRepository struct {
	db *sql.DB
}

func NewFormRepository(db *sql.DB) *FormRepository {
	return &FormRepository{db: db}
}

func (r *FormRepository) Create(ctx context.Context, f form.Form) (*form.Form, error) {
	f.ID = common.NewUUID()
	f.CreatedAt = time.Now().UTC()
	_, err := q(ctx, r.db).ExecContext(ctx, `INSERT INTO forms (id, activity_id, activity_type, title, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		f.ID, f.ActivityID, f.ActivityType, f.Title, f.CreatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create form", err)
	}
	return &f, nil
}
