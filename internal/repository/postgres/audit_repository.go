package postgres

import (
	"context"
	"database/sql"
	"time"

	"admithub/internal/common"
	"admithub/internal/domain/audit"
)

type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(ctx context.Context, record audit.Record) error {
	record.ID = common.NewUUID()
	record.CreatedAt = time.Now().UTC()
	_, err := q(ctx, r.db).ExecContext(ctx, `INSERT INTO audit_records (id, actor_id, action, message, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		record.ID, record.ActorID, record.Action, record.Message, record.CreatedAt)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to write audit record", err)
	}
	return nil
}
