package postgres

import (
	"context"
	"database/sql"
	"errors"

	"admithub/internal/common"
	"admithub/internal/domain/programme"
)

type ProgrammeRepository struct {
	db *sql.DB
}

func NewProgrammeRepository(db *sql.DB) *ProgrammeRepository {
	return &ProgrammeRepository{db: db}
}

func (r *ProgrammeRepository) GetByID(ctx context.Context, id common.UUID) (*programme.Programme, error) {
	row := q(ctx, r.db).QueryRowContext(ctx, `SELECT id, organization_id, title, description, created_at FROM programmes WHERE id = $1`, id)
	var p programme.Programme
	if err := row.Scan(&p.ID, &p.OrganizationID, &p.Title, &p.Description, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "programme not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load programme", err)
	}
	return &p, nil
}
