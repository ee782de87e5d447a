package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"admithub/internal/common"
	"admithub/internal/domain/cfa"
)

type CFARepository struct {
	db *sql.DB
}

func NewCFARepository(db *sql.DB) *CFARepository {
	return &CFARepository{db: db}
}

const cfaColumns = `id, programme_id, title, description, target, target_number, start_date, end_date, is_stage, status, is_closed, created_at, updated_at`

func (r *CFARepository) Create(ctx context.Context, c cfa.CallForApplication) (*cfa.CallForApplication, error) {
	c.ID = common.NewUUID()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	_, err := q(ctx, r.db).ExecContext(ctx, `INSERT INTO call_for_applications (`+cfaColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		c.ID, c.ProgrammeID, c.Title, c.Description, c.Target, c.TargetNumber, c.StartDate, c.EndDate, c.IsStage, c.Status, c.IsClosed, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeValidation, "a call for application with this title already exists for the programme", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create call for application", err)
	}
	return &c, nil
}

func (r *CFARepository) Update(ctx context.Context, c cfa.CallForApplication) (*cfa.CallForApplication, error) {
	c.UpdatedAt = time.Now().UTC()
	_, err := q(ctx, r.db).ExecContext(ctx, `UPDATE call_for_applications
		SET title = $1, description = $2, target = $3, target_number = $4, start_date = $5, end_date = $6, is_stage = $7, updated_at = $8
		WHERE id = $9`,
		c.Title, c.Description, c.Target, c.TargetNumber, c.StartDate, c.EndDate, c.IsStage, c.UpdatedAt, c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeValidation, "a call for application with this title already exists for the programme", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to update call for application", err)
	}
	return &c, nil
}

func (r *CFARepository) GetByID(ctx context.Context, id common.UUID) (*cfa.CallForApplication, error) {
	row := q(ctx, r.db).QueryRowContext(ctx, `SELECT `+cfaColumns+` FROM call_for_applications WHERE id = $1`, id)
	return scanCFA(row)
}

func (r *CFARepository) ListByProgramme(ctx context.Context, programmeID common.UUID) ([]cfa.CallForApplication, error) {
	rows, err := q(ctx, r.db).QueryContext(ctx, `SELECT `+cfaColumns+` FROM call_for_applications WHERE programme_id = $1 ORDER BY created_at DESC`, programmeID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list calls for application", err)
	}
	defer rows.Close()
	var items []cfa.CallForApplication
	for rows.Next() {
		var c cfa.CallForApplication
		if err := rows.Scan(&c.ID, &c.ProgrammeID, &c.Title, &c.Description, &c.Target, &c.TargetNumber, &c.StartDate, &c.EndDate, &c.IsStage, &c.Status, &c.IsClosed, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan call for application", err)
		}
		items = append(items, c)
	}
	return items, nil
}

func (r *CFARepository) TitleExists(ctx context.Context, programmeID common.UUID, title string, excludeID common.UUID) (bool, error) {
	// The exclusion travels as NULL when unset so the id comparison stays
	// uuid-typed; an empty-string sentinel would not parse as uuid.
	exclude := sql.NullString{String: excludeID.String(), Valid: !excludeID.IsZero()}
	var exists bool
	err := q(ctx, r.db).QueryRowContext(ctx, `SELECT EXISTS (
			SELECT 1 FROM call_for_applications
			WHERE programme_id = $1 AND lower(title) = lower($2) AND ($3::uuid IS NULL OR id <> $3::uuid)
		)`, programmeID, title, exclude).Scan(&exists)
	if err != nil {
		return false, common.NewError(common.CodeInternal, "failed to check title", err)
	}
	return exists, nil
}

func (r *CFARepository) SetStatus(ctx context.Context, id common.UUID, status cfa.Status) error {
	_, err := q(ctx, r.db).ExecContext(ctx, `UPDATE call_for_applications SET status = $1, updated_at = $2 WHERE id = $3`, status, time.Now().UTC(), id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to update status", err)
	}
	return nil
}

func (r *CFARepository) SetClosed(ctx context.Context, id common.UUID) error {
	_, err := q(ctx, r.db).ExecContext(ctx, `UPDATE call_for_applications SET is_closed = TRUE, updated_at = $1 WHERE id = $2`, time.Now().UTC(), id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to close call for application", err)
	}
	return nil
}

func (r *CFARepository) SetEndDate(ctx context.Context, id common.UUID, endDate time.Time) error {
	_, err := q(ctx, r.db).ExecContext(ctx, `UPDATE call_for_applications SET end_date = $1, updated_at = $2 WHERE id = $3`, endDate, time.Now().UTC(), id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to extend call for application", err)
	}
	return nil
}

func (r *CFARepository) CloseExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := q(ctx, r.db).ExecContext(ctx, `UPDATE call_for_applications SET is_closed = TRUE, updated_at = $1 WHERE is_closed = FALSE AND end_date < $1`, now)
	if err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to close expired calls for application", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to count closed calls for application", err)
	}
	return affected, nil
}

func scanCFA(row *sql.Row) (*cfa.CallForApplication, error) {
	var c cfa.CallForApplication
	if err := row.Scan(&c.ID, &c.ProgrammeID, &c.Title, &c.Description, &c.Target, &c.TargetNumber, &c.StartDate, &c.EndDate, &c.IsStage, &c.Status, &c.IsClosed, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "call for application not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load call for application", err)
	}
	return &c, nil
}
