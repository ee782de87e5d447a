package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"admithub/internal/common"
	"admithub/internal/domain/cfa"
)

type StageRepository struct {
	db *sql.DB
}

func NewStageRepository(db *sql.DB) *StageRepository {
	return &StageRepository{db: db}
}

// ReplaceForCFA drops the existing stage set and inserts the supplied
// one. Indexes are keyed (call_for_application_id, stage_index) and the
// incoming slice order is canonical.
func (r *StageRepository) ReplaceForCFA(ctx context.Context, cfaID common.UUID, stages []cfa.Stage) ([]cfa.Stage, error) {
	if _, err := q(ctx, r.db).ExecContext(ctx, `DELETE FROM stages WHERE call_for_application_id = $1`, cfaID); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to clear stages", err)
	}
	now := time.Now().UTC()
	out := make([]cfa.Stage, 0, len(stages))
	for _, stage := range stages {
		stage.ID = common.NewUUID()
		stage.CallForApplicationID = cfaID
		_, err := q(ctx, r.db).ExecContext(ctx, `INSERT INTO stages (id, call_for_application_id, name, stage_index, notify_applicant, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			stage.ID, stage.CallForApplicationID, stage.Name, stage.Index, stage.NotifyApplicant, now)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to insert stage", err)
		}
		out = append(out, stage)
	}
	return out, nil
}

func (r *StageRepository) ListByCFA(ctx context.Context, cfaID common.UUID) ([]cfa.Stage, error) {
	rows, err := q(ctx, r.db).QueryContext(ctx, `SELECT id, call_for_application_id, name, stage_index, notify_applicant
		FROM stages WHERE call_for_application_id = $1 ORDER BY stage_index ASC`, cfaID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list stages", err)
	}
	defer rows.Close()
	var items []cfa.Stage
	for rows.Next() {
		var stage cfa.Stage
		if err := rows.Scan(&stage.ID, &stage.CallForApplicationID, &stage.Name, &stage.Index, &stage.NotifyApplicant); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan stage", err)
		}
		items = append(items, stage)
	}
	return items, nil
}

func (r *StageRepository) GetByID(ctx context.Context, id common.UUID) (*cfa.Stage, error) {
	row := q(ctx, r.db).QueryRowContext(ctx, `SELECT id, call_for_application_id, name, stage_index, notify_applicant FROM stages WHERE id = $1`, id)
	var stage cfa.Stage
	if err := row.Scan(&stage.ID, &stage.CallForApplicationID, &stage.Name, &stage.Index, &stage.NotifyApplicant); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "stage not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load stage", err)
	}
	return &stage, nil
}

func (r *StageRepository) StatsByCFA(ctx context.Context, cfaID common.UUID) ([]cfa.StageStat, error) {
	rows, err := q(ctx, r.db).QueryContext(ctx, `SELECT s.id, s.name, s.stage_index, COUNT(a.id)
		FROM stages s
		LEFT JOIN applicant_details a ON a.stage_id = s.id
		WHERE s.call_for_application_id = $1
		GROUP BY s.id, s.name, s.stage_index
		ORDER BY s.stage_index ASC`, cfaID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to load stage stats", err)
	}
	defer rows.Close()
	var items []cfa.StageStat
	for rows.Next() {
		var stat cfa.StageStat
		if err := rows.Scan(&stat.StageID, &stat.Name, &stat.Index, &stat.Applicants); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan stage stat", err)
		}
		items = append(items, stat)
	}
	return items, nil
}
