package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"admithub/internal/common"
	"admithub/internal/domain/applicant"
)

type ApplicantRepository struct {
	db *sql.DB
}

func NewApplicantRepository(db *sql.DB) *ApplicantRepository {
	return &ApplicantRepository{db: db}
}

const applicantColumns = `id, form_id, activity_id, activity_type, programme_id, learning_track_id, first_name, last_name, email, gender, country, phone_number, date_of_birth, status, stage_id, version, created_at, updated_at`

func (r *ApplicantRepository) GetByID(ctx context.Context, id common.UUID) (*applicant.ApplicantDetail, error) {
	row := q(ctx, r.db).QueryRowContext(ctx, `SELECT `+applicantColumns+` FROM applicant_details WHERE id = $1`, id)
	detail, err := scanApplicant(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "applicant not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load applicant", err)
	}
	return detail, nil
}

func (r *ApplicantRepository) ListByIDs(ctx context.Context, ids []common.UUID) ([]applicant.ApplicantDetail, error) {
	values := make([]string, 0, len(ids))
	for _, id := range ids {
		values = append(values, id.String())
	}
	rows, err := q(ctx, r.db).QueryContext(ctx, `SELECT `+applicantColumns+` FROM applicant_details WHERE id = ANY($1)`, pq.Array(values))
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applicants", err)
	}
	defer rows.Close()
	return collectApplicants(rows)
}

func (r *ApplicantRepository) ListByActivity(ctx context.Context, activityID common.UUID) ([]applicant.ApplicantDetail, error) {
	rows, err := q(ctx, r.db).QueryContext(ctx, `SELECT `+applicantColumns+` FROM applicant_details WHERE activity_id = $1 ORDER BY created_at DESC`, activityID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applicants", err)
	}
	defer rows.Close()
	return collectApplicants(rows)
}

func (r *ApplicantRepository) SetStatusStage(ctx context.Context, id common.UUID, status applicant.Status, stageID *common.UUID, version int) (*applicant.ApplicantDetail, error) {
	result, err := q(ctx, r.db).ExecContext(ctx, `UPDATE applicant_details
		SET status = $1, stage_id = $2, version = version + 1, updated_at = $3
		WHERE id = $4 AND version = $5`,
		status, stageID, time.Now().UTC(), id, version)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update applicant", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update applicant", err)
	}
	if affected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, common.NewError(common.CodeConflict, "applicant was modified concurrently", nil)
	}
	return r.GetByID(ctx, id)
}

func collectApplicants(rows *sql.Rows) ([]applicant.ApplicantDetail, error) {
	var items []applicant.ApplicantDetail
	for rows.Next() {
		detail, err := scanApplicant(rows.Scan)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan applicant", err)
		}
		items = append(items, *detail)
	}
	return items, nil
}

func scanApplicant(scan func(dest ...any) error) (*applicant.ApplicantDetail, error) {
	var detail applicant.ApplicantDetail
	var learningTrackID, stageID sql.NullString
	if err := scan(&detail.ID, &detail.FormID, &detail.ActivityID, &detail.ActivityType, &detail.ProgrammeID, &learningTrackID,
		&detail.FirstName, &detail.LastName, &detail.Email, &detail.Gender, &detail.Country, &detail.PhoneNumber,
		&detail.DateOfBirth, &detail.Status, &stageID, &detail.Version, &detail.CreatedAt, &detail.UpdatedAt); err != nil {
		return nil, err
	}
	if learningTrackID.Valid {
		id := common.UUID(learningTrackID.String)
		detail.LearningTrackID = &id
	}
	if stageID.Valid {
		id := common.UUID(stageID.String)
		detail.StageID = &id
	}
	return &detail, nil
}
