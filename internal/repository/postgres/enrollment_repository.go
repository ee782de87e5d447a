package postgres

import (
	"context"
	"database/sql"
	"time"

	"admithub/internal/common"
	"admithub/internal/domain/enrollment"
)

type EnrollmentRepository struct {
	db *sql.DB
}

func NewEnrollmentRepository(db *sql.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

func (r *EnrollmentRepository) Create(ctx context.Context, approved enrollment.ApprovedApplicant, programme enrollment.ApprovedApplicantProgramme) (*enrollment.ApprovedApplicant, error) {
	approved.ID = common.NewUUID()
	approved.CreatedAt = time.Now().UTC()
	_, err := q(ctx, r.db).ExecContext(ctx, `INSERT INTO approved_applicants (id, user_id, applicant_id, role, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		approved.ID, approved.UserID, approved.ApplicantID, approved.Role, approved.CreatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create approved applicant", err)
	}
	programme.ID = common.NewUUID()
	programme.ApprovedApplicantID = approved.ID
	_, err = q(ctx, r.db).ExecContext(ctx, `INSERT INTO approved_applicant_programmes (id, approved_applicant_id, programme_id, learning_track_id)
		VALUES ($1, $2, $3, $4)`,
		programme.ID, programme.ApprovedApplicantID, programme.ProgrammeID, programme.LearningTrackID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create enrollment", err)
	}
	return &approved, nil
}
