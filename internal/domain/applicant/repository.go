package applicant

import (
	"context"

	"admithub/internal/common"
)

type Repository interface {
	GetByID(ctx context.Context, id common.UUID) (*ApplicantDetail, error)
	ListByIDs(ctx context.Context, ids []common.UUID) ([]ApplicantDetail, error)
	ListByActivity(ctx context.Context, activityID common.UUID) ([]ApplicantDetail, error)
	// SetStatusStage writes status and stage guarded by the version the
	// caller loaded; a stale version yields a conflict error.
	SetStatusStage(ctx context.Context, id common.UUID, status Status, stageID *common.UUID, version int) (*ApplicantDetail, error)
}
