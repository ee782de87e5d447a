package enrollment

import (
	"time"

	"admithub/internal/common"
	"admithub/internal/domain/user"
)

type ApprovedApplicant struct {
	ID          common.UUID `json:"id"`
	UserID      common.UUID `json:"user_id"`
	ApplicantID common.UUID `json:"applicant_id"`
	Role        user.Role   `json:"role"`
	CreatedAt   time.Time   `json:"created_at"`
}

type ApprovedApplicantProgramme struct {
	ID                  common.UUID  `json:"id"`
	ApprovedApplicantID common.UUID  `json:"approved_applicant_id"`
	ProgrammeID         common.UUID  `json:"programme_id"`
	LearningTrackID     *common.UUID `json:"learning_track_id,omitempty"`
}
