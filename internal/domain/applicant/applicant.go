package applicant

import (
	"time"

	"admithub/internal/common"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusInReview Status = "in_review"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

const ActivityTypeCallForApplication = "call_for_application"

type ApplicantDetail struct {
	ID              common.UUID  `json:"id"`
	FormID          common.UUID  `json:"form_id"`
	ActivityID      common.UUID  `json:"activity_id"`
	ActivityType    string       `json:"activity_type"`
	ProgrammeID     common.UUID  `json:"programme_id"`
	LearningTrackID *common.UUID `json:"learning_track_id,omitempty"`
	FirstName       string       `json:"first_name"`
	LastName        string       `json:"last_name"`
	Email           string       `json:"email"`
	Gender          string       `json:"gender"`
	Country         string       `json:"country"`
	PhoneNumber     string       `json:"phone_number"`
	DateOfBirth     time.Time    `json:"date_of_birth"`
	Status          Status       `json:"status"`
	StageID         *common.UUID `json:"stage_id,omitempty"`
	Version         int          `json:"version"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}
