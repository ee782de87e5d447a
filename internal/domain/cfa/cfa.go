package cfa

import (
	"strings"
	"time"

	"admithub/internal/common"
)

type Status string

const (
	StatusActivate   Status = "activate"
	StatusDeactivate Status = "deactivate"
)

type Target string

const (
	TargetBeneficiary Target = "beneficiary"
	TargetFacilitator Target = "facilitator"
	TargetVolunteer   Target = "volunteer"
)

func ParseTarget(value string) (Target, error) {
	normalized := Target(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case TargetBeneficiary, TargetFacilitator, TargetVolunteer:
		return normalized, nil
	default:
		return "", common.NewValidationError("invalid target", map[string]string{"target": "target must be beneficiary, facilitator, or volunteer"})
	}
}

type CallForApplication struct {
	ID           common.UUID `json:"id"`
	ProgrammeID  common.UUID `json:"programme_id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Target       Target      `json:"target"`
	TargetNumber int         `json:"target_number"`
	StartDate    time.Time   `json:"start_date"`
	EndDate      time.Time   `json:"end_date"`
	IsStage      bool        `json:"is_stage"`
	Status       Status      `json:"status"`
	IsClosed     bool        `json:"is_closed"`
	Stages       []Stage     `json:"stages,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type Stage struct {
	ID                   common.UUID `json:"id"`
	CallForApplicationID common.UUID `json:"call_for_application_id"`
	Name                 string      `json:"name"`
	Index                int         `json:"index"`
	NotifyApplicant      bool        `json:"notify_applicant"`
}

type StageStat struct {
	StageID    common.UUID `json:"stage_id"`
	Name       string      `json:"name"`
	Index      int         `json:"index"`
	Applicants int         `json:"applicants"`
}

// ClosureDue reports whether the campaign window has elapsed without the
// closed flag being set. The daily sweep and all on-demand checks apply
// this same predicate.
func (c *CallForApplication) ClosureDue(now time.Time) bool {
	return !c.IsClosed && c.EndDate.Before(now)
}

func (c *CallForApplication) Closed(now time.Time) bool {
	return c.IsClosed || c.EndDate.Before(now)
}
