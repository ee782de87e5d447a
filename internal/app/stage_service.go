package app

import (
	"context"

	"admithub/internal/common"
	"admithub/internal/domain/applicant"
	"admithub/internal/domain/cfa"
)

type StageService struct {
	cfas       cfa.Repository
	stages     cfa.StageRepository
	applicants applicant.Repository
}

func NewStageService(cfas cfa.Repository, stages cfa.StageRepository, applicants applicant.Repository) *StageService {
	return &StageService{cfas: cfas, stages: stages, applicants: applicants}
}

func (s *StageService) GetStages(ctx context.Context, cfaID common.UUID) ([]cfa.Stage, error) {
	if _, err := s.cfas.GetByID(ctx, cfaID); err != nil {
		return nil, err
	}
	return s.stages.ListByCFA(ctx, cfaID)
}

func (s *StageService) GetStagesStat(ctx context.Context, cfaID common.UUID) ([]cfa.StageStat, error) {
	if _, err := s.cfas.GetByID(ctx, cfaID); err != nil {
		return nil, err
	}
	return s.stages.StatsByCFA(ctx, cfaID)
}

type Progress struct {
	CurrentStageIndex int `json:"current_stage_index"`
	StageCount        int `json:"stage_count"`
}

// GetProgress derives the "k of n" pipeline position for one applicant.
func (s *StageService) GetProgress(ctx context.Context, applicantID common.UUID) (*Progress, error) {
	detail, err := s.applicants.GetByID(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	stages, err := s.stages.ListByCFA(ctx, detail.ActivityID)
	if err != nil {
		return nil, err
	}
	ids := make([]common.UUID, 0, len(stages))
	for _, stage := range stages {
		ids = append(ids, stage.ID)
	}
	return &Progress{
		CurrentStageIndex: CurrentStageIndex(ids, detail.Status, detail.StageID),
		StageCount:        len(ids),
	}, nil
}

// CurrentStageIndex maps an applicant's status and last visited stage to
// a progress index over the ordered stage ids. Pending applicants sit at
// zero, in-review applicants at one past their stage's position (zero
// when the stage id is not part of the pipeline), and finalized
// applicants at the full stage count.
func CurrentStageIndex(orderedStageIDs []common.UUID, status applicant.Status, stageID *common.UUID) int {
	switch status {
	case applicant.StatusApproved, applicant.StatusRejected:
		return len(orderedStageIDs)
	case applicant.StatusInReview:
		if stageID == nil {
			return 0
		}
		for i, id := range orderedStageIDs {
			if id == *stageID {
				return i + 1
			}
		}
		return 0
	default:
		return 0
	}
}
