package app

import (
	"context"
	"log/slog"

	"admithub/internal/common"
	"admithub/internal/domain/applicant"
	"admithub/internal/domain/audit"
	"admithub/internal/domain/cfa"
	"admithub/internal/integration/mailer"
)

type TransitionService struct {
	applicants applicant.Repository
	stages     cfa.StageRepository
	audits     audit.Repository
	mail       mailer.Sender
	tx         TxRunner
	logger     *slog.Logger
}

func NewTransitionService(applicants applicant.Repository, stages cfa.StageRepository, audits audit.Repository, mail mailer.Sender, tx TxRunner, logger *slog.Logger) *TransitionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransitionService{applicants: applicants, stages: stages, audits: audits, mail: mail, tx: tx, logger: logger}
}

func (s *TransitionService) Move(ctx context.Context, actor Actor, applicantID, stageID common.UUID) (*applicant.ApplicantDetail, error) {
	detail, err := s.applicants.GetByID(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	stage, err := s.stages.GetByID(ctx, stageID)
	if err != nil {
		return nil, err
	}
	if err := validateMove(detail, stage); err != nil {
		return nil, err
	}

	var updated *applicant.ApplicantDetail
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		updated, err = s.applicants.SetStatusStage(ctx, detail.ID, applicant.StatusInReview, &stage.ID, detail.Version)
		if err != nil {
			return err
		}
		return s.audits.Create(ctx, audit.Record{
			ActorID: &actor.UserID,
			Action:  "applicant.stage_moved",
			Message: "moved applicant " + detail.Email + " to stage " + stage.Name,
		})
	})
	if err != nil {
		return nil, err
	}

	if stage.NotifyApplicant {
		if err := s.mail.Send(ctx, updated.Email, subjectStageUpdate, stageUpdateBody(updated.FirstName)); err != nil {
			s.logger.Error("stage notification failed", "applicant_id", updated.ID.String(), "error", err)
		}
	}
	return updated, nil
}

func (s *TransitionService) BulkMove(ctx context.Context, actor Actor, ids []common.UUID, stageID common.UUID) ([]applicant.ApplicantDetail, []common.UUID, error) {
	requested := dedupIDs(ids)
	if len(requested) == 0 {
		return nil, nil, common.NewError(common.CodeValidation, "applicant ids are required", nil)
	}
	stage, err := s.stages.GetByID(ctx, stageID)
	if err != nil {
		return nil, nil, err
	}
	found, err := s.applicants.ListByIDs(ctx, requested)
	if err != nil {
		return nil, nil, err
	}
	invalid := missingIDs(requested, found)
	if len(invalid) == len(requested) {
		return nil, nil, common.NewError(common.CodeNotFound, "no applicants found for the given ids", nil)
	}
	for i := range found {
		if err := validateMove(&found[i], stage); err != nil {
			return nil, nil, err
		}
	}

	updated := make([]applicant.ApplicantDetail, 0, len(found))
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		for i := range found {
			item, err := s.applicants.SetStatusStage(ctx, found[i].ID, applicant.StatusInReview, &stage.ID, found[i].Version)
			if err != nil {
				return err
			}
			updated = append(updated, *item)
		}
		return s.audits.Create(ctx, audit.Record{
			ActorID: &actor.UserID,
			Action:  "applicant.stage_moved_bulk",
			Message: "moved applicants to stage " + stage.Name,
		})
	})
	if err != nil {
		return nil, nil, err
	}

	if stage.NotifyApplicant {
		recipients := make([]string, 0, len(updated))
		for _, item := range updated {
			recipients = append(recipients, item.Email)
		}
		if err := s.mail.SendBulk(ctx, recipients, subjectStageUpdate, bulkStageUpdateBody()); err != nil {
			s.logger.Error("bulk stage notification failed", "stage_id", stage.ID.String(), "error", err)
		}
	}
	return updated, invalid, nil
}

func validateMove(detail *applicant.ApplicantDetail, stage *cfa.Stage) error {
	if stage.CallForApplicationID != detail.ActivityID {
		return common.NewError(common.CodeValidation, "stage belongs to another call for application", nil)
	}
	if detail.Status.Terminal() {
		return common.NewError(common.CodeValidation, "applicant has already been finalized", nil)
	}
	return nil
}

func dedupIDs(ids []common.UUID) []common.UUID {
	seen := make(map[common.UUID]struct{}, len(ids))
	out := make([]common.UUID, 0, len(ids))
	for _, id := range ids {
		if id.IsZero() {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func missingIDs(requested []common.UUID, found []applicant.ApplicantDetail) []common.UUID {
	existing := make(map[common.UUID]struct{}, len(found))
	for _, item := range found {
		existing[item.ID] = struct{}{}
	}
	missing := make([]common.UUID, 0)
	for _, id := range requested {
		if _, ok := existing[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
