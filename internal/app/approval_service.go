package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"admithub/internal/common"
	"admithub/internal/domain/applicant"
	"admithub/internal/domain/audit"
	"admithub/internal/domain/cfa"
	"admithub/internal/domain/programme"
	"admithub/internal/domain/user"
	"admithub/internal/integration/mailer"
)

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Past returns the past tense used in audit actions and responses.
func (d Decision) Past() string {
	if d == DecisionReject {
		return "rejected"
	}
	return "approved"
}

func ParseDecision(value string) (Decision, error) {
	normalized := Decision(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case DecisionApprove, DecisionReject:
		return normalized, nil
	default:
		return "", common.NewValidationError("invalid decision", map[string]string{"decision": "decision must be approve or reject"})
	}
}

type ApprovalService struct {
	applicants applicant.Repository
	cfas       cfa.Repository
	programmes programme.Repository
	users      user.Repository
	accounts   *AccountService
	audits     audit.Repository
	mail       mailer.Sender
	tx         TxRunner
	logger     *slog.Logger
}

func NewApprovalService(applicants applicant.Repository, cfas cfa.Repository, programmes programme.Repository, users user.Repository, accounts *AccountService, audits audit.Repository, mail mailer.Sender, tx TxRunner, logger *slog.Logger) *ApprovalService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ApprovalService{
		applicants: applicants,
		cfas:       cfas,
		programmes: programmes,
		users:      users,
		accounts:   accounts,
		audits:     audits,
		mail:       mail,
		tx:         tx,
		logger:     logger,
	}
}

func (s *ApprovalService) Decide(ctx context.Context, actor Actor, applicantID common.UUID, decision Decision) (*applicant.ApplicantDetail, error) {
	detail, err := s.applicants.GetByID(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	campaign, err := s.cfas.GetByID(ctx, detail.ActivityID)
	if err != nil {
		return nil, err
	}
	prog, err := s.programmes.GetByID(ctx, detail.ProgrammeID)
	if err != nil {
		return nil, err
	}

	var updated *applicant.ApplicantDetail
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		updated, err = s.decideOne(ctx, detail, decision, campaign.Target, prog.Title)
		if err != nil {
			return err
		}
		return s.audits.Create(ctx, audit.Record{
			ActorID: &actor.UserID,
			Action:  "applicant." + decision.Past(),
			Message: decision.Past() + " applicant " + detail.Email,
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *ApprovalService) BulkDecide(ctx context.Context, actor Actor, ids []common.UUID, decision Decision) ([]applicant.ApplicantDetail, []common.UUID, error) {
	requested := dedupIDs(ids)
	if len(requested) == 0 {
		return nil, nil, common.NewError(common.CodeValidation, "applicant ids are required", nil)
	}
	found, err := s.applicants.ListByIDs(ctx, requested)
	if err != nil {
		return nil, nil, err
	}
	invalid := missingIDs(requested, found)
	if len(invalid) == len(requested) {
		return nil, nil, common.NewError(common.CodeNotFound, "no applicants found for the given ids", nil)
	}

	updated := make([]applicant.ApplicantDetail, 0, len(found))
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		for i := range found {
			campaign, err := s.cfas.GetByID(ctx, found[i].ActivityID)
			if err != nil {
				return err
			}
			prog, err := s.programmes.GetByID(ctx, found[i].ProgrammeID)
			if err != nil {
				return err
			}
			item, err := s.decideOne(ctx, &found[i], decision, campaign.Target, prog.Title)
			if err != nil {
				return err
			}
			updated = append(updated, *item)
		}
		return s.audits.Create(ctx, audit.Record{
			ActorID: &actor.UserID,
			Action:  "applicant." + decision.Past() + "_bulk",
			Message: fmt.Sprintf("%s %d applicants", decision.Past(), len(found)),
		})
	})
	if err != nil {
		return nil, nil, err
	}
	return updated, invalid, nil
}

// decideOne applies the uniform status and runs the per-applicant side
// effect. Mail failures never fail the call; only staged entity writes
// do.
func (s *ApprovalService) decideOne(ctx context.Context, detail *applicant.ApplicantDetail, decision Decision, target cfa.Target, programmeTitle string) (*applicant.ApplicantDetail, error) {
	status := applicant.StatusApproved
	if decision == DecisionReject {
		status = applicant.StatusRejected
	}
	updated, err := s.applicants.SetStatusStage(ctx, detail.ID, status, detail.StageID, detail.Version)
	if err != nil {
		return nil, err
	}
	switch decision {
	case DecisionApprove:
		if err := s.provision(ctx, updated, target, programmeTitle); err != nil {
			return nil, err
		}
	case DecisionReject:
		if err := s.mail.Send(ctx, updated.Email, subjectRejection, rejectionBody(updated.FirstName, programmeTitle)); err != nil {
			s.logger.Error("rejection notice failed", "applicant_id", updated.ID.String(), "error", err)
		}
	}
	return updated, nil
}

// provision creates account, enrollment, and invite on the first
// approval of an email; repeated approvals find the account and skip.
func (s *ApprovalService) provision(ctx context.Context, detail *applicant.ApplicantDetail, target cfa.Target, programmeTitle string) error {
	_, err := s.users.FindByEmail(ctx, detail.Email)
	if err == nil {
		return nil
	}
	if !common.Is(err, common.CodeNotFound) {
		return err
	}
	account, role, err := s.accounts.CreateAccount(ctx, detail, target)
	if err != nil {
		return err
	}
	if _, err := s.accounts.CreateEnrollment(ctx, detail, account.ID, role); err != nil {
		return err
	}
	if err := s.accounts.Invite(ctx, account, programmeTitle); err != nil {
		s.logger.Error("invite failed", "applicant_id", detail.ID.String(), "error", err)
	}
	return nil
}
