package app

import (
	"context"
	"time"

	"admithub/internal/common"
	"admithub/internal/domain/applicant"
	"admithub/internal/domain/audit"
	"admithub/internal/domain/auth"
	"admithub/internal/domain/cfa"
	"admithub/internal/domain/enrollment"
	"admithub/internal/domain/user"
	"admithub/internal/integration/mailer"
	"admithub/internal/security"
)

type AccountService struct {
	users       user.Repository
	enrollments enrollment.Repository
	tokens      auth.TokenRepository
	audits      audit.Repository
	mail        mailer.Sender
	temp        string
	appBaseURL  string
	inviteTTL   time.Duration
}

func NewAccountService(users user.Repository, enrollments enrollment.Repository, tokens auth.TokenRepository, audits audit.Repository, mail mailer.Sender, tempPassword, appBaseURL string, inviteTTL time.Duration) *AccountService {
	return &AccountService{
		users:       users,
		enrollments: enrollments,
		tokens:      tokens,
		audits:      audits,
		mail:        mail,
		temp:        tempPassword,
		appBaseURL:  appBaseURL,
		inviteTTL:   inviteTTL,
	}
}

// CreateAccount provisions a pending account with the default temporary
// password and the role resolved from the campaign's target.
func (s *AccountService) CreateAccount(ctx context.Context, detail *applicant.ApplicantDetail, target cfa.Target) (*user.User, user.Role, error) {
	hash, err := security.HashPassword(s.temp)
	if err != nil {
		return nil, "", common.NewError(common.CodeInternal, "failed to hash password", err)
	}
	role := RoleForTarget(target)
	account, err := s.users.Create(ctx, user.User{
		FirstName:    detail.FirstName,
		LastName:     detail.LastName,
		Email:        detail.Email,
		PasswordHash: hash,
		Status:       user.StatusPending,
		Roles:        []user.Role{role},
	})
	if err != nil {
		return nil, "", err
	}
	if err := s.audits.Create(ctx, audit.Record{
		ActorID: &account.ID,
		Action:  "user.signed_up",
		Message: account.Email + " signed up",
	}); err != nil {
		return nil, "", err
	}
	return account, role, nil
}

func (s *AccountService) CreateEnrollment(ctx context.Context, detail *applicant.ApplicantDetail, accountID common.UUID, role user.Role) (*enrollment.ApprovedApplicant, error) {
	return s.enrollments.Create(ctx,
		enrollment.ApprovedApplicant{
			UserID:      accountID,
			ApplicantID: detail.ID,
			Role:        role,
		},
		enrollment.ApprovedApplicantProgramme{
			ProgrammeID:     detail.ProgrammeID,
			LearningTrackID: detail.LearningTrackID,
		})
}

// Invite stores a single-use token and mails the activation link.
func (s *AccountService) Invite(ctx context.Context, account *user.User, programmeTitle string) error {
	token, err := security.InviteToken()
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to generate invite token", err)
	}
	if _, err := s.tokens.Store(ctx, auth.Token{
		UserID:    account.ID,
		Token:     token,
		Type:      auth.TokenTypeInvite,
		ExpiresAt: time.Now().UTC().Add(s.inviteTTL),
	}); err != nil {
		return err
	}
	link := s.appBaseURL + "/activate?token=" + token
	return s.mail.Send(ctx, account.Email, subjectInvite, inviteBody(account.FirstName, programmeTitle, link))
}

func RoleForTarget(target cfa.Target) user.Role {
	switch target {
	case cfa.TargetFacilitator:
		return user.RoleFacilitator
	case cfa.TargetVolunteer:
		return user.RoleVolunteer
	default:
		return user.RoleBeneficiary
	}
}
