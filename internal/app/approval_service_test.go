package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admithub/internal/common"
	"admithub/internal/domain/applicant"
	"admithub/internal/domain/cfa"
	"admithub/internal/domain/programme"
	"admithub/internal/domain/user"
)

type approvalFixture struct {
	service     *ApprovalService
	applicants  *fakeApplicantRepo
	users       *fakeUserRepo
	enrollments *fakeEnrollmentRepo
	tokens      *fakeTokenRepo
	audits      *fakeAuditRepo
	mail        *fakeMailer
	campaign    *cfa.CallForApplication
	programme   *programme.Programme
}

func newApprovalFixture(t *testing.T, target cfa.Target) *approvalFixture {
	t.Helper()
	prog := &programme.Programme{ID: common.NewUUID(), OrganizationID: common.NewUUID(), Title: "Tech Bootcamp"}
	campaign := &cfa.CallForApplication{
		ID:          common.NewUUID(),
		ProgrammeID: prog.ID,
		Title:       "Cohort 4",
		Target:      target,
		StartDate:   time.Now().UTC().Add(-24 * time.Hour),
		EndDate:     time.Now().UTC().Add(24 * time.Hour),
		Status:      cfa.StatusActivate,
	}
	fixture := &approvalFixture{
		applicants:  newFakeApplicantRepo(),
		users:       newFakeUserRepo(),
		enrollments: &fakeEnrollmentRepo{},
		tokens:      &fakeTokenRepo{},
		audits:      &fakeAuditRepo{},
		mail:        &fakeMailer{},
		campaign:    campaign,
		programme:   prog,
	}
	accounts := NewAccountService(fixture.users, fixture.enrollments, fixture.tokens, fixture.audits, fixture.mail, "Temp@2026", "https://app.example.com", 168*time.Hour)
	fixture.service = NewApprovalService(
		fixture.applicants,
		newFakeCFARepo(campaign),
		newFakeProgrammeRepo(prog),
		fixture.users,
		accounts,
		fixture.audits,
		fixture.mail,
		passTxRunner{},
		nil,
	)
	return fixture
}

func (f *approvalFixture) addApplicant(email string) *applicant.ApplicantDetail {
	detail := newTestApplicant(f.campaign.ID, f.programme.ID, email)
	detail.Status = applicant.StatusInReview
	f.applicants.items[detail.ID] = detail
	return detail
}

func TestDecideApproveProvisionsAccount(t *testing.T) {
	fixture := newApprovalFixture(t, cfa.TargetBeneficiary)
	detail := fixture.addApplicant("ada@example.com")
	actor := Actor{UserID: common.NewUUID(), OrganizationID: fixture.programme.OrganizationID}

	updated, err := fixture.service.Decide(context.Background(), actor, detail.ID, DecisionApprove)
	require.NoError(t, err)
	assert.Equal(t, applicant.StatusApproved, updated.Status)

	account, err := fixture.users.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.StatusPending, account.Status)
	assert.Equal(t, []user.Role{user.RoleBeneficiary}, account.Roles)
	assert.NotEmpty(t, account.PasswordHash)

	require.Len(t, fixture.enrollments.approved, 1)
	assert.Equal(t, account.ID, fixture.enrollments.approved[0].UserID)
	assert.Equal(t, detail.ID, fixture.enrollments.approved[0].ApplicantID)
	require.Len(t, fixture.enrollments.links, 1)
	assert.Equal(t, fixture.programme.ID, fixture.enrollments.links[0].ProgrammeID)

	require.Len(t, fixture.tokens.stored, 1)
	assert.Len(t, fixture.tokens.stored[0].Token, 128)

	invites := fixture.mail.sentTo("ada@example.com")
	require.Len(t, invites, 1)
	assert.Equal(t, subjectInvite, invites[0].Subject)
	assert.Contains(t, invites[0].Body, "https://app.example.com/activate?token="+fixture.tokens.stored[0].Token)

	assert.Contains(t, fixture.audits.actions(), "applicant.approved")
	assert.Contains(t, fixture.audits.actions(), "user.signed_up")
}

func TestDecideApproveRoleFollowsTarget(t *testing.T) {
	fixture := newApprovalFixture(t, cfa.TargetFacilitator)
	detail := fixture.addApplicant("tutor@example.com")

	_, err := fixture.service.Decide(context.Background(), Actor{UserID: common.NewUUID()}, detail.ID, DecisionApprove)
	require.NoError(t, err)

	account, err := fixture.users.FindByEmail(context.Background(), "tutor@example.com")
	require.NoError(t, err)
	assert.Equal(t, []user.Role{user.RoleFacilitator}, account.Roles)
	require.Len(t, fixture.enrollments.approved, 1)
	assert.Equal(t, user.RoleFacilitator, fixture.enrollments.approved[0].Role)
}

func TestDecideApproveSkipsProvisioningForExistingEmail(t *testing.T) {
	fixture := newApprovalFixture(t, cfa.TargetBeneficiary)
	existing, err := fixture.users.Create(context.Background(), user.User{Email: "ada@example.com", Status: user.StatusActive})
	require.NoError(t, err)
	createsBefore := fixture.users.createCalls
	detail := fixture.addApplicant("ada@example.com")

	updated, err := fixture.service.Decide(context.Background(), Actor{UserID: common.NewUUID()}, detail.ID, DecisionApprove)
	require.NoError(t, err)
	assert.Equal(t, applicant.StatusApproved, updated.Status)

	assert.Equal(t, createsBefore, fixture.users.createCalls)
	assert.Empty(t, fixture.enrollments.approved)
	assert.Empty(t, fixture.tokens.stored)
	assert.Empty(t, fixture.mail.sent)

	account, err := fixture.users.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, account.ID)
	assert.Equal(t, user.StatusActive, account.Status)
}

func TestDecideRejectSendsNoticeWithoutProvisioning(t *testing.T) {
	fixture := newApprovalFixture(t, cfa.TargetBeneficiary)
	detail := fixture.addApplicant("ada@example.com")

	updated, err := fixture.service.Decide(context.Background(), Actor{UserID: common.NewUUID()}, detail.ID, DecisionReject)
	require.NoError(t, err)
	assert.Equal(t, applicant.StatusRejected, updated.Status)

	assert.Equal(t, 0, fixture.users.createCalls)
	assert.Empty(t, fixture.enrollments.approved)
	assert.Empty(t, fixture.tokens.stored)

	notices := fixture.mail.sentTo("ada@example.com")
	require.Len(t, notices, 1)
	assert.Equal(t, subjectRejection, notices[0].Subject)
	assert.Contains(t, notices[0].Body, "Tech Bootcamp")
	assert.Contains(t, fixture.audits.actions(), "applicant.rejected")
}

func TestDecideRejectSurvivesMailFailure(t *testing.T) {
	fixture := newApprovalFixture(t, cfa.TargetBeneficiary)
	fixture.mail.failAll = errors.New("smtp down")
	detail := fixture.addApplicant("ada@example.com")

	updated, err := fixture.service.Decide(context.Background(), Actor{UserID: common.NewUUID()}, detail.ID, DecisionReject)
	require.NoError(t, err)
	assert.Equal(t, applicant.StatusRejected, updated.Status)
}

func TestDecideAllowsReversingDecision(t *testing.T) {
	fixture := newApprovalFixture(t, cfa.TargetBeneficiary)
	detail := fixture.addApplicant("ada@example.com")
	actor := Actor{UserID: common.NewUUID()}

	approved, err := fixture.service.Decide(context.Background(), actor, detail.ID, DecisionApprove)
	require.NoError(t, err)
	assert.Equal(t, applicant.StatusApproved, approved.Status)

	rejected, err := fixture.service.Decide(context.Background(), actor, detail.ID, DecisionReject)
	require.NoError(t, err)
	assert.Equal(t, applicant.StatusRejected, rejected.Status)
	assert.Equal(t, 2, rejected.Version)
}

func TestBulkDecidePartialSuccess(t *testing.T) {
	fixture := newApprovalFixture(t, cfa.TargetBeneficiary)
	first := fixture.addApplicant("first@example.com")
	second := fixture.addApplicant("second@example.com")
	unknown := common.NewUUID()

	items, invalid, err := fixture.service.BulkDecide(context.Background(), Actor{UserID: common.NewUUID()}, []common.UUID{first.ID, second.ID, unknown}, DecisionApprove)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, []common.UUID{unknown}, invalid)
	for _, item := range items {
		assert.Equal(t, applicant.StatusApproved, item.Status)
	}
	assert.Equal(t, 2, fixture.users.createCalls)
	assert.Contains(t, fixture.audits.actions(), "applicant.approved_bulk")
}

func TestBulkDecideAllInvalidIsNotFound(t *testing.T) {
	fixture := newApprovalFixture(t, cfa.TargetBeneficiary)
	bystander := fixture.addApplicant("bystander@example.com")

	_, _, err := fixture.service.BulkDecide(context.Background(), Actor{UserID: common.NewUUID()}, []common.UUID{common.NewUUID()}, DecisionReject)
	require.Error(t, err)
	assert.True(t, common.Is(err, common.CodeNotFound))
	assert.Equal(t, 0, fixture.users.createCalls)

	untouched, err := fixture.applicants.GetByID(context.Background(), bystander.ID)
	require.NoError(t, err)
	assert.Equal(t, applicant.StatusInReview, untouched.Status)
}

func TestBulkApproveSharedEmailProvisionsOnce(t *testing.T) {
	fixture := newApprovalFixture(t, cfa.TargetBeneficiary)
	first := fixture.addApplicant("shared@example.com")
	second := fixture.addApplicant("shared@example.com")

	items, invalid, err := fixture.service.BulkDecide(context.Background(), Actor{UserID: common.NewUUID()}, []common.UUID{first.ID, second.ID}, DecisionApprove)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Empty(t, invalid)

	assert.Equal(t, 1, fixture.users.createCalls)
	assert.Len(t, fixture.enrollments.approved, 1)
	assert.Len(t, fixture.tokens.stored, 1)
}

func TestParseDecision(t *testing.T) {
	decision, err := ParseDecision("  Approve ")
	require.NoError(t, err)
	assert.Equal(t, DecisionApprove, decision)

	_, err = ParseDecision("maybe")
	require.Error(t, err)
	assert.True(t, common.Is(err, common.CodeValidation))
}

func TestRoleForTarget(t *testing.T) {
	assert.Equal(t, user.RoleBeneficiary, RoleForTarget(cfa.TargetBeneficiary))
	assert.Equal(t, user.RoleFacilitator, RoleForTarget(cfa.TargetFacilitator))
	assert.Equal(t, user.RoleVolunteer, RoleForTarget(cfa.TargetVolunteer))
}

func TestInviteTokenIsHex(t *testing.T) {
	fixture := newApprovalFixture(t, cfa.TargetBeneficiary)
	detail := fixture.addApplicant("ada@example.com")

	_, err := fixture.service.Decide(context.Background(), Actor{UserID: common.NewUUID()}, detail.ID, DecisionApprove)
	require.NoError(t, err)
	require.Len(t, fixture.tokens.stored, 1)
	token := fixture.tokens.stored[0].Token
	assert.Len(t, token, 128)
	assert.Equal(t, strings.ToLower(token), token)
}
