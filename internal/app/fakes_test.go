package app

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"admithub/internal/common"
	"admithub/internal/domain/applicant"
	"admithub/internal/domain/audit"
	"admithub/internal/domain/auth"
	"admithub/internal/domain/cfa"
	"admithub/internal/domain/enrollment"
	"admithub/internal/domain/programme"
	"admithub/internal/domain/user"
)

type passTxRunner struct{}

func (passTxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeApplicantRepo struct {
	mu    sync.Mutex
	items map[common.UUID]*applicant.ApplicantDetail
}

func newFakeApplicantRepo(items ...*applicant.ApplicantDetail) *fakeApplicantRepo {
	repo := &fakeApplicantRepo{items: make(map[common.UUID]*applicant.ApplicantDetail)}
	for _, item := range items {
		copied := *item
		repo.items[item.ID] = &copied
	}
	return repo
}

func (r *fakeApplicantRepo) GetByID(_ context.Context, id common.UUID) (*applicant.ApplicantDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "applicant not found", nil)
	}
	copied := *item
	return &copied, nil
}

func (r *fakeApplicantRepo) ListByIDs(_ context.Context, ids []common.UUID) ([]applicant.ApplicantDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]applicant.ApplicantDetail, 0, len(ids))
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *fakeApplicantRepo) ListByActivity(_ context.Context, activityID common.UUID) ([]applicant.ApplicantDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]applicant.ApplicantDetail, 0)
	for _, item := range r.items {
		if item.ActivityID == activityID {
			out = append(out, *item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeApplicantRepo) SetStatusStage(_ context.Context, id common.UUID, status applicant.Status, stageID *common.UUID, version int) (*applicant.ApplicantDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "applicant not found", nil)
	}
	if item.Version != version {
		return nil, common.NewError(common.CodeConflict, "applicant was modified concurrently", nil)
	}
	item.Status = status
	item.StageID = stageID
	item.Version++
	item.UpdatedAt = time.Now().UTC()
	copied := *item
	return &copied, nil
}

type fakeCFARepo struct {
	mu    sync.Mutex
	items map[common.UUID]*cfa.CallForApplication
}

func newFakeCFARepo(items ...*cfa.CallForApplication) *fakeCFARepo {
	repo := &fakeCFARepo{items: make(map[common.UUID]*cfa.CallForApplication)}
	for _, item := range items {
		copied := *item
		repo.items[item.ID] = &copied
	}
	return repo
}

func (r *fakeCFARepo) Create(_ context.Context, c cfa.CallForApplication) (*cfa.CallForApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = common.NewUUID()
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	copied := c
	r.items[c.ID] = &copied
	result := c
	return &result, nil
}

func (r *fakeCFARepo) Update(_ context.Context, c cfa.CallForApplication) (*cfa.CallForApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[c.ID]; !ok {
		return nil, common.NewError(common.CodeNotFound, "call for application not found", nil)
	}
	c.UpdatedAt = time.Now().UTC()
	copied := c
	r.items[c.ID] = &copied
	result := c
	return &result, nil
}

func (r *fakeCFARepo) GetByID(_ context.Context, id common.UUID) (*cfa.CallForApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "call for application not found", nil)
	}
	copied := *item
	return &copied, nil
}

func (r *fakeCFARepo) ListByProgramme(_ context.Context, programmeID common.UUID) ([]cfa.CallForApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]cfa.CallForApplication, 0)
	for _, item := range r.items {
		if item.ProgrammeID == programmeID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *fakeCFARepo) TitleExists(_ context.Context, programmeID common.UUID, title string, excludeID common.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.ProgrammeID == programmeID && strings.EqualFold(item.Title, title) && item.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCFARepo) SetStatus(_ context.Context, id common.UUID, status cfa.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return common.NewError(common.CodeNotFound, "call for application not found", nil)
	}
	item.Status = status
	return nil
}

func (r *fakeCFARepo) SetClosed(_ context.Context, id common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return common.NewError(common.CodeNotFound, "call for application not found", nil)
	}
	item.IsClosed = true
	return nil
}

func (r *fakeCFARepo) SetEndDate(_ context.Context, id common.UUID, endDate time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return common.NewError(common.CodeNotFound, "call for application not found", nil)
	}
	item.EndDate = endDate
	return nil
}

func (r *fakeCFARepo) CloseExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var closed int64
	for _, item := range r.items {
		if !item.IsClosed && item.EndDate.Before(now) {
			item.IsClosed = true
			closed++
		}
	}
	return closed, nil
}

type fakeStageRepo struct {
	mu     sync.Mutex
	byCFA  map[common.UUID][]cfa.Stage
	counts map[common.UUID]int
}

func newFakeStageRepo() *fakeStageRepo {
	return &fakeStageRepo{byCFA: make(map[common.UUID][]cfa.Stage), counts: make(map[common.UUID]int)}
}

func (r *fakeStageRepo) seed(cfaID common.UUID, stages ...cfa.Stage) []cfa.Stage {
	out, _ := r.ReplaceForCFA(context.Background(), cfaID, stages)
	return out
}

func (r *fakeStageRepo) ReplaceForCFA(_ context.Context, cfaID common.UUID, stages []cfa.Stage) ([]cfa.Stage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := make([]cfa.Stage, 0, len(stages))
	for _, stage := range stages {
		if stage.ID.IsZero() {
			stage.ID = common.NewUUID()
		}
		stage.CallForApplicationID = cfaID
		stored = append(stored, stage)
	}
	r.byCFA[cfaID] = stored
	out := make([]cfa.Stage, len(stored))
	copy(out, stored)
	return out, nil
}

func (r *fakeStageRepo) ListByCFA(_ context.Context, cfaID common.UUID) ([]cfa.Stage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := r.byCFA[cfaID]
	out := make([]cfa.Stage, len(stored))
	copy(out, stored)
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

func (r *fakeStageRepo) GetByID(_ context.Context, id common.UUID) (*cfa.Stage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stages := range r.byCFA {
		for _, stage := range stages {
			if stage.ID == id {
				copied := stage
				return &copied, nil
			}
		}
	}
	return nil, common.NewError(common.CodeNotFound, "stage not found", nil)
}

func (r *fakeStageRepo) StatsByCFA(_ context.Context, cfaID common.UUID) ([]cfa.StageStat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := r.byCFA[cfaID]
	out := make([]cfa.StageStat, 0, len(stored))
	for _, stage := range stored {
		out = append(out, cfa.StageStat{StageID: stage.ID, Name: stage.Name, Index: stage.Index, Applicants: r.counts[stage.ID]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

type fakeUserRepo struct {
	mu          sync.Mutex
	byEmail     map[string]*user.User
	createCalls int
}

func newFakeUserRepo(existing ...*user.User) *fakeUserRepo {
	repo := &fakeUserRepo{byEmail: make(map[string]*user.User)}
	for _, u := range existing {
		copied := *u
		repo.byEmail[u.Email] = &copied
	}
	return repo
}

func (r *fakeUserRepo) Create(_ context.Context, u user.User) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	if _, ok := r.byEmail[u.Email]; ok {
		return nil, common.NewError(common.CodeConflict, "email already registered", nil)
	}
	u.ID = common.NewUUID()
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	copied := u
	r.byEmail[u.Email] = &copied
	result := u
	return &result, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id common.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byEmail {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "user not found", nil)
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[email]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) SetRoles(_ context.Context, userID common.UUID, roles []user.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byEmail {
		if u.ID == userID {
			u.Roles = roles
			return nil
		}
	}
	return common.NewError(common.CodeNotFound, "user not found", nil)
}

type fakeEnrollmentRepo struct {
	mu       sync.Mutex
	approved []enrollment.ApprovedApplicant
	links    []enrollment.ApprovedApplicantProgramme
}

func (r *fakeEnrollmentRepo) Create(_ context.Context, approved enrollment.ApprovedApplicant, link enrollment.ApprovedApplicantProgramme) (*enrollment.ApprovedApplicant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	approved.ID = common.NewUUID()
	approved.CreatedAt = time.Now().UTC()
	link.ID = common.NewUUID()
	link.ApprovedApplicantID = approved.ID
	r.approved = append(r.approved, approved)
	r.links = append(r.links, link)
	result := approved
	return &result, nil
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	stored []auth.Token
}

func (r *fakeTokenRepo) Store(_ context.Context, token auth.Token) (*auth.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token.ID = common.NewUUID()
	token.CreatedAt = time.Now().UTC()
	r.stored = append(r.stored, token)
	result := token
	return &result, nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	records []audit.Record
}

func (r *fakeAuditRepo) Create(_ context.Context, record audit.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

func (r *fakeAuditRepo) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.records))
	for _, record := range r.records {
		out = append(out, record.Action)
	}
	return out
}

type fakeProgrammeRepo struct {
	mu    sync.Mutex
	items map[common.UUID]*programme.Programme
}

func newFakeProgrammeRepo(items ...*programme.Programme) *fakeProgrammeRepo {
	repo := &fakeProgrammeRepo{items: make(map[common.UUID]*programme.Programme)}
	for _, item := range items {
		copied := *item
		repo.items[item.ID] = &copied
	}
	return repo
}

func (r *fakeProgrammeRepo) GetByID(_ context.Context, id common.UUID) (*programme.Programme, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "programme not found", nil)
	}
	copied := *item
	return &copied, nil
}

type sentMail struct {
	Recipient string
	Subject   string
	Body      string
}

type sentBulkMail struct {
	Recipients []string
	Subject    string
	Body       string
}

type fakeMailer struct {
	mu       sync.Mutex
	sent     []sentMail
	bulkSent []sentBulkMail
	failNext error
	failAll  error
}

func (m *fakeMailer) Send(_ context.Context, recipient, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return m.failAll
	}
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	m.sent = append(m.sent, sentMail{Recipient: recipient, Subject: subject, Body: body})
	return nil
}

func (m *fakeMailer) SendBulk(_ context.Context, recipients []string, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return m.failAll
	}
	m.bulkSent = append(m.bulkSent, sentBulkMail{Recipients: recipients, Subject: subject, Body: body})
	return nil
}

func (m *fakeMailer) sentTo(recipient string) []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]sentMail, 0)
	for _, mail := range m.sent {
		if mail.Recipient == recipient {
			out = append(out, mail)
		}
	}
	return out
}
