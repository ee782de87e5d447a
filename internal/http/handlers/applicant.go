package handlers

import (
	"net/http"
	"time"

	"admithub/internal/app"
	"admithub/internal/common"
	"admithub/internal/domain/applicant"
	"admithub/internal/http/middleware"
	"admithub/internal/http/response"
)

type ApplicantHandler struct {
	transitions *app.TransitionService
	approvals   *app.ApprovalService
	stages      *app.StageService
	applicants  applicant.Repository
	limiter     middleware.Limiter
}

func NewApplicantHandler(transitions *app.TransitionService, approvals *app.ApprovalService, stages *app.StageService, applicants applicant.Repository, limiter middleware.Limiter) *ApplicantHandler {
	return &ApplicantHandler{transitions: transitions, approvals: approvals, stages: stages, applicants: applicants, limiter: limiter}
}

type moveRequest struct {
	StageID string `json:"stage_id"`
}

func (h *ApplicantHandler) Move(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	applicantID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req moveRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	stageID, err := common.ParseUUID(req.StageID)
	if err != nil {
		response.Error(w, common.NewValidationError("invalid stage_id", map[string]string{"stage_id": "stage_id must be a valid uuid"}))
		return
	}
	updated, err := h.transitions.Move(r.Context(), actor, applicantID, stageID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, "applicant moved", updated)
}

type bulkMoveRequest struct {
	IDs     []string `json:"ids"`
	StageID string   `json:"stage_id"`
}

func (h *ApplicantHandler) BulkMove(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	if !h.allow(actor, "bulk_move") {
		response.Error(w, common.NewError(common.CodeRateLimited, "bulk move rate limit exceeded", nil))
		return
	}
	var req bulkMoveRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	stageID, err := common.ParseUUID(req.StageID)
	if err != nil {
		response.Error(w, common.NewValidationError("invalid stage_id", map[string]string{"stage_id": "stage_id must be a valid uuid"}))
		return
	}
	ids, err := parseIDList(req.IDs)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, invalid, err := h.transitions.BulkMove(r.Context(), actor, ids, stageID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, "applicants moved", response.BulkData{InvalidIDs: invalid, Items: items})
}

type decisionRequest struct {
	Decision string `json:"decision"`
}

func (h *ApplicantHandler) Decide(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	applicantID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req decisionRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	decision, err := app.ParseDecision(req.Decision)
	if err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.approvals.Decide(r.Context(), actor, applicantID, decision)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, "applicant "+decision.Past(), updated)
}

type bulkDecisionRequest struct {
	IDs      []string `json:"ids"`
	Decision string   `json:"decision"`
}

func (h *ApplicantHandler) BulkDecide(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	if !h.allow(actor, "bulk_decide") {
		response.Error(w, common.NewError(common.CodeRateLimited, "bulk decision rate limit exceeded", nil))
		return
	}
	var req bulkDecisionRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	decision, err := app.ParseDecision(req.Decision)
	if err != nil {
		response.Error(w, err)
		return
	}
	ids, err := parseIDList(req.IDs)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, invalid, err := h.approvals.BulkDecide(r.Context(), actor, ids, decision)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, "applicants "+decision.Past(), response.BulkData{InvalidIDs: invalid, Items: items})
}

func (h *ApplicantHandler) ListByActivity(w http.ResponseWriter, r *http.Request) {
	activityID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.applicants.ListByActivity(r.Context(), activityID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, "applicants", items)
}

func (h *ApplicantHandler) Progress(w http.ResponseWriter, r *http.Request) {
	applicantID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	progress, err := h.stages.GetProgress(r.Context(), applicantID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, "applicant progress", progress)
}

func (h *ApplicantHandler) allow(actor app.Actor, operation string) bool {
	if h.limiter == nil {
		return true
	}
	return h.limiter.Allow(operation+":"+actor.UserID.String(), 10, time.Minute)
}
