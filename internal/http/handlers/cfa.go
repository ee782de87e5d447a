package handlers

import (
	"net/http"
	"time"

	"admithub/internal/app"
	"admithub/internal/common"
	"admithub/internal/http/response"
)

type CFAHandler struct {
	cfas   *app.CFAService
	stages *app.StageService
}

func NewCFAHandler(cfas *app.CFAService, stages *app.StageService) *CFAHandler {
	return &CFAHandler{cfas: cfas, stages: stages}
}

func (h *CFAHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req app.CFAInput
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.cfas.Create(r.Context(), actor, req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, "call for application created", created)
}

func (h *CFAHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req app.CFAInput
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.cfas.Update(r.Context(), actor, id, req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, "call for application updated", updated)
}

func (h *CFAHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.cfas.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, "call for application", item)
}

func (h *CFAHandler) ListByProgramme(w http.ResponseWriter, r *http.Request) {
	programmeID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.cfas.ListByProgramme(r.Context(), programmeID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, "calls for application", items)
}

func (h *CFAHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, true)
}

func (h *CFAHandler) Suspend(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, false)
}

func (h *CFAHandler) setStatus(w http.ResponseWriter, r *http.Request, activate bool) {
	actor, ok := actorFrom(r)
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	if activate {
		err = h.cfas.Activate(r.Context(), actor, id)
	} else {
		err = h.cfas.Suspend(r.Context(), actor, id)
	}
	if err != nil {
		response.Error(w, err)
		return
	}
	message := "call for application activated"
	if !activate {
		message = "call for application suspended"
	}
	response.JSON(w, http.StatusOK, message, nil)
}

func (h *CFAHandler) Close(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.cfas.Close(r.Context(), actor, id); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, "call for application closed", nil)
}

type extendRequest struct {
	EndDate time.Time `json:"end_date"`
}

func (h *CFAHandler) Extend(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req extendRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if req.EndDate.IsZero() {
		response.Error(w, common.NewError(common.CodeValidation, "end_date is required", nil))
		return
	}
	updated, err := h.cfas.Extend(r.Context(), actor, id, req.EndDate)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, "call for application extended", updated)
}

func (h *CFAHandler) Stages(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.stages.GetStages(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, "stages", items)
}

func (h *CFAHandler) StageStats(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 3)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.stages.GetStagesStat(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, "stage stats", items)
}
