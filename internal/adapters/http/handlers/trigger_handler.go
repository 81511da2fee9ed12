package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/uishell/internal/adapters/http/dto"
	"github.com/jsamuelsen11/uishell/internal/domain/action"
	"github.com/jsamuelsen11/uishell/internal/ports"
)

// SortDisplay is the compatible-actions sort query value that orders actions
// for display instead of attachment order.
const SortDisplay = "display"

// TriggerHandler handles HTTP requests for triggers and their attachments.
type TriggerHandler struct {
	svc ports.UIActions
}

// NewTriggerHandler creates a new TriggerHandler with the given service port.
func NewTriggerHandler(svc ports.UIActions) *TriggerHandler {
	return &TriggerHandler{svc: svc}
}

// ListTriggers handles GET /api/v1/triggers.
func (h *TriggerHandler) ListTriggers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, dto.ToTriggerListResponse(h.svc.Triggers()))
}

// RegisterTrigger handles POST /api/v1/triggers.
func (h *TriggerHandler) RegisterTrigger(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterTriggerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	t := req.ToTrigger()
	if err := h.svc.RegisterTrigger(t); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToTriggerResponse(t))
}

// GetTrigger handles GET /api/v1/triggers/{triggerId}.
func (h *TriggerHandler) GetTrigger(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.GetTrigger(chi.URLParam(r, "triggerId"))
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTriggerResponse(t))
}

// GetTriggerActions handles GET /api/v1/triggers/{triggerId}/actions. Actions
// are presented against an empty context in attachment order.
func (h *TriggerHandler) GetTriggerActions(w http.ResponseWriter, r *http.Request) {
	actions, err := h.svc.GetTriggerActions(chi.URLParam(r, "triggerId"))
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	ps, err := present(r.Context(), actions, action.Context{})
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToActionListResponse(ps))
}

// AttachAction handles POST /api/v1/triggers/{triggerId}/actions.
func (h *TriggerHandler) AttachAction(w http.ResponseWriter, r *http.Request) {
	var req dto.AttachActionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.svc.AttachAction(chi.URLParam(r, "triggerId"), req.ActionID); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DetachAction handles DELETE /api/v1/triggers/{triggerId}/actions/{actionId}.
func (h *TriggerHandler) DetachAction(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DetachAction(chi.URLParam(r, "triggerId"), chi.URLParam(r, "actionId")); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CompatibleActions handles POST /api/v1/triggers/{triggerId}/compatible-actions.
// With ?sort=display the actions are ordered for display, otherwise they keep
// attachment order.
func (h *TriggerHandler) CompatibleActions(w http.ResponseWriter, r *http.Request) {
	var req dto.ContextRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	actx := req.ActionContext()

	actions, err := h.svc.GetTriggerCompatibleActions(r.Context(), chi.URLParam(r, "triggerId"), actx)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	if r.URL.Query().Get("sort") == SortDisplay {
		actions = action.SortForDisplay(actions)
	}

	ps, err := present(r.Context(), actions, actx)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToActionListResponse(ps))
}

// Execute handles POST /api/v1/triggers/{triggerId}/execute.
func (h *TriggerHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var req dto.ContextRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	actx := req.ActionContext()

	res, err := h.svc.ExecuteTriggerActions(r.Context(), chi.URLParam(r, "triggerId"), actx)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	candidates, err := present(r.Context(), res.Candidates, actx)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToExecutionResponse(res, candidates))
}
