package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/uishell/internal/adapters/http/dto"
	"github.com/jsamuelsen11/uishell/internal/domain/action"
	"github.com/jsamuelsen11/uishell/internal/domain/manifest"
	"github.com/jsamuelsen11/uishell/internal/ports"
)

// DefinitionBuilder turns a declarative action into a registrable
// definition.
type DefinitionBuilder interface {
	Definition(spec manifest.ActionSpec) (action.Definition, error)
}

// ActionHandler handles HTTP requests for registered actions.
type ActionHandler struct {
	svc     ports.UIActions
	builder DefinitionBuilder
}

// NewActionHandler creates a new ActionHandler. Actions registered over HTTP
// are built by builder.
func NewActionHandler(svc ports.UIActions, builder DefinitionBuilder) *ActionHandler {
	return &ActionHandler{svc: svc, builder: builder}
}

// ListActions handles GET /api/v1/actions.
func (h *ActionHandler) ListActions(w http.ResponseWriter, r *http.Request) {
	ps, err := present(r.Context(), h.svc.Actions(), action.Context{})
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToActionListResponse(ps))
}

// RegisterAction handles POST /api/v1/actions.
func (h *ActionHandler) RegisterAction(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterActionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	def, err := h.builder.Definition(req.ToSpec())
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	a, err := h.svc.RegisterAction(def)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	p, err := action.Present(r.Context(), a, action.Context{})
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToActionResponse(p))
}

// GetAction handles GET /api/v1/actions/{actionId}.
func (h *ActionHandler) GetAction(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.GetAction(chi.URLParam(r, "actionId"))
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	p, err := action.Present(r.Context(), a, action.Context{})
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToActionResponse(p))
}

// UnregisterAction handles DELETE /api/v1/actions/{actionId}.
func (h *ActionHandler) UnregisterAction(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.UnregisterAction(chi.URLParam(r, "actionId")); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Execute handles POST /api/v1/actions/{actionId}/execute.
func (h *ActionHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var req dto.ContextRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.svc.ExecuteAction(r.Context(), chi.URLParam(r, "actionId"), req.ActionContext()); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
