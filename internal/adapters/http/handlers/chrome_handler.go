package handlers

import (
	"net/http"

	"github.com/jsamuelsen11/uishell/internal/adapters/http/dto"
	"github.com/jsamuelsen11/uishell/internal/domain/chrome"
	"github.com/jsamuelsen11/uishell/internal/ports"
)

// ChromeHandler handles HTTP requests that read and update chrome state.
// Every update responds with the resulting chrome state.
type ChromeHandler struct {
	chrome ports.Chrome
	apps   ports.Applications
}

// NewChromeHandler creates a new ChromeHandler over the started chrome and
// the application registry.
func NewChromeHandler(c ports.Chrome, apps ports.Applications) *ChromeHandler {
	return &ChromeHandler{chrome: c, apps: apps}
}

// GetChrome handles GET /api/v1/chrome.
func (h *ChromeHandler) GetChrome(w http.ResponseWriter, r *http.Request) {
	h.writeSnapshot(w, r)
}

// SetVisibility handles PUT /api/v1/chrome/visibility.
func (h *ChromeHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	var req dto.VisibilityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	h.apply(w, r, h.chrome.SetIsVisible(*req.Visible))
}

// SetHeaderVariant handles PUT /api/v1/chrome/header-variant.
func (h *ChromeHandler) SetHeaderVariant(w http.ResponseWriter, r *http.Request) {
	var req dto.HeaderVariantRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	h.apply(w, r, h.chrome.SetHeaderVariant(chrome.HeaderVariant(req.Variant)))
}

// SetAppTitle handles PUT /api/v1/chrome/app-title.
func (h *ChromeHandler) SetAppTitle(w http.ResponseWriter, r *http.Request) {
	var req dto.AppTitleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	h.apply(w, r, h.chrome.SetAppTitle(req.Title))
}

// SetBreadcrumbs handles PUT /api/v1/chrome/breadcrumbs.
func (h *ChromeHandler) SetBreadcrumbs(w http.ResponseWriter, r *http.Request) {
	var req dto.BreadcrumbsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	h.apply(w, r, h.chrome.SetBreadcrumbs(req.ToBreadcrumbs()))
}

// SetBadge handles PUT /api/v1/chrome/badge.
func (h *ChromeHandler) SetBadge(w http.ResponseWriter, r *http.Request) {
	var req dto.BadgeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	h.apply(w, r, h.chrome.SetBadge(req.ToBadge()))
}

// SetNavDrawerLock handles PUT /api/v1/chrome/nav-drawer-lock.
func (h *ChromeHandler) SetNavDrawerLock(w http.ResponseWriter, r *http.Request) {
	var req dto.NavDrawerLockRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	h.apply(w, r, h.chrome.SetIsNavDrawerLocked(r.Context(), *req.Locked))
}

// SetCurrentApp handles PUT /api/v1/chrome/current-app.
func (h *ChromeHandler) SetCurrentApp(w http.ResponseWriter, r *http.Request) {
	var req dto.CurrentAppRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	h.apply(w, r, h.apps.NavigateToApp(req.AppID))
}

// SetCurrentNavGroup handles PUT /api/v1/chrome/current-nav-group.
func (h *ChromeHandler) SetCurrentNavGroup(w http.ResponseWriter, r *http.Request) {
	var req dto.CurrentNavGroupRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	h.apply(w, r, h.chrome.SetCurrentNavGroup(req.GroupID))
}

// SetHelpSupportURL handles PUT /api/v1/chrome/help-support-url.
func (h *ChromeHandler) SetHelpSupportURL(w http.ResponseWriter, r *http.Request) {
	var req dto.HelpSupportURLRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	h.apply(w, r, h.chrome.SetHelpSupportURL(req.URL))
}

// apply writes err as a problem response, or the new state when nil.
func (h *ChromeHandler) apply(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	h.writeSnapshot(w, r)
}

func (h *ChromeHandler) writeSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.chrome.Snapshot()
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToChromeResponse(snap))
}
