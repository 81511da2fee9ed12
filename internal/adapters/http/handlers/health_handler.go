package handlers

import (
	"cmp"
	"net/http"
	"slices"

	"github.com/jsamuelsen11/uishell/internal/adapters/http/dto"
	"github.com/jsamuelsen11/uishell/internal/ports"
)

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	registry ports.HealthRegistry
}

// NewHealthHandler creates a HealthHandler reporting on registry.
func NewHealthHandler(registry ports.HealthRegistry) *HealthHandler {
	return &HealthHandler{registry: registry}
}

// Liveness handles GET /health/live. The process answering is enough.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, dto.LivenessResponse{Status: dto.HealthOK})
}

// Readiness handles GET /health/ready. Any failing check makes the shell
// not ready and the response 503.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	results := h.registry.CheckAll(r.Context())

	resp := dto.ReadinessResponse{Status: dto.HealthReady, Checks: make([]dto.CheckResult, 0, len(results))}
	for name, err := range results {
		check := dto.CheckResult{Name: name, Status: dto.HealthOK}
		if err != nil {
			check.Status = dto.HealthFailing
			check.Error = err.Error()
			resp.Status = dto.HealthNotReady
		}
		resp.Checks = append(resp.Checks, check)
	}
	slices.SortFunc(resp.Checks, func(a, b dto.CheckResult) int { return cmp.Compare(a.Name, b.Name) })

	code := http.StatusOK
	if resp.Status != dto.HealthReady {
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, code, resp)
}
