package handlers_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen11/uishell/internal/adapters/http/dto"
	"github.com/jsamuelsen11/uishell/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/uishell/internal/domain"
	"github.com/jsamuelsen11/uishell/internal/platform/health"
	"github.com/jsamuelsen11/uishell/mocks"
)

func TestLiveness_AlwaysOK(t *testing.T) {
	t.Parallel()

	h := handlers.NewHealthHandler(mocks.NewMockHealthRegistry(t))

	rec := httptest.NewRecorder()
	h.Liveness(rec, httptest.NewRequest(http.MethodGet, "/health/live", http.NoBody))

	requireStatus(t, rec, http.StatusOK)
	if got := rec.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", got)
	}
	if resp := decodeJSON[dto.LivenessResponse](t, rec); resp.Status != dto.HealthOK {
		t.Errorf("status = %q, want %q", resp.Status, dto.HealthOK)
	}
}

func TestReadiness(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		results    map[string]error
		wantCode   int
		wantStatus string
		wantChecks []dto.CheckResult
	}{
		{
			name:       "no checkers",
			results:    map[string]error{},
			wantCode:   http.StatusOK,
			wantStatus: dto.HealthReady,
			wantChecks: []dto.CheckResult{},
		},
		{
			name:       "all healthy sorted by name",
			results:    map[string]error{"webhooks": nil, "chrome": nil, "plugins": nil},
			wantCode:   http.StatusOK,
			wantStatus: dto.HealthReady,
			wantChecks: []dto.CheckResult{
				{Name: "chrome", Status: dto.HealthOK},
				{Name: "plugins", Status: dto.HealthOK},
				{Name: "webhooks", Status: dto.HealthOK},
			},
		},
		{
			name: "one failing",
			results: map[string]error{
				"chrome":      nil,
				"preferences": errors.New("dial tcp 127.0.0.1:6379: connection refused"),
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: dto.HealthNotReady,
			wantChecks: []dto.CheckResult{
				{Name: "chrome", Status: dto.HealthOK},
				{Name: "preferences", Status: dto.HealthFailing, Error: "dial tcp 127.0.0.1:6379: connection refused"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			registry := mocks.NewMockHealthRegistry(t)
			registry.EXPECT().CheckAll(mock.Anything).Return(tt.results)

			rec := httptest.NewRecorder()
			handlers.NewHealthHandler(registry).Readiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", http.NoBody))

			requireStatus(t, rec, tt.wantCode)
			resp := decodeJSON[dto.ReadinessResponse](t, rec)
			if resp.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", resp.Status, tt.wantStatus)
			}
			if !reflect.DeepEqual(resp.Checks, tt.wantChecks) {
				t.Errorf("checks = %+v, want %+v", resp.Checks, tt.wantChecks)
			}
		})
	}
}

func TestReadiness_WithRegistry(t *testing.T) {
	t.Parallel()

	webhooks := mocks.NewMockHealthChecker(t)
	webhooks.EXPECT().Name().Return("webhooks")
	webhooks.EXPECT().HealthCheck(mock.Anything).Return(
		fmt.Errorf("webhooks: failing (circuit breaker open): %w", domain.ErrUnavailable))

	chrome := mocks.NewMockHealthChecker(t)
	chrome.EXPECT().Name().Return("chrome")
	chrome.EXPECT().HealthCheck(mock.Anything).RunAndReturn(func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			return errors.New("check ran without a deadline")
		}
		return nil
	})

	registry := health.New()
	registry.Register(webhooks)
	registry.Register(chrome)

	rec := httptest.NewRecorder()
	handlers.NewHealthHandler(registry).Readiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", http.NoBody))

	requireStatus(t, rec, http.StatusServiceUnavailable)
	resp := decodeJSON[dto.ReadinessResponse](t, rec)
	if len(resp.Checks) != 2 || resp.Checks[0].Name != "chrome" || resp.Checks[0].Status != dto.HealthOK {
		t.Fatalf("checks = %+v, want chrome ok first", resp.Checks)
	}
	if resp.Checks[1].Status != dto.HealthFailing {
		t.Errorf("webhooks status = %q, want %q", resp.Checks[1].Status, dto.HealthFailing)
	}
}
