package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jsamuelsen11/uishell/internal/domain"
	"github.com/jsamuelsen11/uishell/internal/domain/action"
	"github.com/jsamuelsen11/uishell/internal/platform/config"
	"github.com/jsamuelsen11/uishell/internal/platform/httpclient"
	"github.com/jsamuelsen11/uishell/internal/ports"
)

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

// newTestExecutor creates an Executor whose client fails fast: one attempt
// and a breaker that opens after maxFailures consecutive failures.
func newTestExecutor(t *testing.T, maxFailures int) *Executor {
	t.Helper()

	cfg := &config.ClientConfig{
		Timeout: 5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     10 * time.Millisecond,
			Multiplier:      1,
		},
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures:   maxFailures,
			Timeout:       30 * time.Second,
			HalfOpenLimit: 1,
		},
	}
	logger := slog.New(slog.DiscardHandler)

	e := NewExecutor(httpclient.New(cfg, ServiceName, nil, logger), logger)
	e.now = func() time.Time { return fixedNow }
	return e
}

func TestExecutor_Deliver_PostsExecution(t *testing.T) {
	t.Parallel()

	var got Delivery
	var headers http.Header
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/hooks/ticket" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		headers = r.Header.Clone()
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	t.Cleanup(ts.Close)

	e := newTestExecutor(t, 5)
	err := e.Deliver(context.Background(), ports.WebhookRequest{
		URL:       ts.URL + "/hooks/ticket",
		ActionID:  "OPEN_TICKET",
		TriggerID: "ROW_CLICK_TRIGGER",
		Context:   action.Context{"row": "7"},
	})
	if err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}

	if got.ActionID != "OPEN_TICKET" || got.TriggerID != "ROW_CLICK_TRIGGER" {
		t.Errorf("delivery ids = %q/%q, want OPEN_TICKET/ROW_CLICK_TRIGGER", got.ActionID, got.TriggerID)
	}
	if got.Context["row"] != "7" {
		t.Errorf("delivery context = %v, want row=7", got.Context)
	}
	if !got.DeliveredAt.Equal(fixedNow) {
		t.Errorf("DeliveredAt = %v, want %v", got.DeliveredAt, fixedNow)
	}
	if ct := headers.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if id := headers.Get("X-Action-ID"); id != "OPEN_TICKET" {
		t.Errorf("X-Action-ID = %q, want OPEN_TICKET", id)
	}
	if id := headers.Get("X-Trigger-ID"); id != "ROW_CLICK_TRIGGER" {
		t.Errorf("X-Trigger-ID = %q, want ROW_CLICK_TRIGGER", id)
	}
	if got.ID == "" || headers.Get(HeaderDeliveryID) != got.ID {
		t.Errorf("%s = %q, body id = %q, want equal and non-empty", HeaderDeliveryID, headers.Get(HeaderDeliveryID), got.ID)
	}
	if a := headers.Get(httpclient.HeaderAttempt); a != "1" {
		t.Errorf("%s = %q, want 1", httpclient.HeaderAttempt, a)
	}
}

func TestExecutor_Deliver_OmitsEmptyTrigger(t *testing.T) {
	t.Parallel()

	var raw map[string]any
	var triggerHeader string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		triggerHeader = r.Header.Get("X-Trigger-ID")
		_ = json.NewDecoder(r.Body).Decode(&raw)
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(ts.Close)

	e := newTestExecutor(t, 5)
	if err := e.Deliver(context.Background(), ports.WebhookRequest{URL: ts.URL, ActionID: "A"}); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}

	if _, ok := raw["triggerId"]; ok {
		t.Errorf("body = %v, want no triggerId", raw)
	}
	if triggerHeader != "" {
		t.Errorf("X-Trigger-ID = %q, want empty", triggerHeader)
	}
}

func TestExecutor_Deliver_RejectedStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "validation", status: http.StatusBadRequest, wantErr: domain.ErrValidation},
		{name: "conflict", status: http.StatusConflict, wantErr: domain.ErrConflict},
		{name: "server error", status: http.StatusBadGateway, wantErr: domain.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			t.Cleanup(ts.Close)

			err := newTestExecutor(t, 5).Deliver(context.Background(), ports.WebhookRequest{URL: ts.URL, ActionID: "A"})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Deliver() = %v, want errors.Is %v", err, tt.wantErr)
			}
		})
	}
}

func TestExecutor_Deliver_UnreachableEndpoint(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	err := newTestExecutor(t, 5).Deliver(context.Background(), ports.WebhookRequest{URL: url, ActionID: "A"})
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Errorf("Deliver() = %v, want errors.Is ErrUnavailable", err)
	}
}

func TestExecutor_HealthCheck(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(ts.Close)

	e := newTestExecutor(t, 1)
	if e.Name() != ServiceName {
		t.Errorf("Name() = %q, want %q", e.Name(), ServiceName)
	}
	if err := e.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck() = %v, want nil before failures", err)
	}

	_ = e.Deliver(context.Background(), ports.WebhookRequest{URL: ts.URL, ActionID: "A"})

	err := e.HealthCheck(context.Background())
	if err == nil || !strings.Contains(err.Error(), "failing") {
		t.Errorf("HealthCheck() = %v, want failing error after breaker opens", err)
	}

	err = e.Deliver(context.Background(), ports.WebhookRequest{URL: ts.URL, ActionID: "A"})
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Errorf("Deliver() with open breaker = %v, want errors.Is ErrUnavailable", err)
	}
}
