package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/uishell/internal/adapters/preferences"
	"github.com/jsamuelsen11/uishell/internal/app/application"
	chromesvc "github.com/jsamuelsen11/uishell/internal/app/chrome"
	"github.com/jsamuelsen11/uishell/internal/app/uiactions"
	"github.com/jsamuelsen11/uishell/internal/domain/action"
	"github.com/jsamuelsen11/uishell/internal/domain/chrome"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func withChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		t.Fatalf("failed to encode JSON body: %v", err)
	}
	return buf
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var result T
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode JSON response: %v", err)
	}
	return result
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Errorf("status = %d, want %d; body = %s", rec.Code, want, rec.Body.String())
	}
}

// recordingAction returns a definition whose executions are appended to ran.
func recordingAction(id string, order int, ran *[]string) action.Definition {
	return action.Definition{
		ID:    id,
		Order: order,
		Execute: func(context.Context, action.Context) error {
			*ran = append(*ran, id)
			return nil
		},
	}
}

type chromeFixture struct {
	svc      *chromesvc.Service
	contract *chromesvc.Contract
	apps     *application.Service
	prefs    *preferences.MemoryStore
}

func startChrome(t *testing.T) *chromeFixture {
	t.Helper()

	apps := application.New(discardLogger())
	for _, app := range []chrome.App{
		{ID: "discover", Title: "Discover", HeaderVariant: chrome.HeaderVariantApplication},
		{ID: "login", Chromeless: true},
	} {
		if err := apps.Register(app); err != nil {
			t.Fatalf("Register(%s) error = %v", app.ID, err)
		}
	}

	svc := chromesvc.New(discardLogger(), chromesvc.Options{NavGroupEnabled: true})
	setup, err := svc.Setup()
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if err := setup.AddNavLinksToGroup(
		chrome.NavGroup{ID: "observability", Title: "Observability"},
		[]chrome.NavLink{{ID: "alerts", Title: "Alerts"}},
	); err != nil {
		t.Fatalf("AddNavLinksToGroup() error = %v", err)
	}

	prefs := preferences.NewMemoryStore()
	contract, err := svc.Start(context.Background(), chromesvc.StartDeps{Applications: apps, Preferences: prefs})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { _ = svc.Stop() })

	return &chromeFixture{svc: svc, contract: contract, apps: apps, prefs: prefs}
}

func newUIActions() *uiactions.Service {
	return uiactions.New(discardLogger())
}

func boolPtr(b bool) *bool { return &b }
