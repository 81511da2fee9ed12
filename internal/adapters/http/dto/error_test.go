package dto_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jsamuelsen11/uishell/internal/adapters/http/dto"
	"github.com/jsamuelsen11/uishell/internal/domain"
)

func TestNewErrorResponse_StatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantTitle  string
		wantType   string
	}{
		{
			name:       "ErrNotFound maps to 404",
			err:        &domain.NotFoundError{Message: "Trigger [triggerId = NOPE] does not exist."},
			wantStatus: http.StatusNotFound,
			wantTitle:  "Not Found",
			wantType:   dto.ProblemNotFound,
		},
		{
			name:       "ErrValidation maps to 400",
			err:        &domain.ValidationError{Fields: map[string]string{"id": "must not be empty"}},
			wantStatus: http.StatusBadRequest,
			wantTitle:  "Bad Request",
			wantType:   dto.ProblemValidation,
		},
		{
			name:       "ErrConflict maps to 409",
			err:        &domain.ConflictError{Message: "Action [action.id = A] already registered."},
			wantStatus: http.StatusConflict,
			wantTitle:  "Conflict",
			wantType:   dto.ProblemConflict,
		},
		{
			name:       "ErrInvalidLifecycle maps to 409",
			err:        fmt.Errorf("chrome: %w", domain.ErrInvalidLifecycle),
			wantStatus: http.StatusConflict,
			wantTitle:  "Conflict",
			wantType:   dto.ProblemLifecycle,
		},
		{
			name:       "ErrUnavailable maps to 502",
			err:        domain.ErrUnavailable,
			wantStatus: http.StatusBadGateway,
			wantTitle:  "Bad Gateway",
			wantType:   dto.ProblemUpstream,
		},
		{
			name:       "deadline exceeded maps to 504",
			err:        fmt.Errorf("checking compatibility: %w", context.DeadlineExceeded),
			wantStatus: http.StatusGatewayTimeout,
			wantTitle:  "Gateway Timeout",
			wantType:   dto.ProblemTimeout,
		},
		{
			name:       "unknown error maps to 500",
			err:        errors.New("oops"),
			wantStatus: http.StatusInternalServerError,
			wantTitle:  "Internal Server Error",
			wantType:   dto.ProblemInternal,
		},
		{
			name:       "wrapped ErrNotFound preserves mapping",
			err:        fmt.Errorf("executing action: %w", domain.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantTitle:  "Not Found",
			wantType:   dto.ProblemNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, "/api/v1/triggers/NOPE", nil)
			got := dto.NewErrorResponse(r, tt.err)

			if got.Status != tt.wantStatus {
				t.Errorf("Status = %d, want %d", got.Status, tt.wantStatus)
			}
			if got.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", got.Title, tt.wantTitle)
			}
			if got.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", got.Type, tt.wantType)
			}
		})
	}
}

func TestNewErrorResponse_Fields(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodPost, "/api/v1/actions/A/execute", nil)
	err := &domain.NotFoundError{Message: "Action [actionId = A] not registered."}

	got := dto.NewErrorResponse(r, err)

	if got.Type != dto.ProblemNotFound {
		t.Errorf("Type = %q, want %q", got.Type, dto.ProblemNotFound)
	}
	if got.Instance != "/api/v1/actions/A/execute" {
		t.Errorf("Instance = %q, want %q", got.Instance, "/api/v1/actions/A/execute")
	}
	if got.Detail != err.Error() {
		t.Errorf("Detail = %q, want %q", got.Detail, err.Error())
	}
}

func TestNewErrorResponse_ValidationErrors(t *testing.T) {
	t.Parallel()

	verr := &domain.ValidationError{Fields: map[string]string{
		"id":          "must not be empty",
		"webhook.url": "must be an absolute http or https URL",
		"text":        "must not be empty",
	}}

	r := httptest.NewRequest(http.MethodPost, "/api/v1/actions", nil)
	got := dto.NewErrorResponse(r, verr)

	if len(got.Errors) != 3 {
		t.Fatalf("len(Errors) = %d, want 3", len(got.Errors))
	}
	for i := 1; i < len(got.Errors); i++ {
		if got.Errors[i-1].Location >= got.Errors[i].Location {
			t.Errorf("Errors not sorted: %q >= %q", got.Errors[i-1].Location, got.Errors[i].Location)
		}
	}
	for _, detail := range got.Errors {
		if !strings.HasPrefix(detail.Location, "body.") {
			t.Errorf("Location %q does not start with %q", detail.Location, "body.")
		}
	}
}

func TestNewErrorResponse_NoValidationErrorsForNonValidation(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/api/v1/actions/A", nil)
	got := dto.NewErrorResponse(r, domain.ErrNotFound)

	if got.Errors != nil {
		t.Errorf("Errors = %v, want nil for non-validation error", got.Errors)
	}
}

func TestWriteErrorResponse_ContentType(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/triggers/NOPE", nil)

	dto.WriteErrorResponse(w, r, domain.ErrNotFound)

	if ct := w.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q, want %q", ct, "application/problem+json")
	}
}

func TestWriteErrorResponse_ValidJSON(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/triggers", nil)

	dto.WriteErrorResponse(w, r, &domain.ValidationError{Fields: map[string]string{
		"id": "must not be empty",
	}})

	var resp dto.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}

	if w.Code != http.StatusBadRequest || resp.Status != http.StatusBadRequest {
		t.Errorf("status = %d/%d, want %d", w.Code, resp.Status, http.StatusBadRequest)
	}
	if len(resp.Errors) != 1 {
		t.Fatalf("len(Errors) = %d, want 1", len(resp.Errors))
	}
	if resp.Errors[0].Location != "body.id" {
		t.Errorf("Errors[0].Location = %q, want %q", resp.Errors[0].Location, "body.id")
	}
	if resp.Errors[0].Message != "must not be empty" {
		t.Errorf("Errors[0].Message = %q, want %q", resp.Errors[0].Message, "must not be empty")
	}
}

func TestNewErrorResponse_InternalDetailHidden(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodPost, "/api/v1/triggers/T/execute", nil)
	got := dto.NewErrorResponse(r, errors.New("predicate for action A: no such key: region"))

	if got.Detail != "" {
		t.Errorf("Detail = %q, want empty for an internal error", got.Detail)
	}
}

func TestWriteErrorResponse_EchoesRequestID(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	w.Header().Set(dto.HeaderRequestID, "req-42")
	r := httptest.NewRequest(http.MethodGet, "/api/v1/actions/NOPE", nil)

	dto.WriteErrorResponse(w, r, domain.ErrNotFound)

	var resp dto.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	if resp.RequestID != "req-42" {
		t.Errorf("RequestID = %q, want %q", resp.RequestID, "req-42")
	}
}
