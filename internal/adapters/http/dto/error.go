package dto

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"

	"github.com/jsamuelsen11/uishell/internal/domain"
)

// HeaderRequestID is the response header the request id middleware sets.
// Error bodies echo it so a client can quote it without reading headers.
const HeaderRequestID = "X-Request-ID"

// Problem type URIs, one per class of failure.
const (
	ProblemValidation = "urn:uishell:problem:validation"
	ProblemNotFound   = "urn:uishell:problem:not-found"
	ProblemConflict   = "urn:uishell:problem:conflict"
	ProblemLifecycle  = "urn:uishell:problem:lifecycle"
	ProblemUpstream   = "urn:uishell:problem:upstream-unavailable"
	ProblemTimeout    = "urn:uishell:problem:timeout"
	ProblemInternal   = "about:blank"
)

// ErrorResponse represents an RFC 9457 Problem Details response.
type ErrorResponse struct {
	Type      string        `json:"type"`
	Title     string        `json:"title"`
	Status    int           `json:"status"`
	Detail    string        `json:"detail,omitempty"`
	Instance  string        `json:"instance,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
	Errors    []ErrorDetail `json:"errors,omitempty"`
}

// ErrorDetail represents a single field-level validation error within
// an ErrorResponse.
type ErrorDetail struct {
	Location string `json:"location"`
	Message  string `json:"message"`
	Value    any    `json:"value,omitempty"`
}

// NewErrorResponse creates an RFC 9457 ErrorResponse from a domain error.
// The request is used to populate the instance field with the request URI.
// Internal errors keep their detail out of the body.
func NewErrorResponse(r *http.Request, err error) ErrorResponse {
	status, problem := classify(err)

	resp := ErrorResponse{
		Type:     problem,
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   err.Error(),
		Instance: r.RequestURI,
	}
	if status == http.StatusInternalServerError {
		resp.Detail = ""
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp.Errors = validationFieldsToDetails(verr.Fields)
	}

	return resp
}

// WriteErrorResponse writes an RFC 9457 error response for the given domain
// error with Content-Type application/problem+json. Unclassified errors are
// logged with their full chain since the body omits them.
func WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	resp := NewErrorResponse(r, err)
	resp.RequestID = w.Header().Get(HeaderRequestID)

	if resp.Status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "unhandled error",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(resp.Status)

	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
		slog.ErrorContext(r.Context(), "failed to encode error response",
			slog.Any("error", encErr),
		)
	}
}

// classify maps domain sentinel errors to an HTTP status and problem type.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, ProblemValidation
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, ProblemNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, ProblemConflict
	case errors.Is(err, domain.ErrInvalidLifecycle):
		return http.StatusConflict, ProblemLifecycle
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusBadGateway, ProblemUpstream
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ProblemTimeout
	default:
		return http.StatusInternalServerError, ProblemInternal
	}
}

// validationFieldsToDetails converts domain validation fields to sorted
// ErrorDetail entries.
func validationFieldsToDetails(fields map[string]string) []ErrorDetail {
	details := make([]ErrorDetail, 0, len(fields))
	for field, msg := range fields {
		details = append(details, ErrorDetail{
			Location: "body." + field,
			Message:  msg,
		})
	}
	sort.Slice(details, func(i, j int) bool {
		return details[i].Location < details[j].Location
	})
	return details
}
