package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"

	"github.com/jsamuelsen11/uishell/internal/domain"
	"github.com/jsamuelsen11/uishell/internal/domain/action"
	"github.com/jsamuelsen11/uishell/internal/platform/httpclient"
	"github.com/jsamuelsen11/uishell/internal/ports"
)

// ServiceName identifies webhook deliveries in traces, metrics and health
// checks.
const ServiceName = "webhooks"

// HeaderDeliveryID carries the delivery's unique id.
const HeaderDeliveryID = "X-Delivery-ID"

// Compile-time checks.
var (
	_ ports.WebhookExecutor = (*Executor)(nil)
	_ ports.HealthChecker   = (*Executor)(nil)
)

// Delivery is the JSON body posted to a webhook endpoint.
type Delivery struct {
	ID          string         `json:"id"`
	ActionID    string         `json:"actionId"`
	TriggerID   string         `json:"triggerId,omitempty"`
	Context     action.Context `json:"context"`
	DeliveredAt time.Time      `json:"deliveredAt"`
}

// Executor implements ports.WebhookExecutor over the instrumented HTTP
// client.
type Executor struct {
	client *httpclient.Client
	logger *slog.Logger
	now    func() time.Time
}

// NewExecutor creates an Executor backed by client.
func NewExecutor(client *httpclient.Client, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Executor{client: client, logger: logger, now: time.Now}
}

// Deliver posts the execution to req.URL. Any 2xx status is success.
func (e *Executor) Deliver(ctx context.Context, req ports.WebhookRequest) error {
	id := uuid.NewString()
	body, err := json.Marshal(Delivery{
		ID:          id,
		ActionID:    req.ActionID,
		TriggerID:   req.TriggerID,
		Context:     req.Context,
		DeliveredAt: e.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshaling delivery for action %q: %w", req.ActionID, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating delivery request for action %q: %w", req.ActionID, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	// Retries resend the same id so endpoints can deduplicate.
	httpReq.Header.Set(HeaderDeliveryID, id)
	httpReq.Header.Set("X-Action-ID", req.ActionID)
	if req.TriggerID != "" {
		httpReq.Header.Set("X-Trigger-ID", req.TriggerID)
	}

	resp, err := e.client.Do(ctx, httpReq)
	if err != nil {
		// Retries exhausted on a retryable status return both resp and err.
		if resp != nil {
			defer e.closeBody(ctx, resp)
			return TranslateHTTPError(resp)
		}
		e.logger.ErrorContext(ctx, "webhook delivery failed",
			slog.String("operation", "Executor.Deliver"),
			slog.String("action_id", req.ActionID),
			slog.String("url", req.URL),
			slog.Any("error", err),
		)
		return fmt.Errorf("POST %s: %w: %w", httpReq.URL.Redacted(), domain.ErrUnavailable, err)
	}
	defer e.closeBody(ctx, resp)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		translateErr := TranslateHTTPError(resp)
		e.logger.ErrorContext(ctx, "webhook rejected delivery",
			slog.String("operation", "Executor.Deliver"),
			slog.String("action_id", req.ActionID),
			slog.String("url", req.URL),
			slog.Int("status", resp.StatusCode),
		)
		return translateErr
	}

	e.logger.DebugContext(ctx, "webhook delivered",
		slog.String("action_id", req.ActionID),
		slog.String("trigger_id", req.TriggerID),
		slog.Int("status", resp.StatusCode),
	)
	return nil
}

func (e *Executor) closeBody(ctx context.Context, resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		e.logger.WarnContext(ctx, "failed to close response body",
			slog.String("error", err.Error()),
		)
	}
}

// Name returns the identifier used when this component is registered with a
// [ports.HealthRegistry].
func (e *Executor) Name() string {
	return ServiceName
}

// HealthCheck reports webhook delivery health from the circuit breaker
// state; no network call is made.
func (e *Executor) HealthCheck(_ context.Context) error {
	switch state := e.client.BreakerState(); state {
	case gobreaker.StateClosed:
		return nil
	case gobreaker.StateHalfOpen:
		return fmt.Errorf("%s: degraded (circuit breaker half-open)", ServiceName)
	case gobreaker.StateOpen:
		return fmt.Errorf("%s: failing (circuit breaker open)", ServiceName)
	default:
		return fmt.Errorf("%s: unknown circuit breaker state %v", ServiceName, state)
	}
}
