package httpclient

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jsamuelsen11/uishell/internal/platform/config"
)

func retryTestClient(maxAttempts int, maxInterval time.Duration) *Client {
	return New(&config.ClientConfig{
		Timeout: 5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     maxAttempts,
			InitialInterval: time.Millisecond,
			MaxInterval:     maxInterval,
			Multiplier:      2.0,
		},
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures:   10,
			Timeout:       time.Second,
			HalfOpenLimit: 1,
		},
	}, "webhooks", nil, slog.New(slog.DiscardHandler))
}

func TestBackoff_StaysWithinJitterBand(t *testing.T) {
	t.Parallel()

	cfg := retryConfig{
		initialInterval: 100 * time.Millisecond,
		maxInterval:     10 * time.Second,
		multiplier:      2.0,
	}

	for attempt, base := range map[int]time.Duration{
		1: 100 * time.Millisecond,
		2: 200 * time.Millisecond,
		3: 400 * time.Millisecond,
	} {
		lo := time.Duration(float64(base) * (1 - jitterFraction))
		hi := time.Duration(float64(base) * (1 + jitterFraction))
		for range 200 {
			if d := backoff(attempt, cfg); d < lo || d > hi {
				t.Errorf("backoff(%d) = %v, want within [%v, %v]", attempt, d, lo, hi)
			}
		}
	}
}

func TestBackoff_CappedAtMaxInterval(t *testing.T) {
	t.Parallel()

	cfg := retryConfig{
		initialInterval: 100 * time.Millisecond,
		maxInterval:     500 * time.Millisecond,
		multiplier:      2.0,
	}
	ceiling := time.Duration(float64(cfg.maxInterval) * (1 + jitterFraction))

	for range 200 {
		if d := backoff(12, cfg); d > ceiling {
			t.Errorf("backoff(12) = %v, exceeds %v", d, ceiling)
		}
	}
}

func TestRetryAfter(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		value  string
		want   time.Duration
		wantOK bool
	}{
		{name: "empty", value: "", wantOK: false},
		{name: "seconds", value: "3", want: 3 * time.Second, wantOK: true},
		{name: "zero seconds", value: "0", want: 0, wantOK: true},
		{name: "negative seconds", value: "-5", wantOK: false},
		{name: "http date", value: now.Add(90 * time.Second).Format(http.TimeFormat), want: 90 * time.Second, wantOK: true},
		{name: "date in the past", value: now.Add(-time.Minute).Format(http.TimeFormat), want: 0, wantOK: true},
		{name: "garbage", value: "soon", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := retryAfter(tt.value, now)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("retryAfter(%q) = (%v, %v), want (%v, %v)", tt.value, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "canceled", err: context.Canceled, want: false},
		{name: "deadline", err: context.DeadlineExceeded, want: false},
		{name: "wrapped deadline", err: errors.Join(errors.New("dial"), context.DeadlineExceeded), want: false},
		{name: "connection refused", err: errors.New("connection refused"), want: true},
	}

	for _, tt := range tests {
		if got := isRetryable(tt.err); got != tt.want {
			t.Errorf("%s: isRetryable() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestIsRetryableStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code int
		want bool
	}{
		{http.StatusOK, false},
		{http.StatusAccepted, false},
		{http.StatusBadRequest, false},
		{http.StatusNotFound, false},
		{http.StatusConflict, false},
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusNotImplemented, false},
		{http.StatusBadGateway, true},
		{http.StatusServiceUnavailable, true},
		{http.StatusHTTPVersionNotSupported, false},
	}

	for _, tt := range tests {
		if got := isRetryableStatus(tt.code); got != tt.want {
			t.Errorf("isRetryableStatus(%d) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestDoWithRetry_AttemptHeaderAndBodyReplay(t *testing.T) {
	t.Parallel()

	var (
		mu       sync.Mutex
		attempts []string
		bodies   []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		attempts = append(attempts, r.Header.Get(HeaderAttempt))
		bodies = append(bodies, string(b))
		n := len(attempts)
		mu.Unlock()
		if n < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	client := retryTestClient(3, 10*time.Millisecond)
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodPost, srv.URL+"/hook",
		strings.NewReader(`{"actionId":"OPEN"}`))

	var resp *http.Response
	if err := client.doWithRetry(context.Background(), req, &resp); err != nil {
		t.Fatalf("doWithRetry() error = %v", err)
	}
	_ = resp.Body.Close()

	mu.Lock()
	defer mu.Unlock()
	if got := strings.Join(attempts, ","); got != "1,2,3" {
		t.Errorf("attempt headers = %q, want %q", got, "1,2,3")
	}
	for i, b := range bodies {
		if b != `{"actionId":"OPEN"}` {
			t.Errorf("attempt %d body = %q", i+1, b)
		}
	}
}

func TestDoWithRetry_HonoursRetryAfterUpToMaxInterval(t *testing.T) {
	t.Parallel()

	var (
		mu    sync.Mutex
		times []time.Time
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		times = append(times, time.Now())
		n := len(times)
		mu.Unlock()
		if n == 1 {
			// Far beyond maxInterval; the client must cap it.
			w.Header().Set("Retry-After", "3600")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	client := retryTestClient(2, 50*time.Millisecond)
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodPost, srv.URL+"/hook", http.NoBody)

	var resp *http.Response
	if err := client.doWithRetry(context.Background(), req, &resp); err != nil {
		t.Fatalf("doWithRetry() error = %v", err)
	}
	_ = resp.Body.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(times) != 2 {
		t.Fatalf("attempts = %d, want 2", len(times))
	}
	gap := times[1].Sub(times[0])
	if gap < 40*time.Millisecond || gap > 2*time.Second {
		t.Errorf("gap between attempts = %v, want about the 50ms cap", gap)
	}
}

func TestDoWithRetry_PermanentServerErrorNotRetried(t *testing.T) {
	t.Parallel()

	var (
		mu    sync.Mutex
		calls int
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		w.WriteHeader(http.StatusNotImplemented)
	}))
	t.Cleanup(srv.Close)

	client := retryTestClient(3, 10*time.Millisecond)
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodPost, srv.URL+"/hook", http.NoBody)

	var resp *http.Response
	if err := client.doWithRetry(context.Background(), req, &resp); err != nil {
		t.Fatalf("doWithRetry() error = %v, want the 501 response returned", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusNotImplemented {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotImplemented)
	}
	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoWithRetry_InvalidMaxAttempts(t *testing.T) {
	t.Parallel()

	client := retryTestClient(0, time.Millisecond)
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodPost, "http://127.0.0.1/hook", http.NoBody)

	var resp *http.Response
	if err := client.doWithRetry(context.Background(), req, &resp); err == nil {
		t.Error("doWithRetry() with zero attempts returned nil error")
	}
}
