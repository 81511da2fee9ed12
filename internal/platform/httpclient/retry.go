package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/jsamuelsen11/uishell/internal/platform/logging"
)

// HeaderAttempt carries the 1-based delivery attempt so webhook receivers
// can tell a retry from a first delivery.
const HeaderAttempt = "X-Webhook-Attempt"

// jitterFraction is the maximum jitter as a fraction of the delay (±25%).
const jitterFraction = 0.25

// doWithRetry sends req up to maxAttempts times. The body is buffered once
// and replayed on each attempt. A Retry-After header on a 429 or 503
// overrides the computed backoff, capped at maxInterval. The result is
// written to resp; the caller closes its body.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request, resp **http.Response) error {
	if c.retryCfg.maxAttempts <= 0 {
		return fmt.Errorf("httpclient: maxAttempts must be >= 1, got %d", c.retryCfg.maxAttempts)
	}

	body, err := snapshotBody(req)
	if err != nil {
		return err
	}

	var (
		lastErr error
		wait    time.Duration
	)
	for attempt := 1; attempt <= c.retryCfg.maxAttempts; attempt++ {
		if attempt > 1 {
			if err := c.pause(ctx, req, attempt, wait, lastErr); err != nil {
				return err
			}
		}

		req.Header.Set(HeaderAttempt, strconv.Itoa(attempt))
		if body != nil {
			req.Body = io.NopCloser(bytes.NewReader(body))
			req.ContentLength = int64(len(body))
		}

		r, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if !isRetryable(err) {
				return err
			}
			wait = backoff(attempt, c.retryCfg)
			continue
		}

		if !isRetryableStatus(r.StatusCode) {
			*resp = r
			return nil
		}

		lastErr = fmt.Errorf("HTTP %d from %s", r.StatusCode, c.serviceName)
		if attempt == c.retryCfg.maxAttempts {
			// Leave the body open so the caller can read the failure detail.
			*resp = r
			return lastErr
		}

		wait = backoff(attempt, c.retryCfg)
		if d, ok := retryAfter(r.Header.Get("Retry-After"), time.Now()); ok {
			wait = min(d, c.retryCfg.maxInterval)
		}
		_, _ = io.Copy(io.Discard, r.Body)
		_ = r.Body.Close()
	}

	return lastErr
}

// snapshotBody reads and closes the request body. It returns nil for a
// request without one.
func snapshotBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	defer func() { _ = req.Body.Close() }()

	b, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("reading request body: %w", err)
	}
	return b, nil
}

func (c *Client) pause(ctx context.Context, req *http.Request, attempt int, wait time.Duration, lastErr error) error {
	logging.FromContext(ctx).WarnContext(ctx, "retrying webhook delivery",
		slog.String("peer_service", c.serviceName),
		slog.String("method", req.Method),
		slog.String("url", req.URL.Redacted()),
		slog.Int("attempt", attempt),
		slog.Int("max_attempts", c.retryCfg.maxAttempts),
		slog.Duration("backoff", wait),
		slog.Any("error", lastErr),
	)

	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// backoff returns the delay after the given 1-based attempt:
// initialInterval * multiplier^(attempt-1), capped at maxInterval, with ±25%
// jitter.
func backoff(attempt int, cfg retryConfig) time.Duration {
	delay := float64(cfg.initialInterval) * math.Pow(cfg.multiplier, float64(attempt-1))
	delay = math.Min(delay, float64(cfg.maxInterval))
	delay += delay * jitterFraction * (2*rand.Float64() - 1)
	return time.Duration(math.Max(delay, 0))
}

// retryAfter parses a Retry-After value given as delta-seconds or an
// HTTP-date relative to now.
func retryAfter(v string, now time.Time) (time.Duration, bool) {
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}
	at, err := http.ParseTime(v)
	if err != nil {
		return 0, false
	}
	return max(at.Sub(now), 0), true
}

// isRetryable reports whether a transport error is worth another attempt.
// Cancellation and deadline errors end delivery.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// isRetryableStatus reports whether an endpoint response is worth another
// attempt. 501 and 505 mean the endpoint will never accept the delivery.
func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests:
		return true
	case http.StatusNotImplemented, http.StatusHTTPVersionNotSupported:
		return false
	}
	return code >= http.StatusInternalServerError
}
