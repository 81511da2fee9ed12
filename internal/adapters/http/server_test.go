package http_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	adapthttp "github.com/jsamuelsen11/uishell/internal/adapters/http"
	"github.com/jsamuelsen11/uishell/internal/platform/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// startServer runs s in the background and waits until it listens.
func startServer(t *testing.T, s *adapthttp.Server) <-chan error {
	t.Helper()
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	select {
	case <-s.Ready():
	case err := <-errCh:
		t.Fatalf("Start() error = %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start listening")
	}
	return errCh
}

func TestServer_AddrBeforeAndAfterListen(t *testing.T) {
	t.Parallel()

	s := adapthttp.NewServer(config.ServerConfig{Host: "127.0.0.1", Port: 0}, http.NotFoundHandler(), nil)
	if got := s.Addr(); got != "127.0.0.1:0" {
		t.Errorf("Addr() before Start = %q, want %q", got, "127.0.0.1:0")
	}

	errCh := startServer(t, s)
	if got := s.Addr(); got == "127.0.0.1:0" {
		t.Errorf("Addr() after Start = %q, want the bound port", got)
	}

	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if err := <-errCh; err != nil {
		t.Errorf("Start() after shutdown = %v, want nil", err)
	}
}

func TestServer_ServesRequests(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"status":"ok"}`)
	})
	s := adapthttp.NewServer(config.ServerConfig{
		Host:         "127.0.0.1",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  30 * time.Second,
	}, handler, discardLogger())
	errCh := startServer(t, s)

	resp, err := http.Get("http://" + s.Addr() + "/health/live")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if string(body) != `{"status":"ok"}` {
		t.Errorf("body = %q", body)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if err := <-errCh; err != nil {
		t.Errorf("Start() after shutdown = %v, want nil", err)
	}
}

func TestServer_ShutdownCancelsRequestContexts(t *testing.T) {
	t.Parallel()

	entered := make(chan struct{})
	ended := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Stand-in for a hijacked stream that only ends with its context.
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		close(entered)
		<-r.Context().Done()
		close(ended)
	})
	s := adapthttp.NewServer(config.ServerConfig{Host: "127.0.0.1"}, handler, discardLogger())
	errCh := startServer(t, s)

	go func() {
		resp, err := http.Get("http://" + s.Addr() + "/api/v1/chrome/stream")
		if err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		}
	}()
	<-entered

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.Shutdown(ctx)

	select {
	case <-ended:
	case <-time.After(5 * time.Second):
		t.Fatal("request context was not canceled by Shutdown")
	}
	<-errCh
}

func TestServer_StartFailsOnBadAddress(t *testing.T) {
	t.Parallel()

	s := adapthttp.NewServer(config.ServerConfig{Host: "256.0.0.1", Port: 1}, http.NotFoundHandler(), discardLogger())
	if err := s.Start(); err == nil {
		t.Error("Start() error = nil, want listen failure")
	}
}
