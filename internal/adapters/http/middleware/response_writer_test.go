package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResponseWriter_RecordsFirstStatus(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	if rw.statusCode != http.StatusOK {
		t.Errorf("default statusCode = %d, want %d", rw.statusCode, http.StatusOK)
	}

	rw.WriteHeader(http.StatusCreated)
	rw.WriteHeader(http.StatusNotFound)

	if rw.statusCode != http.StatusCreated {
		t.Errorf("statusCode = %d, want %d (first call)", rw.statusCode, http.StatusCreated)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("recorder Code = %d, want %d", rec.Code, http.StatusCreated)
	}
}

func TestResponseWriter_CountsBytes(t *testing.T) {
	t.Parallel()

	rw := newResponseWriter(httptest.NewRecorder())

	_, _ = rw.Write([]byte(`{"triggers":`))
	n, err := rw.Write([]byte(`[]}`))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != 3 {
		t.Errorf("Write() = %d, want 3", n)
	}
	if rw.written != 15 {
		t.Errorf("written = %d, want 15", rw.written)
	}
	if !rw.headerWritten {
		t.Error("headerWritten = false after Write, want true")
	}
}

func TestResponseWriter_FlushAndUnwrap(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	rw.Flush()

	if !rec.Flushed {
		t.Error("Flush() did not reach the underlying writer")
	}
	if rw.Unwrap() != rec {
		t.Error("Unwrap() did not return the underlying writer")
	}
}

func TestResponseWriter_HijackUnsupported(t *testing.T) {
	t.Parallel()

	rw := newResponseWriter(httptest.NewRecorder())

	if _, _, err := rw.Hijack(); !errors.Is(err, http.ErrNotSupported) {
		t.Errorf("Hijack() error = %v, want http.ErrNotSupported", err)
	}
	if rw.headerWritten || rw.hijacked {
		t.Error("writer marked as written after a failed hijack")
	}
}

func TestResponseWriter_Hijack(t *testing.T) {
	t.Parallel()

	type result struct {
		status   int
		hijacked bool
	}
	got := make(chan result, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		rw := newResponseWriter(w)
		conn, _, err := rw.Hijack()
		if err != nil {
			got <- result{}
			return
		}
		_ = conn.Close()
		got <- result{status: rw.statusCode, hijacked: rw.hijacked}
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err == nil {
		_ = resp.Body.Close()
	}

	r := <-got
	if r.status != http.StatusSwitchingProtocols {
		t.Errorf("statusCode = %d, want %d", r.status, http.StatusSwitchingProtocols)
	}
	if !r.hijacked {
		t.Error("hijacked = false after a successful hijack")
	}
}
