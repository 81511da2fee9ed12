package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/jsamuelsen11/uishell/internal/adapters/http/dto"
	"github.com/jsamuelsen11/uishell/internal/platform/logging"
	"github.com/jsamuelsen11/uishell/internal/platform/telemetry"
	"github.com/jsamuelsen11/uishell/internal/ports"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = 30 * time.Second

	// DefaultMaxStreamClients bounds concurrent chrome stream connections.
	DefaultMaxStreamClients = 100
)

// StreamHandler pushes chrome state to websocket clients. Each client gets
// the current state on connect and a new frame after every change. The
// connection closes normally when the chrome stops.
type StreamHandler struct {
	chrome     ports.Chrome
	metrics    *telemetry.Metrics
	upgrader   websocket.Upgrader
	maxClients int64
	clients    atomic.Int64
}

// NewStreamHandler creates a StreamHandler. A maxClients of zero or less
// uses DefaultMaxStreamClients.
func NewStreamHandler(c ports.Chrome, metrics *telemetry.Metrics, maxClients int) *StreamHandler {
	if maxClients <= 0 {
		maxClients = DefaultMaxStreamClients
	}
	if metrics == nil {
		metrics = telemetry.NewNoopMetrics()
	}
	return &StreamHandler{
		chrome:  c,
		metrics: metrics,
		upgrader: websocket.Upgrader{
			CheckOrigin:     sameOrigin,
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		maxClients: int64(maxClients),
	}
}

// Clients returns the number of connected clients.
func (h *StreamHandler) Clients() int {
	return int(h.clients.Load())
}

// Stream handles GET /api/v1/chrome/stream.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	if h.clients.Add(1) > h.maxClients {
		h.clients.Add(-1)
		http.Error(w, "maximum stream clients reached", http.StatusServiceUnavailable)
		return
	}
	defer h.clients.Add(-1)

	ctx := r.Context()
	snapshots, err := h.chrome.WatchSnapshots(ctx)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	clientID := uuid.NewString()
	ctx, logger := logging.Enrich(ctx, slog.String("client_id", clientID))

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		logger.WarnContext(ctx, "chrome stream upgrade failed", slog.Any("error", err))
		return
	}
	defer conn.Close()

	h.metrics.StreamClients.Add(ctx, 1)
	defer h.metrics.StreamClients.Add(ctx, -1)
	logger.InfoContext(ctx, "chrome stream client connected")

	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})

	// Reading is required to process pongs and detect disconnects.
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.WarnContext(ctx, "chrome stream read failed", slog.Any("error", err))
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case snap, ok := <-snapshots:
			if !ok {
				_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "chrome stopped"))
				logger.InfoContext(ctx, "chrome stream closed")
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			frame := dto.StreamFrame{Type: dto.FrameSnapshot, Data: dto.ToChromeResponse(snap)}
			if err := conn.WriteJSON(frame); err != nil {
				logger.WarnContext(ctx, "chrome stream write failed", slog.Any("error", err))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-readDone:
			logger.InfoContext(ctx, "chrome stream client disconnected")
			return
		}
	}
}

// sameOrigin accepts requests without an Origin header and requests whose
// Origin host matches the request host.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}
