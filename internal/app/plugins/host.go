package plugins

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jsamuelsen11/uishell/internal/domain"
	"github.com/jsamuelsen11/uishell/internal/platform/lifecycle"
)

// DefaultStopTimeout bounds the plugin stops run by Shutdown.
const DefaultStopTimeout = 10 * time.Second

// Host owns the registered plugins and drives their lifecycle.
type Host struct {
	mu      sync.Mutex
	phase   lifecycle.Machine
	plugins []Plugin
	started []Plugin
	logger  *slog.Logger
}

// NewHost creates an empty host.
func NewHost(logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Host{logger: logger, phase: lifecycle.Machine{Name: "plugin host"}}
}

// Register adds p. Plugins can only be registered before Setup.
func (h *Host) Register(p Plugin) error {
	if p == nil || strings.TrimSpace(p.Name()) == "" {
		return domain.Invalid("name", "must not be empty")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.phase.Is(lifecycle.New) {
		return fmt.Errorf("registering plugin %q after setup: %w", p.Name(), domain.ErrInvalidLifecycle)
	}
	for _, existing := range h.plugins {
		if existing.Name() == p.Name() {
			return &domain.ConflictError{
				Message: fmt.Sprintf("Plugin [name = %s] already registered.", p.Name()),
			}
		}
	}
	h.plugins = append(h.plugins, p)
	return nil
}

// Names returns the registered plugin names in registration order.
func (h *Host) Names() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	names := make([]string, 0, len(h.plugins))
	for _, p := range h.plugins {
		names = append(names, p.Name())
	}
	return names
}

// Name identifies the plugin host in readiness output.
func (h *Host) Name() string { return "plugins" }

// HealthCheck reports whether every plugin has started.
func (h *Host) HealthCheck(context.Context) error {
	return h.phase.Serving()
}

// Setup runs every plugin's Setup in registration order and stops at the
// first failure.
func (h *Host) Setup(ctx context.Context, sc SetupContext) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.phase.Transition(lifecycle.New, lifecycle.SetUp); err != nil {
		return err
	}

	for _, p := range h.plugins {
		pc := sc
		pc.Logger = h.pluginLogger(sc.Logger, p)
		if err := p.Setup(ctx, &pc); err != nil {
			h.logger.ErrorContext(ctx, "plugin setup failed",
				slog.String("operation", "Host.Setup"),
				slog.String("plugin", p.Name()),
				slog.Any("error", err),
			)
			return fmt.Errorf("setting up plugin %q: %w", p.Name(), err)
		}
		h.logger.DebugContext(ctx, "plugin set up", slog.String("plugin", p.Name()))
	}
	return nil
}

// Start runs every plugin's Start in registration order. When one fails,
// the plugins already started are stopped in reverse and the host moves to
// stopped.
func (h *Host) Start(ctx context.Context, sc StartContext) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.phase.Transition(lifecycle.SetUp, lifecycle.Started); err != nil {
		return err
	}

	for _, p := range h.plugins {
		pc := sc
		pc.Logger = h.pluginLogger(sc.Logger, p)
		if err := p.Start(ctx, &pc); err != nil {
			h.logger.ErrorContext(ctx, "plugin start failed",
				slog.String("operation", "Host.Start"),
				slog.String("plugin", p.Name()),
				slog.Any("error", err),
			)
			startErr := fmt.Errorf("starting plugin %q: %w", p.Name(), err)
			_ = h.phase.Transition(lifecycle.Started, lifecycle.Stopped)
			return errors.Join(startErr, h.stopLocked(ctx))
		}
		h.started = append(h.started, p)
	}

	h.logger.InfoContext(ctx, "plugins started", slog.Int("count", len(h.started)))
	return nil
}

// Stop stops the started plugins in reverse registration order. Every
// plugin is stopped even when an earlier one fails; the failures are
// joined.
func (h *Host) Stop(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.phase.Transition(lifecycle.Started, lifecycle.Stopped); err != nil {
		return err
	}
	return h.stopLocked(ctx)
}

func (h *Host) stopLocked(ctx context.Context) error {
	var errs []error
	for _, p := range slices.Backward(h.started) {
		if err := p.Stop(ctx); err != nil {
			h.logger.ErrorContext(ctx, "plugin stop failed",
				slog.String("operation", "Host.Stop"),
				slog.String("plugin", p.Name()),
				slog.Any("error", err),
			)
			errs = append(errs, fmt.Errorf("stopping plugin %q: %w", p.Name(), err))
		}
	}
	h.started = nil
	return errors.Join(errs...)
}

// Shutdown implements do.Shutdowner.
func (h *Host) Shutdown() error {
	if !h.phase.Retire() {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), DefaultStopTimeout)
	defer cancel()
	return h.Stop(ctx)
}

func (h *Host) pluginLogger(base *slog.Logger, p Plugin) *slog.Logger {
	if base == nil {
		base = h.logger
	}
	return base.With(slog.String("plugin", p.Name()))
}
