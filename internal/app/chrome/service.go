// Package chromesvc implements the chrome service: the reactive state of the
// application shell rendered around every mounted application.
//
// The service moves through a one-directional lifecycle. Setup returns the
// contract used while plugins configure themselves, Start wires the state
// streams to the live application registry and returns the Contract used at
// runtime, and Stop completes every stream. Calls made out of order return
// domain.ErrInvalidLifecycle.
package chromesvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jsamuelsen11/uishell/internal/domain"
	"github.com/jsamuelsen11/uishell/internal/domain/chrome"
	"github.com/jsamuelsen11/uishell/internal/platform/lifecycle"
	"github.com/jsamuelsen11/uishell/internal/platform/stream"
	"github.com/jsamuelsen11/uishell/internal/ports"
)

// DefaultDocTitle is the document title used when none is configured.
const DefaultDocTitle = "OpenSearch Dashboards"

// Options configures the chrome service.
type Options struct {
	// Embed starts the chrome force-hidden, as when the shell is embedded in
	// another page.
	Embed bool
	// NavGroupEnabled turns on grouped side navigation.
	NavGroupEnabled bool
	// HelpSupportURL is the initial help menu support link.
	HelpSupportURL string
	// DocTitle is the base document title.
	DocTitle string
}

// AppSource provides the application streams the chrome derives its
// per-application state from.
type AppSource interface {
	CurrentAppID() *stream.Subject[string]
	Applications() *stream.Subject[map[string]chrome.App]
}

// StartDeps are the collaborators Start wires the chrome to.
type StartDeps struct {
	Applications AppSource
	Preferences  ports.PreferenceStore
}

// Service owns the chrome lifecycle.
type Service struct {
	mu       sync.Mutex
	phase    lifecycle.Machine
	opts     Options
	logger   *slog.Logger
	setup    *SetupContract
	contract *Contract

	releaseStopToken func() bool
}

// New creates a chrome service in its initial state.
func New(logger *slog.Logger, opts Options) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.HelpSupportURL == "" {
		opts.HelpSupportURL = chrome.DefaultHelpSupportURL
	}
	if opts.DocTitle == "" {
		opts.DocTitle = DefaultDocTitle
	}
	return &Service{opts: opts, logger: logger, phase: lifecycle.Machine{Name: "chrome"}}
}

// Setup moves the service to the set-up state and returns the setup
// contract.
func (s *Service) Setup() (*SetupContract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.phase.Transition(lifecycle.New, lifecycle.SetUp); err != nil {
		return nil, err
	}
	s.setup = newSetupContract(s, s.opts.NavGroupEnabled)
	return s.setup, nil
}

// Start wires the chrome streams and returns the runtime contract. ctx
// bounds the initial preference read and acts as a stop token: when it is
// done the service stops as if Stop had been called.
func (s *Service) Start(ctx context.Context, deps StartDeps) (*Contract, error) {
	if deps.Applications == nil || deps.Preferences == nil {
		return nil, fmt.Errorf("chrome start requires applications and preferences: %w", domain.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.phase.Transition(lifecycle.SetUp, lifecycle.Started); err != nil {
		return nil, err
	}

	s.contract = newContract(ctx, s.opts, s.setup.freeze(), deps, s.logger)
	s.releaseStopToken = context.AfterFunc(ctx, func() { _ = s.Shutdown() })
	s.logger.InfoContext(ctx, "chrome started",
		slog.Bool("embed", s.opts.Embed),
		slog.Bool("nav_group_enabled", s.opts.NavGroupEnabled),
	)
	return s.contract, nil
}

// Stop completes every chrome stream. After Stop the contract rejects all
// calls.
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.phase.Transition(lifecycle.Started, lifecycle.Stopped); err != nil {
		return err
	}
	s.releaseStopToken()
	s.contract.stop()
	s.logger.Info("chrome stopped")
	return nil
}

// Shutdown implements do.Shutdowner. It stops a started service and retires
// one that never started.
func (s *Service) Shutdown() error {
	if !s.phase.Retire() {
		return nil
	}
	// The stop token may have won the race.
	if err := s.Stop(); err != nil && !errors.Is(err, domain.ErrInvalidLifecycle) {
		return err
	}
	return nil
}

// Name identifies the chrome in readiness output.
func (s *Service) Name() string { return "chrome" }

// HealthCheck reports whether the chrome is started and serving streams.
func (s *Service) HealthCheck(context.Context) error {
	return s.phase.Serving()
}

// settingUp reports whether setup contract calls are still allowed.
func (s *Service) settingUp() bool {
	return s.phase.Is(lifecycle.SetUp)
}
