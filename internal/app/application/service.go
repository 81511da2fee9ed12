// Package application keeps the registry of mounted applications and the id
// of the one currently shown. The chrome service derives per-application
// state (visibility, header variant, resets on navigation) from its streams.
package application

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/jsamuelsen11/uishell/internal/domain"
	"github.com/jsamuelsen11/uishell/internal/domain/chrome"
	"github.com/jsamuelsen11/uishell/internal/platform/stream"
	"github.com/jsamuelsen11/uishell/internal/ports"
)

// Compile-time check that Service implements ports.Applications.
var _ ports.Applications = (*Service)(nil)

// Service implements ports.Applications.
type Service struct {
	mu     sync.Mutex
	apps   *stream.Subject[map[string]chrome.App]
	appID  *stream.Subject[string]
	logger *slog.Logger
}

// New creates an empty registry with no current application.
func New(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		apps:   stream.NewSubject(map[string]chrome.App{}),
		appID:  stream.NewSubject(""),
		logger: logger,
	}
}

// Register adds app. Published maps are never mutated afterwards.
func (s *Service) Register(app chrome.App) error {
	if strings.TrimSpace(app.ID) == "" {
		return domain.Invalid("id", "must not be empty")
	}
	if !app.HeaderVariant.Valid() {
		return domain.Invalid("headerVariant", "must be page or application")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.apps.Value()
	if _, ok := current[app.ID]; ok {
		return &domain.ConflictError{
			Message: fmt.Sprintf("Application [id = %s] already registered.", app.ID),
		}
	}

	next := maps.Clone(current)
	next[app.ID] = app
	s.apps.Next(next)
	s.logger.Debug("application registered", slog.String("app_id", app.ID))
	return nil
}

// Apps returns the registered applications sorted by id.
func (s *Service) Apps() []chrome.App {
	current := s.apps.Value()
	out := make([]chrome.App, 0, len(current))
	for _, id := range slices.Sorted(maps.Keys(current)) {
		out = append(out, current[id])
	}
	return out
}

// NavigateToApp makes id the current application. Navigating to the
// application that is already current publishes nothing.
func (s *Service) NavigateToApp(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.apps.Value()[id]; !ok {
		return &domain.NotFoundError{
			Message: fmt.Sprintf("Application [id = %s] is not registered.", id),
		}
	}
	if s.appID.Value() == id {
		return nil
	}

	s.appID.Next(id)
	s.logger.Info("application mounted", slog.String("app_id", id))
	return nil
}

// CurrentApp returns the mounted application, if any.
func (s *Service) CurrentApp() (chrome.App, bool) {
	app, ok := s.apps.Value()[s.appID.Value()]
	return app, ok
}

// CurrentAppID is the stream of the mounted application id. Empty until the
// first navigation.
func (s *Service) CurrentAppID() *stream.Subject[string] {
	return s.appID
}

// Applications is the stream of registered applications keyed by id.
func (s *Service) Applications() *stream.Subject[map[string]chrome.App] {
	return s.apps
}

// Shutdown completes both streams. It implements do.Shutdowner.
func (s *Service) Shutdown() error {
	s.appID.Complete()
	s.apps.Complete()
	return nil
}
