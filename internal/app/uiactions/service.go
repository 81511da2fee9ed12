// Package uiactions implements the UI action and trigger registries.
//
// A Service stores actions (named units of behavior) and triggers (named
// extension points), keeps an ordered list of attached action ids per
// trigger, and resolves which attached actions are compatible with a caller
// supplied context. Services can be forked to give a plugin an isolated copy
// of the current registries.
package uiactions

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sort"
	"sync"

	"github.com/jsamuelsen11/uishell/internal/domain"
	"github.com/jsamuelsen11/uishell/internal/domain/action"
	"github.com/jsamuelsen11/uishell/internal/domain/trigger"
	"github.com/jsamuelsen11/uishell/internal/platform/telemetry"
	"github.com/jsamuelsen11/uishell/internal/ports"
)

// DefaultMaxConcurrentChecks bounds concurrent compatibility predicates when
// no explicit limit is configured.
const DefaultMaxConcurrentChecks = 8

// Compile-time check that Service implements ports.UIActions.
var _ ports.UIActions = (*Service)(nil)

// Service implements ports.UIActions. All methods are safe for concurrent use.
type Service struct {
	mu          sync.RWMutex
	actions     map[string]*action.Action
	triggers    map[string]trigger.Trigger
	attachments map[string][]string

	logger    *slog.Logger
	metrics   *telemetry.Metrics
	maxChecks int
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records resolution and execution metrics on m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithMaxConcurrentChecks bounds how many compatibility predicates run at
// once for a single resolution. Values below 1 keep the default.
func WithMaxConcurrentChecks(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxChecks = n
		}
	}
}

// New creates an empty Service. A nil logger discards output.
func New(logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{
		actions:     make(map[string]*action.Action),
		triggers:    make(map[string]trigger.Trigger),
		attachments: make(map[string][]string),
		logger:      logger,
		metrics:     telemetry.NewNoopMetrics(),
		maxChecks:   DefaultMaxConcurrentChecks,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterAction validates and stores def, returning its wrapped handle.
func (s *Service) RegisterAction(def action.Definition) (*action.Action, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.registerActionLocked(def)
}

func (s *Service) registerActionLocked(def action.Definition) (*action.Action, error) {
	if _, ok := s.actions[def.ID]; ok {
		return nil, &domain.ConflictError{
			Message: fmt.Sprintf("Action [action.id = %s] already registered.", def.ID),
		}
	}

	a := action.New(def)
	s.actions[def.ID] = a
	s.logger.Debug("action registered", slog.String("action_id", def.ID), slog.String("type", string(def.Type)))
	return a, nil
}

// UnregisterAction removes the action. Attachments that still reference it
// are skipped when trigger actions are read.
func (s *Service) UnregisterAction(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.actions[id]; !ok {
		return &domain.NotFoundError{
			Message: fmt.Sprintf("Action [action.id = %s] is not registered.", id),
		}
	}
	delete(s.actions, id)
	return nil
}

// HasAction reports whether id is registered.
func (s *Service) HasAction(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.actions[id]
	return ok
}

// GetAction returns the registered action with the given id.
func (s *Service) GetAction(id string) (*action.Action, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.getActionLocked(id)
}

func (s *Service) getActionLocked(id string) (*action.Action, error) {
	a, ok := s.actions[id]
	if !ok {
		return nil, &domain.NotFoundError{
			Message: fmt.Sprintf("Action [action.id = %s] not registered.", id),
		}
	}
	return a, nil
}

// Actions returns every registered action sorted by id.
func (s *Service) Actions() []*action.Action {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := slices.Sorted(maps.Keys(s.actions))
	out := make([]*action.Action, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.actions[id])
	}
	return out
}

// RegisterTrigger validates and stores t.
func (s *Service) RegisterTrigger(t trigger.Trigger) error {
	if err := t.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.triggers[t.ID]; ok {
		return &domain.ConflictError{
			Message: fmt.Sprintf("Trigger [trigger.id = %s] already registered.", t.ID),
		}
	}

	s.triggers[t.ID] = t
	s.attachments[t.ID] = []string{}
	s.logger.Debug("trigger registered", slog.String("trigger_id", t.ID))
	return nil
}

// UnregisterTrigger removes the trigger together with its attachments. The
// attached actions stay registered.
func (s *Service) UnregisterTrigger(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.triggers[id]; !ok {
		return triggerNotFound(id)
	}
	delete(s.triggers, id)
	delete(s.attachments, id)
	return nil
}

// GetTrigger returns the registered trigger with the given id.
func (s *Service) GetTrigger(id string) (trigger.Trigger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.triggers[id]
	if !ok {
		return trigger.Trigger{}, triggerNotFound(id)
	}
	return t, nil
}

// Triggers returns every registered trigger sorted by id.
func (s *Service) Triggers() []trigger.Trigger {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]trigger.Trigger, 0, len(s.triggers))
	for _, t := range s.triggers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AddTriggerAction attaches def to the trigger. When no action with the
// definition's id is registered yet, def is registered first.
func (s *Service) AddTriggerAction(triggerID string, def action.Definition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.triggers[triggerID]; !ok {
		return &domain.NotFoundError{
			Message: fmt.Sprintf("No trigger [triggerId = %s] exists, for attaching action [actionId = %s].", triggerID, def.ID),
		}
	}

	if _, ok := s.actions[def.ID]; !ok {
		if err := def.Validate(); err != nil {
			return err
		}
		if _, err := s.registerActionLocked(def); err != nil {
			return err
		}
	}

	s.attachLocked(triggerID, def.ID)
	return nil
}

// AttachAction attaches an already registered action to the trigger.
func (s *Service) AttachAction(triggerID, actionID string) error {
	_, err := s.TryAttachAction(triggerID, actionID)
	return err
}

// TryAttachAction is AttachAction that also reports whether the action was
// newly attached. It is false when the pair was already attached.
func (s *Service) TryAttachAction(triggerID, actionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.triggers[triggerID]; !ok {
		return false, &domain.NotFoundError{
			Message: fmt.Sprintf("No trigger [triggerId = %s] exists, for attaching action [actionId = %s].", triggerID, actionID),
		}
	}
	if _, err := s.getActionLocked(actionID); err != nil {
		return false, err
	}

	return s.attachLocked(triggerID, actionID), nil
}

// attachLocked appends actionID unless it is already attached and reports
// whether it appended.
func (s *Service) attachLocked(triggerID, actionID string) bool {
	ids := s.attachments[triggerID]
	if slices.Contains(ids, actionID) {
		return false
	}
	s.attachments[triggerID] = append(ids, actionID)
	s.logger.Debug("action attached",
		slog.String("trigger_id", triggerID),
		slog.String("action_id", actionID),
	)
	return true
}

// DetachAction removes actionID from the trigger's attachments.
func (s *Service) DetachAction(triggerID, actionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, ok := s.attachments[triggerID]
	if !ok {
		return &domain.NotFoundError{
			Message: fmt.Sprintf("No trigger [triggerId = %s] exists, for detaching action [actionId = %s].", triggerID, actionID),
		}
	}

	// Build a fresh slice so forks sharing history never observe the change.
	s.attachments[triggerID] = slices.DeleteFunc(slices.Clone(ids), func(id string) bool { return id == actionID })
	return nil
}

// GetTriggerActions returns the actions attached to the trigger in
// attachment order.
func (s *Service) GetTriggerActions(triggerID string) ([]*action.Action, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.triggerActionsLocked(triggerID)
}

func (s *Service) triggerActionsLocked(triggerID string) ([]*action.Action, error) {
	ids, ok := s.attachments[triggerID]
	if !ok {
		return nil, triggerNotFound(triggerID)
	}

	out := make([]*action.Action, 0, len(ids))
	for _, id := range ids {
		if a, ok := s.actions[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// Clear removes every action, trigger, and attachment.
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.actions)
	clear(s.triggers)
	clear(s.attachments)
}

func triggerNotFound(id string) error {
	return &domain.NotFoundError{
		Message: fmt.Sprintf("Trigger [triggerId = %s] does not exist.", id),
	}
}
