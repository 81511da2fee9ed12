// Package lifecycle tracks the one-directional Setup, Start, Stop lifecycle
// shared by the chrome service and the plugin host.
package lifecycle

import (
	"fmt"
	"sync"

	"github.com/jsamuelsen11/uishell/internal/domain"
)

// Phase is a lifecycle position.
type Phase int

// Phases in the order a component moves through them.
const (
	New Phase = iota
	SetUp
	Started
	Stopped
)

func (p Phase) String() string {
	switch p {
	case New:
		return "new"
	case SetUp:
		return "set up"
	case Started:
		return "started"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Machine guards phase transitions for a named component. The zero value is
// a usable machine in phase New.
type Machine struct {
	Name string

	mu    sync.Mutex
	phase Phase
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Is reports whether the machine is in phase p.
func (m *Machine) Is(p Phase) bool {
	return m.Phase() == p
}

// Transition moves from one phase to the next. It fails with
// domain.ErrInvalidLifecycle when the machine is not in phase from.
func (m *Machine) Transition(from, to Phase) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != from {
		return fmt.Errorf("%s cannot move to %s while %s: %w", m.Name, to, m.phase, domain.ErrInvalidLifecycle)
	}
	m.phase = to
	return nil
}

// Retire moves the machine to Stopped unless it is Started, in which case
// the caller still owns the stop. It reports whether the machine was Started.
func (m *Machine) Retire() (started bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase == Started {
		return true
	}
	m.phase = Stopped
	return false
}

// Serving returns nil while the machine is Started and an error wrapping
// domain.ErrUnavailable otherwise.
func (m *Machine) Serving() error {
	if p := m.Phase(); p != Started {
		return fmt.Errorf("%s is %s: %w", m.Name, p, domain.ErrUnavailable)
	}
	return nil
}
