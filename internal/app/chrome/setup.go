package chromesvc

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/jsamuelsen11/uishell/internal/domain"
	"github.com/jsamuelsen11/uishell/internal/domain/chrome"
)

// SetupContract is what plugins use to configure the chrome before it
// starts. Its methods return domain.ErrInvalidLifecycle once Start ran.
type SetupContract struct {
	svc             *Service
	navGroupEnabled bool

	mu        sync.Mutex
	navGroups map[string]chrome.NavGroupItem
	navHeader string
}

func newSetupContract(svc *Service, navGroupEnabled bool) *SetupContract {
	return &SetupContract{
		svc:             svc,
		navGroupEnabled: navGroupEnabled,
		navGroups:       make(map[string]chrome.NavGroupItem),
	}
}

// RegisterCollapsibleNavHeader sets the component rendering the collapsible
// navigation header. Registering a second one replaces the first with a
// warning.
func (c *SetupContract) RegisterCollapsibleNavHeader(component string) error {
	if !c.svc.settingUp() {
		return fmt.Errorf("registering collapsible nav header: %w", domain.ErrInvalidLifecycle)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.navHeader != "" {
		c.svc.logger.Warn("an existing custom collapsible navigation bar header render has been overridden",
			slog.String("previous", c.navHeader),
			slog.String("component", component),
		)
	}
	c.navHeader = component
	return nil
}

// AddNavLinksToGroup adds links to the group, creating the group on first
// use. Links accumulate across calls in call order.
func (c *SetupContract) AddNavLinksToGroup(group chrome.NavGroup, links []chrome.NavLink) error {
	if err := group.Validate(); err != nil {
		return err
	}
	if !c.svc.settingUp() {
		return fmt.Errorf("adding nav links to group %q: %w", group.ID, domain.ErrInvalidLifecycle)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.navGroups[group.ID]
	if !ok {
		item = chrome.NavGroupItem{NavGroup: group}
	}
	item.NavLinks = append(slices.Clone(item.NavLinks), links...)
	c.navGroups[group.ID] = item
	return nil
}

// NavGroupEnabled reports whether grouped navigation is turned on.
func (c *SetupContract) NavGroupEnabled() bool {
	return c.navGroupEnabled
}

// setupResult is the frozen outcome of the setup phase.
type setupResult struct {
	navGroups map[string]chrome.NavGroupItem
	navHeader string
}

func (c *SetupContract) freeze() setupResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return setupResult{navGroups: maps.Clone(c.navGroups), navHeader: c.navHeader}
}
