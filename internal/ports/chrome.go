package ports

import (
	"context"

	"github.com/jsamuelsen11/uishell/internal/domain/chrome"
)

// Chrome defines the service port for the started chrome service. Every
// method returns domain.ErrInvalidLifecycle once the service has stopped.
type Chrome interface {
	// Snapshot returns the latest value of every chrome stream.
	Snapshot() (chrome.Snapshot, error)

	// WatchSnapshots delivers a snapshot on every chrome state change until
	// ctx is done or the service stops, then closes the channel. The first
	// value is the current state.
	WatchSnapshots(ctx context.Context) (<-chan chrome.Snapshot, error)

	SetIsVisible(visible bool) error
	SetHeaderVariant(variant chrome.HeaderVariant) error
	SetAppTitle(title string) error
	SetBreadcrumbs(crumbs []chrome.Breadcrumb) error
	SetBadge(badge *chrome.Badge) error
	SetHelpExtension(ext *chrome.HelpExtension) error
	SetHelpSupportURL(url string) error
	SetCustomNavLink(link *chrome.NavLink) error
	AddApplicationClass(className string) error
	RemoveApplicationClass(className string) error

	// SetIsNavDrawerLocked updates the drawer lock and persists it to the
	// preference store under chrome.IsLockedKey.
	SetIsNavDrawerLocked(ctx context.Context, locked bool) error

	// SetCurrentNavGroup selects a nav group by id; an empty id clears the
	// selection. Unknown ids return domain.ErrNotFound.
	SetCurrentNavGroup(id string) error
}

// Applications defines the service port for the application registry that
// drives the chrome's per-application state.
type Applications interface {
	// Register adds an application. Duplicate ids return domain.ErrConflict.
	Register(app chrome.App) error

	// Apps returns all registered applications sorted by id.
	Apps() []chrome.App

	// NavigateToApp mounts the application with the given id.
	NavigateToApp(id string) error
}
