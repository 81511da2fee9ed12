package chromesvc

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/jsamuelsen11/uishell/internal/domain"
	"github.com/jsamuelsen11/uishell/internal/domain/chrome"
	"github.com/jsamuelsen11/uishell/internal/platform/stream"
	"github.com/jsamuelsen11/uishell/internal/ports"
)

// Compile-time check that Contract implements ports.Chrome.
var _ ports.Chrome = (*Contract)(nil)

// Contract is the started chrome. Every getter returns a stream that
// completes when the chrome stops; every method returns
// domain.ErrInvalidLifecycle afterwards.
type Contract struct {
	stopCtx context.Context
	cancel  context.CancelFunc
	once    sync.Once
	logger  *slog.Logger
	prefs   ports.PreferenceStore

	navGroupEnabled bool
	navHeader       string
	baseDocTitle    string

	appID             *stream.Subject[string]
	currentApp        *stream.Subject[chrome.App]
	mountedWithChrome *stream.Subject[bool]
	forceHidden       *stream.Subject[bool]
	visible           *stream.Subject[bool]
	headerOverride    *stream.Subject[chrome.HeaderVariant]
	headerVariant     *stream.Subject[chrome.HeaderVariant]
	appTitle          *stream.Subject[string]
	docTitle          *stream.Subject[string]
	appClasses        *stream.Subject[[]string]
	badge             *stream.Subject[*chrome.Badge]
	breadcrumbs       *stream.Subject[[]chrome.Breadcrumb]
	enricher          *stream.Subject[chrome.BreadcrumbEnricher]
	helpExtension     *stream.Subject[*chrome.HelpExtension]
	helpSupportURL    *stream.Subject[string]
	customNavLink     *stream.Subject[*chrome.NavLink]
	drawerLocked      *stream.Subject[bool]
	navGroups         *stream.Subject[map[string]chrome.NavGroupItem]
	currentGroup      *stream.Subject[string]
	changes           *stream.Subject[uint64]

	owned       []interface{ Complete() }
	unsubscribe func()
}

func newContract(ctx context.Context, opts Options, setup setupResult, deps StartDeps, logger *slog.Logger) *Contract {
	stopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(ctx, cancel)

	c := &Contract{
		stopCtx:         stopCtx,
		cancel:          cancel,
		logger:          logger,
		prefs:           deps.Preferences,
		navGroupEnabled: opts.NavGroupEnabled,
		navHeader:       setup.navHeader,
		baseDocTitle:    opts.DocTitle,
	}

	appID := deps.Applications.CurrentAppID()
	c.appID = appID
	c.currentApp = stream.CombineLatest2(stopCtx, appID, deps.Applications.Applications(),
		func(id string, apps map[string]chrome.App) chrome.App {
			return apps[id]
		})

	// Hidden until an application mounts. An id missing from the registry
	// is not chromeless.
	c.mountedWithChrome = stream.CombineLatest2(stopCtx, appID, deps.Applications.Applications(),
		func(id string, apps map[string]chrome.App) bool {
			return id != "" && !apps[id].Chromeless
		})

	c.forceHidden = stream.NewSubject(opts.Embed)
	c.visible = stream.CombineLatest2(stopCtx, c.mountedWithChrome, c.forceHidden,
		func(withChrome, forceHidden bool) bool {
			return withChrome && !forceHidden
		})

	c.headerOverride = stream.NewSubject(chrome.HeaderVariantNone)
	c.headerVariant = stream.CombineLatest2(stopCtx, c.currentApp, c.headerOverride,
		func(app chrome.App, override chrome.HeaderVariant) chrome.HeaderVariant {
			if override != chrome.HeaderVariantNone {
				return override
			}
			return app.HeaderVariant
		})

	c.appTitle = stream.NewSubject(chrome.DefaultAppTitle)
	c.docTitle = stream.NewSubject(opts.DocTitle)
	c.appClasses = stream.NewSubject([]string{})
	c.badge = stream.NewSubject[*chrome.Badge](nil)
	c.breadcrumbs = stream.NewSubject([]chrome.Breadcrumb{})
	c.enricher = stream.NewSubject[chrome.BreadcrumbEnricher](nil)
	c.helpExtension = stream.NewSubject[*chrome.HelpExtension](nil)
	c.helpSupportURL = stream.NewSubject(opts.HelpSupportURL)
	c.customNavLink = stream.NewSubject[*chrome.NavLink](nil)
	c.drawerLocked = stream.NewSubject(c.readDrawerLocked(ctx))
	c.navGroups = stream.NewSubject(setup.navGroups)
	c.currentGroup = stream.NewSubject("")

	c.changes = stream.Changes(stopCtx,
		c.currentApp, c.visible, c.headerVariant, c.appTitle, c.docTitle,
		c.appClasses, c.badge, c.breadcrumbs, c.enricher, c.helpExtension,
		c.helpSupportURL, c.customNavLink, c.drawerLocked, c.navGroups,
		c.currentGroup,
	)

	c.owned = []interface{ Complete() }{
		c.currentApp, c.mountedWithChrome, c.forceHidden, c.visible, c.headerOverride,
		c.headerVariant, c.appTitle, c.docTitle, c.appClasses, c.badge,
		c.breadcrumbs, c.enricher, c.helpExtension, c.helpSupportURL,
		c.customNavLink, c.drawerLocked, c.navGroups, c.currentGroup,
		c.changes,
	}

	// Erase per-application fields when another application mounts.
	cancelReset := appID.Observe(func(string) {
		c.helpExtension.Next(nil)
		c.breadcrumbs.Next([]chrome.Breadcrumb{})
		c.badge.Next(nil)
		c.docTitle.Next(c.baseDocTitle)
	})
	c.unsubscribe = func() {
		cancelReset()
		stop()
	}

	context.AfterFunc(stopCtx, c.stop)
	return c
}

func (c *Contract) readDrawerLocked(ctx context.Context) bool {
	v, ok, err := c.prefs.Get(ctx, chrome.IsLockedKey)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to read nav drawer lock preference",
			slog.String("key", chrome.IsLockedKey),
			slog.Any("error", err),
		)
		return false
	}
	return ok && v == "true"
}

// stop completes every stream exactly once.
func (c *Contract) stop() {
	c.once.Do(func() {
		c.cancel()
		c.unsubscribe()
		for _, s := range c.owned {
			s.Complete()
		}
	})
}

func (c *Contract) alive() error {
	if c.stopCtx.Err() != nil {
		return fmt.Errorf("chrome has stopped: %w", domain.ErrInvalidLifecycle)
	}
	return nil
}

// --- Streams ---

// IsVisible is true once an application is mounted, unless that
// application is chromeless or the chrome was force-hidden.
func (c *Contract) IsVisible() *stream.Subject[bool] { return c.visible }

// HeaderVariant is the override when set, else the mounted app's variant.
func (c *Contract) HeaderVariant() *stream.Subject[chrome.HeaderVariant] { return c.headerVariant }

// AppTitle is the title shown in the header.
func (c *Contract) AppTitle() *stream.Subject[string] { return c.appTitle }

// DocTitle is the document title.
func (c *Contract) DocTitle() *stream.Subject[string] { return c.docTitle }

// ApplicationClasses are the CSS classes applied to the app container in
// insertion order.
func (c *Contract) ApplicationClasses() *stream.Subject[[]string] { return c.appClasses }

// Badge is the header badge, nil when none.
func (c *Contract) Badge() *stream.Subject[*chrome.Badge] { return c.badge }

// Breadcrumbs is the raw breadcrumb trail as set by the application.
func (c *Contract) Breadcrumbs() *stream.Subject[[]chrome.Breadcrumb] { return c.breadcrumbs }

// BreadcrumbsEnricher is the enricher applied to breadcrumbs before render.
func (c *Contract) BreadcrumbsEnricher() *stream.Subject[chrome.BreadcrumbEnricher] {
	return c.enricher
}

// HelpExtension is the help menu extension of the mounted app.
func (c *Contract) HelpExtension() *stream.Subject[*chrome.HelpExtension] { return c.helpExtension }

// HelpSupportURL is the help menu support link.
func (c *Contract) HelpSupportURL() *stream.Subject[string] { return c.helpSupportURL }

// CustomNavLink is the custom nav link shown above the navigation.
func (c *Contract) CustomNavLink() *stream.Subject[*chrome.NavLink] { return c.customNavLink }

// IsNavDrawerLocked reports whether the side navigation is docked open.
func (c *Contract) IsNavDrawerLocked() *stream.Subject[bool] { return c.drawerLocked }

// NavGroupsMap holds every registered nav group keyed by id.
func (c *Contract) NavGroupsMap() *stream.Subject[map[string]chrome.NavGroupItem] {
	return c.navGroups
}

// CurrentNavGroupID is the selected nav group id, empty when none.
func (c *Contract) CurrentNavGroupID() *stream.Subject[string] { return c.currentGroup }

// NavGroupEnabled reports whether grouped navigation is turned on.
func (c *Contract) NavGroupEnabled() bool { return c.navGroupEnabled }

// CollapsibleNavHeader names the registered collapsible nav header component.
func (c *Contract) CollapsibleNavHeader() string { return c.navHeader }

// --- Setters ---

// SetIsVisible force-hides the chrome when visible is false.
func (c *Contract) SetIsVisible(visible bool) error {
	if err := c.alive(); err != nil {
		return err
	}
	c.forceHidden.Next(!visible)
	return nil
}

// SetHeaderVariant overrides the header variant. HeaderVariantNone clears
// the override.
func (c *Contract) SetHeaderVariant(variant chrome.HeaderVariant) error {
	if err := c.alive(); err != nil {
		return err
	}
	if !variant.Valid() {
		return domain.Invalid("headerVariant", "must be page or application")
	}
	c.headerOverride.Next(variant)
	return nil
}

// SetAppTitle sets the header title.
func (c *Contract) SetAppTitle(title string) error {
	if err := c.alive(); err != nil {
		return err
	}
	c.appTitle.Next(title)
	return nil
}

// ChangeDocTitle sets the document title to parts followed by the base
// title, joined with " - ".
func (c *Contract) ChangeDocTitle(parts ...string) error {
	if err := c.alive(); err != nil {
		return err
	}
	c.docTitle.Next(strings.Join(append(slices.Clone(parts), c.baseDocTitle), " - "))
	return nil
}

// ResetDocTitle restores the base document title.
func (c *Contract) ResetDocTitle() error {
	if err := c.alive(); err != nil {
		return err
	}
	c.docTitle.Next(c.baseDocTitle)
	return nil
}

// AddApplicationClass adds a CSS class. Adding a present class is a no-op.
func (c *Contract) AddApplicationClass(className string) error {
	if err := c.alive(); err != nil {
		return err
	}
	if strings.TrimSpace(className) == "" {
		return domain.Invalid("className", "must not be empty")
	}
	c.appClasses.Update(func(classes []string) []string {
		if slices.Contains(classes, className) {
			return classes
		}
		return append(slices.Clone(classes), className)
	})
	return nil
}

// RemoveApplicationClass removes a CSS class. Unknown classes are ignored.
func (c *Contract) RemoveApplicationClass(className string) error {
	if err := c.alive(); err != nil {
		return err
	}
	c.appClasses.Update(func(classes []string) []string {
		return slices.DeleteFunc(slices.Clone(classes), func(s string) bool { return s == className })
	})
	return nil
}

// SetBadge sets the header badge. nil clears it.
func (c *Contract) SetBadge(badge *chrome.Badge) error {
	if err := c.alive(); err != nil {
		return err
	}
	if badge != nil {
		if err := badge.Validate(); err != nil {
			return err
		}
		b := *badge
		badge = &b
	}
	c.badge.Next(badge)
	return nil
}

// SetBreadcrumbs replaces the breadcrumb trail.
func (c *Contract) SetBreadcrumbs(crumbs []chrome.Breadcrumb) error {
	if err := c.alive(); err != nil {
		return err
	}
	if err := chrome.ValidateBreadcrumbs(crumbs); err != nil {
		return err
	}
	if crumbs == nil {
		crumbs = []chrome.Breadcrumb{}
	}
	c.breadcrumbs.Next(slices.Clone(crumbs))
	return nil
}

// SetBreadcrumbsEnricher installs fn to rewrite breadcrumbs before render.
// nil removes the enricher.
func (c *Contract) SetBreadcrumbsEnricher(fn chrome.BreadcrumbEnricher) error {
	if err := c.alive(); err != nil {
		return err
	}
	c.enricher.Next(fn)
	return nil
}

// SetHelpExtension sets the mounted app's help menu section. nil clears it.
func (c *Contract) SetHelpExtension(ext *chrome.HelpExtension) error {
	if err := c.alive(); err != nil {
		return err
	}
	if ext != nil {
		e := *ext
		e.Links = slices.Clone(ext.Links)
		ext = &e
	}
	c.helpExtension.Next(ext)
	return nil
}

// SetHelpSupportURL sets the help menu support link.
func (c *Contract) SetHelpSupportURL(url string) error {
	if err := c.alive(); err != nil {
		return err
	}
	if strings.TrimSpace(url) == "" {
		return domain.Invalid("url", "must not be empty")
	}
	c.helpSupportURL.Next(url)
	return nil
}

// SetCustomNavLink sets the custom nav link. nil clears it.
func (c *Contract) SetCustomNavLink(link *chrome.NavLink) error {
	if err := c.alive(); err != nil {
		return err
	}
	if link != nil {
		l := *link
		link = &l
	}
	c.customNavLink.Next(link)
	return nil
}

// SetIsNavDrawerLocked publishes the lock state and persists it under
// chrome.IsLockedKey. The new state is published even when persisting fails.
func (c *Contract) SetIsNavDrawerLocked(ctx context.Context, locked bool) error {
	if err := c.alive(); err != nil {
		return err
	}
	c.drawerLocked.Next(locked)

	if err := c.prefs.Set(ctx, chrome.IsLockedKey, strconv.FormatBool(locked)); err != nil {
		c.logger.ErrorContext(ctx, "failed to persist nav drawer lock",
			slog.String("operation", "SetIsNavDrawerLocked"),
			slog.String("key", chrome.IsLockedKey),
			slog.Any("error", err),
		)
		return fmt.Errorf("persisting nav drawer lock: %w", err)
	}
	return nil
}

// SetCurrentNavGroup selects the nav group with the given id. An empty id
// clears the selection.
func (c *Contract) SetCurrentNavGroup(id string) error {
	if err := c.alive(); err != nil {
		return err
	}
	if id != "" {
		if _, ok := c.navGroups.Value()[id]; !ok {
			return &domain.NotFoundError{
				Message: fmt.Sprintf("Nav group [id = %s] is not registered.", id),
			}
		}
	}
	c.currentGroup.Next(id)
	return nil
}

// --- Snapshots ---

// Snapshot returns the latest value of every stream.
func (c *Contract) Snapshot() (chrome.Snapshot, error) {
	if err := c.alive(); err != nil {
		return chrome.Snapshot{}, err
	}
	return c.snapshot(), nil
}

func (c *Contract) snapshot() chrome.Snapshot {
	crumbs := slices.Clone(c.breadcrumbs.Value())
	if enrich := c.enricher.Value(); enrich != nil {
		crumbs = enrich(crumbs)
	}

	groups := maps.Clone(c.navGroups.Value())
	var current *chrome.NavGroupItem
	if item, ok := groups[c.currentGroup.Value()]; ok {
		current = &item
	}

	return chrome.Snapshot{
		CurrentAppID:         c.appID.Value(),
		Visible:              c.visible.Value(),
		HeaderVariant:        c.headerVariant.Value(),
		AppTitle:             c.appTitle.Value(),
		DocTitle:             c.docTitle.Value(),
		ApplicationClasses:   slices.Clone(c.appClasses.Value()),
		Badge:                c.badge.Value(),
		Breadcrumbs:          crumbs,
		HelpExtension:        c.helpExtension.Value(),
		HelpSupportURL:       c.helpSupportURL.Value(),
		CustomNavLink:        c.customNavLink.Value(),
		NavDrawerLocked:      c.drawerLocked.Value(),
		NavGroupEnabled:      c.navGroupEnabled,
		CurrentNavGroup:      current,
		NavGroups:            groups,
		CollapsibleNavHeader: c.navHeader,
	}
}

// WatchSnapshots delivers the current snapshot and then a new one after
// every state change. A slow reader only sees the latest snapshot. The
// channel closes when ctx is done or the chrome stops.
func (c *Contract) WatchSnapshots(ctx context.Context) (<-chan chrome.Snapshot, error) {
	if err := c.alive(); err != nil {
		return nil, err
	}

	changes := c.changes.Watch(ctx)
	out := make(chan chrome.Snapshot, 1)
	go func() {
		defer close(out)
		for range changes {
			snap := c.snapshot()
			select {
			case <-out:
			default:
			}
			out <- snap
		}
	}()
	return out, nil
}
