// Package chrome defines the value types that make up the application's
// persistent UI shell: header variant, badges, breadcrumbs, help menu
// extensions, navigation links and navigation groups.
package chrome

import (
	"strconv"
	"strings"

	"github.com/jsamuelsen11/uishell/internal/domain"
)

// IsLockedKey is the preference key under which the nav drawer lock flag is
// persisted.
const IsLockedKey = "core.chrome.isLocked"

// DefaultAppTitle is the title shown before any application sets one.
const DefaultAppTitle = "Overview"

// DefaultHelpSupportURL is the support link shown in the help menu until an
// application overrides it.
const DefaultHelpSupportURL = "https://forum.opensearch.org/"

// HeaderVariant selects the header layout.
type HeaderVariant string

// Header variants.
const (
	HeaderVariantNone        HeaderVariant = ""
	HeaderVariantPage        HeaderVariant = "page"
	HeaderVariantApplication HeaderVariant = "application"
)

// Valid reports whether v is a known variant. The empty variant means unset.
func (v HeaderVariant) Valid() bool {
	switch v {
	case HeaderVariantNone, HeaderVariantPage, HeaderVariantApplication:
		return true
	default:
		return false
	}
}

// Badge is the optional badge shown next to the breadcrumbs.
type Badge struct {
	Text     string
	Tooltip  string
	IconType string
}

// Validate checks the badge has text.
func (b *Badge) Validate() error {
	if strings.TrimSpace(b.Text) == "" {
		return domain.Invalid("text", "must not be empty")
	}
	return nil
}

// Breadcrumb is a single entry of the header breadcrumb trail.
type Breadcrumb struct {
	Text string
	Href string
}

// BreadcrumbEnricher rewrites the breadcrumb trail before it is rendered,
// e.g. to prefix the current workspace.
type BreadcrumbEnricher func([]Breadcrumb) []Breadcrumb

// ValidateBreadcrumbs checks every breadcrumb has text.
func ValidateBreadcrumbs(crumbs []Breadcrumb) error {
	fields := make(map[string]string)
	for i, c := range crumbs {
		if strings.TrimSpace(c.Text) == "" {
			fields["breadcrumbs["+strconv.Itoa(i)+"].text"] = "must not be empty"
		}
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// HelpLinkType is the kind of link in a help menu extension.
type HelpLinkType string

// Help link types.
const (
	HelpLinkDocumentation HelpLinkType = "documentation"
	HelpLinkGitHub        HelpLinkType = "github"
	HelpLinkDiscuss       HelpLinkType = "discuss"
	HelpLinkCustom        HelpLinkType = "custom"
)

// HelpLink is one entry contributed to the help menu.
type HelpLink struct {
	LinkType HelpLinkType
	Href     string
	Content  string
}

// HelpExtension lets the mounted application add a section to the help menu.
type HelpExtension struct {
	AppName string
	Links   []HelpLink
}

// NavLink is a navigable entry of the side navigation.
type NavLink struct {
	ID       string
	Title    string
	URL      string
	Category string
	Order    int
	Hidden   bool
	Disabled bool
}

// NavGroupType distinguishes system groups from use-case groups.
type NavGroupType string

// Nav group types.
const (
	NavGroupTypeUseCase NavGroupType = ""
	NavGroupTypeSystem  NavGroupType = "system"
)

// NavGroup is a named collection of nav links shown together in the side
// navigation.
type NavGroup struct {
	ID          string
	Title       string
	Description string
	Order       int
	Type        NavGroupType
}

// Validate checks the group has an identifier.
func (g *NavGroup) Validate() error {
	if strings.TrimSpace(g.ID) == "" {
		return domain.Invalid("id", "must not be empty")
	}
	return nil
}

// NavGroupItem is a nav group together with its member links.
type NavGroupItem struct {
	NavGroup
	NavLinks []NavLink
}

// App is the chrome-relevant view of a registered application.
type App struct {
	ID            string
	Title         string
	Chromeless    bool
	HeaderVariant HeaderVariant
}
