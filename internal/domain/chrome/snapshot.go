package chrome

// Snapshot is the latest value of every chrome stream at one point in time.
type Snapshot struct {
	CurrentAppID       string
	Visible            bool
	HeaderVariant      HeaderVariant
	AppTitle           string
	DocTitle           string
	ApplicationClasses []string
	Badge              *Badge
	Breadcrumbs        []Breadcrumb
	HelpExtension      *HelpExtension
	HelpSupportURL     string
	CustomNavLink      *NavLink
	NavDrawerLocked    bool
	NavGroupEnabled    bool
	CurrentNavGroup    *NavGroupItem
	NavGroups          map[string]NavGroupItem

	// CollapsibleNavHeader names the component registered to render the
	// collapsible navigation header, empty for the default header.
	CollapsibleNavHeader string
}
