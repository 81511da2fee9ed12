// Package dto provides HTTP request/response data transfer objects and
// RFC 9457 Problem Details error responses for the inbound HTTP adapter layer.
package dto

import (
	"cmp"
	"maps"
	"slices"

	"github.com/jsamuelsen11/uishell/internal/domain/action"
	"github.com/jsamuelsen11/uishell/internal/domain/chrome"
	"github.com/jsamuelsen11/uishell/internal/domain/trigger"
	"github.com/jsamuelsen11/uishell/internal/ports"
)

// TriggerResponse represents a single trigger in HTTP responses.
type TriggerResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// TriggerListResponse represents a list of triggers in HTTP responses.
type TriggerListResponse struct {
	Triggers []TriggerResponse `json:"triggers"`
	Count    int               `json:"count"`
}

// ToTriggerResponse converts a domain trigger to an HTTP response DTO.
func ToTriggerResponse(t trigger.Trigger) TriggerResponse {
	return TriggerResponse{ID: t.ID, Title: t.Title, Description: t.Description}
}

// ToTriggerListResponse converts domain triggers to an HTTP list response DTO.
func ToTriggerListResponse(triggers []trigger.Trigger) TriggerListResponse {
	items := make([]TriggerResponse, len(triggers))
	for i, t := range triggers {
		items[i] = ToTriggerResponse(t)
	}
	return TriggerListResponse{Triggers: items, Count: len(items)}
}

// ActionResponse is an action presented for a context.
type ActionResponse struct {
	ID                 string `json:"id"`
	Type               string `json:"type,omitempty"`
	Order              int    `json:"order"`
	DisplayName        string `json:"display_name"`
	DisplayNameTooltip string `json:"display_name_tooltip,omitempty"`
	IconType           string `json:"icon_type,omitempty"`
	Tooltip            string `json:"tooltip,omitempty"`
	Disabled           bool   `json:"disabled"`
	Href               string `json:"href,omitempty"`
}

// ActionListResponse represents a list of actions in HTTP responses.
type ActionListResponse struct {
	Actions []ActionResponse `json:"actions"`
	Count   int              `json:"count"`
}

// ToActionResponse converts a resolved presentation to an HTTP response DTO.
func ToActionResponse(p action.Presentation) ActionResponse {
	return ActionResponse{
		ID:                 p.ID,
		Type:               string(p.Type),
		Order:              p.Order,
		DisplayName:        p.DisplayName,
		DisplayNameTooltip: p.DisplayNameTooltip,
		IconType:           p.IconType,
		Tooltip:            p.Tooltip,
		Disabled:           p.Disabled,
		Href:               p.Href,
	}
}

// ToActionListResponse converts presentations to an HTTP list response DTO.
func ToActionListResponse(ps []action.Presentation) ActionListResponse {
	items := make([]ActionResponse, len(ps))
	for i, p := range ps {
		items[i] = ToActionResponse(p)
	}
	return ActionListResponse{Actions: items, Count: len(items)}
}

// ExecutionResponse describes the outcome of firing a trigger.
type ExecutionResponse struct {
	ExecutionID string           `json:"execution_id"`
	TriggerID   string           `json:"trigger_id"`
	Executed    []string         `json:"executed"`
	Candidates  []ActionResponse `json:"candidates,omitempty"`
}

// ToExecutionResponse converts an execution result. Candidates are passed
// already presented since presenting needs the request context.
func ToExecutionResponse(res *ports.ExecutionResult, candidates []action.Presentation) ExecutionResponse {
	executed := res.Executed
	if executed == nil {
		executed = []string{}
	}
	resp := ExecutionResponse{
		ExecutionID: res.ExecutionID,
		TriggerID:   res.TriggerID,
		Executed:    executed,
	}
	if len(candidates) > 0 {
		resp.Candidates = ToActionListResponse(candidates).Actions
	}
	return resp
}

// --- Chrome ---

// HelpLinkDTO is one help menu extension link.
type HelpLinkDTO struct {
	LinkType string `json:"link_type"`
	Href     string `json:"href,omitempty"`
	Content  string `json:"content,omitempty"`
}

// HelpExtensionDTO is the help menu extension of the mounted application.
type HelpExtensionDTO struct {
	AppName string        `json:"app_name"`
	Links   []HelpLinkDTO `json:"links,omitempty"`
}

// NavLinkDTO is a side navigation link.
type NavLinkDTO struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	URL      string `json:"url,omitempty"`
	Category string `json:"category,omitempty"`
	Order    int    `json:"order"`
	Hidden   bool   `json:"hidden,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}

// NavGroupDTO is a navigation group with its links.
type NavGroupDTO struct {
	ID          string       `json:"id"`
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Order       int          `json:"order"`
	Type        string       `json:"type,omitempty"`
	NavLinks    []NavLinkDTO `json:"nav_links"`
}

// ChromeResponse is the current chrome state.
type ChromeResponse struct {
	CurrentAppID         string            `json:"current_app_id,omitempty"`
	Visible              bool              `json:"visible"`
	HeaderVariant        string            `json:"header_variant,omitempty"`
	AppTitle             string            `json:"app_title"`
	DocTitle             string            `json:"doc_title,omitempty"`
	ApplicationClasses   []string          `json:"application_classes"`
	Badge                *BadgeDTO         `json:"badge,omitempty"`
	Breadcrumbs          []BreadcrumbDTO   `json:"breadcrumbs"`
	HelpExtension        *HelpExtensionDTO `json:"help_extension,omitempty"`
	HelpSupportURL       string            `json:"help_support_url"`
	CustomNavLink        *NavLinkDTO       `json:"custom_nav_link,omitempty"`
	NavDrawerLocked      bool              `json:"nav_drawer_locked"`
	NavGroupEnabled      bool              `json:"nav_group_enabled"`
	CurrentNavGroup      *NavGroupDTO      `json:"current_nav_group,omitempty"`
	NavGroups            []NavGroupDTO     `json:"nav_groups"`
	CollapsibleNavHeader string            `json:"collapsible_nav_header,omitempty"`
}

// ToChromeResponse converts a chrome snapshot. Nav groups are listed by
// order, then id.
func ToChromeResponse(s chrome.Snapshot) ChromeResponse {
	resp := ChromeResponse{
		CurrentAppID:         s.CurrentAppID,
		Visible:              s.Visible,
		HeaderVariant:        string(s.HeaderVariant),
		AppTitle:             s.AppTitle,
		DocTitle:             s.DocTitle,
		ApplicationClasses:   s.ApplicationClasses,
		Breadcrumbs:          make([]BreadcrumbDTO, len(s.Breadcrumbs)),
		HelpSupportURL:       s.HelpSupportURL,
		NavDrawerLocked:      s.NavDrawerLocked,
		NavGroupEnabled:      s.NavGroupEnabled,
		CollapsibleNavHeader: s.CollapsibleNavHeader,
	}
	if resp.ApplicationClasses == nil {
		resp.ApplicationClasses = []string{}
	}
	for i, c := range s.Breadcrumbs {
		resp.Breadcrumbs[i] = BreadcrumbDTO{Text: c.Text, Href: c.Href}
	}
	if s.Badge != nil {
		resp.Badge = &BadgeDTO{Text: s.Badge.Text, Tooltip: s.Badge.Tooltip, IconType: s.Badge.IconType}
	}
	if s.HelpExtension != nil {
		ext := &HelpExtensionDTO{AppName: s.HelpExtension.AppName}
		for _, l := range s.HelpExtension.Links {
			ext.Links = append(ext.Links, HelpLinkDTO{LinkType: string(l.LinkType), Href: l.Href, Content: l.Content})
		}
		resp.HelpExtension = ext
	}
	if s.CustomNavLink != nil {
		link := toNavLinkDTO(*s.CustomNavLink)
		resp.CustomNavLink = &link
	}
	if s.CurrentNavGroup != nil {
		g := toNavGroupDTO(*s.CurrentNavGroup)
		resp.CurrentNavGroup = &g
	}

	ids := slices.Sorted(maps.Keys(s.NavGroups))
	slices.SortStableFunc(ids, func(a, b string) int {
		return cmp.Compare(s.NavGroups[a].Order, s.NavGroups[b].Order)
	})
	resp.NavGroups = make([]NavGroupDTO, 0, len(ids))
	for _, id := range ids {
		resp.NavGroups = append(resp.NavGroups, toNavGroupDTO(s.NavGroups[id]))
	}
	return resp
}

func toNavLinkDTO(l chrome.NavLink) NavLinkDTO {
	return NavLinkDTO{
		ID:       l.ID,
		Title:    l.Title,
		URL:      l.URL,
		Category: l.Category,
		Order:    l.Order,
		Hidden:   l.Hidden,
		Disabled: l.Disabled,
	}
}

func toNavGroupDTO(g chrome.NavGroupItem) NavGroupDTO {
	links := make([]NavLinkDTO, len(g.NavLinks))
	for i, l := range g.NavLinks {
		links[i] = toNavLinkDTO(l)
	}
	return NavGroupDTO{
		ID:          g.ID,
		Title:       g.Title,
		Description: g.Description,
		Order:       g.Order,
		Type:        string(g.Type),
		NavLinks:    links,
	}
}

// Stream frame types.
const (
	FrameSnapshot = "snapshot"
	FrameError    = "error"
)

// StreamFrame is one websocket message of the chrome stream.
type StreamFrame struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}
