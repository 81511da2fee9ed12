package dto

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/jsamuelsen11/uishell/internal/domain"
	"github.com/jsamuelsen11/uishell/internal/domain/action"
	"github.com/jsamuelsen11/uishell/internal/domain/chrome"
	"github.com/jsamuelsen11/uishell/internal/domain/manifest"
	"github.com/jsamuelsen11/uishell/internal/domain/trigger"
)

const (
	msgRequired     = "is required"
	msgMustNotEmpty = "must not be empty"
)

func validationOrNil(fields map[string]string) error {
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// --- UI actions ---

// RegisterTriggerRequest represents the JSON body for registering a trigger.
type RegisterTriggerRequest struct {
	ID          string `json:"id"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Validate checks that the trigger id is present.
func (r *RegisterTriggerRequest) Validate() error {
	fields := make(map[string]string)
	if strings.TrimSpace(r.ID) == "" {
		fields["id"] = msgRequired
	}
	return validationOrNil(fields)
}

// ToTrigger converts the request to a domain trigger.
func (r *RegisterTriggerRequest) ToTrigger() trigger.Trigger {
	return trigger.Trigger{ID: r.ID, Title: r.Title, Description: r.Description}
}

// RegisterActionRequest represents the JSON body for registering a
// webhook-backed action. It carries the same fields as a manifest action.
type RegisterActionRequest struct {
	ID           string `json:"id"`
	Type         string `json:"type,omitempty"`
	Order        int    `json:"order,omitempty"`
	DisplayName  string `json:"display_name,omitempty"`
	IconType     string `json:"icon_type,omitempty"`
	Tooltip      string `json:"tooltip,omitempty"`
	Href         string `json:"href,omitempty"`
	IsCompatible string `json:"is_compatible,omitempty"`
	AutoExecute  bool   `json:"auto_execute,omitempty"`
	WebhookURL   string `json:"webhook_url"`
}

// Validate checks the id and webhook URL.
func (r *RegisterActionRequest) Validate() error {
	fields := make(map[string]string)
	if strings.TrimSpace(r.ID) == "" {
		fields["id"] = msgRequired
	}
	if strings.TrimSpace(r.WebhookURL) == "" {
		fields["webhook_url"] = msgRequired
	} else if u, err := url.Parse(r.WebhookURL); err != nil || u.Host == "" {
		fields["webhook_url"] = "must be an absolute URL"
	}
	return validationOrNil(fields)
}

// ToSpec converts the request to a manifest action spec.
func (r *RegisterActionRequest) ToSpec() manifest.ActionSpec {
	return manifest.ActionSpec{
		ID:           r.ID,
		Type:         r.Type,
		Order:        r.Order,
		DisplayName:  r.DisplayName,
		IconType:     r.IconType,
		Tooltip:      r.Tooltip,
		Href:         r.Href,
		IsCompatible: r.IsCompatible,
		AutoExecute:  r.AutoExecute,
		Webhook:      manifest.WebhookSpec{URL: r.WebhookURL},
	}
}

// AttachActionRequest represents the JSON body for attaching a registered
// action to a trigger.
type AttachActionRequest struct {
	ActionID string `json:"action_id"`
}

// Validate checks that the action id is present.
func (r *AttachActionRequest) Validate() error {
	fields := make(map[string]string)
	if strings.TrimSpace(r.ActionID) == "" {
		fields["action_id"] = msgRequired
	}
	return validationOrNil(fields)
}

// ContextRequest carries the action context for resolution and execution.
// A missing context is treated as empty.
type ContextRequest struct {
	Context map[string]any `json:"context"`
}

// Validate accepts every context.
func (r *ContextRequest) Validate() error { return nil }

// ActionContext returns the request context as an action.Context.
func (r *ContextRequest) ActionContext() action.Context {
	if r.Context == nil {
		return action.Context{}
	}
	return action.Context(r.Context)
}

// --- Chrome ---

// VisibilityRequest represents the body of PUT /api/v1/chrome/visibility.
type VisibilityRequest struct {
	Visible *bool `json:"visible"`
}

// Validate checks that visible is present.
func (r *VisibilityRequest) Validate() error {
	fields := make(map[string]string)
	if r.Visible == nil {
		fields["visible"] = msgRequired
	}
	return validationOrNil(fields)
}

// HeaderVariantRequest represents the body of PUT /api/v1/chrome/header-variant.
// An empty variant clears it.
type HeaderVariantRequest struct {
	Variant string `json:"variant"`
}

// Validate checks the variant is known.
func (r *HeaderVariantRequest) Validate() error {
	fields := make(map[string]string)
	if !chrome.HeaderVariant(r.Variant).Valid() {
		fields["variant"] = fmt.Sprintf("invalid: %q", r.Variant)
	}
	return validationOrNil(fields)
}

// AppTitleRequest represents the body of PUT /api/v1/chrome/app-title.
type AppTitleRequest struct {
	Title string `json:"title"`
}

// Validate checks the title is not blank.
func (r *AppTitleRequest) Validate() error {
	fields := make(map[string]string)
	if strings.TrimSpace(r.Title) == "" {
		fields["title"] = msgMustNotEmpty
	}
	return validationOrNil(fields)
}

// BreadcrumbDTO is a breadcrumb in requests and responses.
type BreadcrumbDTO struct {
	Text string `json:"text"`
	Href string `json:"href,omitempty"`
}

// BreadcrumbsRequest represents the body of PUT /api/v1/chrome/breadcrumbs.
type BreadcrumbsRequest struct {
	Breadcrumbs []BreadcrumbDTO `json:"breadcrumbs"`
}

// Validate checks every breadcrumb has text.
func (r *BreadcrumbsRequest) Validate() error {
	fields := make(map[string]string)
	for i, c := range r.Breadcrumbs {
		if strings.TrimSpace(c.Text) == "" {
			fields["breadcrumbs["+strconv.Itoa(i)+"].text"] = msgMustNotEmpty
		}
	}
	return validationOrNil(fields)
}

// ToBreadcrumbs converts the request to domain breadcrumbs.
func (r *BreadcrumbsRequest) ToBreadcrumbs() []chrome.Breadcrumb {
	out := make([]chrome.Breadcrumb, len(r.Breadcrumbs))
	for i, c := range r.Breadcrumbs {
		out[i] = chrome.Breadcrumb{Text: c.Text, Href: c.Href}
	}
	return out
}

// BadgeDTO is the header badge in requests and responses.
type BadgeDTO struct {
	Text     string `json:"text"`
	Tooltip  string `json:"tooltip,omitempty"`
	IconType string `json:"icon_type,omitempty"`
}

// BadgeRequest represents the body of PUT /api/v1/chrome/badge. A null badge
// clears it.
type BadgeRequest struct {
	Badge *BadgeDTO `json:"badge"`
}

// Validate checks a provided badge has text.
func (r *BadgeRequest) Validate() error {
	fields := make(map[string]string)
	if r.Badge != nil && strings.TrimSpace(r.Badge.Text) == "" {
		fields["badge.text"] = msgMustNotEmpty
	}
	return validationOrNil(fields)
}

// ToBadge converts the request to a domain badge, nil when clearing.
func (r *BadgeRequest) ToBadge() *chrome.Badge {
	if r.Badge == nil {
		return nil
	}
	return &chrome.Badge{Text: r.Badge.Text, Tooltip: r.Badge.Tooltip, IconType: r.Badge.IconType}
}

// NavDrawerLockRequest represents the body of PUT /api/v1/chrome/nav-drawer-lock.
type NavDrawerLockRequest struct {
	Locked *bool `json:"locked"`
}

// Validate checks that locked is present.
func (r *NavDrawerLockRequest) Validate() error {
	fields := make(map[string]string)
	if r.Locked == nil {
		fields["locked"] = msgRequired
	}
	return validationOrNil(fields)
}

// CurrentAppRequest represents the body of PUT /api/v1/chrome/current-app.
type CurrentAppRequest struct {
	AppID string `json:"app_id"`
}

// Validate checks that the app id is present.
func (r *CurrentAppRequest) Validate() error {
	fields := make(map[string]string)
	if strings.TrimSpace(r.AppID) == "" {
		fields["app_id"] = msgRequired
	}
	return validationOrNil(fields)
}

// CurrentNavGroupRequest represents the body of PUT
// /api/v1/chrome/current-nav-group. An empty group id clears the selection.
type CurrentNavGroupRequest struct {
	GroupID string `json:"group_id"`
}

// Validate accepts every group id; unknown ids are rejected by the chrome.
func (r *CurrentNavGroupRequest) Validate() error { return nil }

// HelpSupportURLRequest represents the body of PUT
// /api/v1/chrome/help-support-url.
type HelpSupportURLRequest struct {
	URL string `json:"url"`
}

// Validate checks the URL is absolute.
func (r *HelpSupportURLRequest) Validate() error {
	fields := make(map[string]string)
	if u, err := url.Parse(r.URL); err != nil || !u.IsAbs() {
		fields["url"] = "must be an absolute URL"
	}
	return validationOrNil(fields)
}
