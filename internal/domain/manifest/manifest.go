// Package manifest defines declarative plugin manifests: triggers, actions
// backed by webhooks, attachments between them and nav group contributions.
package manifest

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jsamuelsen11/uishell/internal/domain"
)

// Manifest is one declarative plugin contribution.
type Manifest struct {
	Name        string         `yaml:"name"`
	Triggers    []TriggerSpec  `yaml:"triggers"`
	Actions     []ActionSpec   `yaml:"actions"`
	Attachments []Attachment   `yaml:"attachments"`
	NavGroups   []NavGroupSpec `yaml:"navGroups"`
	Apps        []AppSpec      `yaml:"apps"`
}

// TriggerSpec declares a trigger.
type TriggerSpec struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// ActionSpec declares an action executed by posting to a webhook.
type ActionSpec struct {
	ID          string `yaml:"id"`
	Type        string `yaml:"type"`
	Order       int    `yaml:"order"`
	DisplayName string `yaml:"displayName"`
	IconType    string `yaml:"iconType"`
	Tooltip     string `yaml:"tooltip"`
	Href        string `yaml:"href"`
	// IsCompatible is a boolean expression over the variable "context".
	// Empty means compatible with every context.
	IsCompatible string      `yaml:"isCompatible"`
	AutoExecute  bool        `yaml:"autoExecute"`
	Webhook      WebhookSpec `yaml:"webhook"`
}

// WebhookSpec is the endpoint an action posts its executions to.
type WebhookSpec struct {
	URL string `yaml:"url"`
}

// Attachment attaches an action to a trigger.
type Attachment struct {
	Trigger string `yaml:"trigger"`
	Action  string `yaml:"action"`
}

// NavGroupSpec contributes links to a navigation group.
type NavGroupSpec struct {
	ID          string        `yaml:"id"`
	Title       string        `yaml:"title"`
	Description string        `yaml:"description"`
	Order       int           `yaml:"order"`
	Type        string        `yaml:"type"`
	Links       []NavLinkSpec `yaml:"links"`
}

// NavLinkSpec is a link inside a NavGroupSpec.
type NavLinkSpec struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	URL      string `yaml:"url"`
	Category string `yaml:"category"`
	Order    int    `yaml:"order"`
}

// AppSpec declares an application mounted inside the chrome.
type AppSpec struct {
	ID            string `yaml:"id"`
	Title         string `yaml:"title"`
	Chromeless    bool   `yaml:"chromeless"`
	HeaderVariant string `yaml:"headerVariant"`
}

// Validate checks the manifest is internally consistent. Attachments may
// reference triggers and actions registered elsewhere.
func (m *Manifest) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(m.Name) == "" {
		fields["name"] = "must not be empty"
	}

	seen := make(map[string]bool)
	for i, t := range m.Triggers {
		key := fmt.Sprintf("triggers[%d].id", i)
		switch {
		case strings.TrimSpace(t.ID) == "":
			fields[key] = "must not be empty"
		case seen["t:"+t.ID]:
			fields[key] = "duplicate trigger " + t.ID
		}
		seen["t:"+t.ID] = true
	}

	for i := range m.Actions {
		a := &m.Actions[i]
		prefix := fmt.Sprintf("actions[%d]", i)
		if seen["a:"+a.ID] && a.ID != "" {
			fields[prefix+".id"] = "duplicate action " + a.ID
		}
		seen["a:"+a.ID] = true
		var verr *domain.ValidationError
		if err := a.Validate(); errors.As(err, &verr) {
			for f, msg := range verr.Fields {
				fields[prefix+"."+f] = msg
			}
		}
	}

	for i, at := range m.Attachments {
		if strings.TrimSpace(at.Trigger) == "" {
			fields[fmt.Sprintf("attachments[%d].trigger", i)] = "must not be empty"
		}
		if strings.TrimSpace(at.Action) == "" {
			fields[fmt.Sprintf("attachments[%d].action", i)] = "must not be empty"
		}
	}

	for i, g := range m.NavGroups {
		if strings.TrimSpace(g.ID) == "" {
			fields[fmt.Sprintf("navGroups[%d].id", i)] = "must not be empty"
		}
	}

	for i, app := range m.Apps {
		if strings.TrimSpace(app.ID) == "" {
			fields[fmt.Sprintf("apps[%d].id", i)] = "must not be empty"
		}
		switch app.HeaderVariant {
		case "", "page", "application":
		default:
			fields[fmt.Sprintf("apps[%d].headerVariant", i)] = "must be page or application"
		}
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// Validate checks the action has an id and an absolute http(s) webhook URL.
func (a *ActionSpec) Validate() error {
	fields := make(map[string]string)
	if strings.TrimSpace(a.ID) == "" {
		fields["id"] = "must not be empty"
	}
	u, err := url.Parse(a.Webhook.URL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		fields["webhook.url"] = "must be an absolute http or https URL"
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
