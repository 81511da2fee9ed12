// Package trigger defines triggers: named extension points that UI code
// fires with a context and to which actions are attached.
package trigger

import (
	"strings"

	"github.com/jsamuelsen11/uishell/internal/domain"
)

// Trigger is a registered extension point. Title and Description are
// optional human-readable metadata.
type Trigger struct {
	ID          string
	Title       string
	Description string
}

// Validate checks that the trigger has an identifier.
func (t *Trigger) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return domain.Invalid("id", "must not be empty")
	}
	return nil
}

// Well-known trigger ids fired by core dashboard surfaces.
const (
	RowClick          = "ROW_CLICK_TRIGGER"
	ValueClick        = "VALUE_CLICK_TRIGGER"
	SelectRange       = "SELECT_RANGE_TRIGGER"
	ApplyFilter       = "FILTER_TRIGGER"
	VisualizeField    = "VISUALIZE_FIELD_TRIGGER"
	VisualizeGeoField = "VISUALIZE_GEO_FIELD_TRIGGER"
)
