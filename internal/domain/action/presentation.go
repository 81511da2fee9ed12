package action

import (
	"context"
	"fmt"
)

// Presentation is the resolved display metadata of an action for a given
// context, as rendered in context menus and toolbars.
type Presentation struct {
	ID                 string
	Type               Type
	Order              int
	DisplayName        string
	DisplayNameTooltip string
	IconType           string
	Tooltip            string
	Disabled           bool
	Href               string
}

// Present resolves every display capability of a against actx.
func Present(ctx context.Context, a *Action, actx Context) (Presentation, error) {
	href, err := a.Href(ctx, actx)
	if err != nil {
		return Presentation{}, fmt.Errorf("resolving href for action %q: %w", a.ID, err)
	}
	return Presentation{
		ID:                 a.ID,
		Type:               a.Type,
		Order:              a.Order,
		DisplayName:        a.DisplayName(actx),
		DisplayNameTooltip: a.DisplayNameTooltip(actx),
		IconType:           a.IconType(actx),
		Tooltip:            a.Tooltip(actx),
		Disabled:           a.IsDisabled(actx),
		Href:               href,
	}, nil
}
