// Package plugins hosts the plugins that contribute triggers, actions,
// navigation and applications to the shell.
//
// Plugins move through the same one-directional lifecycle as the chrome
// service. The Host runs every plugin's Setup in registration order, then
// every Start in registration order, and Stops them in reverse.
package plugins

import (
	"context"
	"log/slog"

	"github.com/jsamuelsen11/uishell/internal/app/application"
	chromesvc "github.com/jsamuelsen11/uishell/internal/app/chrome"
	"github.com/jsamuelsen11/uishell/internal/app/uiactions"
)

// Plugin is a unit of contribution to the shell.
type Plugin interface {
	// Name identifies the plugin. Names are unique within a Host.
	Name() string

	// Setup registers the plugin's triggers, actions and navigation.
	Setup(ctx context.Context, sc *SetupContext) error

	// Start runs once every plugin is set up and the chrome is live.
	Start(ctx context.Context, sc *StartContext) error

	// Stop releases whatever Start acquired.
	Stop(ctx context.Context) error
}

// SetupContext is handed to each plugin's Setup.
type SetupContext struct {
	UIActions *uiactions.Service
	Chrome    *chromesvc.SetupContract
	Logger    *slog.Logger
}

// Sandbox returns a fork of the ui actions registry. Changes to the fork
// never reach the shared registry, so a plugin can try registrations
// before committing them.
func (sc *SetupContext) Sandbox() *uiactions.Service {
	return sc.UIActions.Fork()
}

// StartContext is handed to each plugin's Start.
type StartContext struct {
	UIActions    *uiactions.Service
	Chrome       *chromesvc.Contract
	Applications *application.Service
	Logger       *slog.Logger
}
