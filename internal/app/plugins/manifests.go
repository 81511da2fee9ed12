package plugins

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen11/uishell/internal/app/declarative"
	"github.com/jsamuelsen11/uishell/internal/app/staging"
	"github.com/jsamuelsen11/uishell/internal/app/uiactions"
	"github.com/jsamuelsen11/uishell/internal/domain/action"
	"github.com/jsamuelsen11/uishell/internal/domain/chrome"
	"github.com/jsamuelsen11/uishell/internal/domain/manifest"
	"github.com/jsamuelsen11/uishell/internal/domain/trigger"
	"github.com/jsamuelsen11/uishell/internal/platform/logging"
	"github.com/jsamuelsen11/uishell/internal/ports"
)

// ManifestPluginName is the name the manifest plugin registers under.
const ManifestPluginName = "manifests"

// ManifestPlugin applies declarative manifests. During Setup each manifest
// is rehearsed against a sandbox fork of the registry and then committed to
// the shared registry as one batch, so a manifest registers completely or
// not at all. Its applications are registered during Start.
type ManifestPlugin struct {
	source  ports.ManifestSource
	builder *declarative.Builder

	manifests []manifest.Manifest
}

// NewManifestPlugin creates a manifest plugin reading from source.
func NewManifestPlugin(source ports.ManifestSource, builder *declarative.Builder) *ManifestPlugin {
	return &ManifestPlugin{source: source, builder: builder}
}

// Name implements Plugin.
func (p *ManifestPlugin) Name() string { return ManifestPluginName }

// Setup loads and applies every manifest.
func (p *ManifestPlugin) Setup(ctx context.Context, sc *SetupContext) error {
	manifests, err := p.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading manifests: %w", err)
	}

	ctx = logging.WithLogger(ctx, sc.Logger)
	for i := range manifests {
		m := &manifests[i]
		if err := p.apply(ctx, sc, m); err != nil {
			return fmt.Errorf("manifest %q: %w", m.Name, err)
		}
		sc.Logger.InfoContext(ctx, "manifest applied",
			slog.String("manifest", m.Name),
			slog.Int("triggers", len(m.Triggers)),
			slog.Int("actions", len(m.Actions)),
			slog.Int("attachments", len(m.Attachments)),
		)
	}
	p.manifests = manifests
	return nil
}

func (p *ManifestPlugin) apply(ctx context.Context, sc *SetupContext, m *manifest.Manifest) error {
	if err := m.Validate(); err != nil {
		return err
	}

	defs := make([]action.Definition, 0, len(m.Actions))
	for _, spec := range m.Actions {
		def, err := p.builder.Definition(spec)
		if err != nil {
			return err
		}
		defs = append(defs, def)
	}

	if err := registrations(sc.Sandbox(), m, defs).Commit(ctx); err != nil {
		return fmt.Errorf("rehearsal: %w", err)
	}
	if err := registrations(sc.UIActions, m, defs).Commit(ctx); err != nil {
		return err
	}

	for _, g := range m.NavGroups {
		group := chrome.NavGroup{
			ID:          g.ID,
			Title:       g.Title,
			Description: g.Description,
			Order:       g.Order,
			Type:        chrome.NavGroupType(g.Type),
		}
		links := make([]chrome.NavLink, 0, len(g.Links))
		for _, l := range g.Links {
			links = append(links, chrome.NavLink{
				ID:       l.ID,
				Title:    l.Title,
				URL:      l.URL,
				Category: l.Category,
				Order:    l.Order,
			})
		}
		if err := sc.Chrome.AddNavLinksToGroup(group, links); err != nil {
			return fmt.Errorf("nav group %q: %w", g.ID, err)
		}
	}
	return nil
}

// registrations queues the manifest's triggers, actions and attachments
// against reg.
func registrations(reg *uiactions.Service, m *manifest.Manifest, defs []action.Definition) *staging.Batch {
	b := staging.New()

	for _, t := range m.Triggers {
		_ = b.Add(staging.StepFunc{
			Desc: "register trigger " + t.ID,
			Do: func(context.Context) error {
				return reg.RegisterTrigger(trigger.Trigger{ID: t.ID, Title: t.Title, Description: t.Description})
			},
			Undo: func(context.Context) error { return reg.UnregisterTrigger(t.ID) },
		})
	}

	for _, def := range defs {
		_ = b.Add(staging.StepFunc{
			Desc: "register action " + def.ID,
			Do: func(context.Context) error {
				_, err := reg.RegisterAction(def)
				return err
			},
			Undo: func(context.Context) error { return reg.UnregisterAction(def.ID) },
		})
	}

	for _, at := range m.Attachments {
		// Only an attachment this step added is detached on revert.
		var attached bool
		_ = b.Add(staging.StepFunc{
			Desc: fmt.Sprintf("attach action %s to trigger %s", at.Action, at.Trigger),
			Do: func(context.Context) error {
				var err error
				attached, err = reg.TryAttachAction(at.Trigger, at.Action)
				return err
			},
			Undo: func(context.Context) error {
				if !attached {
					return nil
				}
				return reg.DetachAction(at.Trigger, at.Action)
			},
		})
	}

	return b
}

// Start registers the manifests' applications.
func (p *ManifestPlugin) Start(ctx context.Context, sc *StartContext) error {
	for _, m := range p.manifests {
		for _, app := range m.Apps {
			err := sc.Applications.Register(chrome.App{
				ID:            app.ID,
				Title:         app.Title,
				Chromeless:    app.Chromeless,
				HeaderVariant: chrome.HeaderVariant(app.HeaderVariant),
			})
			if err != nil {
				return fmt.Errorf("manifest %q app %q: %w", m.Name, app.ID, err)
			}
			sc.Logger.DebugContext(ctx, "application registered",
				slog.String("manifest", m.Name),
				slog.String("app_id", app.ID),
			)
		}
	}
	return nil
}

// Stop implements Plugin. Manifest contributions live as long as the
// registries.
func (p *ManifestPlugin) Stop(context.Context) error { return nil }

var _ Plugin = (*ManifestPlugin)(nil)
