// Package main is the entry point for the shell service. It wires all
// dependencies using samber/do v2, drives the plugin and chrome lifecycles,
// starts the HTTP server, and handles graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"

	adapthttp "github.com/jsamuelsen11/uishell/internal/adapters/http"
	"github.com/jsamuelsen11/uishell/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/uishell/internal/adapters/http/middleware"

	"github.com/jsamuelsen11/uishell/internal/adapters/clients/webhook"
	"github.com/jsamuelsen11/uishell/internal/adapters/manifests"
	"github.com/jsamuelsen11/uishell/internal/adapters/predicate"
	"github.com/jsamuelsen11/uishell/internal/adapters/preferences"
	"github.com/jsamuelsen11/uishell/internal/app/application"
	chromesvc "github.com/jsamuelsen11/uishell/internal/app/chrome"
	"github.com/jsamuelsen11/uishell/internal/app/declarative"
	"github.com/jsamuelsen11/uishell/internal/app/plugins"
	"github.com/jsamuelsen11/uishell/internal/app/uiactions"
	"github.com/jsamuelsen11/uishell/internal/platform/config"
	"github.com/jsamuelsen11/uishell/internal/platform/health"
	"github.com/jsamuelsen11/uishell/internal/platform/httpclient"
	"github.com/jsamuelsen11/uishell/internal/platform/logging"
	"github.com/jsamuelsen11/uishell/internal/platform/telemetry"
	"github.com/jsamuelsen11/uishell/internal/ports"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	serverShutdownTimeout = 15 * time.Second
	otelShutdownTimeout   = 5 * time.Second
	bootTimeout           = 30 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	profile := os.Getenv(config.EnvPrefix + "PROFILE")
	if profile == "" {
		return errors.New(config.EnvPrefix + "PROFILE environment variable is required (e.g. local, dev, prod)")
	}

	// Bootstrap: config, logger, telemetry.
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx := context.Background()
	otel, err := initTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	// DI container.
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otel.metrics)

	registerDependencies(injector, cfg, logger)

	// The chrome streams live until runCtx is cancelled during shutdown.
	runCtx, stopChrome := context.WithCancel(ctx)
	defer stopChrome()

	contract, err := bootShell(runCtx, injector, cfg, logger)
	if err != nil {
		report := injector.Shutdown()
		logger.Debug("container shut down after failed boot", slog.Any("report", report))
		return fmt.Errorf("booting shell: %w", err)
	}
	do.ProvideValue(injector, contract)

	// Resolve the server (eagerly wires the full graph).
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}

	// Register health checkers after the graph is wired.
	registry := do.MustInvoke[ports.HealthRegistry](injector)
	registry.Register(do.MustInvoke[*chromesvc.Service](injector))
	registry.Register(do.MustInvoke[*plugins.Host](injector))
	registry.Register(do.MustInvoke[*webhook.Executor](injector))
	if checker, ok := do.MustInvoke[ports.PreferenceStore](injector).(ports.HealthChecker); ok {
		registry.Register(checker)
	}

	// Start server in background.
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// Wait for shutdown signal or server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	// Complete the chrome streams first so websocket clients receive a close
	// frame, then drain HTTP requests.
	stopChrome()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}

	// Wait for Start() goroutine to return.
	<-serverErr

	// Stop plugins and services, close the preference store.
	report := injector.Shutdown()
	logger.Debug("container shut down", slog.Any("report", report))

	// Flush telemetry.
	otelCtx, otelCancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
	defer otelCancel()

	if err := otel.Shutdown(otelCtx); err != nil {
		logger.Error("telemetry shutdown error", slog.Any("error", err))
	}

	logger.Info("shutdown complete")
	return nil
}

// bootShell registers the plugins and moves them and the chrome through
// setup and start. ctx is the chrome's stop token.
func bootShell(ctx context.Context, injector do.Injector, cfg *config.Config, logger *slog.Logger) (*chromesvc.Contract, error) {
	actions := do.MustInvoke[*uiactions.Service](injector)
	apps := do.MustInvoke[*application.Service](injector)
	chrome := do.MustInvoke[*chromesvc.Service](injector)
	host := do.MustInvoke[*plugins.Host](injector)

	if cfg.Plugins.ManifestDir != "" {
		source := manifests.NewLoader(os.DirFS(cfg.Plugins.ManifestDir), logger)
		builder := do.MustInvoke[*declarative.Builder](injector)
		if err := host.Register(plugins.NewManifestPlugin(source, builder)); err != nil {
			return nil, fmt.Errorf("registering manifest plugin: %w", err)
		}
	}

	bootCtx, cancel := context.WithTimeout(ctx, bootTimeout)
	defer cancel()

	setup, err := chrome.Setup()
	if err != nil {
		return nil, fmt.Errorf("chrome setup: %w", err)
	}
	err = host.Setup(bootCtx, plugins.SetupContext{UIActions: actions, Chrome: setup, Logger: logger})
	if err != nil {
		return nil, err
	}

	contract, err := chrome.Start(ctx, chromesvc.StartDeps{
		Applications: apps,
		Preferences:  do.MustInvoke[ports.PreferenceStore](injector),
	})
	if err != nil {
		return nil, fmt.Errorf("chrome start: %w", err)
	}

	err = host.Start(bootCtx, plugins.StartContext{
		UIActions:    actions,
		Chrome:       contract,
		Applications: apps,
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("shell started",
		slog.Any("plugins", host.Names()),
		slog.Int("triggers", len(actions.Triggers())),
		slog.Int("actions", len(actions.Actions())),
		slog.Int("apps", len(apps.Apps())),
	)
	return contract, nil
}

// otelProviders bundles OpenTelemetry provider lifecycle. The providers are
// nil and metrics are no-ops when telemetry is disabled.
type otelProviders struct {
	tracer  *sdktrace.TracerProvider
	meter   *sdkmetric.MeterProvider
	metrics *telemetry.Metrics
}

// Shutdown flushes both providers. Nil-safe.
func (o *otelProviders) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracer != nil {
		if err := o.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if o.meter != nil {
		if err := o.meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

func initTelemetry(ctx context.Context, cfg *config.Config) (*otelProviders, error) {
	if !cfg.Telemetry.Enabled {
		return &otelProviders{metrics: telemetry.NewNoopMetrics()}, nil
	}

	tp, err := telemetry.InitTracer(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	mp, err := telemetry.InitMeter(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("init meter: %w", err)
	}

	metrics, err := telemetry.NewMetrics(mp, cfg.Telemetry.ServiceName)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, fmt.Errorf("creating metrics: %w", err)
	}

	return &otelProviders{
		tracer:  tp,
		meter:   mp,
		metrics: metrics,
	}, nil
}

func registerDependencies(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	// Outbound webhook delivery.
	do.Provide(injector, func(i do.Injector) (*httpclient.Client, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return httpclient.New(&cfg.Client, webhook.ServiceName, metrics, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (*webhook.Executor, error) {
		client := do.MustInvoke[*httpclient.Client](i)
		return webhook.NewExecutor(client, logger), nil
	})

	// Declarative actions.
	do.Provide(injector, func(_ do.Injector) (*predicate.CELCompiler, error) {
		return predicate.NewCELCompiler(cfg.UIActions.PredicateCostLimit)
	})

	do.Provide(injector, func(i do.Injector) (*declarative.Builder, error) {
		compiler := do.MustInvoke[*predicate.CELCompiler](i)
		executor := do.MustInvoke[*webhook.Executor](i)
		return declarative.NewBuilder(compiler, executor), nil
	})

	// Registries and lifecycle services.
	do.Provide(injector, func(i do.Injector) (*uiactions.Service, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return uiactions.New(logger,
			uiactions.WithMetrics(metrics),
			uiactions.WithMaxConcurrentChecks(cfg.UIActions.MaxConcurrentChecks),
		), nil
	})

	do.Provide(injector, func(_ do.Injector) (*application.Service, error) {
		return application.New(logger), nil
	})

	do.Provide(injector, func(_ do.Injector) (*chromesvc.Service, error) {
		return chromesvc.New(logger, chromesvc.Options{
			Embed:           cfg.Chrome.Embed,
			NavGroupEnabled: cfg.Chrome.NavGroupEnabled,
			HelpSupportURL:  cfg.Chrome.HelpSupportURL,
			DocTitle:        cfg.Chrome.DocTitle,
		}), nil
	})

	do.Provide(injector, func(_ do.Injector) (*plugins.Host, error) {
		return plugins.NewHost(logger), nil
	})

	do.Provide(injector, func(_ do.Injector) (ports.PreferenceStore, error) {
		switch cfg.Preferences.Backend {
		case config.PreferencesRedis:
			client := preferences.NewRedisClient(cfg.Preferences.Redis)
			return preferences.NewRedisStore(client, cfg.Preferences.Redis.KeyPrefix), nil
		default:
			return preferences.NewMemoryStore(), nil
		}
	})

	do.Provide(injector, func(_ do.Injector) (ports.HealthRegistry, error) {
		return health.New(), nil
	})

	// HTTP adapter.
	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		registry := do.MustInvoke[ports.HealthRegistry](i)
		return handlers.NewHealthHandler(registry), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.TriggerHandler, error) {
		return handlers.NewTriggerHandler(do.MustInvoke[*uiactions.Service](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.ActionHandler, error) {
		svc := do.MustInvoke[*uiactions.Service](i)
		builder := do.MustInvoke[*declarative.Builder](i)
		return handlers.NewActionHandler(svc, builder), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.ChromeHandler, error) {
		contract := do.MustInvoke[*chromesvc.Contract](i)
		apps := do.MustInvoke[*application.Service](i)
		return handlers.NewChromeHandler(contract, apps), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.StreamHandler, error) {
		contract := do.MustInvoke[*chromesvc.Contract](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return handlers.NewStreamHandler(contract, metrics, cfg.Chrome.StreamMaxClients), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		h := adapthttp.Handlers{
			Health:   do.MustInvoke[*handlers.HealthHandler](i),
			Triggers: do.MustInvoke[*handlers.TriggerHandler](i),
			Actions:  do.MustInvoke[*handlers.ActionHandler](i),
			Chrome:   do.MustInvoke[*handlers.ChromeHandler](i),
			Stream:   do.MustInvoke[*handlers.StreamHandler](i),
		}

		return adapthttp.NewRouter(h, cfg.Server.WriteTimeout, middleware.Standard(logger, metrics)...), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler := do.MustInvoke[nethttp.Handler](i)
		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})
}
