package telemetry_test

import (
	"context"
	"slices"
	"testing"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/jsamuelsen11/uishell/internal/platform/telemetry"
)

func TestInitProviders_Exporters(t *testing.T) {
	tests := []struct {
		name     string
		exporter string
		endpoint string
		wantErr  bool
	}{
		{name: "stdout", exporter: telemetry.ExporterStdout},
		{name: "otlp over http", exporter: telemetry.ExporterOTLP, endpoint: "http://localhost:4318"},
		{name: "otlp bare host", exporter: telemetry.ExporterOTLP, endpoint: "localhost:4318"},
		{name: "otlp without endpoint", exporter: telemetry.ExporterOTLP, wantErr: true},
		{name: "unknown exporter", exporter: "zipkin", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()

			tp, err := telemetry.InitTracer(ctx, "uishell-test", tt.exporter, tt.endpoint)
			if (err != nil) != tt.wantErr {
				t.Fatalf("InitTracer() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tp != nil {
				// No collector runs in unit tests, so the flush may fail.
				t.Cleanup(func() { _ = tp.Shutdown(ctx) })
			}

			mp, err := telemetry.InitMeter(ctx, "uishell-test", tt.exporter, tt.endpoint)
			if (err != nil) != tt.wantErr {
				t.Fatalf("InitMeter() error = %v, wantErr %v", err, tt.wantErr)
			}
			if mp != nil {
				t.Cleanup(func() { _ = mp.Shutdown(ctx) })
			}
		})
	}
}

func TestInitTracer_InstallsTraceContextPropagation(t *testing.T) {
	ctx := context.Background()

	tp, err := telemetry.InitTracer(ctx, "uishell-test", telemetry.ExporterStdout, "")
	if err != nil {
		t.Fatalf("InitTracer() error = %v", err)
	}
	t.Cleanup(func() { _ = tp.Shutdown(ctx) })

	fields := otel.GetTextMapPropagator().Fields()
	for _, want := range []string{"traceparent", "baggage"} {
		if !slices.Contains(fields, want) {
			t.Errorf("propagator fields = %v, missing %q", fields, want)
		}
	}
}

func TestNewMetrics_InstrumentsExport(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	metrics, err := telemetry.NewMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)), "uishell-test")
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	metrics.ServerRequestDuration.Record(ctx, 0.01)
	metrics.ServerRequestTotal.Add(ctx, 1)
	metrics.ClientRequestDuration.Record(ctx, 0.2)
	metrics.ClientRequestTotal.Add(ctx, 1)
	metrics.CompatibilityDuration.Record(ctx, 0.003)
	metrics.ActionExecutionTotal.Add(ctx, 1)
	metrics.StreamClients.Add(ctx, 1)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	var names []string
	for _, sm := range rm.ScopeMetrics {
		if sm.Scope.Name != "uishell-test" {
			t.Errorf("scope = %q, want uishell-test", sm.Scope.Name)
		}
		for _, m := range sm.Metrics {
			names = append(names, m.Name)
		}
	}
	slices.Sort(names)

	want := []string{
		"chrome.stream.clients",
		"http.client.request.duration",
		"http.client.request.total",
		"http.server.request.duration",
		"http.server.request.total",
		"uiactions.compatibility.duration",
		"uiactions.execution.total",
	}
	if !slices.Equal(names, want) {
		t.Errorf("exported metrics = %v, want %v", names, want)
	}
}

func TestNewNoopMetrics(t *testing.T) {
	t.Parallel()

	metrics := telemetry.NewNoopMetrics()

	// Recording on noop instruments must not panic.
	metrics.ActionExecutionTotal.Add(context.Background(), 1)
	metrics.CompatibilityDuration.Record(context.Background(), 0.5)
	metrics.StreamClients.Add(context.Background(), -1)
}
