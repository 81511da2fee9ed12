// Package telemetry sets up OpenTelemetry tracing and metrics for the shell
// and owns the instruments its components record on. Exporters are stdout
// for development and OTLP/HTTP otherwise:
//
//	tp, err := telemetry.InitTracer(ctx, "uishell", telemetry.ExporterOTLP, "http://otel-collector:4318")
//	mp, err := telemetry.InitMeter(ctx, "uishell", telemetry.ExporterOTLP, "http://otel-collector:4318")
//	metrics, err := telemetry.NewMetrics(mp, "uishell")
//
// Both providers must be shut down on exit.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"runtime/debug"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
)

// Supported exporter names.
const (
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// Attribute keys for metric labels.
var (
	AttrHTTPMethod  = attribute.Key("http.method")
	AttrHTTPStatus  = attribute.Key("http.status_code")
	AttrHTTPRoute   = attribute.Key("http.route")
	AttrPeerService = attribute.Key("peer.service")
	AttrResult      = attribute.Key("result")
	AttrTriggerID   = attribute.Key("uiactions.trigger_id")
	AttrActionID    = attribute.Key("uiactions.action_id")
)

// Metrics holds pre-registered OpenTelemetry metric instruments.
type Metrics struct {
	ServerRequestDuration metric.Float64Histogram
	ServerRequestTotal    metric.Int64Counter
	ClientRequestDuration metric.Float64Histogram
	ClientRequestTotal    metric.Int64Counter

	// CompatibilityDuration records how long resolving the compatible
	// actions of a trigger took.
	CompatibilityDuration metric.Float64Histogram
	// ActionExecutionTotal counts action executions by result.
	ActionExecutionTotal metric.Int64Counter
	// StreamClients tracks connected chrome stream websocket clients.
	StreamClients metric.Int64UpDownCounter
}

// InitTracer creates and registers a global TracerProvider.
//
// The exporter parameter selects the span exporter: ExporterOTLP uses
// OTLP/HTTP with the given endpoint and ExporterStdout uses a pretty-printed
// stdout exporter for development. Other values are rejected.
//
// The returned TracerProvider must be shut down when the application exits.
func InitTracer(ctx context.Context, serviceName, exporter, endpoint string) (*sdktrace.TracerProvider, error) {
	res, err := newResource(serviceName)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	spanExporter, err := newSpanExporter(ctx, exporter, endpoint)
	if err != nil {
		return nil, fmt.Errorf("creating span exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(spanExporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp, nil
}

// InitMeter creates and registers a global MeterProvider.
//
// The exporter parameter selects the metric exporter the same way as
// InitTracer.
//
// The returned MeterProvider must be shut down when the application exits.
func InitMeter(ctx context.Context, serviceName, exporter, endpoint string) (*sdkmetric.MeterProvider, error) {
	res, err := newResource(serviceName)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	metricExporter, err := newMetricExporter(ctx, exporter, endpoint)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	return mp, nil
}

// NewMetrics registers the shell's instruments on mp under scope. HTTP
// instruments follow the OTel semantic convention names.
func NewMetrics(mp metric.MeterProvider, scope string) (*Metrics, error) {
	meter := mp.Meter(scope)
	var errs []error

	m := &Metrics{
		ServerRequestDuration: instrument(&errs, "http.server.request.duration", func(name string) (metric.Float64Histogram, error) {
			return meter.Float64Histogram(name, metric.WithDescription("Duration of shell API requests"), metric.WithUnit("s"))
		}),
		ServerRequestTotal: instrument(&errs, "http.server.request.total", func(name string) (metric.Int64Counter, error) {
			return meter.Int64Counter(name, metric.WithDescription("Shell API requests served"), metric.WithUnit("{request}"))
		}),
		ClientRequestDuration: instrument(&errs, "http.client.request.duration", func(name string) (metric.Float64Histogram, error) {
			return meter.Float64Histogram(name, metric.WithDescription("Duration of webhook deliveries, retries included"), metric.WithUnit("s"))
		}),
		ClientRequestTotal: instrument(&errs, "http.client.request.total", func(name string) (metric.Int64Counter, error) {
			return meter.Int64Counter(name, metric.WithDescription("Webhook deliveries by outcome"), metric.WithUnit("{request}"))
		}),
		CompatibilityDuration: instrument(&errs, "uiactions.compatibility.duration", func(name string) (metric.Float64Histogram, error) {
			return meter.Float64Histogram(name, metric.WithDescription("Duration of compatible action resolution for a trigger"), metric.WithUnit("s"))
		}),
		ActionExecutionTotal: instrument(&errs, "uiactions.execution.total", func(name string) (metric.Int64Counter, error) {
			return meter.Int64Counter(name, metric.WithDescription("Action executions by result"), metric.WithUnit("{execution}"))
		}),
		StreamClients: instrument(&errs, "chrome.stream.clients", func(name string) (metric.Int64UpDownCounter, error) {
			return meter.Int64UpDownCounter(name, metric.WithDescription("Connected chrome state stream clients"), metric.WithUnit("{client}"))
		}),
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return m, nil
}

// instrument creates one named instrument and collects its error.
func instrument[T any](errs *[]error, name string, create func(string) (T, error)) T {
	inst, err := create(name)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("creating %s: %w", name, err))
	}
	return inst
}

// NewNoopMetrics returns instruments that record nothing. Used when
// telemetry is disabled and in tests.
func NewNoopMetrics() *Metrics {
	m, err := NewMetrics(noop.NewMeterProvider(), "noop")
	if err != nil {
		// The noop provider never fails to create instruments.
		panic(err)
	}
	return m
}

// newResource describes the process. The version comes from the main
// module's build info and is "(devel)" for local builds.
func newResource(serviceName string) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{semconv.ServiceName(serviceName)}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		attrs = append(attrs, semconv.ServiceVersion(info.Main.Version))
	}
	return resource.Merge(resource.Default(), resource.NewWithAttributes(semconv.SchemaURL, attrs...))
}

func newSpanExporter(ctx context.Context, exporter, endpoint string) (sdktrace.SpanExporter, error) {
	switch exporter {
	case ExporterOTLP:
		host, insecure, err := collector(endpoint)
		if err != nil {
			return nil, err
		}
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(host)}
		if insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, opts...)
	case ExporterStdout:
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	default:
		return nil, fmt.Errorf("unsupported trace exporter %q", exporter)
	}
}

func newMetricExporter(ctx context.Context, exporter, endpoint string) (sdkmetric.Exporter, error) {
	switch exporter {
	case ExporterOTLP:
		host, insecure, err := collector(endpoint)
		if err != nil {
			return nil, err
		}
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(host)}
		if insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		return otlpmetrichttp.New(ctx, opts...)
	case ExporterStdout:
		return stdoutmetric.New()
	default:
		return nil, fmt.Errorf("unsupported metric exporter %q", exporter)
	}
}

// collector splits an OTLP endpoint such as "http://otel-collector:4318"
// into the host:port the exporters expect and whether to skip TLS. A bare
// host:port is accepted and sent without TLS.
func collector(endpoint string) (host string, insecure bool, err error) {
	if endpoint == "" {
		return "", false, errors.New("otlp exporter requires an endpoint")
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint, true, nil
	}
	return u.Host, u.Scheme != "https", nil
}
