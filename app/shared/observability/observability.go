// Package observability builds the logger, tracer and metrics registry the
// service runs with.
package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/Black-And-White-Club/dart-league/app/shared/observability/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Config holds observability settings.
type Config struct {
	ServiceName  string
	Environment  string
	Version      string
	LogLevel     string
	OTLPEndpoint string
}

// Observability bundles the telemetry providers shared by every module.
type Observability struct {
	Logger         *slog.Logger
	TracerProvider *sdktrace.TracerProvider
	Registry       *prometheus.Registry
	Metrics        metrics.OperationMetrics
}

// Init builds the providers described by cfg. Spans are exported over OTLP
// only when an endpoint is configured.
func Init(ctx context.Context, cfg Config) (*Observability, error) {
	logger := NewLogger(os.Stderr, cfg)

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", cfg.ServiceName),
			attribute.String("service.version", cfg.Version),
			attribute.String("deployment.environment", cfg.Environment),
		)),
	}
	if cfg.OTLPEndpoint != "" {
		exporter, err := otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}
	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	reg := prometheus.NewRegistry()
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("failed to register go collector: %w", err)
	}
	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("failed to register process collector: %w", err)
	}
	m, err := metrics.NewPrometheusMetrics(reg, metricsNamespace(cfg.ServiceName))
	if err != nil {
		return nil, fmt.Errorf("failed to register operation metrics: %w", err)
	}

	logger.InfoContext(ctx, "Observability initialized",
		slog.String("service", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
		slog.Bool("trace_export", cfg.OTLPEndpoint != ""),
	)

	return &Observability{
		Logger:         logger,
		TracerProvider: tp,
		Registry:       reg,
		Metrics:        m,
	}, nil
}

// Tracer returns a named tracer from the provider.
func (o *Observability) Tracer(name string) trace.Tracer {
	return o.TracerProvider.Tracer(name)
}

// MetricsHandler serves the registry in the Prometheus exposition format.
func (o *Observability) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(o.Registry, promhttp.HandlerOpts{Registry: o.Registry})
}

// Shutdown flushes pending spans.
func (o *Observability) Shutdown(ctx context.Context) error {
	if o.TracerProvider == nil {
		return nil
	}
	if err := o.TracerProvider.Shutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to shut down tracer provider: %w", err)
	}
	return nil
}

// NewLogger writes JSON in production and text everywhere else.
func NewLogger(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.LogLevel)}
	var handler slog.Handler
	if strings.EqualFold(cfg.Environment, "production") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler).With(slog.String("service", cfg.ServiceName))
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func metricsNamespace(service string) string {
	return strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(strings.ToLower(service))
}
