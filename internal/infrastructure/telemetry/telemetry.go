package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc"

	"github.com/mrops-br/catalog-api/internal/infrastructure/config"
)

// Telemetry holds all OpenTelemetry components
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *metric.MeterProvider
	Registry       *prometheus.Registry
	Logger         *slog.Logger

	// OTLP exporter connections, closed after the providers shut down
	conns []*grpc.ClientConn
}

// NewTelemetry initializes tracing and metrics with OTLP export.
// Metrics are also exposed through the Prometheus registry.
func NewTelemetry(ctx context.Context, cfg *config.OTLPConfig) (*Telemetry, error) {
	logger := initLogger(cfg, os.Stdout)

	logger.Info("Initializing OpenTelemetry",
		slog.String("endpoint", cfg.Endpoint),
		slog.String("service_name", cfg.ServiceName),
	)

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tp, traceConn, err := initTracerProvider(ctx, cfg, res)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer provider: %w", err)
	}

	registry := prometheus.NewRegistry()
	mp, metricConn, err := initMeterProvider(ctx, cfg, res, registry)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = traceConn.Close()
		return nil, fmt.Errorf("failed to initialize meter provider: %w", err)
	}

	setGlobals(tp, mp)
	logger.Info("Telemetry initialized (OTLP + Prometheus exporters)")

	return &Telemetry{
		TracerProvider: tp,
		MeterProvider:  mp,
		Registry:       registry,
		Logger:         logger,
		conns:          []*grpc.ClientConn{traceConn, metricConn},
	}, nil
}

// NewNoOpTelemetry creates a telemetry instance that exports nothing over OTLP.
// Prometheus metrics are still collected.
func NewNoOpTelemetry(cfg *config.OTLPConfig) (*Telemetry, error) {
	logger := initLogger(cfg, os.Stdout)

	tp := sdktrace.NewTracerProvider()

	registry := prometheus.NewRegistry()
	reader, err := newPrometheusReader(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize meter provider: %w", err)
	}
	mp := metric.NewMeterProvider(metric.WithReader(reader))

	setGlobals(tp, mp)
	logger.Info("Telemetry initialized in no-op mode (OTLP export disabled)")

	return &Telemetry{
		TracerProvider: tp,
		MeterProvider:  mp,
		Registry:       registry,
		Logger:         logger,
	}, nil
}

// MetricsHandler serves the Prometheus exposition of the registry.
func (t *Telemetry) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(t.Registry, promhttp.HandlerOpts{Registry: t.Registry})
}

// Shutdown flushes and stops both providers, then closes the exporter connections
func (t *Telemetry) Shutdown(ctx context.Context) error {
	t.Logger.Info("Shutting down OpenTelemetry")

	errs := []error{
		t.TracerProvider.Shutdown(ctx),
		t.MeterProvider.Shutdown(ctx),
	}
	for _, conn := range t.conns {
		errs = append(errs, conn.Close())
	}

	if err := errors.Join(errs...); err != nil {
		t.Logger.Error("Failed to shutdown telemetry", slog.String("error", err.Error()))
		return err
	}

	return nil
}

func setGlobals(tp *sdktrace.TracerProvider, mp *metric.MeterProvider) {
	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
}
