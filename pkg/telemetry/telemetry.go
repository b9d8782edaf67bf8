// Package telemetry wires OpenTelemetry traces and metrics plus Sentry crash
// reporting for the api, worker and shelfctl processes.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"

	"github.com/ghuser/shelfaware/pkg/config"
)

// Options selects exporters and identifies the process in every span and
// metric. An empty OTLPEndpoint keeps traces local and metrics on /metrics only.
type Options struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Process        string // "api", "worker" or "shelfctl"
	OTLPEndpoint   string
	SampleRatio    float64
}

// OptionsFromConfig builds Options for process from the loaded config.
func OptionsFromConfig(cfg *config.Config, process string) Options {
	return Options{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: cfg.ServiceVersion,
		Environment:    cfg.Environment,
		Process:        process,
		OTLPEndpoint:   cfg.OtelEndpoint,
		SampleRatio:    cfg.OtelSampleRatio,
	}
}

// Shutdown flushes and stops all OTel providers.
type Shutdown func(context.Context) error

// Setup installs global tracer and meter providers and the W3C propagator the
// EventBus relies on to carry traces from the api into the worker. It returns
// a shutdown func and the Prometheus handler for /metrics.
func Setup(ctx context.Context, opts Options) (Shutdown, http.Handler, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", opts.ServiceName),
			attribute.String("service.version", opts.ServiceVersion),
			attribute.String("deployment.environment", opts.Environment),
			attribute.String("shelfaware.process", opts.Process),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("otel resource: %w", err)
	}

	tp, err := newTracerProvider(ctx, opts, res)
	if err != nil {
		return nil, nil, err
	}
	mp, metricsHandler, err := newMeterProvider(ctx, opts, res)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, nil, err
	}

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	shutdown := func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}
	return shutdown, metricsHandler, nil
}
