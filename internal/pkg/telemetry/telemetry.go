package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

const ServiceName = "canteen"

// Options selects what the provider exports.
type Options struct {
	TracingEnabled bool
	// TraceWriter receives exported spans. Defaults to stdout.
	TraceWriter io.Writer
}

// Provider bundles the process wide tracer and meter providers.
type Provider struct {
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	// Reader exposes collected metrics on demand.
	Reader sdkmetric.Reader

	shutdowns []func(context.Context) error
}

// New configures tracing and metrics and registers them globally.
func New(ctx context.Context, opts Options, logger *slog.Logger) (*Provider, error) {
	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(attribute.String("service.name", ServiceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry resource: %w", err)
	}

	p := &Provider{}

	if opts.TracingEnabled {
		exporterOpts := []stdouttrace.Option{}
		if opts.TraceWriter != nil {
			exporterOpts = append(exporterOpts, stdouttrace.WithWriter(opts.TraceWriter))
		}
		exporter, err := stdouttrace.New(exporterOpts...)
		if err != nil {
			return nil, fmt.Errorf("trace exporter: %w", err)
		}
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithResource(res),
			sdktrace.WithBatcher(exporter),
		)
		p.TracerProvider = tp
		p.shutdowns = append(p.shutdowns, tp.Shutdown)
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
	} else {
		p.TracerProvider = nooptrace.NewTracerProvider()
	}

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	p.MeterProvider = mp
	p.Reader = reader
	p.shutdowns = append(p.shutdowns, mp.Shutdown)
	otel.SetMeterProvider(mp)

	if logger != nil {
		logger.Info("telemetry configured", slog.Bool("tracing", opts.TracingEnabled))
	}
	return p, nil
}

// Tracer returns a named tracer.
func (p *Provider) Tracer(name string) trace.Tracer {
	if p == nil || p.TracerProvider == nil {
		return nooptrace.NewTracerProvider().Tracer(name)
	}
	return p.TracerProvider.Tracer(name)
}

// Meter returns a named meter.
func (p *Provider) Meter(name string) metric.Meter {
	if p == nil || p.MeterProvider == nil {
		return otel.GetMeterProvider().Meter(name)
	}
	return p.MeterProvider.Meter(name)
}

// Shutdown flushes pending spans and metrics.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	var err error
	for i := len(p.shutdowns) - 1; i >= 0; i-- {
		err = errors.Join(err, p.shutdowns[i](ctx))
	}
	p.shutdowns = nil
	return err
}
