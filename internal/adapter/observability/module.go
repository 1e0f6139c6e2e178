package observability

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/canteen/internal/pkg/telemetry"
	"github.com/polkiloo/canteen/internal/usecase"
)

// Module wraps the order lifecycle provided by usecase.Module.
var Module = fx.Decorate(decorateLifecycle)

func decorateLifecycle(inner usecase.OrderLifecycle, provider *telemetry.Provider, logger *slog.Logger) usecase.OrderLifecycle {
	return NewLifecycle(inner,
		WithLogger(logger),
		WithTracer(provider.Tracer(instrumentationName)),
		WithMeter(provider.Meter(instrumentationName)),
	)
}
