package telemetry

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/canteen/internal/config"
)

// Module provides the telemetry provider and flushes it on stop.
var Module = fx.Options(
	fx.Provide(newProvider),
	fx.Invoke(registerLifecycle),
)

type providerParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newProvider(p providerParams) (*Provider, error) {
	return New(p.Ctx, Options{TracingEnabled: p.Config.TracingEnabled}, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, provider *Provider) {
	lc.Append(fx.Hook{
		OnStop: provider.Shutdown,
	})
}
