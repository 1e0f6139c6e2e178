package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/canteen/internal/adapter/observability"
	"github.com/polkiloo/canteen/internal/app"
	"github.com/polkiloo/canteen/internal/config"
	"github.com/polkiloo/canteen/internal/logger"
	"github.com/polkiloo/canteen/internal/pkg/auth"
	"github.com/polkiloo/canteen/internal/pkg/telemetry"
	"github.com/polkiloo/canteen/internal/server/http/router"
	"github.com/polkiloo/canteen/internal/storage/postgres"
	"github.com/polkiloo/canteen/internal/usecase"
)

// Module assembles the canteen service graph. Extra options are appended last
// so callers can replace any provided value.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		telemetry.Module,
		auth.Module,
		postgres.Module,
		usecase.Module,
		observability.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
