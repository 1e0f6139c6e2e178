package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/polkiloo/canteen/internal/pkg/telemetry"
	"github.com/polkiloo/canteen/internal/server/http/handlers"
	"github.com/polkiloo/canteen/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.CanteenFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(otelgin.Middleware(telemetry.ServiceName))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithDecompressFn(gzip.DefaultDecompressHandle)))

	authHandler := handlers.NewAuthHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	menuHandler := handlers.NewMenuHandler(facade)
	adminHandler := handlers.NewAdminHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	engine.GET("/healthz", healthHandler.Check)

	api := engine.Group("/api")
	api.POST("/orders", orderHandler.Place)
	api.GET("/orders/:id", orderHandler.Status)
	api.POST("/orders/:id/cancel", orderHandler.Cancel)
	api.GET("/menu", menuHandler.List)
	api.GET("/canteen/status", menuHandler.Status)

	admin := api.Group("/admin")
	admin.POST("/login", authHandler.Login)

	staff := admin.Group("")
	staff.Use(middleware.AdminRequired(facade))
	staff.GET("/orders", adminHandler.Dashboard)
	staff.POST("/orders/:id/ready", adminHandler.MarkReady)
	staff.GET("/orders/:id/items", adminHandler.OrderItems)
	staff.POST("/reset", adminHandler.Reset)
	staff.GET("/history", adminHandler.History)
	staff.POST("/menu", menuHandler.Create)
	staff.PUT("/menu/:id", menuHandler.Update)
	staff.DELETE("/menu/:id", menuHandler.Delete)
	staff.PUT("/canteen/status", menuHandler.SetStatus)

	return engine
}
