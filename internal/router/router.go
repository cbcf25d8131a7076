package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/flowcoach-api/internal/config"
	"github.com/noah-isme/flowcoach-api/internal/handler"
	"github.com/noah-isme/flowcoach-api/internal/middleware"
	"github.com/noah-isme/flowcoach-api/internal/models"
	"github.com/noah-isme/flowcoach-api/internal/observability"
	"github.com/noah-isme/flowcoach-api/internal/utils"
)

// MetricsPath is the Prometheus scrape endpoint.
const MetricsPath = "/metrics"

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	FunctionHandler *handler.FunctionHandler
	ViewHandler     *handler.ViewHandler
	AdminHandler    *handler.AdminHandler
	Users           middleware.UserSyncer
	Logger          zerolog.Logger
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get(MetricsPath, observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Function endpoints answer with {"error": ...} on every failure, auth included.
	if deps.FunctionHandler != nil {
		functions := app.Group("/functions/v1",
			middleware.JWTProtected(cfg.JWTSecret, utils.SendFunctionError),
			middleware.SyncUser(deps.Users, deps.Logger, utils.SendFunctionError),
			middleware.RateLimit("functions", cfg.FunctionRateLimit, cfg.FunctionRateWindow, utils.SendFunctionError),
		)
		deps.FunctionHandler.Register(functions)
	}

	if deps.ViewHandler != nil {
		views := api.Group("",
			middleware.JWTProtected(cfg.JWTSecret, nil),
			middleware.SyncUser(deps.Users, deps.Logger, nil),
		)
		deps.ViewHandler.Register(views)
	}

	if deps.AdminHandler != nil {
		admin := app.Group("/api/admin",
			middleware.JWTProtected(cfg.JWTSecret, nil),
			middleware.SyncUser(deps.Users, deps.Logger, nil),
			middleware.RequireRole(models.UserRoleAdmin),
		)
		deps.AdminHandler.Register(admin)
	}
}
