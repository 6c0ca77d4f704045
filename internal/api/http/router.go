package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/referral-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Users   *handlers.UsersHandler
	Metrics *handlers.MetricsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Post("/users/register", cfg.Users.Register)
	api.Get("/users", cfg.Users.List)
	// The referral route registers before /users/:id so "referral" is not
	// swallowed by the id parameter.
	api.Get("/users/referral/:code", cfg.Users.GetByReferralCode)
	api.Get("/users/:id", cfg.Users.GetByID)
	api.Patch("/users/:id/points", cfg.Users.UpdatePoints)
	api.Get("/stats", cfg.Users.Statistics)

	app.Get("/admin/metrics", cfg.Metrics.Snapshot)
}
