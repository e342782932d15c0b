package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/partner-portal/internal/api/http/handlers"
	"github.com/spec-kit/partner-portal/internal/auth"
	"github.com/spec-kit/partner-portal/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health            *handlers.HealthHandler
	Signup            *handlers.SignupHandler
	Settings          *handlers.SettingsHandler
	SessionMiddleware *auth.SessionMiddleware
	AuthMiddleware    *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect(domain.RouteSignup, fiber.StatusSeeOther)
	})

	pages := app.Group("", cfg.SessionMiddleware.Handle)
	pages.Get(domain.RouteSignup, cfg.Signup.Page)
	pages.Post(domain.RouteSignup, cfg.Signup.Submit)
	pages.Post(domain.RouteSignup+"/fields", cfg.Signup.UpdateFields)
	pages.Get(domain.RouteSettings, cfg.AuthMiddleware.Handle, cfg.Settings.Page)
}
