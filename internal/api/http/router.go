package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/chat-service/internal/api/http/handlers"
	"github.com/spec-kit/chat-service/internal/auth"
	"github.com/spec-kit/chat-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Pages          *handlers.PagesHandler
	Chat           *handlers.ChatHandler
	Conversations  *handlers.ConversationsHandler
	Stats          *handlers.StatsHandler
	Analytics      *handlers.AnalyticsHandler
	Profile        *handlers.ProfileHandler
	AuthMiddleware *auth.AuthMiddleware
	AdminLookup    auth.AdminLookup
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	mw := cfg.AuthMiddleware

	app.Get("/", mw.Optional, cfg.Pages.Index)
	app.Get("/login", mw.Optional, cfg.Pages.LoginPage)
	app.Post("/login", cfg.Pages.Login)
	app.Get("/signup", mw.Optional, cfg.Pages.SignupPage)
	app.Post("/signup", cfg.Pages.Signup)
	app.Post("/logout", cfg.Pages.Logout)

	requirePage := mw.RequirePage("/login")
	app.Get("/chat", requirePage, cfg.Pages.Chat)
	app.Get("/dashboard", requirePage, cfg.Pages.Dashboard)
	app.Get("/profile", requirePage, cfg.Pages.ProfilePage)
	app.Post("/profile", requirePage, cfg.Pages.UpdateProfile)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/session", mw.Optional, cfg.Auth.Session)

	// Route-level middleware: a Group with an empty prefix would also guard later routes.
	api.Post("/chat", mw.Handle, cfg.Chat.Send)
	api.Get("/conversations", mw.Handle, cfg.Conversations.List)
	api.Get("/conversations/export", mw.Handle, cfg.Conversations.Export)
	api.Get("/conversations/:id", mw.Handle, cfg.Conversations.Get)
	api.Delete("/conversations/:id", mw.Handle, cfg.Conversations.Delete)
	api.Get("/stats", mw.Handle, cfg.Stats.Get)
	api.Post("/analytics", mw.Handle, cfg.Analytics.Record)
	api.Get("/analytics", mw.Handle, auth.RequireAdmin(cfg.AdminLookup), cfg.Analytics.Summary)
	api.Put("/profile", mw.Handle, cfg.Profile.Update)
}
