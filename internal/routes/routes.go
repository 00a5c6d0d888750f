package routes

import (
	"time"

	"github.com/geoincidents/backend/internal/config"
	"github.com/geoincidents/backend/internal/handlers"
	"github.com/geoincidents/backend/internal/middleware"
	"github.com/geoincidents/backend/internal/repository"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	users repository.UserRepository,
	authHandler *handlers.AuthHandler,
	categoryHandler *handlers.CategoryHandler,
	incidentHandler *handlers.IncidentHandler,
	notificationHandler *handlers.NotificationHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	healthHandler *handlers.HealthHandler,
	wsHandler *handlers.WSHandler,
) {
	jwt := middleware.JWTProtected(cfg)
	admin := middleware.AdminRequired(users, cfg)

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Health)

	// Auth — public endpoints get a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	api.Get("/auth/profile", jwt, authHandler.Profile)
	api.Put("/auth/profile", jwt, authHandler.UpdateProfile)
	api.Post("/auth/change-password", jwt, authHandler.ChangePassword)

	// Categories — reads are public, writes are admin-only
	api.Get("/categories", categoryHandler.List)
	api.Get("/categories/:id", categoryHandler.Get)
	api.Post("/categories", jwt, admin, categoryHandler.Create)
	api.Post("/categories/reorder", jwt, admin, categoryHandler.Reorder)
	api.Put("/categories/:id", jwt, admin, categoryHandler.Update)
	api.Delete("/categories/:id", jwt, admin, categoryHandler.Delete)

	// Incidents — specific paths must register before /:id so "nearby" is
	// never parsed as an incident ID.
	api.Get("/incidents/nearby", incidentHandler.Nearby)
	api.Get("/incidents/heatmap", incidentHandler.Heatmap)
	api.Get("/incidents/stats/categories", jwt, admin, incidentHandler.StatsByCategory)
	api.Get("/incidents/stats/temporal", jwt, admin, incidentHandler.TemporalStats)
	api.Get("/incidents", incidentHandler.List)
	api.Get("/incidents/:id", incidentHandler.Get)

	api.Post("/incidents", jwt, incidentHandler.Create)
	api.Post("/incidents/:id/evidence", jwt, incidentHandler.AddEvidence)

	api.Put("/incidents/:id", jwt, admin, incidentHandler.Update)
	api.Patch("/incidents/:id/validate", jwt, admin, incidentHandler.Validate)
	api.Patch("/incidents/:id/reject", jwt, admin, incidentHandler.Reject)
	api.Delete("/incidents/:id", jwt, admin, incidentHandler.Delete)

	// Notifications (JWT required)
	notif := api.Group("/notifications", jwt)
	notif.Get("/", notificationHandler.List)
	notif.Get("/unread-count", notificationHandler.UnreadCount)
	notif.Put("/read-all", notificationHandler.MarkAllRead)
	notif.Put("/:id/read", notificationHandler.MarkRead)

	// Analytics — risk zones feed the public map; predictions and the ML sync
	// stay behind the admin dashboard
	api.Get("/analytics/risk-zones", analyticsHandler.RiskZones)
	api.Get("/analytics/predictions", jwt, admin, analyticsHandler.Predictions)
	api.Post("/analytics/refresh", jwt, admin, analyticsHandler.Refresh)

	api.Get("/system/status", jwt, admin, healthHandler.SystemStatus)

	// Realtime feed. The upgrade gate authenticates via ?token because
	// websocket clients cannot send an Authorization header.
	app.Get("/ws", wsHandler.Upgrade, websocket.New(wsHandler.Serve))
}
