package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/melodia-app/melodia-go-api/internal/config"
	"github.com/melodia-app/melodia-go-api/internal/handler"
	"github.com/melodia-app/melodia-go-api/internal/middleware"
	"github.com/melodia-app/melodia-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	CourseHandler       *handler.CourseHandler
	CalendarHandler     *handler.CalendarHandler
	AvailabilityHandler *handler.AvailabilityHandler
	BookingHandler      *handler.BookingHandler
	ActivityHandler     *handler.ActivityHandler
	LeadHandler         *handler.LeadHandler
	EventsHandler       *handler.EventsHandler
	UploadHandler       *handler.UploadHandler
	JWTMiddleware       fiber.Handler
	DB                  *gorm.DB
	Redis               *redis.Client
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.DB, deps.Redis))
	app.Get("/metrics", observability.MetricsHandler())

	// Public lead intake with rate limiting so the contact form cannot be
	// used to hammer the database.
	if deps.LeadHandler != nil {
		leads := api.Group("/leads", middleware.RateLimit("leads", 10, time.Minute))
		deps.LeadHandler.Register(leads)
	}

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.CourseHandler != nil {
		courses := api.Group("/courses", jwtMiddleware)
		deps.CourseHandler.Register(courses)
	}

	if deps.CalendarHandler != nil {
		calendar := api.Group("/calendar", jwtMiddleware)
		deps.CalendarHandler.Register(calendar)
	}

	if deps.AvailabilityHandler != nil {
		availability := api.Group("/availability", jwtMiddleware)
		deps.AvailabilityHandler.Register(availability)
	}

	if deps.BookingHandler != nil {
		bookings := api.Group("/bookings", jwtMiddleware)
		deps.BookingHandler.Register(bookings)
	}

	if deps.ActivityHandler != nil {
		activity := api.Group("/activity", jwtMiddleware)
		deps.ActivityHandler.Register(activity)
	}

	if deps.EventsHandler != nil {
		events := api.Group("/events", jwtMiddleware)
		deps.EventsHandler.Register(events)
	}

	// Admin surface gated by role on top of authentication.
	admin := api.Group("/admin", jwtMiddleware, middleware.RequireRole("admin", "superadmin"))
	if deps.ActivityHandler != nil {
		deps.ActivityHandler.RegisterAdmin(admin.Group("/activity"))
	}
	if deps.LeadHandler != nil {
		deps.LeadHandler.RegisterAdmin(admin.Group("/leads"))
	}
	if deps.UploadHandler != nil {
		deps.UploadHandler.RegisterAdmin(admin)
	}
}
