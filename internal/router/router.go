package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/eduspark-api/internal/config"
	"github.com/noah-isme/eduspark-api/internal/handler"
	"github.com/noah-isme/eduspark-api/internal/middleware"
	"github.com/noah-isme/eduspark-api/internal/models"
	"github.com/noah-isme/eduspark-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	HealthHandler     *handler.HealthHandler
	UserHandler       *handler.UserHandler
	CourseHandler     *handler.CourseHandler
	EnrollmentHandler *handler.EnrollmentHandler
	QuizHandler       *handler.QuizHandler
	ActivityHandler   *handler.ActivityHandler
	InsightHandler    *handler.InsightHandler
	AdminHandler      *handler.AdminHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	if deps.HealthHandler != nil {
		deps.HealthHandler.Register(api)
	}

	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.UserHandler != nil {
		auth := app.Group("/api/auth", jwtMiddleware)
		deps.UserHandler.Register(auth)
	}

	if deps.CourseHandler != nil {
		courses := app.Group("/api/courses", jwtMiddleware)
		deps.CourseHandler.Register(courses)

		adminCourses := app.Group("/api/admin/courses", jwtMiddleware, middleware.RequireRole(models.RoleAdmin))
		deps.CourseHandler.RegisterAdmin(adminCourses)
	}

	if deps.EnrollmentHandler != nil {
		enrollments := app.Group("/api/enrollments", jwtMiddleware)
		deps.EnrollmentHandler.Register(enrollments)
	}

	if deps.QuizHandler != nil {
		quizzes := app.Group("/api/quizzes", jwtMiddleware)
		deps.QuizHandler.Register(quizzes)
	}

	if deps.ActivityHandler != nil {
		activity := app.Group("/api/activity", jwtMiddleware)
		deps.ActivityHandler.Register(activity)
	}

	// Model calls are the expensive surface, so the AI group carries its own
	// per-user rate limit.
	if deps.InsightHandler != nil {
		ai := app.Group("/api/ai",
			jwtMiddleware,
			middleware.RateLimit("ai", cfg.AIRateLimitMax, cfg.AIRateLimitWindow),
		)
		deps.InsightHandler.Register(ai)
	}

	if deps.AdminHandler != nil {
		admin := app.Group("/api/admin", jwtMiddleware, middleware.RequireRole(models.RoleAdmin))
		deps.AdminHandler.Register(admin)
	}
}
