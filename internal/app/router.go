package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"academy/internal/auth"
	"academy/internal/config"
	"academy/internal/handler"
	"academy/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	CourseHandler     *handler.CourseHandler
	EnrollmentHandler *handler.EnrollmentHandler
	WebhookHandler    *handler.WebhookHandler
	Verifier          *auth.Verifier
	RedisClient       *redis.Client
	NewRelicApp       *newrelic.Application
	RateLimit         config.RateLimitConfig
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	requireAuth := middleware.RequireAuth(deps.Verifier)
	// Idempotency runs after auth so the replay key is scoped to the caller,
	// and before the rate limiter so replays don't burn attempts.
	idempotency := middleware.Idempotency(deps.RedisClient)
	rateLimit := middleware.RateLimit(deps.RedisClient, deps.RateLimit)

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Course catalog.
		courses := v1.Group("/courses")
		{
			courses.GET("", deps.CourseHandler.GetAll)
			courses.GET("/:id", deps.CourseHandler.Get)

			// Enrollment workflow, identity required.
			courses.GET("/:id/quote", requireAuth, deps.EnrollmentHandler.Quote)
			courses.POST("/:id/enroll", requireAuth, idempotency, rateLimit, deps.EnrollmentHandler.Enroll)
			courses.POST("/:id/checkout", requireAuth, idempotency, rateLimit, deps.EnrollmentHandler.Checkout)
			courses.POST("/:id/manual-payment", requireAuth, idempotency, rateLimit, deps.EnrollmentHandler.SubmitManualPayment)
		}

		// Learner dashboard.
		v1.GET("/enrollments", requireAuth, deps.EnrollmentHandler.List)

		// Gateway confirmation, signature-verified instead of learner-authed.
		v1.POST("/payments/webhook", deps.WebhookHandler.HandlePaymentConfirmed)
	}

	return router
}
