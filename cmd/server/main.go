package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"academy/internal/app"
	"academy/internal/auth"
	"academy/internal/config"
	"academy/internal/gateway"
	"academy/internal/geo"
	"academy/internal/handler"
	"academy/internal/rates"
	internalRedis "academy/internal/redis"
	"academy/internal/repository/postgres"
	"academy/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// External collaborators.
	rateClient := rates.NewClient(cfg.Rates.URL, cfg.Rates.Timeout)
	gatewayClient := gateway.NewClient(
		cfg.Payments.GatewayBaseURL,
		cfg.Payments.GatewaySecret,
		cfg.Payments.CallbackURL,
		cfg.Payments.ReturnURL,
	)
	cacheStore := internalRedis.NewCacheStore(redisClient)
	locator := geo.NewClient(cfg.Geo.URL, cfg.Geo.Timeout, cacheStore, cfg.Geo.CacheTTL)

	// Initialize repositories.
	courseRepo := postgres.NewCourseRepository(db)
	enrollmentRepo := postgres.NewEnrollmentRepository(db)

	// Initialize services.
	var notificationService *service.NotificationService
	if cfg.Kafka.Enabled {
		notificationService = service.NewNotificationService(service.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic))
	} else {
		notificationService = service.NewNotificationService(nil)
	}
	eligibilityService := service.NewEligibilityService(enrollmentRepo)
	routingService := service.NewRoutingService(locator, cfg.Rates.LocalCountry)
	quoteService := service.NewQuoteService(rateClient, cfg.Rates.FallbackRate, cfg.Rates.BaseCurrency, cfg.Rates.LocalCurrency)
	enrollmentService := service.NewEnrollmentService(
		courseRepo,
		enrollmentRepo,
		eligibilityService,
		routingService,
		quoteService,
		gatewayClient,
		notificationService,
		cfg.Rates.BaseCurrency,
		cfg.Payments.ReviewWindow,
	)

	// Initialize handlers.
	courseHandler := handler.NewCourseHandler(courseRepo)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService)
	webhookHandler := handler.NewWebhookHandler(enrollmentService, cfg.Payments.GatewaySecret)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		CourseHandler:     courseHandler,
		EnrollmentHandler: enrollmentHandler,
		WebhookHandler:    webhookHandler,
		Verifier:          auth.NewVerifier(cfg.Auth.JWTSecret),
		RedisClient:       redisClient,
		NewRelicApp:       nrApp,
		RateLimit:         cfg.Server.RateLimit,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
