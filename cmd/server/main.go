package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/easytrack/backend/internal/auth"
	"github.com/easytrack/backend/internal/config"
	"github.com/easytrack/backend/internal/delivery/http"
	"github.com/easytrack/backend/internal/domain"
	"github.com/easytrack/backend/internal/mapdata"
	"github.com/easytrack/backend/internal/repository/fieldapi"
	"github.com/easytrack/backend/internal/repository/postgres"
	"github.com/easytrack/backend/internal/service"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Dependency Injection: Repositories
	var repo domain.FieldDataRepository
	switch {
	case cfg.FieldDataAPIURL != "":
		repo = fieldapi.NewClient(cfg.FieldDataAPIURL, cfg.FieldDataAPIToken, cfg.FetchTimeout())
		log.Printf("Using field data API at %s", cfg.FieldDataAPIURL)
	case cfg.DatabaseURL != "":
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Could not connect to database: %v", err)
		}
		defer pool.Close()

		pg := postgres.NewPostgresRepository(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatalf("Could not prepare database schema: %v", err)
		}
		repo = pg
		log.Println("Connected to PostgreSQL")
	default:
		log.Println("No field data source configured, running with demo data")
		repo = postgres.NewDemoRepository(time.Now())
	}

	// Authentication
	var provider auth.Provider
	if cfg.FirebaseCredentials != "" {
		fb, err := auth.NewFirebaseProvider(context.Background(), cfg.FirebaseCredentials, cfg.FirebaseAPIKey)
		if err != nil {
			log.Fatalf("Could not initialize Firebase auth: %v", err)
		}
		provider = fb
		log.Println("Using Firebase authentication")
	} else {
		log.Println("Warning: FIREBASE_CREDENTIALS not set, using in-memory authentication")
		provider = auth.NewMemoryProvider()
	}

	// Dependency Injection: Services
	aggregator := mapdata.NewAggregator(repo, cfg.StalenessThreshold())
	mapSvc := service.NewMapService(aggregator, cfg.FetchTimeout())
	dashboardSvc := service.NewDashboardService(mapSvc)
	fieldDataSvc := service.NewFieldDataService(repo, mapSvc)
	insightsSvc := service.NewInsightsService(mapSvc, repo)

	scheduler, err := service.NewRefreshScheduler(mapSvc, cfg.RefreshSchedule)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Warm the map before serving
	scheduler.RunOnce()
	scheduler.Start()

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:      "EasyTrack API v1.0",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.FetchTimeout() + 5*time.Second,
		ErrorHandler: http.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Origins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Routes
	http.SetupRoutes(app, dashboardSvc, mapSvc, fieldDataSvc, insightsSvc, provider, repo)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on :%s (%s)", cfg.Port, cfg.Env)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	scheduler.Stop()
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	fieldDataSvc.WaitBackground()
	log.Println("Server exited gracefully")
}
