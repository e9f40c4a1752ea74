package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/YoonkyungKim/fragments/internal/config"
	"github.com/YoonkyungKim/fragments/internal/database"
	"github.com/YoonkyungKim/fragments/internal/database/migration"
	handlers "github.com/YoonkyungKim/fragments/internal/http/handler"
	"github.com/YoonkyungKim/fragments/internal/http/middleware"
	"github.com/YoonkyungKim/fragments/internal/otel"
	"github.com/YoonkyungKim/fragments/internal/repository/postgres"
	"github.com/YoonkyungKim/fragments/internal/service"
	"github.com/YoonkyungKim/fragments/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	loc := time.Local

	// Tracing is optional; a failed exporter degrades to a noop provider.
	shutdownTracing, err := otel.Init(context.Background(), loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(context.Background(), db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Initialize repositories and services
	fragRepo := postgres.NewFragmentPostgres(db)
	fragSvc := service.NewFragmentService(objStore, fragRepo)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(prom.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	auth := middleware.BasicAuth(cfg.AuthUsers)

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, db, fragSvc, auth, cfg.APIURL)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
