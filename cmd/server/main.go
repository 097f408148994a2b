package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"campusadvisor/internal/config"
	"campusadvisor/internal/handlers"
	"campusadvisor/internal/jobs"
	"campusadvisor/internal/logging"
	"campusadvisor/internal/middleware"
	"campusadvisor/internal/services"
)

func main() {
	logging.Init()

	// Load .env file if present (optional in production)
	if err := godotenv.Load(); err != nil {
		log.Println("📝 No .env file found, using environment variables")
	}

	cfg := config.Load()

	// Metrics against the default registerer so fiberprometheus picks
	// everything up at /metrics
	metrics := services.NewMetrics(prometheus.DefaultRegisterer)
	tracer := services.NewTracer(metrics)

	// Memory bank and sessions
	memory := services.NewMemoryBank(cfg.DataDir, cfg.SnapshotEvery, metrics)
	registry := services.NewSessionRegistry(metrics)
	sessions := services.NewSessionManager(registry, memory, time.Duration(cfg.SessionTTLHours)*time.Hour)

	metrics.RegisterSessionGauge(func() float64 { return float64(registry.Count()) })
	metrics.RegisterProfileGauge(func() float64 { return float64(memory.Profiles().Count()) })

	// Specialist definitions from file are optional; defaults cover the
	// built-in advisors
	var specialists *config.SpecialistsConfig
	if cfg.SpecialistsFile != "" {
		loaded, err := config.LoadSpecialists(cfg.SpecialistsFile)
		if err != nil {
			log.Printf("⚠️ Failed to load specialists file %s: %v", cfg.SpecialistsFile, err)
		} else {
			specialists = loaded
			log.Printf("✅ Loaded %d specialist definitions from %s", len(loaded.Specialists), cfg.SpecialistsFile)
		}
	}

	classifier := services.NewClassifierFromConfig(specialists)
	invoker := services.NewLLMInvoker(cfg, specialists, metrics)

	// Catalog search is optional; without a catalog document the
	// advisor runs on LLM knowledge alone
	var catalog *services.CatalogService
	if cfg.CatalogPath != "" {
		loaded, err := services.NewCatalogService(cfg.CatalogPath)
		if err != nil {
			log.Printf("⚠️ Catalog unavailable: %v", err)
		} else {
			catalog = loaded
		}
	} else {
		log.Println("📝 CATALOG_PATH not set, catalog search disabled")
	}

	orchestrator := services.NewOrchestrator(sessions, classifier, invoker, catalog, tracer, metrics, cfg.SpecialistTimeout)

	// Background maintenance
	scheduler, err := jobs.New(sessions, memory, cfg.SweepInterval, cfg.FlushInterval)
	if err != nil {
		log.Fatalf("❌ Failed to create job scheduler: %v", err)
	}
	scheduler.Start()

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "CampusAdvisor v1.0",
		ReadTimeout:  120 * time.Second,
		WriteTimeout: 120 * time.Second, // LLM responses can take a while
		BodyLimit:    1 * 1024 * 1024,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())

	// Prometheus metrics middleware
	prom := fiberprometheus.New("campusadvisor")
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))
	app.Use(middleware.GlobalRateLimiter())

	// Handlers
	chatHandler := handlers.NewChatHandler(orchestrator)
	sessionHandler := handlers.NewSessionHandler(sessions)
	memoryHandler := handlers.NewMemoryHandler(memory)
	catalogHandler := handlers.NewCatalogHandler(catalog)
	statsHandler := handlers.NewStatsHandler(sessions, tracer)
	healthHandler := handlers.NewHealthHandler(sessions)

	// Routes
	app.Get("/health", healthHandler.Handle)

	api := app.Group("/api")
	api.Post("/chat", middleware.ChatRateLimiter(), chatHandler.Handle)
	api.Post("/sessions", sessionHandler.Create)
	api.Get("/sessions/:id", sessionHandler.Get)
	api.Post("/sessions/cleanup", sessionHandler.Cleanup)
	api.Get("/students/:id/context", memoryHandler.GetContext)
	api.Post("/students/:id/interests", memoryHandler.AddInterest)
	api.Post("/students/:id/programs", memoryHandler.AddProgramView)
	api.Get("/catalog/search", catalogHandler.Search)
	api.Get("/stats", statsHandler.Handle)

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("\n🛑 Shutting down server...")

		scheduler.Stop()

		// Final snapshot so a clean shutdown never loses memory
		memory.Flush()

		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Error shutting down server: %v", err)
		}
	}()

	log.Printf("🚀 CampusAdvisor listening on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
