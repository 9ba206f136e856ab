package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"pbp-backend/internal/auth"
	"pbp-backend/internal/cache"
	"pbp-backend/internal/config"
	"pbp-backend/internal/database"
	"pbp-backend/internal/db"
	"pbp-backend/internal/handlers"
	"pbp-backend/internal/health"
	h "pbp-backend/internal/http"
	"pbp-backend/internal/middleware"
	"pbp-backend/internal/monitoring"
	"pbp-backend/internal/repositories"
	"pbp-backend/internal/services"
)

func main() {
	// Parse command-line flags
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	// Load configuration
	cfg := config.Load()

	// Override port if specified
	if *port != 0 {
		cfg.Server.Port = *port
	}

	// Connect to PostgreSQL
	pool := db.Connect(cfg)
	defer pool.Close()

	// Initialize Redis cache (optional - graceful fallback if unavailable)
	if err := cache.Init(); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (login will use bcrypt only)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	// Run database migrations
	migrator := database.NewMigrator(pool)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize health checker
	healthChecker := health.NewHealthChecker(pool)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(pool)
	personRepo := repositories.NewPersonRepository(pool)
	prisonRepo := repositories.NewPrisonRepository(pool)
	personPrisonRepo := repositories.NewPersonPrisonRepository(pool)
	letterRepo := repositories.NewLetterRepository(pool)
	adminActionLogRepo := repositories.NewAdminActionLogRepository(pool)
	totpRepo := repositories.NewTOTPRepository(pool)

	// Start monitoring dashboard server in background
	go monitoring.NewMonitoringServer(pool, letterRepo, cfg.Server.MonitoringPort).Start()

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)
	corsMiddleware := middleware.NewCORS(cfg)

	// Initialize services
	userService := services.NewUserService(userRepo, jwtManager)
	totpService := services.NewTOTPService(userRepo, totpRepo)
	prisonService := services.NewPrisonService(prisonRepo)
	personService := services.NewPersonService(personRepo, prisonRepo, personPrisonRepo, letterRepo)
	letterService := services.NewLetterService(letterRepo, personRepo, personPrisonRepo, adminActionLogRepo)
	csvImportService := services.NewCSVImportService(personRepo, prisonRepo, personPrisonRepo)
	reportService := services.NewReportService(personService, prisonRepo, letterRepo, personRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	personHandler := handlers.NewPersonHandler(personService)
	prisonHandler := handlers.NewPrisonHandler(prisonService)
	letterHandler := handlers.NewLetterHandler(letterService)
	reportHandler := handlers.NewReportHandler(reportService, csvImportService)
	adminActionLogHandler := handlers.NewAdminActionLogHandler(adminActionLogRepo)
	totpHandler := handlers.NewTOTPHandler(totpService, userRepo, jwtManager)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	// Create router
	router := h.NewRouter(
		authHandler,
		userHandler,
		personHandler,
		prisonHandler,
		letterHandler,
		reportHandler,
		adminActionLogHandler,
		totpHandler,
		healthHandler,
		authMiddleware,
	)

	// Wrap with panic recovery and metrics middleware
	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
