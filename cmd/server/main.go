package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/auditra/auditra/internal/adapter/cache"
	httpadapter "github.com/auditra/auditra/internal/adapter/http"
	"github.com/auditra/auditra/internal/adapter/persistence"
	"github.com/auditra/auditra/internal/adapter/storage"
	"github.com/auditra/auditra/internal/config"
	"github.com/auditra/auditra/internal/ports"
	"github.com/auditra/auditra/internal/service/logger"
	"github.com/auditra/auditra/internal/usecase"
)

// Version and build information
var (
	Version   = "development"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	version := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *version {
		fmt.Printf("Auditra Audit Compliance Engine\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)
		os.Exit(0)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLogger := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		ServiceName: "auditra",
	})

	log.Printf("Starting Auditra Audit Compliance Engine")
	log.Printf("Version: %s", Version)
	log.Printf("Environment: %s", cfg.Server.Environment)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	db, err := initDatabase(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize Redis for the directory cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	// Repositories and collaborators
	auditRepo := persistence.NewPostgresAuditRepository(db)
	surveyRepo := persistence.NewPostgresSurveyRepository(db)
	evalRepo := persistence.NewPostgresEvaluationRepository(db)
	recomputer := persistence.NewStoredFinalScoreRecomputer(db)
	directory := cache.NewCachedDirectory(persistence.NewPostgresDirectory(db), redisClient, cfg.Redis.CacheTTL, appLogger)
	objectStore := storage.NewFSObjectStore(cfg.Storage.Root)
	clock := ports.SystemClock{}

	// Use cases
	deliveryUC := usecase.NewDeliveryUseCase(objectStore, appLogger, cfg.Engine.WorkerLimit, cfg.Engine.LookupTimeout)
	auditUC := usecase.NewAuditUseCase(auditRepo)
	timelineUC := usecase.NewTimelineUseCase(auditRepo, deliveryUC, clock)
	importUC := usecase.NewSurveyImportUseCase(surveyRepo, directory, appLogger)
	aggregateUC := usecase.NewSurveyAggregateUseCase(surveyRepo, evalRepo, recomputer, appLogger)
	rubricUC := usecase.NewRubricUseCase(evalRepo, recomputer, appLogger, nil)
	evaluationUC := usecase.NewEvaluationUseCase(auditRepo, evalRepo, deliveryUC, recomputer, appLogger, cfg.Engine.WorkerLimit)

	// HTTP server
	server := httpadapter.NewServer(
		httpadapter.ServerConfig{
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
		auditUC,
		timelineUC,
		importUC,
		aggregateUC,
		rubricUC,
		evaluationUC,
	)

	go func() {
		log.Printf("Server listening on %s:%s", cfg.Server.Host, cfg.Server.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}

func initDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxConnections)
	db.SetMaxIdleConns(cfg.Database.MaxConnections / 2)
	db.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Database.ConnectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}
