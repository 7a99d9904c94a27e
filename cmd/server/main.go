package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ndewijer/shoken-receipts-backend/internal/api"
	"github.com/ndewijer/shoken-receipts-backend/internal/config"
	"github.com/ndewijer/shoken-receipts-backend/internal/database"
	"github.com/ndewijer/shoken-receipts-backend/internal/logger"
	"github.com/ndewijer/shoken-receipts-backend/internal/metrics"
	"github.com/ndewijer/shoken-receipts-backend/internal/repository"
	"github.com/ndewijer/shoken-receipts-backend/internal/service"
	"github.com/ndewijer/shoken-receipts-backend/internal/stock"
	"github.com/ndewijer/shoken-receipts-backend/internal/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog, err := logger.New(cfg.Log.Level, cfg.Log.Environment)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLog.Sync() //nolint:errcheck // stderr sync errors are expected on some platforms
	zap.ReplaceGlobals(appLog.Desugar())

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		appLog.Fatalw("Failed to open database", "error", err, "path", cfg.Database.Path)
	}
	defer db.Close()

	appLog.Infow("Connected to database", "path", cfg.Database.Path, "version", version.Version)

	key, generated, err := service.LoadSecretKey(cfg.Session.SecretKey)
	if err != nil {
		appLog.Fatalw("Failed to load session key", "error", err)
	}
	if generated {
		appLog.Warn("SESSION_SECRET_KEY is not set; stored auth codes will be unreadable after a restart")
	}

	m := metrics.New()

	// Create repositories
	sessionRepo := repository.NewSessionRepository(db)
	importRepo := repository.NewImportRepository(db)

	// Create services
	systemService := service.NewSystemService(db)
	sessionService := service.NewSessionService(sessionRepo, key, cfg.Session.TTL)
	receiptService := service.NewReceiptService(sessionService, importRepo, m, appLog)
	stockService := service.NewStockService(stock.NewCachedClient(
		stock.NewClient(cfg.Stock.BaseURL, cfg.Stock.Timeout),
		cfg.Stock.CacheTTL,
		stock.DefaultBreakerConfig(),
		m.ObserveStockLookup,
	))

	purger := service.NewSessionPurger(sessionService, receiptService, m, appLog)
	scheduler, err := purger.Schedule(cfg.Session.PurgeSchedule)
	if err != nil {
		appLog.Fatalw("Failed to schedule session purge", "error", err)
	}
	scheduler.Start()

	// Create router
	router := api.NewRouter(systemService, sessionService, receiptService, stockService, m, appLog, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		appLog.Infow("Starting server", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatalw("Server failed to start", "error", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info("Shutting down server...")

	// Wait for a running purge before the database closes
	<-scheduler.Stop().Done()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLog.Errorw("Server forced to shutdown", "error", err)
		return
	}

	appLog.Info("Server exited")
}
