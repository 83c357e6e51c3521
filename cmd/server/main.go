package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/hgky95/Idle2Earn/internal/api/http"
	"github.com/hgky95/Idle2Earn/internal/config"
	"github.com/hgky95/Idle2Earn/internal/jobs"
	"github.com/hgky95/Idle2Earn/internal/ledger"
	"github.com/hgky95/Idle2Earn/internal/logger"
	"github.com/hgky95/Idle2Earn/internal/migrations"
	"github.com/hgky95/Idle2Earn/internal/registry"
	"github.com/hgky95/Idle2Earn/internal/repository/postgres"
	"github.com/hgky95/Idle2Earn/internal/scheduler"
	"github.com/hgky95/Idle2Earn/internal/security"
	"github.com/hgky95/Idle2Earn/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Idle2Earn settlement backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	if err := migrations.Up(db); err != nil {
		logger.Error("Failed to apply migrations", "error", err)
		log.Fatalf("Failed to apply migrations: %v", err)
	}
	logger.Info("Database migrations applied")

	store := postgres.NewStore(db)

	tokenManager := security.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	assetRegistry := registry.NewAssetRegistry(store.AssetRepository)
	valueLedger := ledger.NewValueLedger(store.LedgerRepository, cfg.Platform.EscrowAccountID)

	emailSvc := service.NewEmailService(cfg.Email.SendGridAPIKey, cfg.Email.FromEmail, cfg.Email.FromName)
	notifier := service.NewNotifier(store.NotificationRepository, store.AccountRepository, emailSvc)

	authSvc := service.NewAuthService(store.AccountRepository, tokenManager)
	assetSvc := service.NewAssetService(store.AssetRepository, assetRegistry, cfg.Platform.EscrowAccountID)
	ledgerSvc := service.NewLedgerService(store.LedgerRepository, valueLedger)
	noteSvc := service.NewNotificationService(store.NotificationRepository)
	adminSvc := service.NewAdminService(store.AccountRepository, store.ConfigRepository, store.LedgerRepository, cfg.Platform.PlatformAccountID)
	rentalSvc := service.NewRentalService(
		store.RentalRepository,
		store.AccountRepository,
		store.ConfigRepository,
		assetRegistry,
		valueLedger,
		notifier,
		cfg.Platform.EscrowAccountID,
		cfg.Platform.PlatformAccountID,
	)

	// The renter index must reflect every ACTIVE rental before traffic arrives.
	if err := rentalSvc.RebuildIndex(context.Background()); err != nil {
		logger.Error("Failed to rebuild renter index", "error", err)
		log.Fatalf("Failed to rebuild renter index: %v", err)
	}

	handlers := httpapi.NewHandlers(authSvc, assetSvc, rentalSvc, ledgerSvc, adminSvc, noteSvc)
	router := httpapi.NewRouter(handlers, tokenManager)

	jobRunner := jobs.NewJobRunner(store.RentalRepository, store.AssetRepository, store.AccountRepository, emailSvc, cfg)
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
