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

	"github.com/robfig/cron/v3"

	"github.com/meridiancap/Fee-Letter-Backend/internal/api"
	"github.com/meridiancap/Fee-Letter-Backend/internal/apperrors"
	"github.com/meridiancap/Fee-Letter-Backend/internal/config"
	"github.com/meridiancap/Fee-Letter-Backend/internal/database"
	"github.com/meridiancap/Fee-Letter-Backend/internal/dataset"
	"github.com/meridiancap/Fee-Letter-Backend/internal/graph"
	"github.com/meridiancap/Fee-Letter-Backend/internal/letter"
	"github.com/meridiancap/Fee-Letter-Backend/internal/model"
	"github.com/meridiancap/Fee-Letter-Backend/internal/repository"
	"github.com/meridiancap/Fee-Letter-Backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Create repositories
	letterRepo := repository.NewLetterRepository(db)
	settingsRepo, err := repository.NewSettingsRepository(db, cfg.Database.FernetKey)
	if err != nil {
		log.Fatalf("Failed to create settings repository: %v", err)
	}

	// Dataset snapshot store. A failed initial load leaves the API up with
	// letter endpoints answering 503 until a reload succeeds.
	store := dataset.NewStore()
	loader := dataset.NewLoader(cfg.Dataset.InvestorsPath, cfg.Dataset.CompaniesPath, cfg.Dataset.FeeTermsPath)
	datasetService := service.NewDatasetService(loader, store)

	if stats, err := datasetService.Reload(context.Background()); err != nil {
		log.Printf("Initial dataset load failed: %v", err)
	} else {
		log.Printf("Dataset loaded: %d investors, %d companies, %d fee terms rows", stats.Investors, stats.Companies, stats.FeeTerms)
	}

	renderer, err := letter.NewRenderer(cfg.Letter.TemplatePath)
	if err != nil {
		log.Fatalf("Failed to load letter template: %v", err)
	}

	// The mail client fetches the Graph token per request, so a token stored
	// through the API is picked up without a restart.
	mailClient := graph.NewMailClient(cfg.Mail.BaseURL, cfg.Mail.Mailbox, func(ctx context.Context) (string, error) {
		token, err := settingsRepo.GetEncrypted(ctx, repository.SettingKeyMailToken)
		if err != nil {
			if errors.Is(err, apperrors.ErrSettingNotFound) {
				return "", apperrors.ErrMailTokenNotSet
			}
			return "", err
		}
		return token, nil
	})

	features := map[string]bool{
		"mail":             cfg.Mail.Mode != model.MailModeOff,
		"scheduledRefresh": cfg.Dataset.RefreshSpec != "off",
	}

	// Create services
	systemService := service.NewSystemService(db, settingsRepo, features)
	feeLetterService := service.NewFeeLetterService(db, store, letterRepo, renderer, mailClient, cfg.Mail.Mode)

	// Create router
	router := api.NewRouter(systemService, feeLetterService, datasetService, cfg)

	// Scheduled dataset refresh
	scheduler := cron.New()
	if features["scheduledRefresh"] {
		if _, err := scheduler.AddFunc(cfg.Dataset.RefreshSpec, func() {
			reloaded, err := datasetService.RefreshIfChanged(context.Background())
			if err != nil {
				log.Printf("Scheduled dataset refresh failed: %v", err)
				return
			}
			if reloaded {
				log.Println("Dataset refreshed from changed source files")
			}
		}); err != nil {
			log.Fatalf("Invalid DATASET_REFRESH_CRON: %v", err)
		}
		scheduler.Start()
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Stop scheduling new refreshes; a running one finishes below
	cronDone := scheduler.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	<-cronDone.Done()

	log.Println("Server exited")
}
