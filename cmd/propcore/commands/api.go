package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/taiseel/propcore/internal/api"
	"github.com/taiseel/propcore/internal/api/handlers"
	"github.com/taiseel/propcore/internal/broadcast"
	"github.com/taiseel/propcore/internal/notify"
	"github.com/taiseel/propcore/internal/property"
	"github.com/taiseel/propcore/internal/registration"
	"github.com/taiseel/propcore/internal/scheduler"
	"github.com/taiseel/propcore/internal/scheduler/jobs"
	"github.com/taiseel/propcore/internal/valuation"
	"github.com/taiseel/propcore/pkg/config"
	"github.com/taiseel/propcore/pkg/database"
	"github.com/taiseel/propcore/pkg/httputil"
	"github.com/taiseel/propcore/pkg/logger"
	"github.com/taiseel/propcore/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Start the REST API server.

Endpoints:
  GET   /health                   - Health check
  POST  /api/register             - Submit a lead registration
  GET   /api/admin/registrations  - List registrations (admin)
  GET   /api/units                - List units
  GET   /api/units/status/{s}     - List units by status
  PATCH /api/units/{id}           - Patch unit status/value/rent
  GET   /api/stats                - Portfolio aggregate
  GET   /api/valuation-history    - Valuation snapshots by label
  GET   /api/live                 - Websocket live updates

Example:
  go run ./cmd/propcore api
  go run ./cmd/propcore api --port 5000`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	log.Info("Connected to database")

	// 4. Connect to Redis (optional cache)
	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	statsCache := redis.NewCache(redisClient, "propcore")

	// 5. Create HTTP client and notification service.
	// Channel misconfiguration fails here, at startup, not per request.
	httpClient := httputil.New(log)
	notifier, err := notify.NewService(cfg.Notify, httpClient, log)
	if err != nil {
		return fmt.Errorf("configure notifications: %w", err)
	}

	// 6. Create stores and repositories
	regStore := registration.NewFileStore(cfg.Registration.DataFile, log)
	unitRepo := property.NewRepository(db.Pool)
	snapRepo := valuation.NewRepository(db.Pool)

	// 7. Create live-update hub and valuation service
	hub := broadcast.NewHub(log)
	defer hub.Close()

	valuations := valuation.NewService(unitRepo, snapRepo, hub, log)

	// 8. Create handlers
	regHandler := handlers.NewRegistrationHandler(regStore, notifier, log)
	unitHandler := handlers.NewUnitHandler(unitRepo, valuations, statsCache, hub, log)
	valHandler := handlers.NewValuationHandler(valuations, log)

	// 9. Create router
	intakeLimiter := rate.NewLimiter(rate.Limit(cfg.Registration.RateLimit), cfg.Registration.RateBurst)
	router := api.NewRouter(regHandler, unitHandler, valHandler, hub, intakeLimiter, log)

	// 10. Start the nightly valuation resync
	sched := scheduler.New(log)
	if err := sched.AddJob(jobs.NewValuationResyncJob(valuations, log)); err != nil {
		return fmt.Errorf("schedule valuation resync: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	// 11. Create server
	server := api.New(cfg, log, router)

	// 12. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
