/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the roster engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration from environment
  2. Configure logging
  3. Initialize SQLite store
  4. Create API handler with dependencies
  5. Start the no-show sweeper
  6. Start server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the no-show sweeper
  4. Close database connection
  5. Exit

ENVIRONMENT:
  SERVER_PORT             HTTP server port (default: 8080)
  DB_PATH                 SQLite database path (default: roster.db)
                          Use ":memory:" for in-memory database
  CORS_ORIGINS            Comma-separated allowed origins
  SWEEP_INTERVAL_MINUTES  No-show sweep cadence (default: 30)
  GEOFENCE_LAT/LNG        Institution coordinate
  GEOFENCE_RADIUS_M       Geofence radius; 0 disables checks
  LOCAL_DEV               Pretty console logging (default: true)

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/warp/roster-engine/api"
	"github.com/warp/roster-engine/config"
	"github.com/warp/roster-engine/pkg/logger"
	"github.com/warp/roster-engine/roster"
	"github.com/warp/roster-engine/store/sqlite"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Setup(cfg.LocalDev)

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("db_path", cfg.DBPath).Msg("failed to initialize database")
	}
	defer store.Close()

	geofence := roster.GeofenceConfig{
		Reference:    roster.Coordinate{Lat: cfg.GeofenceLat, Lng: cfg.GeofenceLng},
		RadiusMeters: cfg.GeofenceRadiusM,
	}

	// Initialize handler; one store serves every persistence interface.
	handler := api.NewHandler(api.Stores{
		Shifts:      store,
		Tracking:    store,
		Staff:       store,
		StaffWriter: store,
		Payrolls:    store,
		Fines:       store,
	}, geofence, log.Logger)

	// Background no-show sweeper. Shares the handler's cached shift
	// store so sweep writes invalidate the request-path cache.
	sweeper := api.NewNoShowSweeper(handler.ShiftStore(), log.Logger)
	if cfg.SweepIntervalMinutes > 0 {
		sweeper.SweepInterval = time.Duration(cfg.SweepIntervalMinutes) * time.Minute
	}
	sweeper.Start()
	defer sweeper.Stop()

	router := api.NewRouter(handler, cfg.CORSOriginList())

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.ServerPort).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
