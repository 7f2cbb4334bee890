/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the leave planner server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env, environment, then flags)
  2. Initialize SQLite store
  3. Seed the Italian holiday table into an empty default calendar
  4. Create API handler with dependencies
  5. Configure HTTP router
  6. Start the retention job
  7. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (overrides PORT)
  -db      SQLite database path (overrides DB_PATH)
           Use ":memory:" for in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the retention job
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/leave.db"

  # Run with in-memory database
  ./server -db=":memory:"

  # Run on different port
  ./server -port=3000

ENVIRONMENT:
  PORT, DB_PATH, LOG_LEVEL, TOTAL_BUDGET, MAX_ITERATIONS,
  DEFAULT_CALENDAR, RETENTION_DAYS, RETENTION_CRON, CORS_ORIGINS
  (see config/config.go)

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/warp/leave-planner/api"
	"github.com/warp/leave-planner/config"
	"github.com/warp/leave-planner/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}

	// Flags override the environment
	port := flag.String("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	flag.Parse()

	log := config.NewLogger(cfg.LogLevel)

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}
	defer store.Close()

	ctx := context.Background()
	existing, err := store.GetAllHolidays(ctx, cfg.DefaultCalendar)
	if err != nil {
		log.WithError(err).Fatal("Failed to read holidays")
	}
	if len(existing) == 0 {
		n, err := api.SeedHolidays(ctx, store, cfg.DefaultCalendar)
		if err != nil {
			log.WithError(err).Fatal("Failed to seed holidays")
		}
		log.WithFields(logrus.Fields{"calendar_id": cfg.DefaultCalendar, "count": n}).Info("holiday table seeded")
	}

	// Initialize handler
	handler := api.NewHandler(store, log)
	handler.PolicyFactory.TotalBudget = cfg.TotalBudget
	handler.PolicyFactory.CalendarID = cfg.DefaultCalendar
	handler.PolicyFactory.MaxIterations = cfg.MaxIterations

	// Create router
	router := api.NewRouter(handler, cfg.CORSOrigins)

	retention := api.NewRetentionJob(store, cfg.RetentionDays, cfg.RetentionCron, log)
	if err := retention.Start(); err != nil {
		log.WithError(err).Fatal("Failed to start retention job")
	}

	// Create server
	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.WithField("addr", "http://localhost:"+*port+"/api").Info("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	retention.Stop()

	log.Info("server stopped")
}
