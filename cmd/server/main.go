/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the leave planner HTTP server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env, environment, flags)
  2. Initialize SQLite store
  3. Register tax years (built-in, stored, then PLANNER_TAX_TABLES)
  4. Create API handler and start the session janitor
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -addr          HTTP listen address (default: :8080)
  -db            SQLite database path (default: planner.db)
                 Use ":memory:" for in-memory database
  -tax-tables    YAML or JSON file with extra tax years
  -holiday-from  First year of the national holiday table
  -holiday-to    Last year of the national holiday table
  -cors          Comma separated allowed origins
  -log-level     debug, info, warn, error

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the session janitor
  4. Close database connection

EXAMPLES:
  ./server -db="./data/planner.db"
  ./server -db=":memory:" -tax-tables=./taxes-2027.yaml
  PLANNER_ADDR=:3000 ./server

SEE ALSO:
  - config/config.go: Environment variables
  - api/server.go: Router configuration
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
	"github.com/warp/leave-planner/factory"
	"github.com/warp/leave-planner/finance"
	"github.com/warp/leave-planner/holidays"
	"github.com/warp/leave-planner/store/sqlite"
)

func main() {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	cfg.BindFlags(flag.CommandLine)
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}
	log.SetLevel(cfg.Level())

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}
	defer store.Close()

	tables, err := loadTaxTables(context.Background(), store, cfg.TaxTables, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to load tax tables")
	}

	handler := api.NewHandler(store, holidays.NewDutch(cfg.HolidayFrom, cfg.HolidayTo), tables)
	handler.Log = log

	janitor := api.NewSessionJanitor(handler.Sessions)
	janitor.Log = log
	janitor.Start()

	router := api.NewRouter(handler, cfg.CORSOrigins...)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{
			"addr":     cfg.Addr,
			"db":       cfg.DBPath,
			"holidays": [2]int{cfg.HolidayFrom, cfg.HolidayTo},
		}).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}
	janitor.Stop()

	log.Info("Server stopped")
}

// loadTaxTables registers the stored tax years and then the years from
// path, if set. Years read from path are saved so they survive a restart.
func loadTaxTables(ctx context.Context, store *sqlite.Store, path string, log logrus.FieldLogger) (*finance.TaxTables, error) {
	tables := finance.NewTaxTables()

	n, err := store.LoadInto(ctx, tables)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		log.WithField("years", n).Info("Loaded stored tax years")
	}

	if path == "" {
		return tables, nil
	}
	years, err := factory.NewTaxTableFactory().LoadFile(path)
	if err != nil {
		return nil, err
	}
	for _, y := range years {
		if err := tables.Register(y); err != nil {
			return nil, err
		}
		if err := store.SaveTaxYear(ctx, y); err != nil {
			return nil, err
		}
	}
	log.WithFields(logrus.Fields{"file": path, "years": len(years)}).Info("Loaded tax table file")
	return tables, nil
}
