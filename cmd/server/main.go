/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the overtime engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load engine configuration (JSON file or defaults)
  3. Initialize SQLite store and seed the holiday calendar
  4. Create session service and API handler
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: overtime.db)
           Use ":memory:" for an in-memory database
  -config  Engine configuration JSON (optional; defaults apply)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database and custom policy
  ./server -db="./data/overtime.db" -config="./policy.json"

  # Run with in-memory database
  ./server -db=":memory:"

SEE ALSO:
  - api/server.go: Router configuration
  - factory/config.go: Configuration schema
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/overtime-engine/api"
	"github.com/warp/overtime-engine/engine"
	"github.com/warp/overtime-engine/factory"
	"github.com/warp/overtime-engine/session"
	"github.com/warp/overtime-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "overtime.db", "SQLite database path")
	configPath := flag.String("config", "", "Engine configuration JSON path")
	flag.Parse()

	// Load engine configuration
	var (
		cfg      engine.Config
		holidays *engine.HolidaySet
		err      error
	)
	if *configPath != "" {
		data, readErr := os.ReadFile(*configPath)
		if readErr != nil {
			log.Fatalf("Failed to read config: %v", readErr)
		}
		cfg, holidays, err = factory.Parse(data)
	} else {
		cfg, holidays, err = factory.Build(factory.Default())
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	run(*port, *dbPath, cfg, holidays)
}

func run(port int, dbPath string, cfg engine.Config, holidays *engine.HolidaySet) {
	// Initialize store
	store, err := sqlite.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Build engine and service
	eng := engine.New(cfg)
	svc := session.NewService(store, eng, nil)

	// Initialize handler and seed the holiday calendar from the store
	handler := api.NewHandler(svc, eng, holidays, store)
	if err := handler.LoadHolidays(context.Background()); err != nil {
		log.Printf("Warning: Failed to load holidays: %v", err)
	}

	// Create router
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", port)
		log.Printf("API available at http://localhost:%d/api", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
