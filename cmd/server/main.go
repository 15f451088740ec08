/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the work log server. Handles configuration,
  dependency injection, and graceful shutdown. The store is constructed
  here and injected explicitly; nothing caches a connection globally.

COMMAND-LINE FLAGS:
  -port            HTTP server port (default: 8080)
  -db              SQLite database path (default: worklog.db)
                   Use ":memory:" for an in-memory database
  -records-table   Records table identifier in the store
  -staff-table     Staff table identifier in the store

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the store
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/worklog.db"

  # Run with in-memory database
  ./server -db=":memory:"

SEE ALSO:
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Durable store implementation
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

	"github.com/warp/worklog/api"
	"github.com/warp/worklog/store/sqlite"
	"github.com/warp/worklog/worklog"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "worklog.db", "SQLite database path")
	recordsTable := flag.String("records-table", worklog.DefaultRecordsTable, "records table identifier")
	staffTable := flag.String("staff-table", worklog.DefaultStaffTable, "staff table identifier")
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()

	// Wire service and router
	svc := worklog.NewServiceWithTables(store, *recordsTable, *staffTable)
	handler := api.NewHandler(svc)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Work log server starting on http://localhost:%d", *port)
		log.Printf("API available at http://localhost:%d/api", *port)
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
