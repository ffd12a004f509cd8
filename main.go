package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rsanur/libra-go/internal/api"
	"github.com/rsanur/libra-go/internal/core"
	"github.com/rsanur/libra-go/internal/jobs"
	"github.com/rsanur/libra-go/internal/library"
	"github.com/rsanur/libra-go/internal/util"
)

var version = "dev"

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize the core application components
	app, err := core.New(version)
	if err != nil {
		log.Fatalf("Fatal error during application setup: %v", err)
	}
	defer app.Close()

	// Register the background jobs before anything can trigger them.
	app.JobManager().Register("temp-sweep", "Sweep temporary files", library.TempSweep)
	app.JobManager().Register("regen-covers", "Regenerate missing covers", library.RegenerateCovers)

	// Start the periodic scheduler.
	scheduler := jobs.StartScheduler(app)
	defer scheduler.Stop()

	// Setup the API server
	server := api.NewServer(app)

	// Optionally watch an import directory for dropped documents.
	var watcher *library.WatcherService
	if app.Config().Import.Enabled {
		if err := util.EnsureDir(app.Config().Import.Path); err != nil {
			log.Fatalf("Could not prepare import directory: %v", err)
		}
		ingestor := library.NewIngestor(app.Config(), app.DB())
		watcher = library.NewWatcherService(ingestor, app.Config().Import.Path, app.Config().Pipeline.ComposeCoverPage)
		if err := watcher.Start(); err != nil {
			log.Fatalf("Could not start import watcher: %v", err)
		}
		defer watcher.Stop()
	}

	addr := fmt.Sprintf(":%d", app.Config().Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Router(),
	}

	// --- Graceful Shutdown ---
	// Start the server in a goroutine so it doesn't block.
	go func() {
		log.Printf("Starting web server on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not start server: %v", err)
		}
	}()

	// Wait for an interrupt signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Create a context with a timeout to allow existing connections to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Attempt a graceful shutdown.
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited gracefully.")
}
