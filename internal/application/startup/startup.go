// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sellermetrics/leadstack-go/internal/application/container"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/caching/cleanup"
	"github.com/sellermetrics/leadstack-go/internal/presentation/http/server"
	"github.com/sellermetrics/leadstack-go/pkg/config"
)

// Initialize performs the complete startup sequence
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	log.Println("LeadStack starting...")

	// Step 1: Create dependency injection container
	appContainer, err := container.NewContainer()
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	defer appContainer.Close()

	logger := appContainer.Logger
	logger.LogStartupPhase("container", time.Since(start), true)

	// Step 2: Start the funnel broadcaster
	broadcasterStart := time.Now()
	go appContainer.FunnelBroadcaster.Run()
	logger.LogStartupPhase("messaging", time.Since(broadcasterStart), true)

	// Step 3: Start background segment cleanup worker
	workerStart := time.Now()
	cleanupWorker := cleanup.NewWorker(appContainer.SegmentStore, logger)
	go cleanupWorker.Start(ctx)
	logger.LogStartupPhase("cache", time.Since(workerStart), true)

	// Step 4: Start HTTP server
	serverStart := time.Now()
	httpServer := server.New(config.Port, appContainer)
	logger.LogStartupPhase("http", time.Since(serverStart), true)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+config.Port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", config.Port)

	// Wait for shutdown signal
	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownStart := time.Now()

	// Cancel background tasks
	cancelBackgroundTasks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Shutdown().Info("Stopping HTTP server...")
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
