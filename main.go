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

	"github.com/promptlens/promptlens/internal/adapter/telemetry"
	"github.com/promptlens/promptlens/internal/config"
	store "github.com/promptlens/promptlens/internal/repository"
	"github.com/promptlens/promptlens/internal/service"
	transport "github.com/promptlens/promptlens/internal/transport/http"
	"github.com/promptlens/promptlens/policy"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting promptlens...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DatabaseURL)
	log.Printf("Telemetry URL: %s", cfg.TelemetryURL)

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	// Initialize telemetry client
	telemetryClient := telemetry.NewClient(cfg.TelemetryURL, cfg.TelemetryToken, cfg.TelemetryTimeout)

	// Initialize redaction policy
	ctx := context.Background()
	redaction, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize redaction policy: %v", err)
	}

	// Initialize service
	svc := service.New(db, telemetryClient, redaction, cfg)

	// Create server
	server := transport.NewServer(svc, cfg.TailPollInterval)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down promptlens...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("promptlens stopped")
}
