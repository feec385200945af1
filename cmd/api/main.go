package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/azizrestaurant/restaurant-platform/internal/api"
	"github.com/azizrestaurant/restaurant-platform/internal/config"
	"github.com/azizrestaurant/restaurant-platform/pkg/logger"
)

func main() {
	// A missing .env is fine; the environment may be set by the deployment.
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file loaded, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	log.Info("Starting restaurant platform", "port", cfg.Port, "env", cfg.Env)

	server, err := api.NewServer(cfg, log)
	if err != nil {
		log.Error("Failed to initialize server", "error", err)
		os.Exit(1)
	}

	go func() {
		if err := server.Start(); err != nil {
			log.Info("HTTP server stopped", "reason", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Shutdown complete")
}
