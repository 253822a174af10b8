package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"visareq/internal/config"
	"visareq/internal/container"
	"visareq/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	c, err := container.New(cfg)
	if err != nil {
		log.Fatalf("Failed to wire application: %v", err)
	}
	defer c.Shutdown(context.Background())

	server, err := ui.NewServer(c.Pipeline, c.Repo, cfg.Server.GinMode)
	if err != nil {
		log.Fatalf("Failed to initialize dashboard: %v", err)
	}

	log.Printf("Starting dashboard on port %s", cfg.Server.Port)
	log.Fatal(server.Start(cfg.Server.Port))
}
