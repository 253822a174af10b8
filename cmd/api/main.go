package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"visareq/internal/api"
	"visareq/internal/config"
	"visareq/internal/container"
)

func main() {
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

	if err := os.MkdirAll(cfg.Export.Dir, 0o755); err != nil {
		log.Fatalf("Failed to create export directory %s: %v", cfg.Export.Dir, err)
	}

	server := api.NewServer(c.Pipeline, c.Repo, c.Exporter, api.ExportConfig{Dir: cfg.Export.Dir})

	addr := ":" + cfg.Server.Port
	log.Printf("Starting JSON API on %s", addr)
	log.Fatal(http.ListenAndServe(addr, server.Handler()))
}
