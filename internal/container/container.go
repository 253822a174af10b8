package container

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"

	"visareq/adapters/excel"
	"visareq/adapters/memory"
	"visareq/adapters/postgres"
	"visareq/app"
	"visareq/domain/validation"
	"visareq/gateway"
	"visareq/internal/config"
	"visareq/internal/errors"
	"visareq/ports"
)

// Container wires the application dependencies from configuration: run
// repository, stage processors, pipeline, and exporter. Shared by every
// entrypoint (web UI, JSON API, CLI).
type Container struct {
	Config   *config.Config
	Repo     ports.RunRepository
	Pipeline *app.Pipeline
	Exporter *excel.Exporter

	db *sqlx.DB
}

// New builds the container from configuration.
func New(cfg *config.Config) (*Container, error) {
	c := &Container{
		Config:   cfg,
		Exporter: excel.NewExporter(),
	}

	if err := c.initRepository(); err != nil {
		return nil, err
	}

	procs, err := buildProcessors(cfg)
	if err != nil {
		return nil, err
	}
	c.Pipeline = app.NewPipeline(procs, c.Repo)
	return c, nil
}

func (c *Container) initRepository() error {
	if c.Config.Database.URL == "" {
		log.Printf("[Container] No DATABASE_URL configured, using in-memory run store")
		c.Repo = memory.NewRunRepository()
		return nil
	}

	db, err := postgres.Connect(c.Config.Database.URL)
	if err != nil {
		return errors.Wrap(err, "failed to connect to database")
	}
	if err := postgres.EnsureSchema(context.Background(), db); err != nil {
		db.Close()
		return errors.Wrap(err, "failed to ensure database schema")
	}
	c.db = db
	c.Repo = postgres.NewRunRepository(db)
	log.Printf("[Container] Using PostgreSQL run store")
	return nil
}

func buildProcessors(cfg *config.Config) (ports.Processors, error) {
	opts := validation.Options{DisableClamp: cfg.Pipeline.ScoreClampDisabled}

	if cfg.Pipeline.Mode == config.ModeCanned {
		log.Printf("[Container] Pipeline mode: canned (deterministic demo content)")
		return app.NewCannedProcessors(opts), nil
	}

	client, err := gateway.NewOpenAIClient(gateway.Config{
		APIKey:        cfg.LLM.APIKey,
		BaseURL:       cfg.LLM.BaseURL,
		Model:         cfg.LLM.Model,
		Temperature:   cfg.LLM.Temperature,
		MaxTokens:     cfg.LLM.MaxTokens,
		Timeout:       cfg.LLM.Timeout,
		MaxConcurrent: int64(cfg.LLM.MaxConcurrent),
	})
	if err != nil {
		return ports.Processors{}, errors.Wrap(err, "failed to create gateway client")
	}

	cached, err := gateway.NewCachedCompleter(client, cfg.LLM.CacheSize)
	if err != nil {
		return ports.Processors{}, errors.Wrap(err, "failed to create completion cache")
	}

	log.Printf("[Container] Pipeline mode: live (model=%s)", cfg.LLM.Model)
	return app.NewLiveProcessors(cached, opts), nil
}

// Shutdown releases held resources.
func (c *Container) Shutdown(context.Context) error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
