package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/blob"
	"github.com/jonathan/resume-analyzer/internal/config"
	"github.com/jonathan/resume-analyzer/internal/db"
	"github.com/jonathan/resume-analyzer/internal/llm"
	"github.com/jonathan/resume-analyzer/internal/logging"
	"github.com/jonathan/resume-analyzer/internal/pipeline"
	"github.com/jonathan/resume-analyzer/internal/resume"
	"github.com/jonathan/resume-analyzer/internal/server"
)

// app holds the dependencies shared by the commands
type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	analyzer *analysis.Analyzer
	store    resume.Store
	files    *blob.Store
	health   server.HealthCheck
	closers  []func()
}

// loadApp reads configuration and builds the logger and analyzer. Storage is
// opened separately with openStorage.
func loadApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	a := &app{
		cfg:    cfg,
		logger: logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}),
	}

	if cfg.APIKey == "" {
		a.logger.Warn().Msg("no AI credential configured, analysis disabled")
		return a, nil
	}

	llmConfig := llm.DefaultConfig()
	if cfg.Model != "" {
		llmConfig = llmConfig.WithModel(llm.TierStandard, cfg.Model)
	}
	client, err := llm.NewClient(ctx, llmConfig, cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	a.closers = append(a.closers, func() { _ = client.Close() })

	a.analyzer, err = analysis.NewAnalyzer(client, analysis.WithLogger(a.logger))
	if err != nil {
		a.Close()
		return nil, err
	}
	a.logger.Info().Str("model", a.analyzer.Model()).Msg("analysis enabled")
	return a, nil
}

// openStorage connects the record store and, when configured, the blob
// store. Without a database URL records live in memory for the life of the
// process.
func (a *app) openStorage(ctx context.Context) error {
	if a.cfg.DatabaseURL == "" {
		a.logger.Warn().Msg("DATABASE_URL not set, using in-memory store")
		a.store = resume.NewMemoryStore()
	} else {
		database, err := db.Connect(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, database.Close)
		a.store = database.Resumes()
		a.health = database.Ping
	}

	if a.cfg.MinIO.Enabled() {
		files, err := blob.NewStore(a.cfg.MinIO, a.logger)
		if err != nil {
			return err
		}
		if err := files.EnsureBucket(ctx); err != nil {
			return err
		}
		a.files = files
	}
	return nil
}

// newPipeline builds a pipeline over the app's store and analyzer.
func (a *app) newPipeline(opts ...pipeline.Option) *pipeline.Pipeline {
	opts = append([]pipeline.Option{pipeline.WithLogger(a.logger)}, opts...)
	if a.files != nil {
		opts = append(opts, pipeline.WithFileStore(a.files))
	}
	return pipeline.New(a.store, a.analyzer, opts...)
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
