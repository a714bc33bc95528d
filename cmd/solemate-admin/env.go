package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"solemate/internal/config"
	"solemate/internal/database"
	"solemate/internal/logger"
)

// env is what every subcommand needs once configuration is loaded.
type env struct {
	cfg *config.AppConfig
	log *slog.Logger
}

var loadEnv = func() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &env{cfg: cfg, log: logger.New(cfg.Log)}, nil
}

var openDB = func(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	return database.NewPostgres(ctx, cfg)
}
