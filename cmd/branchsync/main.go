package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/branch-sync/internal/app"
	"github.com/samvad-hq/branch-sync/internal/config"
	"github.com/samvad-hq/branch-sync/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "branchsync start failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("branchsync starting", "config", map[string]any{
		"app_env":       cfg.Env,
		"base_url":      cfg.BaseURL,
		"resources":     cfg.Resources,
		"serialization": cfg.Serialization,
		"storage_type":  cfg.StorageType,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	syncer, err := app.NewSyncer(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize syncer", "error", err)
		return err
	}

	if err := syncer.Run(ctx); err != nil {
		return fmt.Errorf("syncer run: %w", err)
	}

	return nil
}
