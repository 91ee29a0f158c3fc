package main

import (
	"context"
	"log"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/tmnegociosdigitais/crmdesk/internal/bootstrap"
	"github.com/tmnegociosdigitais/crmdesk/internal/clock"
	"github.com/tmnegociosdigitais/crmdesk/internal/config"
	"github.com/tmnegociosdigitais/crmdesk/internal/observability"
	"github.com/tmnegociosdigitais/crmdesk/internal/seed"
)

func main() {
	path := pflag.StringP("file", "f", "seed.yaml", "seed document to apply")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	f, err := os.Open(*path)
	if err != nil {
		logger.Fatal("open seed file", zap.String("file", *path), zap.Error(err))
	}
	defer f.Close()
	file, err := seed.Parse(f)
	if err != nil {
		logger.Fatal("parse seed file", zap.String("file", *path), zap.Error(err))
	}

	ctx := context.Background()
	store, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer store.Close()

	result, err := seed.Apply(ctx, store, file, cfg.Auth.BcryptCost, clock.Real())
	if err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
	logger.Info("seed applied",
		zap.String("file", *path),
		zap.Int("plans", result.Plans),
		zap.Int("clients", result.Clients),
		zap.Int("queues", result.Queues),
		zap.Int("users", result.Users))
}
