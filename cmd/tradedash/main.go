package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"tradedash/internal/infrastructure/config"
	"tradedash/internal/infrastructure/logger"
	"tradedash/internal/infrastructure/svc"

	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "configs/config.toml", "path to config.toml")
	flag.Parse()

	logger.Setup("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("load config failed")
	}
	logger.Setup(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sc, err := svc.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init service context failed")
	}
	defer sc.Close()

	log.Info().
		Str("config", *configPath).
		Str("pair", cfg.App.Base+"/"+cfg.App.Quote).
		Dur("poll_interval", cfg.PollInterval()).
		Msg("tradedash started")

	if err := sc.Run(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("dashboard session exited")
	}
}
