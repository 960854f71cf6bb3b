package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/keshon/lavaqueue/datastore"
	"github.com/keshon/lavaqueue/internal/config"
	"github.com/keshon/lavaqueue/internal/discord"
	"github.com/keshon/lavaqueue/internal/logger"
	v "github.com/keshon/lavaqueue/internal/version"
)

func main() {
	cfg := config.New()
	log := logger.Setup(cfg.Debug, cfg.LogPath)
	log.Info().Str("version", v.AppVersion).Msgf("starting %s", v.AppName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := datastore.New(cfg.StoragePath)
	if err != nil {
		log.Fatal().Err(err).Msg("opening datastore failed")
	}
	defer db.Close()

	errCh := make(chan error, 1)
	go func() {
		errCh <- discord.StartBot(ctx, cfg, db, log)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("shutting down")
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("bot exited with error")
		}
		cancel()
	}

	log.Info().Msg("bot exited cleanly")
}
