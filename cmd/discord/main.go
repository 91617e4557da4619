// cmd/discord/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/franswap/bot-discord-immobilier/internal/bot"
	"github.com/franswap/bot-discord-immobilier/internal/config"
	"github.com/franswap/bot-discord-immobilier/internal/logging"
	v "github.com/franswap/bot-discord-immobilier/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	_, closer, err := logging.Setup(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up logging")
	}
	defer closer.Close()

	log.Info().Str("version", v.String()).Msg("Starting interactions bot")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b, err := bot.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build bot")
	}

	errCh := make(chan error, 1)
	go func() {
		if err := b.Run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("Received signal, shutting down...")
		cancel()
		if err := <-errCh; err != nil {
			log.Error().Err(err).Msg("Bot stopped with error")
		}
	case err := <-errCh:
		cancel()
		if err != nil {
			closer.Close()
			log.Fatal().Err(err).Msg("Bot error")
		}
	}

	log.Info().Msg("Bot exited cleanly")
}
