// Package bot assembles the command registry, session store and dispatcher
// and runs the interactions endpoint.
package bot

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/franswap/bot-discord-immobilier/internal/catalog"
	"github.com/franswap/bot-discord-immobilier/internal/command"
	"github.com/franswap/bot-discord-immobilier/internal/command/challenge"
	"github.com/franswap/bot-discord-immobilier/internal/command/core"
	"github.com/franswap/bot-discord-immobilier/internal/command/properties"
	"github.com/franswap/bot-discord-immobilier/internal/config"
	"github.com/franswap/bot-discord-immobilier/internal/cooldown"
	"github.com/franswap/bot-discord-immobilier/internal/interaction"
	"github.com/franswap/bot-discord-immobilier/internal/middleware"
	"github.com/franswap/bot-discord-immobilier/internal/server"
	"github.com/franswap/bot-discord-immobilier/internal/session"
	"github.com/franswap/bot-discord-immobilier/internal/verify"
)

// Bot holds the runtime pieces shared by every request.
type Bot struct {
	cfg        *config.Config
	Registry   *command.Registry
	Sessions   *session.Store
	Limiter    *cooldown.Limiter
	Dispatcher *interaction.Dispatcher
}

// NewRegistry registers every command the bot serves.
func NewRegistry(sessions *session.Store, cat *catalog.Catalog) (*command.Registry, error) {
	reg := command.NewRegistry()
	for _, d := range []*command.Descriptor{
		core.Test(),
		core.Immobilier(),
		core.Help(reg),
		challenge.New(sessions),
		properties.New(cat),
	} {
		if err := reg.Register(d); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// New builds a Bot from cfg.
func New(cfg *config.Config) (*Bot, error) {
	sessions := session.NewStore(cfg.SessionTTL)
	reg, err := NewRegistry(sessions, catalog.Default())
	if err != nil {
		return nil, fmt.Errorf("register commands: %w", err)
	}
	limiter := cooldown.New(cfg.CommandRate, cfg.CommandBurst)

	return &Bot{
		cfg:        cfg,
		Registry:   reg,
		Sessions:   sessions,
		Limiter:    limiter,
		Dispatcher: interaction.New(reg, sessions, interaction.WithMiddleware(middleware.Defaults(limiter)...)),
	}, nil
}

// Run serves interactions until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.cfg.ValidateForServe(); err != nil {
		return err
	}
	verifier, err := verify.NewVerifier(b.cfg.PublicKey)
	if err != nil {
		return fmt.Errorf("public key: %w", err)
	}

	go session.RunSweeper(ctx, b.cfg.SessionSweepInterval, b.Sessions, b.Limiter)

	log.Info().
		Int("commands", len(b.Registry.All())).
		Dur("session_ttl", b.Sessions.TTL()).
		Msg("Bot ready")

	srv := server.New(b.cfg.Addr(), server.NewRouter(verifier, b.Dispatcher, b.cfg.RequestTimeout))
	if err := server.Run(ctx, srv); err != nil {
		return fmt.Errorf("interactions server: %w", err)
	}
	log.Info().Msg("❎ Shutdown complete")
	return nil
}
