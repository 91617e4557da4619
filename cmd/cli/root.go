package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/franswap/bot-discord-immobilier/internal/bot"
	"github.com/franswap/bot-discord-immobilier/internal/catalog"
	"github.com/franswap/bot-discord-immobilier/internal/command"
	"github.com/franswap/bot-discord-immobilier/internal/config"
	"github.com/franswap/bot-discord-immobilier/internal/logging"
	"github.com/franswap/bot-discord-immobilier/internal/session"
	v "github.com/franswap/bot-discord-immobilier/internal/version"
)

// app is what every subcommand shares once PersistentPreRunE has run.
type app struct {
	cfg      *config.Config
	sessions *session.Store
	registry *command.Registry
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var logLevel string

	rootCmd := &cobra.Command{
		Use:           "immobilier-cli",
		Short:         "Operator tools for the immobilier Discord bot",
		Long:          "immobilier-cli registers slash commands with Discord, lists what the bot serves and replays interactions locally.",
		Version:       v.String(),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if _, _, err := logging.Setup(logging.Options{Level: cfg.LogLevel, Format: "console"}); err != nil {
				return err
			}

			a.cfg = cfg
			a.sessions = session.NewStore(cfg.SessionTTL)
			a.registry, err = bot.NewRegistry(a.sessions, catalog.Default())
			if err != nil {
				return fmt.Errorf("register commands: %w", err)
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL")

	rootCmd.AddCommand(
		newRegisterCmd(a),
		newCommandsCmd(a),
		newSimulateCmd(a),
	)
	return rootCmd
}
