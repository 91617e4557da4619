package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/franswap/bot-discord-immobilier/internal/discord"
)

func newRegisterCmd(a *app) *cobra.Command {
	var (
		force   bool
		guildID string
	)
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Push slash command definitions to Discord",
		Long:  "register replaces the application's slash commands, globally or in one guild. It does nothing when the definitions match the last successful push, unless --force is given.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.ValidateForRegister(); err != nil {
				return err
			}
			if !cmd.Flags().Changed("guild") {
				guildID = a.cfg.GuildID
			}

			dg, err := discord.NewSession(a.cfg.Token)
			if err != nil {
				return err
			}
			r := discord.NewRegistrar(dg, a.cfg.AppID, guildID, a.cfg.CommandCacheDir)
			res, err := r.Sync(cmd.Context(), a.registry.Definitions(), force)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res.Skipped {
				_, err = fmt.Fprintf(out, "%s: commands unchanged (%s)\n", res.Scope, res.Hash[:12])
				return err
			}
			_, err = fmt.Fprintf(out, "%s: registered %d commands (%s)\n", res.Scope, len(res.Registered), res.Hash[:12])
			return err
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "push even if nothing changed")
	cmd.Flags().StringVar(&guildID, "guild", "", "guild id to register in (default DISCORD_GUILD_ID, empty for global)")
	return cmd
}
