package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/franswap/bot-discord-immobilier/internal/command/core"
)

func newCommandsCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "commands",
		Short: "List the slash commands the bot serves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetEscapeHTML(false)
				enc.SetIndent("", "  ")
				return enc.Encode(a.registry.Definitions())
			}
			_, err := fmt.Fprint(out, core.BuildHelp(a.registry))
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the registration payload instead")
	return cmd
}
