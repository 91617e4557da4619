package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/franswap/bot-discord-immobilier/internal/command"
	"github.com/franswap/bot-discord-immobilier/internal/interaction"
)

type simulateFlags struct {
	user  string
	guild string
	opts  []string
	then  []string
}

func newSimulateCmd(a *app) *cobra.Command {
	f := &simulateFlags{}
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run interactions through the dispatcher locally and print the replies",
		Long: `simulate feeds interactions to the dispatcher without Discord or signatures.

Follow-up clicks given with --then run in the same process, so sessions
created by the first interaction are visible to them. In a --then value,
{id} is replaced by the id of the first interaction.`,
		Example: `  immobilier-cli simulate command properties
  immobilier-cli simulate component house_house3
  immobilier-cli simulate command challenge --opt object=rock --user u1 --then u2:accept_{id} --then u2:paper_{id}`,
	}
	cmd.PersistentFlags().StringVar(&f.user, "user", "cli-user", "invoker user id")
	cmd.PersistentFlags().StringVar(&f.guild, "guild", "", "guild id")
	cmd.PersistentFlags().StringArrayVar(&f.then, "then", nil, "follow-up click as user:custom_id (repeatable)")

	ping := &cobra.Command{
		Use:   "ping",
		Short: "Send a PING",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.simulate(cmd, f, &interaction.Interaction{Kind: interaction.KindPing, Type: discordgo.InteractionPing})
		},
	}

	slash := &cobra.Command{
		Use:   "command <name>",
		Short: "Send a slash command",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := parseOptions(f.opts)
			if err != nil {
				return err
			}
			return a.simulate(cmd, f, &interaction.Interaction{
				Kind:        interaction.KindCommand,
				Type:        discordgo.InteractionApplicationCommand,
				CommandName: args[0],
				Options:     opts,
			})
		},
	}
	slash.Flags().StringArrayVar(&f.opts, "opt", nil, "option as name=value; value is read as JSON when it parses (repeatable)")

	var values []string
	component := &cobra.Command{
		Use:   "component <custom_id>",
		Short: "Send a button or select click",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.simulate(cmd, f, &interaction.Interaction{
				Kind:        interaction.KindComponent,
				Type:        discordgo.InteractionMessageComponent,
				ComponentID: args[0],
				Values:      values,
			})
		},
	}
	component.Flags().StringArrayVar(&values, "value", nil, "selected value (repeatable)")

	cmd.AddCommand(ping, slash, component)
	return cmd
}

func (a *app) simulate(cmd *cobra.Command, f *simulateFlags, first *interaction.Interaction) error {
	first.ID = uuid.NewString()
	first.InvokerID = f.user
	first.GuildID = f.guild

	steps := []*interaction.Interaction{first}
	for _, t := range f.then {
		user, customID, ok := strings.Cut(t, ":")
		if !ok || user == "" || customID == "" {
			return fmt.Errorf("--then %q: want user:custom_id", t)
		}
		steps = append(steps, &interaction.Interaction{
			Kind:        interaction.KindComponent,
			Type:        discordgo.InteractionMessageComponent,
			ID:          uuid.NewString(),
			GuildID:     f.guild,
			InvokerID:   user,
			ComponentID: strings.ReplaceAll(customID, "{id}", first.ID),
		})
	}

	d := interaction.New(a.registry, a.sessions)
	out := cmd.OutOrStdout()
	for _, in := range steps {
		resp := d.Dispatch(cmd.Context(), in)
		if err := printStep(out, in, resp); err != nil {
			return err
		}
	}
	return nil
}

func printStep(w io.Writer, in *interaction.Interaction, resp *discordgo.InteractionResponse) error {
	label := in.Kind.String()
	switch in.Kind {
	case interaction.KindCommand:
		label += " /" + in.CommandName
	case interaction.KindComponent:
		label += " " + in.ComponentID
	}
	if _, err := fmt.Fprintf(w, "# %s (user %s, id %s)\n", label, in.InvokerID, in.ID); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// parseOptions reads name=value pairs. An empty name binds by position.
func parseOptions(raw []string) ([]command.Provided, error) {
	opts := make([]command.Provided, 0, len(raw))
	for _, r := range raw {
		name, value, ok := strings.Cut(r, "=")
		if !ok {
			return nil, fmt.Errorf("--opt %q: want name=value", r)
		}
		var v any
		if err := json.Unmarshal([]byte(value), &v); err != nil {
			v = value
		}
		opts = append(opts, command.Provided{Name: name, Value: v})
	}
	return opts, nil
}
