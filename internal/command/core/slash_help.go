package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/franswap/bot-discord-immobilier/internal/command"
	"github.com/franswap/bot-discord-immobilier/internal/response"
	"github.com/franswap/bot-discord-immobilier/internal/version"
)

// Help lists the commands in reg, grouped by category. The listing is built
// on each call so commands registered after Help are included.
func Help(reg *command.Registry) *command.Descriptor {
	return &command.Descriptor{
		Name:        "help",
		Description: "Get a list of available commands",
		Category:    "🕯️ Information",
		Handler: func(context.Context, *command.Invocation) (*discordgo.InteractionResponse, error) {
			return response.Ephemeral(BuildHelp(reg)), nil
		},
	}
}

// BuildHelp renders the category listing, in category weight order.
func BuildHelp(reg *command.Registry) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**%s help**\n\n", version.AppName))

	current := ""
	for _, d := range reg.All() {
		cat := d.Category
		if cat == "" {
			cat = "Other"
		}
		if cat != current {
			if current != "" {
				sb.WriteString("\n")
			}
			sb.WriteString(fmt.Sprintf("**%s**\n", cat))
			current = cat
		}
		sb.WriteString(fmt.Sprintf("`/%s` - %s\n", d.Name, d.Description))
	}
	return sb.String()
}
