// Package command holds the command registry: slash command descriptors,
// their option schemas, component handlers and handler middleware.
package command

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/franswap/bot-discord-immobilier/internal/session"
	"github.com/franswap/bot-discord-immobilier/pkg/customid"
)

// Handler runs a command or a component click and returns the reply.
type Handler func(ctx context.Context, inv *Invocation) (*discordgo.InteractionResponse, error)

// Invocation is the validated input of one interaction.
type Invocation struct {
	InteractionID string
	InvokerID     string
	GuildID       string
	ChannelID     string

	// Command is the owning command name, also set for component clicks.
	Command string
	Options []Value

	// Component and Values are set for component clicks.
	Component customid.ID
	Values    []string

	// Session is the state loaded for stateful component actions.
	Session *session.Session
}

// Option returns the validated option by name.
func (inv *Invocation) Option(name string) (Value, bool) {
	for _, v := range inv.Options {
		if v.Name == name {
			return v, v.Set
		}
	}
	return Value{}, false
}

// String returns a string option or "".
func (inv *Invocation) String(name string) string {
	v, _ := inv.Option(name)
	s, _ := v.Value.(string)
	return s
}

// IsComponent reports whether the invocation is a component click.
func (inv *Invocation) IsComponent() bool {
	return inv.Component.Action != ""
}

// Component is a click handler owned by a command.
type Component struct {
	Handler Handler
	// Stateful components need the session referenced by the custom id.
	Stateful bool
}

// Descriptor describes one slash command. It must not change after Register.
type Descriptor struct {
	Name        string
	Description string
	Category    string
	Options     []Option
	Handler     Handler
	// Components maps a custom id action to its handler.
	Components map[string]Component
}

// SlashDefinition is the payload sent to Discord when registering the command.
func (d *Descriptor) SlashDefinition() *discordgo.ApplicationCommand {
	def := &discordgo.ApplicationCommand{
		Name:        d.Name,
		Description: d.Description,
		Type:        discordgo.ChatApplicationCommand,
	}
	for _, o := range d.Options {
		def.Options = append(def.Options, o.definition())
	}
	return def
}
