// Package interaction turns Discord interaction payloads into command
// invocations and their replies.
package interaction

import (
	"encoding/json"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/franswap/bot-discord-immobilier/internal/command"
)

// Kind is the dispatch class of an interaction.
type Kind int

const (
	KindUnsupported Kind = iota
	KindPing
	KindCommand
	KindComponent
)

func (k Kind) String() string {
	switch k {
	case KindPing:
		return "ping"
	case KindCommand:
		return "command"
	case KindComponent:
		return "component"
	}
	return "unsupported"
}

// Interaction is the parsed, immutable view of an inbound payload.
type Interaction struct {
	Kind Kind
	// Type is the raw Discord interaction type.
	Type discordgo.InteractionType

	ID        string
	GuildID   string
	ChannelID string
	InvokerID string

	CommandName string
	Options     []command.Provided

	ComponentID string
	Values      []string
}

// interactionFields has the layout of discordgo.Interaction without its typed data decoding.
type interactionFields discordgo.Interaction

// Decode parses a raw webhook body. A payload without a data object still
// decodes; it classifies by type with empty data.
func Decode(body []byte) (*Interaction, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode interaction: %w", err)
	}

	var raw discordgo.Interaction
	var target any = &raw
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		target = (*interactionFields)(&raw)
	}
	if err := json.Unmarshal(body, target); err != nil {
		return nil, fmt.Errorf("decode interaction: %w", err)
	}
	return FromDiscord(&raw), nil
}

// FromDiscord classifies a discordgo interaction.
func FromDiscord(i *discordgo.Interaction) *Interaction {
	in := &Interaction{
		Type:      i.Type,
		ID:        i.ID,
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		InvokerID: invoker(i),
	}

	switch i.Type {
	case discordgo.InteractionPing:
		in.Kind = KindPing
	case discordgo.InteractionApplicationCommand:
		data, _ := i.Data.(discordgo.ApplicationCommandInteractionData)
		in.Kind = KindCommand
		in.CommandName = data.Name
		for _, o := range data.Options {
			if o == nil {
				continue
			}
			in.Options = append(in.Options, command.Provided{Name: o.Name, Value: o.Value})
		}
	case discordgo.InteractionMessageComponent:
		data, _ := i.Data.(discordgo.MessageComponentInteractionData)
		in.Kind = KindComponent
		in.ComponentID = data.CustomID
		in.Values = data.Values
	}
	return in
}

func invoker(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
