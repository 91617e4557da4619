// Package response builds interaction replies and enforces Discord's layout limits.
package response

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"github.com/franswap/bot-discord-immobilier/pkg/customid"
)

const (
	MaxRowsPerMessage = 1
	MaxElementsPerRow = 5
	MaxContentLength  = 2000
)

var (
	ErrTooManyComponents    = errors.New("too many components")
	ErrDuplicateComponentID = errors.New("duplicate component id")
	ErrEmptyMessage         = errors.New("message has no content and no components")
)

// Row is one action row of interactive elements.
type Row []discordgo.MessageComponent

// Button is a primary-styled button carrying id.
func Button(id customid.ID, label string) discordgo.Button {
	return StyledButton(id, label, discordgo.PrimaryButton)
}

// StyledButton is a button with an explicit style.
func StyledButton(id customid.ID, label string, style discordgo.ButtonStyle) discordgo.Button {
	return discordgo.Button{
		CustomID: id.String(),
		Label:    label,
		Style:    style,
	}
}

// Pong acknowledges a PING.
func Pong() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{Type: discordgo.InteractionResponsePong}
}

// Message is a new channel message (type 4).
func Message(content string, rows ...Row) (*discordgo.InteractionResponse, error) {
	return build(discordgo.InteractionResponseChannelMessageWithSource, content, 0, rows)
}

// Update edits the message the component was attached to (type 7).
// Passing no rows removes the existing components.
func Update(content string, rows ...Row) (*discordgo.InteractionResponse, error) {
	resp, err := build(discordgo.InteractionResponseUpdateMessage, content, 0, rows)
	if err != nil {
		return nil, err
	}
	if resp.Data.Components == nil {
		resp.Data.Components = []discordgo.MessageComponent{}
	}
	return resp, nil
}

// EphemeralMessage is a message only the invoker sees.
func EphemeralMessage(content string, rows ...Row) (*discordgo.InteractionResponse, error) {
	return build(discordgo.InteractionResponseChannelMessageWithSource, content, discordgo.MessageFlagsEphemeral, rows)
}

// Ephemeral is a text-only ephemeral message. It never fails.
func Ephemeral(content string) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: truncate(content),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}
}

// Deferred acknowledges now and leaves the reply to a later follow-up (type 5).
func Deferred(ephemeral bool) *discordgo.InteractionResponse {
	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}
	if ephemeral {
		resp.Data = &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral}
	}
	return resp
}

func build(typ discordgo.InteractionResponseType, content string, flags discordgo.MessageFlags, rows []Row) (*discordgo.InteractionResponse, error) {
	if content == "" && len(rows) == 0 {
		return nil, ErrEmptyMessage
	}
	if n := utf8.RuneCountInString(content); n > MaxContentLength {
		return nil, fmt.Errorf("content is %d characters, limit is %d", n, MaxContentLength)
	}
	components, err := layout(rows)
	if err != nil {
		return nil, err
	}
	return &discordgo.InteractionResponse{
		Type: typ,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: components,
			Flags:      flags,
		},
	}, nil
}

func layout(rows []Row) ([]discordgo.MessageComponent, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	if len(rows) > MaxRowsPerMessage {
		return nil, fmt.Errorf("%w: %d rows, limit is %d", ErrTooManyComponents, len(rows), MaxRowsPerMessage)
	}

	seen := make(map[string]struct{})
	out := make([]discordgo.MessageComponent, 0, len(rows))
	for i, row := range rows {
		if len(row) == 0 {
			return nil, fmt.Errorf("row %d is empty", i)
		}
		if len(row) > MaxElementsPerRow {
			return nil, fmt.Errorf("%w: row %d has %d elements, limit is %d", ErrTooManyComponents, i, len(row), MaxElementsPerRow)
		}
		for _, c := range row {
			id := componentID(c)
			if id == "" {
				continue
			}
			if _, dup := seen[id]; dup {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateComponentID, id)
			}
			if _, err := customid.Parse(id); err != nil {
				return nil, err
			}
			seen[id] = struct{}{}
		}
		out = append(out, discordgo.ActionsRow{Components: row})
	}
	return out, nil
}

// componentID returns the custom id of an interactive element, or "" for link buttons.
func componentID(c discordgo.MessageComponent) string {
	switch v := c.(type) {
	case discordgo.Button:
		return v.CustomID
	case *discordgo.Button:
		return v.CustomID
	case discordgo.SelectMenu:
		return v.CustomID
	case *discordgo.SelectMenu:
		return v.CustomID
	}
	return ""
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= MaxContentLength {
		return s
	}
	return string([]rune(s)[:MaxContentLength-1]) + "…"
}
