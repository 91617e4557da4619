// Package core holds the plain text commands and the command listing.
package core

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/franswap/bot-discord-immobilier/internal/command"
	"github.com/franswap/bot-discord-immobilier/internal/response"
)

// Test replies with a greeting.
func Test() *command.Descriptor {
	return &command.Descriptor{
		Name:        "test",
		Description: "Basic command",
		Category:    "🕯️ Information",
		Handler: func(context.Context, *command.Invocation) (*discordgo.InteractionResponse, error) {
			return response.Message("hello world " + randomEmoji())
		},
	}
}

// Immobilier announces the project.
func Immobilier() *command.Descriptor {
	return &command.Descriptor{
		Name:        "immobilier",
		Description: "Basic command",
		Category:    "🏠 Immobilier",
		Handler: func(context.Context, *command.Invocation) (*discordgo.InteractionResponse, error) {
			return response.Message(randomEmoji() + "Nous allons revolutionner le marché de l'immobilier " + randomEmoji())
		},
	}
}
