package middleware

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franswap/bot-discord-immobilier/internal/command"
	"github.com/franswap/bot-discord-immobilier/internal/cooldown"
	"github.com/franswap/bot-discord-immobilier/pkg/customid"
)

func countingHandler(calls *int) command.Handler {
	return func(context.Context, *command.Invocation) (*discordgo.InteractionResponse, error) {
		*calls++
		return &discordgo.InteractionResponse{Type: discordgo.InteractionResponseChannelMessageWithSource}, nil
	}
}

func TestWithCooldown(t *testing.T) {
	calls := 0
	h := WithCooldown(cooldown.New(0.001, 1))(countingHandler(&calls))
	inv := &command.Invocation{InvokerID: "u1"}

	_, err := h(context.Background(), inv)
	require.NoError(t, err)

	_, err = h(context.Background(), inv)
	assert.ErrorIs(t, err, ErrCooldown)
	assert.Equal(t, 1, calls)
}

func TestWithCooldownDisabled(t *testing.T) {
	calls := 0
	h := WithCooldown(cooldown.New(0, 0))(countingHandler(&calls))
	for i := 0; i < 10; i++ {
		_, err := h(context.Background(), &command.Invocation{InvokerID: "u1"})
		require.NoError(t, err)
	}
	assert.Equal(t, 10, calls)

	h = WithCooldown(nil)(countingHandler(&calls))
	_, err := h(context.Background(), &command.Invocation{InvokerID: "u1"})
	assert.NoError(t, err)
}

func TestWithCommandLoggerPassesThrough(t *testing.T) {
	calls := 0
	h := command.Apply(countingHandler(&calls), Defaults(nil)...)

	resp, err := h(context.Background(), &command.Invocation{
		Command:   "properties",
		Component: customid.New("house", "house3"),
	})
	require.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, 1, calls)
}
