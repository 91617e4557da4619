package core

import (
	"context"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franswap/bot-discord-immobilier/internal/command"
)

func fixedEmoji(t *testing.T, e string) {
	t.Helper()
	prev := randomEmoji
	randomEmoji = func() string { return e }
	t.Cleanup(func() { randomEmoji = prev })
}

func TestTestCommand(t *testing.T) {
	fixedEmoji(t, "🤖")

	resp, err := Test().Handler(context.Background(), &command.Invocation{})
	require.NoError(t, err)
	assert.Equal(t, discordgo.InteractionResponseChannelMessageWithSource, resp.Type)
	assert.Equal(t, "hello world 🤖", resp.Data.Content)
}

func TestImmobilierCommand(t *testing.T) {
	fixedEmoji(t, "✨")

	resp, err := Immobilier().Handler(context.Background(), &command.Invocation{})
	require.NoError(t, err)
	assert.Equal(t, "✨Nous allons revolutionner le marché de l'immobilier ✨", resp.Data.Content)
}

func TestRandomEmojiComesFromList(t *testing.T) {
	for i := 0; i < 50; i++ {
		assert.Contains(t, emojis, randomEmoji())
	}
}

func TestHelpGroupsByCategory(t *testing.T) {
	reg := command.NewRegistry()
	reg.MustRegister(Test(), Immobilier(), Help(reg))

	text := BuildHelp(reg)
	assert.Contains(t, text, "`/test` - Basic command")
	assert.Contains(t, text, "`/help` - Get a list of available commands")

	info := strings.Index(text, "🕯️ Information")
	immo := strings.Index(text, "🏠 Immobilier")
	require.NotEqual(t, -1, info)
	require.NotEqual(t, -1, immo)
	assert.Less(t, info, immo)

	resp, err := reg.Resolve("help")
	require.NoError(t, err)
	out, err := resp.Handler(context.Background(), &command.Invocation{})
	require.NoError(t, err)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, out.Data.Flags)
}
