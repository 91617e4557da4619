package middleware

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/franswap/bot-discord-immobilier/internal/command"
)

// WithCommandLogger logs every command and component invocation with its outcome.
func WithCommandLogger() command.Middleware {
	return func(next command.Handler) command.Handler {
		return func(ctx context.Context, inv *command.Invocation) (*discordgo.InteractionResponse, error) {
			start := time.Now()
			resp, err := next(ctx, inv)

			var ev *zerolog.Event
			if err != nil {
				ev = log.Warn().Err(err)
			} else {
				ev = log.Info()
			}
			ev = ev.Str("command", inv.Command).
				Str("interaction", inv.InteractionID).
				Str("user", inv.InvokerID).
				Str("guild", inv.GuildID).
				Dur("took", time.Since(start))
			if inv.IsComponent() {
				ev = ev.Str("component", inv.Component.String())
			}
			ev.Msg("Handled interaction")
			return resp, err
		}
	}
}
