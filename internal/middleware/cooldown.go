package middleware

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"

	"github.com/franswap/bot-discord-immobilier/internal/command"
)

// ErrCooldown is returned when the invoker exceeded the per-user rate.
var ErrCooldown = errors.New("command rate exceeded")

// Allower is satisfied by *cooldown.Limiter.
type Allower interface {
	Allow(userID string) bool
}

// WithCooldown rejects invocations from users over their rate. A nil limiter disables the check.
func WithCooldown(limiter Allower) command.Middleware {
	return func(next command.Handler) command.Handler {
		return func(ctx context.Context, inv *command.Invocation) (*discordgo.InteractionResponse, error) {
			if limiter != nil && !limiter.Allow(inv.InvokerID) {
				return nil, ErrCooldown
			}
			return next(ctx, inv)
		}
	}
}
