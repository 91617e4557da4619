// Package middleware provides command.Middleware implementations shared by all commands.
package middleware

import (
	"github.com/franswap/bot-discord-immobilier/internal/command"
)

// Defaults is the chain every command runs through, outermost first.
func Defaults(limiter Allower) []command.Middleware {
	return []command.Middleware{
		WithCommandLogger(),
		WithCooldown(limiter),
	}
}
