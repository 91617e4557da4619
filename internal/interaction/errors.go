package interaction

import (
	"errors"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/franswap/bot-discord-immobilier/internal/command"
	"github.com/franswap/bot-discord-immobilier/internal/middleware"
	"github.com/franswap/bot-discord-immobilier/internal/response"
	"github.com/franswap/bot-discord-immobilier/internal/session"
	"github.com/franswap/bot-discord-immobilier/pkg/customid"
)

// errorReply maps a request-level failure to the ephemeral message shown to the invoker.
func (d *Dispatcher) errorReply(in *Interaction, err error) *discordgo.InteractionResponse {
	ev := log.Warn().Err(err).
		Str("kind", in.Kind.String()).
		Str("interaction", in.ID).
		Str("user", in.InvokerID)

	var (
		userErr *command.UserError
		optErr  *command.OptionError
		msg     string
	)
	switch {
	case errors.As(err, &userErr):
		ev = log.Debug().Err(err).Str("interaction", in.ID)
		msg = userErr.Message
	case errors.Is(err, command.ErrUnknownCommand):
		msg = "Unknown command."
	case errors.As(err, &optErr) && errors.Is(err, command.ErrMissingRequiredOption):
		msg = "Missing required option `" + optErr.Option + "`."
	case errors.As(err, &optErr):
		msg = "Invalid value for option `" + optErr.Option + "`."
	case errors.Is(err, customid.ErrMalformed), errors.Is(err, command.ErrUnknownComponent):
		msg = "This button is not recognised."
	case errors.Is(err, session.ErrSessionNotFound):
		msg = "This game has expired or no longer exists."
	case errors.Is(err, session.ErrDuplicateSession):
		msg = "This game has already started."
	case errors.Is(err, middleware.ErrCooldown):
		ev = log.Debug().Err(err).Str("user", in.InvokerID)
		msg = "Slow down! Try again in a moment."
	case errors.Is(err, response.ErrTooManyComponents), errors.Is(err, response.ErrDuplicateComponentID):
		ev = log.Error().Err(err).Str("interaction", in.ID)
		msg = "Something went wrong while building the reply."
	default:
		ev = log.Error().Err(err).Str("kind", in.Kind.String()).Str("interaction", in.ID)
		msg = "Something went wrong. Please try again later."
	}

	ev.Msg("Interaction failed")
	return response.Ephemeral(msg)
}
