package interaction

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/franswap/bot-discord-immobilier/internal/command"
	"github.com/franswap/bot-discord-immobilier/internal/response"
	"github.com/franswap/bot-discord-immobilier/internal/session"
	"github.com/franswap/bot-discord-immobilier/pkg/customid"
)

// ErrPanic wraps a recovered handler panic.
var ErrPanic = errors.New("handler panicked")

// Dispatcher routes interactions to registered commands and components.
type Dispatcher struct {
	registry   *command.Registry
	sessions   *session.Store
	middleware []command.Middleware
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithMiddleware wraps every command and component handler, first outermost.
func WithMiddleware(mws ...command.Middleware) Option {
	return func(d *Dispatcher) { d.middleware = append(d.middleware, mws...) }
}

// New creates a dispatcher over reg. sessions backs stateful components.
func New(reg *command.Registry, sessions *session.Store, opts ...Option) *Dispatcher {
	d := &Dispatcher{registry: reg, sessions: sessions}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch always produces a reply: request-level failures become ephemeral messages.
func (d *Dispatcher) Dispatch(ctx context.Context, in *Interaction) *discordgo.InteractionResponse {
	log.Debug().
		Str("kind", in.Kind.String()).
		Str("interaction", in.ID).
		Str("command", in.CommandName).
		Str("component", in.ComponentID).
		Str("user", in.InvokerID).
		Msg("Dispatching interaction")

	resp, err := d.Handle(ctx, in)
	if err != nil {
		return d.errorReply(in, err)
	}
	return resp
}

// Handle routes in and returns the handler's reply or its raw error.
func (d *Dispatcher) Handle(ctx context.Context, in *Interaction) (resp *discordgo.InteractionResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("interaction", in.ID).
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("Recovered from handler panic")
			resp, err = nil, fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()

	switch in.Kind {
	case KindPing:
		return response.Pong(), nil
	case KindCommand:
		return d.handleCommand(ctx, in)
	case KindComponent:
		return d.handleComponent(ctx, in)
	}
	log.Info().Int("type", int(in.Type)).Str("interaction", in.ID).Msg("Unsupported interaction type")
	return response.Ephemeral("This interaction is not supported."), nil
}

func (d *Dispatcher) handleCommand(ctx context.Context, in *Interaction) (*discordgo.InteractionResponse, error) {
	desc, err := d.registry.Resolve(in.CommandName)
	if err != nil {
		return nil, err
	}
	values, err := command.ValidateOptions(desc, in.Options)
	if err != nil {
		return nil, err
	}

	inv := d.invocation(in)
	inv.Command = desc.Name
	inv.Options = values
	return d.run(ctx, desc.Handler, inv)
}

func (d *Dispatcher) handleComponent(ctx context.Context, in *Interaction) (*discordgo.InteractionResponse, error) {
	id, err := customid.Parse(in.ComponentID)
	if err != nil {
		return nil, err
	}
	desc, comp, err := d.registry.ResolveComponent(id.Action)
	if err != nil {
		return nil, err
	}

	inv := d.invocation(in)
	inv.Command = desc.Name
	inv.Component = id
	inv.Values = in.Values
	if comp.Stateful {
		sess, err := d.sessions.Get(id.Reference)
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", id, err)
		}
		inv.Session = &sess
	}
	return d.run(ctx, comp.Handler, inv)
}

func (d *Dispatcher) invocation(in *Interaction) *command.Invocation {
	return &command.Invocation{
		InteractionID: in.ID,
		InvokerID:     in.InvokerID,
		GuildID:       in.GuildID,
		ChannelID:     in.ChannelID,
	}
}

func (d *Dispatcher) run(ctx context.Context, h command.Handler, inv *command.Invocation) (*discordgo.InteractionResponse, error) {
	resp, err := command.Apply(h, d.middleware...)(ctx, inv)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("%s returned no response", inv.Command)
	}
	return resp, nil
}
