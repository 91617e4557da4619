// Package challenge implements the rock paper scissors challenge: the
// command opens a session, Accept and the object buttons drive it to a result.
package challenge

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/franswap/bot-discord-immobilier/internal/command"
	"github.com/franswap/bot-discord-immobilier/internal/response"
	"github.com/franswap/bot-discord-immobilier/internal/session"
	"github.com/franswap/bot-discord-immobilier/pkg/customid"
)

const (
	ActionAccept = "accept"

	keyObject   = "objectName"
	keyOpponent = "opponentId"
	keyResolved = "resolved"
)

var errResolved = errors.New("challenge already resolved")

type handlers struct {
	store *session.Store
}

// New returns the /challenge descriptor backed by store.
func New(store *session.Store) *command.Descriptor {
	h := &handlers{store: store}

	choices := make([]command.Choice, 0, len(objects))
	components := map[string]command.Component{
		ActionAccept: {Handler: h.accept, Stateful: true},
	}
	for _, o := range objects {
		choices = append(choices, command.Choice{Name: label(o), Value: o})
		components[o] = command.Component{Handler: h.choose, Stateful: true}
	}

	return &command.Descriptor{
		Name:        "challenge",
		Description: "Challenge to a match of rock paper scissors",
		Category:    "🎲 Gameplay",
		Options: []command.Option{
			{
				Name:        "object",
				Description: "Pick your object",
				Type:        command.String,
				Required:    true,
				Choices:     choices,
			},
		},
		Handler:    h.start,
		Components: components,
	}
}

func (h *handlers) start(_ context.Context, inv *command.Invocation) (*discordgo.InteractionResponse, error) {
	if inv.InvokerID == "" {
		return nil, command.Userf("Could not tell who started this challenge.")
	}
	object := inv.String("object")

	if _, err := h.store.Create(inv.InteractionID, inv.InvokerID, map[string]any{keyObject: object}); err != nil {
		return nil, fmt.Errorf("start challenge: %w", err)
	}

	resp, err := response.Message(
		fmt.Sprintf("Rock papers scissors challenge from <@%s>", inv.InvokerID),
		response.Row{response.Button(customid.New(ActionAccept, inv.InteractionID), "Accept")},
	)
	if err != nil {
		h.store.Remove(inv.InteractionID)
		return nil, err
	}
	return resp, nil
}

func (h *handlers) accept(_ context.Context, inv *command.Invocation) (*discordgo.InteractionResponse, error) {
	sess := inv.Session
	if sess.OwnerID == inv.InvokerID {
		return nil, command.Userf("You cannot accept your own challenge.")
	}

	_, err := h.store.Update(sess.ID, func(p map[string]any) error {
		if opp, _ := p[keyOpponent].(string); opp != "" && opp != inv.InvokerID {
			return command.Userf("Someone else already accepted this challenge.")
		}
		p[keyOpponent] = inv.InvokerID
		return nil
	})
	if err != nil {
		return nil, err
	}

	row := make(response.Row, 0, len(objects))
	for _, o := range objects {
		row = append(row, response.StyledButton(customid.New(o, sess.ID), label(o), discordgo.SecondaryButton))
	}
	return response.EphemeralMessage("What is your object of choice?", row)
}

func (h *handlers) choose(_ context.Context, inv *command.Invocation) (*discordgo.InteractionResponse, error) {
	sess := inv.Session
	picked := inv.Component.Action

	final, err := h.store.Update(sess.ID, func(p map[string]any) error {
		if opp, _ := p[keyOpponent].(string); opp != inv.InvokerID {
			return command.Userf("Accept the challenge before picking an object.")
		}
		if done, _ := p[keyResolved].(bool); done {
			return errResolved
		}
		p[keyResolved] = true
		return nil
	})
	if errors.Is(err, errResolved) {
		return nil, fmt.Errorf("challenge %s: %w", sess.ID, session.ErrSessionNotFound)
	}
	if err != nil {
		return nil, err
	}
	h.store.Remove(sess.ID)

	return response.Message(result(final.OwnerID, final.String(keyObject), inv.InvokerID, picked))
}

func result(owner, ownerObject, opponent, opponentObject string) string {
	head := fmt.Sprintf("<@%s> picked **%s**, <@%s> picked **%s**. ", owner, label(ownerObject), opponent, label(opponentObject))
	switch Compare(ownerObject, opponentObject) {
	case FirstWins:
		return head + fmt.Sprintf("<@%s> wins!", owner)
	case SecondWins:
		return head + fmt.Sprintf("<@%s> wins!", opponent)
	}
	return head + "It's a draw!"
}
