// Package properties lists the houses of the catalog and takes a selection.
package properties

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/franswap/bot-discord-immobilier/internal/catalog"
	"github.com/franswap/bot-discord-immobilier/internal/command"
	"github.com/franswap/bot-discord-immobilier/internal/response"
	"github.com/franswap/bot-discord-immobilier/pkg/customid"
)

const ActionHouse = "house"

// New returns the /properties descriptor over cat.
func New(cat *catalog.Catalog) *command.Descriptor {
	return &command.Descriptor{
		Name:        "properties",
		Description: "Propose a list of clickable house cards",
		Category:    "🏠 Immobilier",
		Handler: func(context.Context, *command.Invocation) (*discordgo.InteractionResponse, error) {
			return list(cat)
		},
		Components: map[string]command.Component{
			ActionHouse: {Handler: func(_ context.Context, inv *command.Invocation) (*discordgo.InteractionResponse, error) {
				return selected(cat, inv.Component.Reference)
			}},
		},
	}
}

func list(cat *catalog.Catalog) (*discordgo.InteractionResponse, error) {
	row := make(response.Row, 0, cat.Len())
	for _, h := range cat.Houses() {
		row = append(row, response.Button(customid.New(ActionHouse, h.ID), h.Name))
	}
	return response.Message("Veuillez sélectionner une maison:", row)
}

func selected(cat *catalog.Catalog, houseID string) (*discordgo.InteractionResponse, error) {
	h, err := cat.Lookup(houseID)
	if errors.Is(err, catalog.ErrUnknownProperty) {
		return nil, command.Userf("Cette maison n'est plus disponible.")
	}
	if err != nil {
		return nil, err
	}
	return response.Message(fmt.Sprintf("Vous avez sélectionné la %s, nous vous recontacterons bientôt.", h.Name))
}
