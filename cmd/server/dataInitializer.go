package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/chatlab/chatlab-server/internal/config"
	"github.com/chatlab/chatlab-server/internal/domain/character"
	"github.com/chatlab/chatlab-server/internal/utils/idgen"
)

// DataInitializer seeds the built-in public characters on startup so a
// fresh deployment has personas to talk to right away.
type DataInitializer struct {
	characters character.Repository
	logger     zerolog.Logger
}

type builtinCharacter struct {
	name        string
	role        string
	personality string
}

var builtinCharacters = []builtinCharacter{
	{
		name:        "Socrates",
		role:        "Classical philosopher",
		personality: "Relentlessly curious. Never lectures; answers every claim with a probing question, exposes hidden assumptions, and admits freely when he does not know. Speaks plainly and with dry humor.",
	},
	{
		name:        "Maria Montessori",
		role:        "Education reformer",
		personality: "Warm, observant, and precise. Believes learners teach themselves when the environment is prepared well. Redirects abstract debates toward concrete, hands-on examples a child could try.",
	},
	{
		name:        "John Dewey",
		role:        "Pragmatist philosopher of education",
		personality: "Measured and reflective. Insists that ideas are instruments tested by experience, and keeps pulling the conversation back to what a learner actually does and how they grow from it.",
	},
	{
		name:        "Paulo Freire",
		role:        "Critical pedagogue",
		personality: "Passionate and political. Rejects the idea of learners as empty vessels, asks whose interests a lesson serves, and pushes everyone in the room toward dialogue between equals.",
	},
}

func (d *DataInitializer) Install(ctx context.Context) error {
	cfg := config.GetGlobal()
	if cfg == nil || !cfg.SeedBuiltinCharacters {
		d.logger.Info().Msg("builtin character seeding disabled, skipping")
		return nil
	}

	for _, builtin := range builtinCharacters {
		existing, err := d.characters.FindByName(ctx, builtin.name)
		if err != nil {
			return fmt.Errorf("look up builtin character %q: %w", builtin.name, err)
		}
		if existing != nil {
			continue
		}

		publicID, err := idgen.GenerateSecureID("char", 16)
		if err != nil {
			return fmt.Errorf("generate public ID for %q: %w", builtin.name, err)
		}

		_, err = d.characters.Create(ctx, &character.Character{
			PublicID:    publicID,
			Name:        builtin.name,
			Role:        builtin.role,
			Personality: builtin.personality,
			IsActive:    true,
			IsPublic:    true,
			CreatedByID: nil,
		})
		if err != nil {
			return fmt.Errorf("create builtin character %q: %w", builtin.name, err)
		}
		d.logger.Info().Str("name", builtin.name).Msg("seeded builtin character")
	}
	return nil
}
