package characterresponses

import (
	"github.com/chatlab/chatlab-server/internal/domain/character"
	"github.com/chatlab/chatlab-server/internal/utils/functional"
)

// CharacterResponse is the public representation of a character persona.
type CharacterResponse struct {
	ID          string  `json:"id"`
	Object      string  `json:"object"`
	Name        string  `json:"name"`
	Role        string  `json:"role"`
	Personality string  `json:"personality"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	IsPublic    bool    `json:"is_public"`
	IsActive    bool    `json:"is_active"`
	IsBuiltin   bool    `json:"is_builtin"`
	CreatedAt   int64   `json:"created_at"`
	UpdatedAt   int64   `json:"updated_at"`
}

// NewCharacterResponse converts a domain character into its response form.
func NewCharacterResponse(c *character.Character) CharacterResponse {
	return CharacterResponse{
		ID:          c.PublicID,
		Object:      "character",
		Name:        c.Name,
		Role:        c.Role,
		Personality: c.Personality,
		AvatarURL:   c.AvatarURL,
		IsPublic:    c.IsPublic,
		IsActive:    c.IsActive,
		IsBuiltin:   c.CreatedByID == nil,
		CreatedAt:   c.CreatedAt.Unix(),
		UpdatedAt:   c.UpdatedAt.Unix(),
	}
}

// NewCharacterResponses converts a slice of domain characters.
func NewCharacterResponses(characters []*character.Character) []CharacterResponse {
	return functional.Map(characters, func(c *character.Character) CharacterResponse {
		return NewCharacterResponse(c)
	})
}
