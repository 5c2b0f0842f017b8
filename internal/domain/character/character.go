// Package character provides persona domain models and behaviors.
package character

import (
	"context"
	"strings"
	"time"

	"github.com/chatlab/chatlab-server/internal/domain/query"
)

// Character models a persona that can take part in conversations. Built-in
// characters have no owner and are visible to everyone.
type Character struct {
	ID          uint
	PublicID    string
	Name        string
	Role        string
	Personality string
	AvatarURL   *string
	IsActive    bool
	IsPublic    bool
	CreatedByID *uint
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OwnedBy reports whether the character is owned by the given user.
// Built-in characters (no owner) are owned by nobody.
func (c *Character) OwnedBy(userID uint) bool {
	return c.CreatedByID != nil && *c.CreatedByID == userID
}

// VisibleTo reports whether the character may be read by the given viewer.
// A nil viewer is an anonymous caller and only sees public characters.
func (c *Character) VisibleTo(viewerID *uint) bool {
	if c.IsPublic {
		return true
	}
	return viewerID != nil && c.OwnedBy(*viewerID)
}

// Validate checks the required persona fields.
func (c *Character) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(c.Role) == "" {
		return ErrRoleRequired
	}
	if strings.TrimSpace(c.Personality) == "" {
		return ErrPersonalityRequired
	}
	return nil
}

// CreateInput carries the fields for a new character.
type CreateInput struct {
	Name        string
	Role        string
	Personality string
	AvatarURL   *string
	IsPublic    bool
}

// Patch describes a partial update to a character. Nil fields are left
// untouched.
type Patch struct {
	Name        *string
	Role        *string
	Personality *string
	AvatarURL   *string
	IsPublic    *bool
	IsActive    *bool
}

// Filter narrows character list queries. VisibleToUserID expands the
// result set from public-only to public-or-owned.
type Filter struct {
	VisibleToUserID *uint
	IsActive        *bool
}

// Repository defines storage operations for characters.
type Repository interface {
	Create(ctx context.Context, character *Character) (*Character, error)
	FindByID(ctx context.Context, id uint) (*Character, error)
	FindByIDs(ctx context.Context, ids []uint) ([]*Character, error)
	FindByPublicID(ctx context.Context, publicID string) (*Character, error)
	FindByName(ctx context.Context, name string) (*Character, error)
	FindByFilter(ctx context.Context, filter Filter, pagination *query.Pagination) ([]*Character, error)
	Update(ctx context.Context, character *Character) (*Character, error)
	Delete(ctx context.Context, id uint) error
}
