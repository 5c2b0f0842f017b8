package dbschema

import (
	"github.com/chatlab/chatlab-server/internal/domain/character"
	"github.com/chatlab/chatlab-server/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Character{})
}

// Character represents the persisted persona schema. A null CreatedByID
// marks a built-in character.
type Character struct {
	BaseModel
	PublicID    string  `gorm:"type:varchar(50);uniqueIndex;not null"`
	Name        string  `gorm:"type:varchar(255);not null"`
	Role        string  `gorm:"type:varchar(255);not null"`
	Personality string  `gorm:"type:text;not null"`
	AvatarURL   *string `gorm:"type:varchar(512)"`
	IsActive    bool    `gorm:"not null;default:true;index:idx_characters_active_public"`
	IsPublic    bool    `gorm:"not null;default:false;index:idx_characters_active_public"`
	CreatedByID *uint   `gorm:"index"`
	CreatedBy   *User   `gorm:"foreignKey:CreatedByID"`
}

// NewSchemaCharacter converts a domain character into a schema instance.
func NewSchemaCharacter(c *character.Character) *Character {
	if c == nil {
		return nil
	}

	return &Character{
		BaseModel: BaseModel{
			ID:        c.ID,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		},
		PublicID:    c.PublicID,
		Name:        c.Name,
		Role:        c.Role,
		Personality: c.Personality,
		AvatarURL:   c.AvatarURL,
		IsActive:    c.IsActive,
		IsPublic:    c.IsPublic,
		CreatedByID: c.CreatedByID,
	}
}

// EtoD converts a schema character back to the domain representation.
func (c *Character) EtoD() *character.Character {
	if c == nil {
		return nil
	}

	return &character.Character{
		ID:          c.ID,
		PublicID:    c.PublicID,
		Name:        c.Name,
		Role:        c.Role,
		Personality: c.Personality,
		AvatarURL:   c.AvatarURL,
		IsActive:    c.IsActive,
		IsPublic:    c.IsPublic,
		CreatedByID: c.CreatedByID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
