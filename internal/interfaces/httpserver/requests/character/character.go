package characterrequests

// CreateCharacterRequest creates a new character persona.
type CreateCharacterRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Role        string  `json:"role" binding:"required,max=255"`
	Personality string  `json:"personality" binding:"required"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	IsPublic    bool    `json:"is_public"`
}

// UpdateCharacterRequest partially updates a character. Absent fields are
// left untouched.
type UpdateCharacterRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,max=255"`
	Role        *string `json:"role,omitempty" binding:"omitempty,max=255"`
	Personality *string `json:"personality,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	IsPublic    *bool   `json:"is_public,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}
