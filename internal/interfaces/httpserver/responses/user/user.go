package userresponses

import "github.com/chatlab/chatlab-server/internal/domain/user"

// UserResponse is the authenticated user's own profile.
type UserResponse struct {
	ID        string  `json:"id"`
	Object    string  `json:"object"`
	Username  *string `json:"username,omitempty"`
	Email     string  `json:"email"`
	Name      *string `json:"name,omitempty"`
	Picture   *string `json:"picture,omitempty"`
	IsActive  bool    `json:"is_active"`
	CreatedAt int64   `json:"created_at"`
	UpdatedAt int64   `json:"updated_at"`
}

// NewUserResponse converts a domain user into its response form.
func NewUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.PublicID,
		Object:    "user",
		Username:  u.Username,
		Email:     u.Email,
		Name:      u.Name,
		Picture:   u.Picture,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.Unix(),
		UpdatedAt: u.UpdatedAt.Unix(),
	}
}
