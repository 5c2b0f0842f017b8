package userrequests

// UpdateProfileRequest partially updates the caller's own profile.
type UpdateProfileRequest struct {
	Name    *string `json:"name,omitempty" binding:"omitempty,max=255"`
	Picture *string `json:"picture,omitempty" binding:"omitempty,max=512"`
}
