package user

import (
	"context"

	"github.com/chatlab/chatlab-server/internal/utils/idgen"
	"github.com/chatlab/chatlab-server/internal/utils/platformerrors"
)

const publicIDLength = 16

// Service persists and resolves users from external identities.
type Service struct {
	repo Repository
}

// NewService constructs a Service with required dependencies.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// EnsureUser persists the given identity and returns the internal user record.
// A new user is minted with a fresh public ID; an existing user keeps theirs.
func (s *Service) EnsureUser(ctx context.Context, identity Identity) (*User, error) {
	if identity.Issuer == "" || identity.Subject == "" || identity.Email == "" {
		return nil, ErrInvalidIdentity
	}

	authProvider := identity.Provider
	if authProvider == "" {
		authProvider = "supabase"
	}

	publicID, err := idgen.GenerateSecureID("user", publicIDLength)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal, "failed to generate user ID", err, "8f21c4da-6a3e-4b6f-9c1d-2e7a5b4c3d1e")
	}

	usr := &User{
		PublicID:     publicID,
		AuthProvider: authProvider,
		Issuer:       identity.Issuer,
		Subject:      identity.Subject,
		Username:     identity.Username,
		Email:        identity.Email,
		Name:         identity.Name,
		Picture:      identity.Picture,
		IsActive:     true,
	}

	return s.repo.Upsert(ctx, usr)
}

// GetByPublicID returns the user with the given public ID.
func (s *Service) GetByPublicID(ctx context.Context, publicID string) (*User, error) {
	if !idgen.ValidateIDFormat(publicID, "user") {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid user ID", nil, "1a2b3c4d-5e6f-4a7b-8c9d-0e1f2a3b4c5e")
	}

	usr, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to find user")
	}
	if usr == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "user not found", nil, "2b3c4d5e-6f7a-4b8c-9d0e-1f2a3b4c5d6f")
	}
	return usr, nil
}

// UpdateProfile applies a partial profile update to the given user.
func (s *Service) UpdateProfile(ctx context.Context, usr *User, patch ProfilePatch) (*User, error) {
	if patch.Name != nil {
		usr.Name = patch.Name
	}
	if patch.Picture != nil {
		usr.Picture = patch.Picture
	}

	updated, err := s.repo.Update(ctx, usr)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update user profile")
	}
	return updated, nil
}

// Deactivate soft-deletes the user's account. The record survives so
// conversations and characters keep valid ownership references.
func (s *Service) Deactivate(ctx context.Context, usr *User) error {
	usr.IsActive = false
	if _, err := s.repo.Update(ctx, usr); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to deactivate user")
	}
	return nil
}
