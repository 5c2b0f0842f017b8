package character

import (
	"context"
	"errors"

	"github.com/chatlab/chatlab-server/internal/domain/query"
	"github.com/chatlab/chatlab-server/internal/utils/idgen"
	"github.com/chatlab/chatlab-server/internal/utils/platformerrors"
)

const publicIDLength = 16

var (
	ErrNameRequired        = errors.New("character name is required")
	ErrRoleRequired        = errors.New("character role is required")
	ErrPersonalityRequired = errors.New("character personality is required")
)

// Service implements character use cases.
type Service struct {
	repo Repository
}

// NewService constructs a Service with required dependencies.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create persists a new character owned by the given user. Characters are
// private unless the input asks for a public one.
func (s *Service) Create(ctx context.Context, ownerID uint, input CreateInput) (*Character, error) {
	publicID, err := idgen.GenerateSecureID("char", publicIDLength)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal, "failed to generate character ID", err, "4c1d2e3f-5a6b-4c7d-8e9f-0a1b2c3d4e5f")
	}

	char := &Character{
		PublicID:    publicID,
		Name:        input.Name,
		Role:        input.Role,
		Personality: input.Personality,
		AvatarURL:   input.AvatarURL,
		IsActive:    true,
		IsPublic:    input.IsPublic,
		CreatedByID: &ownerID,
	}

	if err := char.Validate(); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "character validation failed", err, "5d2e3f4a-6b7c-4d8e-9f0a-1b2c3d4e5f6a")
	}

	created, err := s.repo.Create(ctx, char)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create character")
	}
	return created, nil
}

// List returns characters visible to the viewer: public characters plus the
// viewer's own. An anonymous viewer (nil) sees public characters only.
func (s *Service) List(ctx context.Context, viewerID *uint, pagination *query.Pagination) ([]*Character, error) {
	active := true
	chars, err := s.repo.FindByFilter(ctx, Filter{
		VisibleToUserID: viewerID,
		IsActive:        &active,
	}, pagination)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list characters")
	}
	return chars, nil
}

// GetVisibleByPublicID returns a character by public ID if the viewer may see
// it. Invisible characters are reported as not found, not forbidden, so
// private IDs do not leak.
func (s *Service) GetVisibleByPublicID(ctx context.Context, viewerID *uint, publicID string) (*Character, error) {
	char, err := s.getByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if !char.VisibleTo(viewerID) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "character not found", nil, "6e3f4a5b-7c8d-4e9f-0a1b-2c3d4e5f6a7b")
	}
	return char, nil
}

// Update applies a partial update to a character. Only the owner may update;
// built-in characters have no owner and reject all updates.
func (s *Service) Update(ctx context.Context, actorID uint, publicID string, patch Patch) (*Character, error) {
	char, err := s.getByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if !char.VisibleTo(&actorID) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "character not found", nil, "7f4a5b6c-8d9e-4f0a-1b2c-3d4e5f6a7b8c")
	}
	if !char.OwnedBy(actorID) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden, "only the character owner can update it", nil, "8a5b6c7d-9e0f-4a1b-2c3d-4e5f6a7b8c9d")
	}

	if patch.Name != nil {
		char.Name = *patch.Name
	}
	if patch.Role != nil {
		char.Role = *patch.Role
	}
	if patch.Personality != nil {
		char.Personality = *patch.Personality
	}
	if patch.AvatarURL != nil {
		char.AvatarURL = patch.AvatarURL
	}
	if patch.IsPublic != nil {
		char.IsPublic = *patch.IsPublic
	}
	if patch.IsActive != nil {
		char.IsActive = *patch.IsActive
	}

	if err := char.Validate(); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "character validation failed", err, "9b6c7d8e-0f1a-4b2c-3d4e-5f6a7b8c9d0e")
	}

	updated, err := s.repo.Update(ctx, char)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update character")
	}
	return updated, nil
}

// Delete removes a character. Only the owner may delete; built-in characters
// cannot be deleted through the API.
func (s *Service) Delete(ctx context.Context, actorID uint, publicID string) error {
	char, err := s.getByPublicID(ctx, publicID)
	if err != nil {
		return err
	}
	if !char.VisibleTo(&actorID) {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "character not found", nil, "0c7d8e9f-1a2b-4c3d-4e5f-6a7b8c9d0e1f")
	}
	if !char.OwnedBy(actorID) {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden, "only the character owner can delete it", nil, "1d8e9f0a-2b3c-4d4e-5f6a-7b8c9d0e1f2a")
	}

	if err := s.repo.Delete(ctx, char.ID); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete character")
	}
	return nil
}

// GetByIDs returns the characters with the given internal IDs. Missing IDs
// are silently absent from the result.
func (s *Service) GetByIDs(ctx context.Context, ids []uint) ([]*Character, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	chars, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to find characters")
	}
	return chars, nil
}

// NamesByID returns a lookup from internal character ID to display name.
func (s *Service) NamesByID(ctx context.Context, ids []uint) (map[uint]string, error) {
	chars, err := s.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(chars))
	for _, c := range chars {
		names[c.ID] = c.Name
	}
	return names, nil
}

func (s *Service) getByPublicID(ctx context.Context, publicID string) (*Character, error) {
	if !idgen.ValidateIDFormat(publicID, "char") {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid character ID", nil, "2e9f0a1b-3c4d-4e5f-6a7b-8c9d0e1f2a3b")
	}

	char, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to find character")
	}
	if char == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "character not found", nil, "3f0a1b2c-4d5e-4f6a-7b8c-9d0e1f2a3b4c")
	}
	return char, nil
}
