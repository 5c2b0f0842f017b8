// Package characterhandler serves the character catalog endpoints.
package characterhandler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/chatlab/chatlab-server/internal/domain/character"
	"github.com/chatlab/chatlab-server/internal/interfaces/httpserver/handlers/authhandler"
	"github.com/chatlab/chatlab-server/internal/interfaces/httpserver/requests"
	characterrequests "github.com/chatlab/chatlab-server/internal/interfaces/httpserver/requests/character"
	"github.com/chatlab/chatlab-server/internal/interfaces/httpserver/responses"
	characterresponses "github.com/chatlab/chatlab-server/internal/interfaces/httpserver/responses/character"
	"github.com/chatlab/chatlab-server/internal/utils/platformerrors"
)

type CharacterHandler struct {
	characterService *character.Service
	logger           zerolog.Logger
}

func NewCharacterHandler(characterService *character.Service, logger zerolog.Logger) *CharacterHandler {
	return &CharacterHandler{
		characterService: characterService,
		logger:           logger,
	}
}

// viewerID returns the caller's numeric ID when an app user was resolved.
// Anonymous callers see public characters only.
func viewerID(c *gin.Context) *uint {
	if usr, ok := authhandler.GetUserFromContext(c); ok {
		return &usr.ID
	}
	return nil
}

// List returns active characters visible to the caller.
func (h *CharacterHandler) List(c *gin.Context) {
	pagination, err := requests.GetPaginationFromQuery(c)
	if err != nil {
		responses.HandleError(c, err, "invalid pagination parameters")
		return
	}

	characters, err := h.characterService.List(c.Request.Context(), viewerID(c), pagination)
	if err != nil {
		responses.HandleError(c, err, "failed to list characters")
		return
	}

	c.JSON(http.StatusOK, responses.NewListResponse(characterresponses.NewCharacterResponses(characters)))
}

// Get returns one character by public ID, enforcing visibility.
func (h *CharacterHandler) Get(c *gin.Context) {
	publicID := c.Param("char_public_id")

	char, err := h.characterService.GetVisibleByPublicID(c.Request.Context(), viewerID(c), publicID)
	if err != nil {
		responses.HandleError(c, err, "character not found")
		return
	}

	c.JSON(http.StatusOK, characterresponses.NewCharacterResponse(char))
}

// Create makes a new character owned by the caller.
func (h *CharacterHandler) Create(c *gin.Context) {
	usr, ok := authhandler.GetUserFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "c59b3427-7a62-4d80-bf0c-4bbcbe64e71b")
		return
	}

	var req characterrequests.CreateCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "9e19f1cc-3c63-4a5f-bb12-d25f0c2f7cb6")
		return
	}

	char, err := h.characterService.Create(c.Request.Context(), usr.ID, character.CreateInput{
		Name:        req.Name,
		Role:        req.Role,
		Personality: req.Personality,
		AvatarURL:   req.AvatarURL,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		responses.HandleError(c, err, "failed to create character")
		return
	}

	c.JSON(http.StatusCreated, characterresponses.NewCharacterResponse(char))
}

// Update applies a partial update; only the owner may modify a character.
func (h *CharacterHandler) Update(c *gin.Context) {
	usr, ok := authhandler.GetUserFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "2f9ed6cf-4a0c-47d2-8f88-3a29f4f4aee8")
		return
	}

	var req characterrequests.UpdateCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "3ad99df7-9bf2-48d6-9f2e-b768cbf3e1da")
		return
	}

	char, err := h.characterService.Update(c.Request.Context(), usr.ID, c.Param("char_public_id"), character.Patch{
		Name:        req.Name,
		Role:        req.Role,
		Personality: req.Personality,
		AvatarURL:   req.AvatarURL,
		IsPublic:    req.IsPublic,
		IsActive:    req.IsActive,
	})
	if err != nil {
		responses.HandleError(c, err, "failed to update character")
		return
	}

	c.JSON(http.StatusOK, characterresponses.NewCharacterResponse(char))
}

// Delete removes a character; only the owner may delete it.
func (h *CharacterHandler) Delete(c *gin.Context) {
	usr, ok := authhandler.GetUserFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "6a6c6f1f-7a88-4e0f-ae0b-df11d98b76e0")
		return
	}

	publicID := c.Param("char_public_id")
	if err := h.characterService.Delete(c.Request.Context(), usr.ID, publicID); err != nil {
		responses.HandleError(c, err, "failed to delete character")
		return
	}

	c.JSON(http.StatusOK, responses.DeletedResponse{
		ID:      publicID,
		Object:  "character.deleted",
		Deleted: true,
	})
}
