// Package userhandler serves the authenticated user's own profile.
package userhandler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/chatlab/chatlab-server/internal/domain/user"
	"github.com/chatlab/chatlab-server/internal/interfaces/httpserver/handlers/authhandler"
	userrequests "github.com/chatlab/chatlab-server/internal/interfaces/httpserver/requests/user"
	"github.com/chatlab/chatlab-server/internal/interfaces/httpserver/responses"
	userresponses "github.com/chatlab/chatlab-server/internal/interfaces/httpserver/responses/user"
	"github.com/chatlab/chatlab-server/internal/utils/platformerrors"
)

type UserHandler struct {
	userService *user.Service
	logger      zerolog.Logger
}

func NewUserHandler(userService *user.Service, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// GetMe returns the caller's profile.
func (h *UserHandler) GetMe(c *gin.Context) {
	usr, ok := authhandler.GetUserFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "9b7e0c31-27b1-4a06-95aa-0d0ad54f2b55")
		return
	}

	c.JSON(http.StatusOK, userresponses.NewUserResponse(usr))
}

// UpdateMe applies a partial profile update to the caller.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	usr, ok := authhandler.GetUserFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "41b0746e-14c9-45a1-8a5b-13b0db5be0cd")
		return
	}

	var req userrequests.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "d477fffd-5ea2-4bc4-93d2-06ff6ce8f27d")
		return
	}

	updated, err := h.userService.UpdateProfile(c.Request.Context(), usr, user.ProfilePatch{
		Name:    req.Name,
		Picture: req.Picture,
	})
	if err != nil {
		responses.HandleError(c, err, "failed to update profile")
		return
	}

	c.JSON(http.StatusOK, userresponses.NewUserResponse(updated))
}

// DeleteMe soft-deactivates the caller's account.
func (h *UserHandler) DeleteMe(c *gin.Context) {
	usr, ok := authhandler.GetUserFromContext(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "40501c13-9e60-43e0-a2b1-34d3e06cb8ed")
		return
	}

	if err := h.userService.Deactivate(c.Request.Context(), usr); err != nil {
		responses.HandleError(c, err, "failed to deactivate account")
		return
	}

	c.JSON(http.StatusOK, responses.DeletedResponse{
		ID:      usr.PublicID,
		Object:  "user.deleted",
		Deleted: true,
	})
}
