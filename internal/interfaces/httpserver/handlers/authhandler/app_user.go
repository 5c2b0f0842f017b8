package authhandler

import (
	"github.com/gin-gonic/gin"

	"github.com/chatlab/chatlab-server/internal/domain/user"
	middleware "github.com/chatlab/chatlab-server/internal/interfaces/httpserver/middlewares"
	"github.com/chatlab/chatlab-server/internal/interfaces/httpserver/responses"
	"github.com/chatlab/chatlab-server/internal/utils/platformerrors"
	"github.com/chatlab/chatlab-server/internal/utils/ptr"
)

// GetUserFromContext returns the ensured application user from the request context.
func GetUserFromContext(c *gin.Context) (*user.User, bool) {
	val, ok := c.Get(appUserContextKey)
	if !ok || val == nil {
		return nil, false
	}
	usr, ok := val.(*user.User)
	return usr, ok && usr != nil
}

func (h *AuthHandler) ensureAppUser(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetUserFromContext(c); ok {
			c.Next()
			return
		}

		principal, ok := middleware.PrincipalFromContext(c)
		if !ok {
			if !required {
				c.Next()
				return
			}
			responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "5e1d3524-929e-4c7a-9bb7-0a8b74fa6f10")
			return
		}

		issuer := principal.Issuer
		if issuer == "" {
			issuer = principal.Credentials["issuer"]
		}

		identity := user.Identity{
			Provider: string(principal.AuthMethod),
			Issuer:   issuer,
			Subject:  principal.Subject,
			Email:    principal.Email,
		}
		if identity.Issuer == "" || identity.Subject == "" || identity.Email == "" {
			responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "invalid user identity", "a6c6d3d0-5ca3-4235-9d54-8c4af3b04d62")
			return
		}

		if principal.Username != "" {
			identity.Username = ptr.ToString(principal.Username)
		}
		if principal.Name != "" {
			identity.Name = ptr.ToString(principal.Name)
		}
		if picture := principal.Credentials["picture"]; picture != "" {
			identity.Picture = ptr.ToString(picture)
		}

		usr, err := h.userService.EnsureUser(c.Request.Context(), identity)
		if err != nil {
			h.logger.Error().Err(err).Msg("failed to ensure user from principal")
			responses.HandleNewError(c, platformerrors.ErrorTypeInternal, "unable to resolve user identity", "7f6b30e8-6dc0-4af9-b42f-6fd717fe5a0c")
			return
		}

		if !usr.IsActive {
			responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "account is deactivated", "1d2f6f58-4c55-4d0a-9f3e-62b0f9f1bd27")
			return
		}

		c.Set(appUserContextKey, usr)
		c.Next()
	}
}
