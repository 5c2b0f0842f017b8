package character

import (
	"github.com/gin-gonic/gin"

	"github.com/chatlab/chatlab-server/internal/interfaces/httpserver/handlers/authhandler"
	"github.com/chatlab/chatlab-server/internal/interfaces/httpserver/handlers/characterhandler"
)

type CharacterRoute struct {
	handler     *characterhandler.CharacterHandler
	authHandler *authhandler.AuthHandler
}

func NewCharacterRoute(
	handler *characterhandler.CharacterHandler,
	authHandler *authhandler.AuthHandler,
) *CharacterRoute {
	return &CharacterRoute{
		handler:     handler,
		authHandler: authHandler,
	}
}

// RegisterRouter registers the mutating character endpoints on the
// authenticated router.
func (route *CharacterRoute) RegisterRouter(router gin.IRouter) {
	characters := router.Group("/characters")
	characters.POST("", route.authHandler.WithAppUserAuthChain(route.handler.Create)...)
	characters.PATCH("/:char_public_id", route.authHandler.WithAppUserAuthChain(route.handler.Update)...)
	characters.DELETE("/:char_public_id", route.authHandler.WithAppUserAuthChain(route.handler.Delete)...)
}

// RegisterPublicRouter registers the read endpoints. They accept anonymous
// callers and widen visibility when a valid credential is present.
func (route *CharacterRoute) RegisterPublicRouter(router gin.IRouter) {
	characters := router.Group("/characters")
	characters.GET("", route.authHandler.WithOptionalAppUserChain(route.handler.List)...)
	characters.GET("/:char_public_id", route.authHandler.WithOptionalAppUserChain(route.handler.Get)...)
}
