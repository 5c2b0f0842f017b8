package conversation

import (
	"github.com/gin-gonic/gin"

	"github.com/chatlab/chatlab-server/internal/interfaces/httpserver/handlers/authhandler"
	"github.com/chatlab/chatlab-server/internal/interfaces/httpserver/handlers/conversationhandler"
)

type ConversationRoute struct {
	handler     *conversationhandler.ConversationHandler
	authHandler *authhandler.AuthHandler
}

func NewConversationRoute(
	handler *conversationhandler.ConversationHandler,
	authHandler *authhandler.AuthHandler,
) *ConversationRoute {
	return &ConversationRoute{
		handler:     handler,
		authHandler: authHandler,
	}
}

func (route *ConversationRoute) RegisterRouter(router gin.IRouter) {
	conversations := router.Group("/conversations")
	conversations.GET("", route.authHandler.WithAppUserAuthChain(route.handler.List)...)
	conversations.POST("", route.authHandler.WithAppUserAuthChain(route.handler.Create)...)
	conversations.GET("/:conv_public_id", route.authHandler.WithAppUserAuthChain(route.handler.Get)...)
	conversations.PATCH("/:conv_public_id", route.authHandler.WithAppUserAuthChain(route.handler.Update)...)
	conversations.DELETE("/:conv_public_id", route.authHandler.WithAppUserAuthChain(route.handler.Delete)...)
	conversations.GET("/:conv_public_id/messages", route.authHandler.WithAppUserAuthChain(route.handler.ListMessages)...)
	conversations.POST("/:conv_public_id/messages", route.authHandler.WithAppUserAuthChain(route.handler.AppendMessage)...)
}
