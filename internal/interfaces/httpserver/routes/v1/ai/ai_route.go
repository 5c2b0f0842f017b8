package ai

import (
	"github.com/gin-gonic/gin"

	"github.com/chatlab/chatlab-server/internal/interfaces/httpserver/handlers/aihandler"
	"github.com/chatlab/chatlab-server/internal/interfaces/httpserver/handlers/authhandler"
)

type AIRoute struct {
	handler     *aihandler.AIHandler
	authHandler *authhandler.AuthHandler
}

func NewAIRoute(
	handler *aihandler.AIHandler,
	authHandler *authhandler.AuthHandler,
) *AIRoute {
	return &AIRoute{
		handler:     handler,
		authHandler: authHandler,
	}
}

func (route *AIRoute) RegisterRouter(router gin.IRouter) {
	conversations := router.Group("/conversations")
	conversations.POST("/:conv_public_id/generate", route.authHandler.WithAppUserAuthChain(route.handler.GenerateTurn)...)
	conversations.POST("/:conv_public_id/generate-title", route.authHandler.WithAppUserAuthChain(route.handler.GenerateTitle)...)

	aiConfig := router.Group("/ai")
	aiConfig.GET("/config", route.authHandler.WithAppUserAuthChain(route.handler.GetConfig)...)
	aiConfig.PUT("/config/provider", route.authHandler.WithAppUserAuthChain(route.handler.SwitchProvider)...)
}
