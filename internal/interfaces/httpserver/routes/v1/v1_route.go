package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chatlab/chatlab-server/internal/config"
	"github.com/chatlab/chatlab-server/internal/interfaces/httpserver/routes/v1/ai"
	"github.com/chatlab/chatlab-server/internal/interfaces/httpserver/routes/v1/character"
	"github.com/chatlab/chatlab-server/internal/interfaces/httpserver/routes/v1/conversation"
	"github.com/chatlab/chatlab-server/internal/interfaces/httpserver/routes/v1/users"
)

type V1Route struct {
	character    *character.CharacterRoute
	conversation *conversation.ConversationRoute
	ai           *ai.AIRoute
	users        *users.UsersRoute
}

func NewV1Route(
	character *character.CharacterRoute,
	conversation *conversation.ConversationRoute,
	ai *ai.AIRoute,
	users *users.UsersRoute,
) *V1Route {
	return &V1Route{
		character,
		conversation,
		ai,
		users,
	}
}

// RegisterRouter registers the authenticated v1 endpoints.
func (v1Route *V1Route) RegisterRouter(router gin.IRouter) {
	v1Router := router.Group("/v1")
	v1Router.GET("/version", GetVersion)
	v1Router.GET("/healthz", GetHealthz)

	v1Route.character.RegisterRouter(v1Router)
	v1Route.conversation.RegisterRouter(v1Router)
	v1Route.ai.RegisterRouter(v1Router)
	v1Route.users.RegisterRouter(v1Router)
}

// RegisterPublicRouter registers endpoints that accept anonymous callers.
func (v1Route *V1Route) RegisterPublicRouter(router gin.IRouter) {
	v1Router := router.Group("/v1")
	v1Route.character.RegisterPublicRouter(v1Router)
}

// GetVersion returns the current build version of the API server.
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"version": config.Version})
}

// GetHealthz returns the health status of the API server.
func GetHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
