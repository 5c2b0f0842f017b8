package users

import (
	"github.com/gin-gonic/gin"

	"github.com/chatlab/chatlab-server/internal/interfaces/httpserver/handlers/authhandler"
	"github.com/chatlab/chatlab-server/internal/interfaces/httpserver/handlers/userhandler"
)

type UsersRoute struct {
	handler     *userhandler.UserHandler
	authHandler *authhandler.AuthHandler
}

func NewUsersRoute(
	handler *userhandler.UserHandler,
	authHandler *authhandler.AuthHandler,
) *UsersRoute {
	return &UsersRoute{
		handler:     handler,
		authHandler: authHandler,
	}
}

func (route *UsersRoute) RegisterRouter(router gin.IRouter) {
	users := router.Group("/users")
	users.GET("/me", route.authHandler.WithAppUserAuthChain(route.handler.GetMe)...)
	users.PATCH("/me", route.authHandler.WithAppUserAuthChain(route.handler.UpdateMe)...)
	users.DELETE("/me", route.authHandler.WithAppUserAuthChain(route.handler.DeleteMe)...)
}
