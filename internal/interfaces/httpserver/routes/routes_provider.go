package routes

import (
	"github.com/google/wire"

	"github.com/chatlab/chatlab-server/internal/interfaces/httpserver/handlers/aihandler"
	"github.com/chatlab/chatlab-server/internal/interfaces/httpserver/handlers/authhandler"
	"github.com/chatlab/chatlab-server/internal/interfaces/httpserver/handlers/characterhandler"
	"github.com/chatlab/chatlab-server/internal/interfaces/httpserver/handlers/conversationhandler"
	"github.com/chatlab/chatlab-server/internal/interfaces/httpserver/handlers/userhandler"
	"github.com/chatlab/chatlab-server/internal/interfaces/httpserver/routes/v1"
	"github.com/chatlab/chatlab-server/internal/interfaces/httpserver/routes/v1/ai"
	"github.com/chatlab/chatlab-server/internal/interfaces/httpserver/routes/v1/character"
	"github.com/chatlab/chatlab-server/internal/interfaces/httpserver/routes/v1/conversation"
	"github.com/chatlab/chatlab-server/internal/interfaces/httpserver/routes/v1/users"
)

var RouteProvider = wire.NewSet(
	// Handlers
	authhandler.NewAuthHandler,
	userhandler.NewUserHandler,
	characterhandler.NewCharacterHandler,
	conversationhandler.NewConversationHandler,
	aihandler.NewAIHandler,

	// Routes
	v1.NewV1Route,
	ai.NewAIRoute,
	character.NewCharacterRoute,
	conversation.NewConversationRoute,
	users.NewUsersRoute,
)
