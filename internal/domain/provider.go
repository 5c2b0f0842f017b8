package domain

import (
	"github.com/google/wire"

	"github.com/chatlab/chatlab-server/internal/domain/character"
	"github.com/chatlab/chatlab-server/internal/domain/conversation"
	"github.com/chatlab/chatlab-server/internal/domain/generation"
	"github.com/chatlab/chatlab-server/internal/domain/user"
)

// ServiceProvider wires the domain services.
var ServiceProvider = wire.NewSet(
	user.NewService,
	character.NewService,
	conversation.NewService,
	generation.NewOrchestrator,
)
