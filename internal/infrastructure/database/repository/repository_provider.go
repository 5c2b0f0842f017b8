package repository

import (
	"github.com/google/wire"

	"github.com/chatlab/chatlab-server/internal/infrastructure/database/repository/characterrepo"
	"github.com/chatlab/chatlab-server/internal/infrastructure/database/repository/conversationrepo"
	"github.com/chatlab/chatlab-server/internal/infrastructure/database/repository/userrepo"
)

// RepositoryProvider wires the gorm-backed repositories.
var RepositoryProvider = wire.NewSet(
	userrepo.NewUserGormRepository,
	characterrepo.NewCharacterGormRepository,
	conversationrepo.NewConversationGormRepository,
)
