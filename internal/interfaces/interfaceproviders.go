package interfaces

import (
	"github.com/google/wire"

	"github.com/chatlab/chatlab-server/internal/interfaces/httpserver"
)

var InterfacesProvider = wire.NewSet(
	httpserver.NewHTTPServer,
)
