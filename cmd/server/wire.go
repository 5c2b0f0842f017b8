//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/chatlab/chatlab-server/internal/domain"
	"github.com/chatlab/chatlab-server/internal/infrastructure"
	"github.com/chatlab/chatlab-server/internal/interfaces"
	"github.com/chatlab/chatlab-server/internal/interfaces/httpserver/routes"
)

func CreateApplication() (*Application, error) {
	panic(wire.Build(
		domain.ServiceProvider,
		infrastructure.InfrastructureProvider,
		routes.RouteProvider,
		interfaces.InterfacesProvider,
		wire.Struct(new(Application), "*"),
	))
}

func CreateDataInitializer() (*DataInitializer, error) {
	panic(wire.Build(
		domain.ServiceProvider,
		infrastructure.InfrastructureProvider,
		wire.Struct(new(DataInitializer), "*"),
	))
}
