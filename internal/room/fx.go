package room

import (
	"go.uber.org/fx"

	"github.com/nhatrolabs/nhatro/internal/room/repository"
	"github.com/nhatrolabs/nhatro/internal/room/service"
)

var Module = fx.Module("room.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
