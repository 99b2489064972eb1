package tenant

import (
	"go.uber.org/fx"

	"github.com/nhatrolabs/nhatro/internal/tenant/repository"
	"github.com/nhatrolabs/nhatro/internal/tenant/service"
)

var Module = fx.Module("tenant.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
