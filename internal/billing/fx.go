package billing

import (
	"go.uber.org/fx"

	"github.com/nhatrolabs/nhatro/internal/billing/repository"
	"github.com/nhatrolabs/nhatro/internal/billing/service"
)

var Module = fx.Module("billing.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
