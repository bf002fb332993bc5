package farmer

import (
	"github.com/agridirect/marketplace/internal/farmer/repository"
	"github.com/agridirect/marketplace/internal/farmer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("farmer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
