package order

import (
	"github.com/agridirect/marketplace/internal/order/repository"
	"github.com/agridirect/marketplace/internal/order/service"
	"go.uber.org/fx"
)

var Module = fx.Module("order.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
