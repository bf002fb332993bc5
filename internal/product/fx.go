package product

import (
	"github.com/agridirect/marketplace/internal/product/repository"
	"github.com/agridirect/marketplace/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
