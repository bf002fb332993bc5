package consumer

import (
	"github.com/agridirect/marketplace/internal/consumer/repository"
	"github.com/agridirect/marketplace/internal/consumer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("consumer.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
)
