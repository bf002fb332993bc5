package certificate

import (
	"github.com/agridirect/marketplace/internal/certificate/render"
	"go.uber.org/fx"
)

var Module = fx.Module("certificate.service",
	fx.Provide(render.NewRenderer),
	fx.Provide(New),
)
