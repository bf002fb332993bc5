package attestation

import (
	productdomain "github.com/agridirect/marketplace/internal/product/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("attestation",
	fx.Provide(New),
	fx.Provide(func(i *Issuer) productdomain.Attester { return i }),
)
