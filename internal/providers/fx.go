package providers

import (
	"github.com/agridirect/marketplace/internal/providers/pdf"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	pdf.Module,
)
