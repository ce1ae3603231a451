package catalog

import (
	"github.com/pdv88/quoteDrop-webapp/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(service.NewService),
)
