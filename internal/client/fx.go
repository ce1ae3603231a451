package client

import (
	"github.com/pdv88/quoteDrop-webapp/internal/client/service"
	"go.uber.org/fx"
)

var Module = fx.Module("client.service",
	fx.Provide(service.NewService),
)
