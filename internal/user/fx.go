package user

import (
	"github.com/pdv88/quoteDrop-webapp/internal/user/service"
	"go.uber.org/fx"
)

var Module = fx.Module("user.service",
	fx.Provide(service.NewService),
)
