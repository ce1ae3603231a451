package observability

import (
	"github.com/pdv88/quoteDrop-webapp/internal/config"
	"github.com/pdv88/quoteDrop-webapp/internal/observability/metrics"
	"go.uber.org/fx"
)

// Module wires metrics instruments from the service configuration.
var Module = fx.Module("observability",
	fx.Provide(func(cfg config.Config) metrics.Config {
		return metrics.Config{
			ServiceName: "quotedrop",
			Environment: cfg.Environment,
		}
	}),
	fx.Provide(func(cfg metrics.Config) *metrics.HTTPMetrics {
		return metrics.NewHTTPMetrics(nil, cfg)
	}),
	fx.Provide(func(cfg metrics.Config) *metrics.RenderMetrics {
		return metrics.NewRenderMetrics(nil, cfg)
	}),
)
