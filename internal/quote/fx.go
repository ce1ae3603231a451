package quote

import (
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/pdv88/quoteDrop-webapp/internal/cache"
	"github.com/pdv88/quoteDrop-webapp/internal/clock"
	"github.com/pdv88/quoteDrop-webapp/internal/config"
	"github.com/pdv88/quoteDrop-webapp/internal/observability/metrics"
	"github.com/pdv88/quoteDrop-webapp/internal/quote/render"
	"github.com/pdv88/quoteDrop-webapp/internal/quote/service"
)

var Module = fx.Module("quote.service",
	fx.Provide(
		service.NewService,
		newLogoLoader,
		newRenderer,
	),
)

func newLogoLoader(cfg config.Config, log *zap.Logger) *render.LogoLoader {
	return render.NewLogoLoader(
		&http.Client{Timeout: cfg.Render.LogoTimeout},
		cfg.Render.LogoTimeout,
		cache.NewTTLCache[string, render.Logo](),
		log,
	)
}

func newRenderer(logos *render.LogoLoader, log *zap.Logger, m *metrics.RenderMetrics, clk clock.Clock) render.Renderer {
	return render.NewPDFRenderer(logos, log, m, clk)
}
