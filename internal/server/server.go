package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pdv88/quoteDrop-webapp/internal/auth"
	catalogdomain "github.com/pdv88/quoteDrop-webapp/internal/catalog/domain"
	clientdomain "github.com/pdv88/quoteDrop-webapp/internal/client/domain"
	"github.com/pdv88/quoteDrop-webapp/internal/clock"
	"github.com/pdv88/quoteDrop-webapp/internal/config"
	"github.com/pdv88/quoteDrop-webapp/internal/mailer"
	"github.com/pdv88/quoteDrop-webapp/internal/observability/logger"
	"github.com/pdv88/quoteDrop-webapp/internal/observability/metrics"
	quotedomain "github.com/pdv88/quoteDrop-webapp/internal/quote/domain"
	"github.com/pdv88/quoteDrop-webapp/internal/quote/render"
	userdomain "github.com/pdv88/quoteDrop-webapp/internal/user/domain"
)

type ServerParam struct {
	fx.In

	Config   config.Config
	Log      *zap.Logger
	DB       *gorm.DB
	Tokens   *auth.TokenManager
	Clock    clock.Clock
	Users    userdomain.Service
	Clients  clientdomain.Service
	Catalog  catalogdomain.Service
	Quotes   quotedomain.Service
	Renderer render.Renderer
	Mailer   *mailer.Mailer
}

// Server carries the HTTP handlers and their dependencies.
type Server struct {
	cfg        config.Config
	log        *zap.Logger
	db         *gorm.DB
	tokens     *auth.TokenManager
	clock      clock.Clock
	userSvc    userdomain.Service
	clientSvc  clientdomain.Service
	catalogSvc catalogdomain.Service
	quoteSvc   quotedomain.Service
	renderer   render.Renderer
	mailer     *mailer.Mailer

	sendLimiter *rateLimiter
}

func NewServer(p ServerParam) *Server {
	return &Server{
		cfg:         p.Config,
		log:         p.Log.Named("server"),
		db:          p.DB,
		tokens:      p.Tokens,
		clock:       p.Clock,
		userSvc:     p.Users,
		clientSvc:   p.Clients,
		catalogSvc:  p.Catalog,
		quoteSvc:    p.Quotes,
		renderer:    p.Renderer,
		mailer:      p.Mailer,
		sendLimiter: newRateLimiter(10, time.Minute),
	}
}

type EngineParam struct {
	fx.In

	Config      config.Config
	HTTPMetrics *metrics.HTTPMetrics `optional:"true"`
}

// NewEngine builds the gin engine with recovery, request logging and HTTP
// metrics installed.
func NewEngine(p EngineParam) *gin.Engine {
	if p.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	e := gin.New()
	e.Use(gin.Recovery())
	e.Use(logger.GinMiddleware(logger.MiddlewareConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	if p.HTTPMetrics != nil {
		e.Use(metrics.GinMiddleware(p.HTTPMetrics))
	}
	return e
}

// RegisterRoutes mounts every API route on the engine.
func (s *Server) RegisterRoutes(e *gin.Engine) {
	e.GET("/healthz", s.Health)
	e.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := e.Group("/api")
	api.POST("/auth/register", s.Register)
	api.POST("/auth/login", s.Login)

	authed := api.Group("", s.RequireAuth())
	authed.POST("/auth/change-password", s.ChangePassword)

	authed.GET("/users/profile", s.GetProfile)
	authed.PUT("/users/profile", s.UpdateProfile)

	authed.POST("/clients", s.CreateClient)
	authed.GET("/clients", s.ListClients)
	authed.GET("/clients/:id", s.GetClient)
	authed.PUT("/clients/:id", s.UpdateClient)
	authed.DELETE("/clients/:id", s.DeleteClient)

	authed.POST("/services", s.CreateService)
	authed.GET("/services", s.ListServices)
	authed.PUT("/services/:id", s.UpdateService)
	authed.DELETE("/services/:id", s.DeleteService)

	authed.POST("/quotes", s.CreateQuote)
	authed.GET("/quotes", s.ListQuotes)
	authed.GET("/quotes/:id", s.GetQuote)
	authed.PUT("/quotes/:id", s.UpdateQuote)
	authed.PATCH("/quotes/:id/status", s.UpdateQuoteStatus)
	authed.GET("/quotes/:id/pdf", s.DownloadQuotePDF)
	authed.POST("/quotes/:id/send", s.SendQuote)

	if !s.cfg.IsProduction() {
		api.POST("/test/cleanup", s.TestCleanup)
	}
}

// RunHTTP starts the HTTP listener under the fx lifecycle.
func RunHTTP(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, e *gin.Engine) {
	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http_listen", zap.String("addr", cfg.HTTP.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http_serve_failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
