package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/pdv88/quoteDrop-webapp/internal/auth"
	"github.com/pdv88/quoteDrop-webapp/internal/catalog"
	"github.com/pdv88/quoteDrop-webapp/internal/client"
	"github.com/pdv88/quoteDrop-webapp/internal/clock"
	"github.com/pdv88/quoteDrop-webapp/internal/config"
	"github.com/pdv88/quoteDrop-webapp/internal/mailer"
	"github.com/pdv88/quoteDrop-webapp/internal/migration"
	"github.com/pdv88/quoteDrop-webapp/internal/observability"
	"github.com/pdv88/quoteDrop-webapp/internal/observability/logger"
	"github.com/pdv88/quoteDrop-webapp/internal/quote"
	"github.com/pdv88/quoteDrop-webapp/internal/seed"
	"github.com/pdv88/quoteDrop-webapp/internal/server"
	"github.com/pdv88/quoteDrop-webapp/internal/user"
	"github.com/pdv88/quoteDrop-webapp/pkg/db"
)

var version = "dev"

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(func() *snowflake.Node {
			node, err := snowflake.NewNode(1)
			if err != nil {
				panic(err)
			}
			return node
		}),
		db.Module,
		clock.Module,

		fx.Invoke(func(conn *gorm.DB, cfg config.Config, node *snowflake.Node) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := migration.RunMigrations(sqlDB, cfg.Database.Driver); err != nil {
				return err
			}
			if !cfg.IsProduction() && cfg.Bootstrap.SeedDemoUser {
				return seed.EnsureDemoUser(conn, node)
			}
			return nil
		}),

		auth.Module,
		user.Module,
		client.Module,
		catalog.Module,
		quote.Module,
		mailer.Module,

		fx.Provide(server.NewEngine),
		fx.Provide(server.NewServer),
		fx.Invoke(func(s *server.Server, e *gin.Engine) {
			s.RegisterRoutes(e)
		}),
		fx.Invoke(server.RunHTTP),
	)
	app.Run()
}
