package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/fx"
)

// Config carries all runtime configuration for the QuoteDrop service.
type Config struct {
	Environment string `mapstructure:"environment"`

	HTTP struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"http"`

	Database struct {
		Driver string `mapstructure:"driver"`
		DSN    string `mapstructure:"dsn"`
	} `mapstructure:"database"`

	Auth struct {
		JWTSecret string        `mapstructure:"jwt_secret"`
		TokenTTL  time.Duration `mapstructure:"token_ttl"`
	} `mapstructure:"auth"`

	SMTP struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		From     string `mapstructure:"from"`
	} `mapstructure:"smtp"`

	Render struct {
		Timeout     time.Duration `mapstructure:"timeout"`
		LogoTimeout time.Duration `mapstructure:"logo_timeout"`
	} `mapstructure:"render"`

	Bootstrap struct {
		SeedDemoUser bool `mapstructure:"seed_demo_user"`
	} `mapstructure:"bootstrap"`
}

// IsProduction reports whether the service runs with production hardening.
func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

// Load reads configuration from an optional config file and the environment.
// Environment variables use the QUOTEDROP_ prefix with underscores, e.g.
// QUOTEDROP_DATABASE_DSN.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("environment", "development")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "quotedrop.db")
	v.SetDefault("auth.jwt_secret", "dev-secret-change-me")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.from", "QuoteDrop <no-reply@quotedrop.com>")
	v.SetDefault("render.timeout", 10*time.Second)
	v.SetDefault("render.logo_timeout", 5*time.Second)
	v.SetDefault("bootstrap.seed_demo_user", false)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/quotedrop")

	v.SetEnvPrefix("quotedrop")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Module provides Config to the fx graph.
var Module = fx.Module("config",
	fx.Provide(Load),
)
