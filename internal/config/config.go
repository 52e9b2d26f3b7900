package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// PublicEndpoint marks one upstream endpoint as reachable without a token,
// scoped to specific methods.
type PublicEndpoint struct {
	Pattern string   `mapstructure:"pattern"`
	Methods []string `mapstructure:"methods"`
}

type Config struct {
	Server struct {
		Addr         string        `mapstructure:"addr"`
		Mode         string        `mapstructure:"mode"`
		ReadTimeout  time.Duration `mapstructure:"read_timeout"`
		WriteTimeout time.Duration `mapstructure:"write_timeout"`
	} `mapstructure:"server"`

	Redis struct {
		URL      string `mapstructure:"url"`
		PoolSize int    `mapstructure:"pool_size"`
	} `mapstructure:"redis"`

	Auth struct {
		JWTSecret            string        `mapstructure:"jwt_secret"`
		AccessTokenLifetime  time.Duration `mapstructure:"access_token_lifetime"`
		RefreshTokenLifetime time.Duration `mapstructure:"refresh_token_lifetime"`
		HeaderKeys           struct {
			UserID    string `mapstructure:"user_id"`
			UserEmail string `mapstructure:"user_email"`
		} `mapstructure:"header_keys"`
	} `mapstructure:"auth"`

	Upstream struct {
		UserServiceURL string `mapstructure:"user_service_url"`
		ShopServiceURL string `mapstructure:"shop_service_url"`
	} `mapstructure:"upstream"`

	PublicRoutes struct {
		Paths     []string         `mapstructure:"paths"`
		Endpoints []PublicEndpoint `mapstructure:"endpoints"`
	} `mapstructure:"public_routes"`

	Observability struct {
		TraceEnabled       bool   `mapstructure:"trace_enabled"`
		TracingEndpointURL string `mapstructure:"tracing_endpoint_url"`
		LogLevel           string `mapstructure:"log_level"`
		Format             string `mapstructure:"log_format"`
		LogSource          bool   `mapstructure:"log_source"`
	} `mapstructure:"observability"`
}

func MustLoad() *Config {
	v := viper.New()

	logger := slog.Default()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvPrefix("AUTHGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			logger.Error("Failed to read config", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("No config file found, using env and defaults")
	}

	if env := os.Getenv("APP_ENV"); env != "" {
		v.SetConfigName(fmt.Sprintf("config.%s", env))
		if err := v.MergeInConfig(); err != nil {
			logger.Info("No environment-specific config (optional)", slog.String("env", env))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		logger.Error("Failed to unmarshal config", slog.Any("error", err))
		os.Exit(1)
	}

	if cfg.Auth.JWTSecret == "" {
		logger.Error("auth.jwt_secret is required; refusing to start")
		os.Exit(1)
	}

	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8085")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")

	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("auth.access_token_lifetime", "60m")
	v.SetDefault("auth.refresh_token_lifetime", "168h")
	v.SetDefault("auth.header_keys.user_id", "X-User-Id")
	v.SetDefault("auth.header_keys.user_email", "X-User-Email")

	v.SetDefault("observability.log_level", "info")
	v.SetDefault("observability.log_format", "json")
}
