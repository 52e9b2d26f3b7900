package http

import (
	"context"
	"fmt"
	"net/http"

	gateapp "github.com/shopsphere/authgate/internal/app/gate"
	sessionapp "github.com/shopsphere/authgate/internal/app/session"
	"github.com/shopsphere/authgate/internal/config"
	gatedomain "github.com/shopsphere/authgate/internal/domain/gate"
	"github.com/shopsphere/authgate/internal/domain/routes"
	"github.com/shopsphere/authgate/internal/domain/token"
	"github.com/shopsphere/authgate/internal/infra/cache"
	"github.com/shopsphere/authgate/internal/infra/directory"
	"github.com/shopsphere/authgate/pkg/logger"
	"github.com/shopsphere/authgate/pkg/otel"
	"github.com/shopsphere/authgate/pkg/tracer"
)

type Server struct {
	httpServer *http.Server
}

const (
	idleTimeoutMultiplier = 2
	serviceName           = "authgate"
)

func NewServer(cfg *config.Config) (*Server, error) {
	logger.Init(cfg.Observability.LogLevel, cfg.Observability.Format, cfg.Observability.LogSource)

	if err := tracer.Init(otel.Config{
		ServiceName: serviceName,
		EndpointURL: cfg.Observability.TracingEndpointURL,
		Enabled:     cfg.Observability.TraceEnabled,
		SampleRatio: 1.0,
		Insecure:    true,
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}

	redisClient, err := cache.NewRedisClient(cfg.Redis.URL, cfg.Redis.PoolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}
	revoked := cache.NewRevocationList(redisClient)

	verifier, err := gatedomain.NewVerifier(cfg.Auth.JWTSecret, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create verifier: %w", err)
	}

	gateService := gatedomain.NewService(verifier, revoked, gatedomain.HeaderKeys{
		UserID:    cfg.Auth.HeaderKeys.UserID,
		UserEmail: cfg.Auth.HeaderKeys.UserEmail,
	})

	issuer, err := token.NewIssuer(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenLifetime,
		cfg.Auth.RefreshTokenLifetime,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create token issuer: %w", err)
	}

	publicRules := make([]routes.Rule, 0, len(cfg.PublicRoutes.Endpoints))
	for _, e := range cfg.PublicRoutes.Endpoints {
		publicRules = append(publicRules, routes.Rule{Pattern: e.Pattern, Methods: e.Methods})
	}
	public, err := routes.NewMatcher(cfg.PublicRoutes.Paths, publicRules)
	if err != nil {
		return nil, fmt.Errorf("failed to compile public routes: %w", err)
	}

	users, shops := directory.NewClient(cfg.Upstream.UserServiceURL, cfg.Upstream.ShopServiceURL)

	sessionService := sessionapp.NewService(issuer, verifier, revoked, users, shops)

	handler := NewHandler(gateapp.NewService(gateService), public)
	sessionHandler := NewSessionHandler(sessionService)
	opsHandler := NewOpsHandler(redisClient, revoked)

	router := NewRouter(handler, sessionHandler, opsHandler, cfg)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout * idleTimeoutMultiplier,
	}

	return &Server{
		httpServer: httpServer,
	}, nil
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
