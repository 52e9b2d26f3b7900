package http

import (
	"github.com/shopsphere/authgate/internal/config"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func NewRouter(
	handler *Handler,
	sessions *SessionHandler,
	ops *OpsHandler,
	cfg *config.Config,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	if cfg.Observability.TraceEnabled {
		router.Use(otelgin.Middleware(serviceName))
	}
	router.Use(loggingMiddleware())

	router.GET("/healthz", ops.Health)

	router.Any("/authz/check", handler.Check)
	router.GET("/authz/stats", ops.Stats)

	auth := router.Group("/auth")
	auth.POST("/login", sessions.Login)
	auth.POST("/refresh", sessions.Refresh)
	auth.POST("/logout", sessions.Logout)
	auth.POST("/revoke-refresh", sessions.RevokeRefresh)
	auth.POST("/verify", sessions.Verify)

	return router
}
