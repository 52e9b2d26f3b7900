package http

import (
	"net/http"

	"log/slog"

	"github.com/shopsphere/authgate/internal/infra/cache"
	"github.com/shopsphere/authgate/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// OpsHandler serves health and revocation stats.
type OpsHandler struct {
	redisClient *redis.Client
	revoked     cache.RevocationList
}

func NewOpsHandler(redisClient *redis.Client, revoked cache.RevocationList) *OpsHandler {
	return &OpsHandler{
		redisClient: redisClient,
		revoked:     revoked,
	}
}

// Health reports degraded rather than failing outright when Redis is
// down: the gate keeps verifying tokens either way.
func (h *OpsHandler) Health(c *gin.Context) {
	redisStatus := "healthy"
	if err := h.redisClient.Ping(c.Request.Context()).Err(); err != nil {
		logger.ErrorContext(c.Request.Context(), "redis health check failed", slog.String("error", err.Error()))
		redisStatus = "unhealthy"
	}

	status := "healthy"
	if redisStatus != "healthy" {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status": status,
		"redis":  redisStatus,
	})
}

// Stats exposes the revocation set size for dashboards.
func (h *OpsHandler) Stats(c *gin.Context) {
	size, err := h.revoked.Size(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "revocation store unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"blacklisted_tokens": size})
}
