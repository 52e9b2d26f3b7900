package http

import (
	"time"

	"log/slog"

	gateapp "github.com/shopsphere/authgate/internal/app/gate"
	"github.com/shopsphere/authgate/pkg/logger"
	"github.com/gin-gonic/gin"
)

func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		if status >= 500 {
			logger.ErrorContext(c.Request.Context(), "request failed",
				slog.String("method", method),
				slog.String("path", path),
				slog.Int("status", status),
				slog.Duration("duration", duration),
			)
		} else {
			logger.InfoContext(c.Request.Context(), "request completed",
				slog.String("method", method),
				slog.String("path", path),
				slog.Int("status", status),
				slog.Duration("duration", duration),
			)
		}
	}
}

// RequireAuth is the in-process variant of the gate for gateways that
// embed authgate instead of delegating via ForwardAuth. The verdict logic
// is identical; here the identity headers are written onto the
// upstream-bound request before the next handler runs.
func RequireAuth(gateService gateapp.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		verdict := gateService.Authenticate(c.Request.Context(), c.GetHeader(authorizationHeader))
		if !verdict.Allow {
			writeRejection(c, verdict)
			return
		}

		for key, value := range verdict.Headers {
			c.Request.Header.Set(key, value)
		}
		c.Set("user_id", verdict.Subject)

		c.Next()
	}
}
