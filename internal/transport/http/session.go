package http

import (
	"errors"
	"net/http"

	"log/slog"

	sessionapp "github.com/shopsphere/authgate/internal/app/session"
	"github.com/shopsphere/authgate/internal/domain/gate"
	"github.com/shopsphere/authgate/internal/infra/directory"
	"github.com/shopsphere/authgate/pkg/logger"
	"github.com/shopsphere/authgate/pkg/tracer"
	"github.com/gin-gonic/gin"
)

// SessionHandler serves the token lifecycle endpoints under /auth.
type SessionHandler struct {
	sessions sessionapp.Service
}

func NewSessionHandler(sessions sessionapp.Service) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type verifyRequest struct {
	Token string `json:"token"`
}

// Login authenticates credentials against the user service and answers
// with a fresh token pair. Upstream rejections are relayed with their
// original status and body.
func (h *SessionHandler) Login(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "transport.http.Login")
	defer span.End()

	var creds directory.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil || creds.Email == "" || creds.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "email and password are required"})
		return
	}

	pair, err := h.sessions.Login(ctx, creds)
	if err != nil {
		var statusErr *directory.StatusError
		if errors.As(err, &statusErr) {
			c.Data(statusErr.Code, "application/json", statusErr.Body)
			return
		}
		span.RecordError(err)
		logger.ErrorContext(ctx, "login failed", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Authentication service temporarily unavailable"})
		return
	}

	c.JSON(http.StatusOK, pair)
}

// Refresh rotates a refresh token into a new pair.
func (h *SessionHandler) Refresh(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "transport.http.Refresh")
	defer span.End()

	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Refresh token is required"})
		return
	}

	pair, err := h.sessions.Refresh(ctx, req.RefreshToken)
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, sessionapp.ErrRefreshTokenRevoked):
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Refresh token has been revoked"})
		case errors.Is(err, sessionapp.ErrInvalidRefreshToken):
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid or expired refresh token"})
		default:
			logger.ErrorContext(ctx, "refresh failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, pair)
}

// Logout revokes the presented access token, plus the refresh token when
// the body carries one.
func (h *SessionHandler) Logout(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "transport.http.Logout")
	defer span.End()

	accessToken, err := gate.ExtractBearer(c.GetHeader(authorizationHeader))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Authorization header missing or invalid"})
		return
	}

	// Body is optional on logout.
	var req refreshRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.sessions.Logout(ctx, accessToken, req.RefreshToken); err != nil {
		span.RecordError(err)
		if errors.Is(err, sessionapp.ErrInvalidAccessToken) {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid access token"})
			return
		}
		logger.ErrorContext(ctx, "logout failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Logout failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "Successfully logged out"})
}

// RevokeRefresh invalidates a single refresh token, leaving the session's
// access token untouched.
func (h *SessionHandler) RevokeRefresh(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "transport.http.RevokeRefresh")
	defer span.End()

	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Refresh token is required"})
		return
	}

	if err := h.sessions.RevokeRefresh(ctx, req.RefreshToken); err != nil {
		span.RecordError(err)
		if errors.Is(err, sessionapp.ErrInvalidRefreshToken) {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid or expired refresh token"})
			return
		}
		logger.ErrorContext(ctx, "refresh revocation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "Refresh token revoked"})
}

// Verify introspects a token without gating a request.
func (h *SessionHandler) Verify(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "transport.http.Verify")
	defer span.End()

	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "token is required"})
		return
	}

	c.JSON(http.StatusOK, h.sessions.Introspect(ctx, req.Token))
}
