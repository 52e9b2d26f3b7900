package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sessionapp "github.com/shopsphere/authgate/internal/app/session"
	"github.com/shopsphere/authgate/internal/domain/token"
	"github.com/shopsphere/authgate/internal/infra/directory"
	httptransport "github.com/shopsphere/authgate/internal/transport/http"
	"github.com/gin-gonic/gin"
)

type mockSessionService struct {
	loginFunc      func(ctx context.Context, creds directory.Credentials) (token.Pair, error)
	refreshFunc    func(ctx context.Context, refreshToken string) (token.Pair, error)
	logoutFunc     func(ctx context.Context, accessToken, refreshToken string) error
	revokeFunc     func(ctx context.Context, refreshToken string) error
	introspectFunc func(ctx context.Context, tokenString string) sessionapp.Introspection
}

func (m *mockSessionService) Login(ctx context.Context, creds directory.Credentials) (token.Pair, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, creds)
	}
	return token.Pair{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer"}, nil
}

func (m *mockSessionService) Refresh(ctx context.Context, refreshToken string) (token.Pair, error) {
	if m.refreshFunc != nil {
		return m.refreshFunc(ctx, refreshToken)
	}
	return token.Pair{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer"}, nil
}

func (m *mockSessionService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx, accessToken, refreshToken)
	}
	return nil
}

func (m *mockSessionService) RevokeRefresh(ctx context.Context, refreshToken string) error {
	if m.revokeFunc != nil {
		return m.revokeFunc(ctx, refreshToken)
	}
	return nil
}

func (m *mockSessionService) Introspect(ctx context.Context, tokenString string) sessionapp.Introspection {
	if m.introspectFunc != nil {
		return m.introspectFunc(ctx, tokenString)
	}
	return sessionapp.Introspection{Valid: true, UserUUID: "abc-123"}
}

func newSessionRouter(t *testing.T, service *mockSessionService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	handler := httptransport.NewSessionHandler(service)
	router := gin.New()
	auth := router.Group("/auth")
	auth.POST("/login", handler.Login)
	auth.POST("/refresh", handler.Refresh)
	auth.POST("/logout", handler.Logout)
	auth.POST("/revoke-refresh", handler.RevokeRefresh)
	auth.POST("/verify", handler.Verify)
	return router
}

func TestLoginReturnsTokenPair(t *testing.T) {
	router := newSessionRouter(t, &mockSessionService{})

	body := strings.NewReader(`{"email":"owner@example.com","password":"hunter2"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"access_token":"access"`) {
		t.Fatalf("expected token pair, got %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"token_type":"Bearer"`) {
		t.Fatalf("expected Bearer token type, got %s", w.Body.String())
	}
}

func TestLoginRequiresCredentials(t *testing.T) {
	called := false
	router := newSessionRouter(t, &mockSessionService{
		loginFunc: func(context.Context, directory.Credentials) (token.Pair, error) {
			called = true
			return token.Pair{}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"x@y.z"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if called {
		t.Fatal("service must not be called without full credentials")
	}
}

func TestLoginRelaysUpstreamRejection(t *testing.T) {
	router := newSessionRouter(t, &mockSessionService{
		loginFunc: func(context.Context, directory.Credentials) (token.Pair, error) {
			return token.Pair{}, &directory.StatusError{
				Service: "user",
				Code:    http.StatusUnauthorized,
				Body:    []byte(`{"detail":"Invalid email or password"}`),
			}
		},
	})

	body := strings.NewReader(`{"email":"owner@example.com","password":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected relayed 401, got %d", w.Code)
	}
	if w.Body.String() != `{"detail":"Invalid email or password"}` {
		t.Fatalf("expected relayed body, got %s", w.Body.String())
	}
}

func TestRefreshRequiresToken(t *testing.T) {
	router := newSessionRouter(t, &mockSessionService{})

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestRefreshRejectsRevokedToken(t *testing.T) {
	router := newSessionRouter(t, &mockSessionService{
		refreshFunc: func(context.Context, string) (token.Pair, error) {
			return token.Pair{}, sessionapp.ErrRefreshTokenRevoked
		},
	})

	body := strings.NewReader(`{"refresh_token":"spent"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestLogoutRequiresBearerHeader(t *testing.T) {
	router := newSessionRouter(t, &mockSessionService{})

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestLogoutRevokesTokens(t *testing.T) {
	var gotAccess, gotRefresh string
	router := newSessionRouter(t, &mockSessionService{
		logoutFunc: func(_ context.Context, accessToken, refreshToken string) error {
			gotAccess = accessToken
			gotRefresh = refreshToken
			return nil
		},
	})

	body := strings.NewReader(`{"refresh_token":"the-refresh"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer the-access")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if gotAccess != "the-access" || gotRefresh != "the-refresh" {
		t.Fatalf("unexpected revoked tokens: access=%q refresh=%q", gotAccess, gotRefresh)
	}
}

func TestRevokeRefreshRevokesToken(t *testing.T) {
	var gotToken string
	router := newSessionRouter(t, &mockSessionService{
		revokeFunc: func(_ context.Context, refreshToken string) error {
			gotToken = refreshToken
			return nil
		},
	})

	body := strings.NewReader(`{"refresh_token":"the-refresh"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/revoke-refresh", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if gotToken != "the-refresh" {
		t.Fatalf("unexpected revoked token: %q", gotToken)
	}
}

func TestRevokeRefreshRequiresToken(t *testing.T) {
	router := newSessionRouter(t, &mockSessionService{})

	req := httptest.NewRequest(http.MethodPost, "/auth/revoke-refresh", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestRevokeRefreshRejectsInvalidToken(t *testing.T) {
	router := newSessionRouter(t, &mockSessionService{
		revokeFunc: func(context.Context, string) error {
			return sessionapp.ErrInvalidRefreshToken
		},
	})

	body := strings.NewReader(`{"refresh_token":"forged"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/revoke-refresh", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestVerifyIntrospectsToken(t *testing.T) {
	router := newSessionRouter(t, &mockSessionService{
		introspectFunc: func(_ context.Context, tokenString string) sessionapp.Introspection {
			if tokenString != "some-token" {
				t.Errorf("unexpected token: %q", tokenString)
			}
			return sessionapp.Introspection{Valid: true, UserUUID: "abc-123", ExpiresAt: 1700003600}
		},
	})

	body := strings.NewReader(`{"token":"some-token"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/verify", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	want := `{"valid":true,"user_uuid":"abc-123","expires_at":1700003600}`
	if w.Body.String() != want {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}
