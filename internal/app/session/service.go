package session

import (
	"context"
	"errors"
	"fmt"

	"log/slog"

	"github.com/shopsphere/authgate/internal/domain/gate"
	"github.com/shopsphere/authgate/internal/domain/token"
	"github.com/shopsphere/authgate/internal/infra/cache"
	"github.com/shopsphere/authgate/internal/infra/directory"
	"github.com/shopsphere/authgate/pkg/logger"
	"github.com/shopsphere/authgate/pkg/tracer"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrRefreshTokenRevoked = errors.New("refresh token has been revoked")
	ErrInvalidAccessToken  = errors.New("invalid access token")
)

// Introspection is the /auth/verify response shape.
type Introspection struct {
	Valid     bool   `json:"valid"`
	UserUUID  string `json:"user_uuid,omitempty"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
}

// Service owns the session lifecycle: login, refresh rotation, logout
// revocation and token introspection. Per-request gating lives in
// app/gate, not here.
type Service interface {
	Login(ctx context.Context, creds directory.Credentials) (token.Pair, error)
	Refresh(ctx context.Context, refreshToken string) (token.Pair, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	RevokeRefresh(ctx context.Context, refreshToken string) error
	Introspect(ctx context.Context, tokenString string) Introspection
}

type service struct {
	issuer   *token.Issuer
	verifier *gate.Verifier
	revoked  cache.RevocationList
	users    directory.UserDirectory
	shops    directory.ShopDirectory
}

func NewService(
	issuer *token.Issuer,
	verifier *gate.Verifier,
	revoked cache.RevocationList,
	users directory.UserDirectory,
	shops directory.ShopDirectory,
) Service {
	return &service{
		issuer:   issuer,
		verifier: verifier,
		revoked:  revoked,
		users:    users,
		shops:    shops,
	}
}

func (s *service) Login(ctx context.Context, creds directory.Credentials) (token.Pair, error) {
	ctx, span := tracer.Start(ctx, "app.session.Login")
	defer span.End()

	account, err := s.users.Login(ctx, creds)
	if err != nil {
		span.RecordError(err)
		return token.Pair{}, err
	}
	if account.UUID == "" {
		return token.Pair{}, errors.New("user service returned no uuid")
	}

	span.SetAttributes(attribute.String("session.subject", account.UUID))
	logger.InfoContext(ctx, "login succeeded", slog.String("subject", account.UUID))

	return s.mintForUser(ctx, account.UUID)
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (token.Pair, error) {
	ctx, span := tracer.Start(ctx, "app.session.Refresh")
	defer span.End()

	if revoked, err := s.revoked.IsRevoked(ctx, refreshToken); err != nil {
		logger.ErrorContext(ctx, "revocation check failed", slog.String("error", err.Error()))
	} else if revoked {
		return token.Pair{}, ErrRefreshTokenRevoked
	}

	claims, err := s.verifier.Verify(refreshToken)
	if err != nil {
		span.RecordError(err)
		return token.Pair{}, fmt.Errorf("%w: %w", ErrInvalidRefreshToken, err)
	}
	if claims.Kind != string(token.KindRefresh) {
		return token.Pair{}, ErrInvalidRefreshToken
	}

	// Rotation: the presented refresh token is spent whether or not the
	// new pair gets minted successfully.
	if err := s.revoked.Revoke(ctx, refreshToken); err != nil {
		logger.ErrorContext(ctx, "failed to revoke rotated refresh token", slog.String("error", err.Error()))
	}

	span.SetAttributes(attribute.String("session.subject", claims.Subject))
	return s.mintForUser(ctx, claims.Subject)
}

func (s *service) Logout(ctx context.Context, accessToken, refreshToken string) error {
	ctx, span := tracer.Start(ctx, "app.session.Logout")
	defer span.End()

	claims, err := s.verifier.Verify(accessToken)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: %w", ErrInvalidAccessToken, err)
	}

	if err := s.revoked.Revoke(ctx, accessToken); err != nil {
		return fmt.Errorf("failed to revoke access token: %w", err)
	}
	if refreshToken != "" {
		if err := s.revoked.Revoke(ctx, refreshToken); err != nil {
			logger.ErrorContext(ctx, "failed to revoke refresh token", slog.String("error", err.Error()))
		}
	}

	logger.InfoContext(ctx, "logout completed", slog.String("subject", claims.Subject))
	return nil
}

// RevokeRefresh invalidates a single refresh token without touching the
// session's access token. Revoking an already-revoked token succeeds.
func (s *service) RevokeRefresh(ctx context.Context, refreshToken string) error {
	ctx, span := tracer.Start(ctx, "app.session.RevokeRefresh")
	defer span.End()

	claims, err := s.verifier.Verify(refreshToken)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: %w", ErrInvalidRefreshToken, err)
	}
	if claims.Kind != string(token.KindRefresh) {
		return ErrInvalidRefreshToken
	}

	if err := s.revoked.Revoke(ctx, refreshToken); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	logger.InfoContext(ctx, "refresh token revoked", slog.String("subject", claims.Subject))
	return nil
}

func (s *service) Introspect(ctx context.Context, tokenString string) Introspection {
	ctx, span := tracer.Start(ctx, "app.session.Introspect")
	defer span.End()

	if revoked, err := s.revoked.IsRevoked(ctx, tokenString); err != nil {
		logger.ErrorContext(ctx, "revocation check failed", slog.String("error", err.Error()))
	} else if revoked {
		return Introspection{Valid: false}
	}

	claims, err := s.verifier.Verify(tokenString)
	if err != nil {
		return Introspection{Valid: false}
	}

	result := Introspection{Valid: true, UserUUID: claims.Subject}
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Unix()
	}
	return result
}

// mintForUser issues a fresh pair, enriched with the shop UUID when the
// subject owns a shop. Lookup failures degrade to a shopless token rather
// than failing the whole flow.
func (s *service) mintForUser(ctx context.Context, userUUID string) (token.Pair, error) {
	shopUUID := ""

	account, err := s.users.Profile(ctx, userUUID)
	switch {
	case err != nil:
		logger.WarnContext(ctx, "profile lookup failed, issuing shopless tokens",
			slog.String("subject", userUUID),
			slog.String("error", err.Error()),
		)
	case account.IsShopOwner:
		shop, shopErr := s.shops.ShopByOwner(ctx, userUUID)
		if shopErr != nil {
			logger.WarnContext(ctx, "shop owner without resolvable shop",
				slog.String("subject", userUUID),
				slog.String("error", shopErr.Error()),
			)
		} else {
			shopUUID = shop.ID
		}
	}

	pair, err := s.issuer.IssuePair(userUUID, shopUUID)
	if err != nil {
		return token.Pair{}, fmt.Errorf("issue token pair: %w", err)
	}
	return pair, nil
}
