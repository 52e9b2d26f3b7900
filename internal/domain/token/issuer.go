package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Kind distinguishes short-lived access tokens from long-lived refresh
// tokens. The value travels in the "type" claim.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Pair is the token set handed to a client after login or refresh.
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// Issuer mints HS256-signed token pairs with the same secret the gate
// verifies against. Immutable after construction.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewIssuer(secret string, accessTTL, refreshTTL time.Duration, now func() time.Time) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}
	if now == nil {
		now = time.Now
	}

	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        now,
	}, nil
}

// IssuePair mints an access/refresh pair for the subject. shopUUID is
// attached to both tokens when the subject owns a shop, so downstream
// services can authorize shop-scoped writes without an extra lookup.
func (i *Issuer) IssuePair(subject, shopUUID string) (Pair, error) {
	access, err := i.issue(subject, shopUUID, KindAccess, i.accessTTL)
	if err != nil {
		return Pair{}, fmt.Errorf("issue access token: %w", err)
	}

	refresh, err := i.issue(subject, shopUUID, KindRefresh, i.refreshTTL)
	if err != nil {
		return Pair{}, fmt.Errorf("issue refresh token: %w", err)
	}

	return Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
	}, nil
}

func (i *Issuer) issue(subject, shopUUID string, kind Kind, ttl time.Duration) (string, error) {
	now := i.now()

	claims := jwt.MapClaims{
		"sub":  subject,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
		"jti":  uuid.NewString(),
		"type": string(kind),
	}
	if shopUUID != "" {
		claims["shop_uuid"] = shopUUID
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}
