package token_test

import (
	"testing"
	"time"

	"github.com/shopsphere/authgate/internal/domain/gate"
	"github.com/shopsphere/authgate/internal/domain/token"
)

const testSecret = "unit-test-secret"

func TestIssuePairRoundTripsThroughGateVerifier(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()
	clock := func() time.Time { return now }

	issuer, err := token.NewIssuer(testSecret, time.Hour, 7*24*time.Hour, clock)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}

	pair, err := issuer.IssuePair("abc-123", "shop-9")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}
	if pair.TokenType != "Bearer" {
		t.Fatalf("unexpected token type: %q", pair.TokenType)
	}

	verifier, err := gate.NewVerifier(testSecret, clock)
	if err != nil {
		t.Fatalf("verifier: %v", err)
	}

	access, err := verifier.Verify(pair.AccessToken)
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	if access.Subject != "abc-123" {
		t.Fatalf("unexpected subject: %q", access.Subject)
	}
	if access.ShopUUID != "shop-9" {
		t.Fatalf("unexpected shop uuid: %q", access.ShopUUID)
	}
	if access.Kind != string(token.KindAccess) {
		t.Fatalf("unexpected kind: %q", access.Kind)
	}
	if access.ExpiresAt == nil || !access.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected access expiry: %v", access.ExpiresAt)
	}

	refresh, err := verifier.Verify(pair.RefreshToken)
	if err != nil {
		t.Fatalf("verify refresh: %v", err)
	}
	if refresh.Kind != string(token.KindRefresh) {
		t.Fatalf("unexpected kind: %q", refresh.Kind)
	}
	if refresh.ExpiresAt == nil || !refresh.ExpiresAt.Equal(now.Add(7*24*time.Hour)) {
		t.Fatalf("unexpected refresh expiry: %v", refresh.ExpiresAt)
	}
}

func TestIssuePairOmitsShopClaimWhenAbsent(t *testing.T) {
	issuer, err := token.NewIssuer(testSecret, time.Hour, time.Hour, nil)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}

	pair, err := issuer.IssuePair("abc-123", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	verifier, err := gate.NewVerifier(testSecret, nil)
	if err != nil {
		t.Fatalf("verifier: %v", err)
	}
	claims, err := verifier.Verify(pair.AccessToken)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.ShopUUID != "" {
		t.Fatalf("expected no shop uuid, got %q", claims.ShopUUID)
	}
}

func TestNewIssuerValidation(t *testing.T) {
	if _, err := token.NewIssuer("", time.Hour, time.Hour, nil); err == nil {
		t.Fatal("expected error for empty secret")
	}
	if _, err := token.NewIssuer(testSecret, 0, time.Hour, nil); err == nil {
		t.Fatal("expected error for zero access ttl")
	}
}
