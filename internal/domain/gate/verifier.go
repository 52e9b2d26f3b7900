package gate

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// subjectClaimPriority is the ordered list of claim names consulted when
// resolving the authenticated principal. The first present, non-empty value
// wins; empty strings fall through to the next candidate.
var subjectClaimPriority = []string{"sub", "user_id", "id"}

// Verifier validates HMAC-signed tokens against a single process-wide
// secret. It is immutable after construction and safe for concurrent use.
type Verifier struct {
	secret []byte
	now    func() time.Time
	parser *jwt.Parser
}

// NewVerifier builds a Verifier for the shared secret. Only HS256 is
// accepted; a token claiming any other signing algorithm fails closed as a
// signature mismatch. The clock defaults to time.Now when nil.
func NewVerifier(secret string, now func() time.Time) (*Verifier, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if now == nil {
		now = time.Now
	}

	return &Verifier{
		secret: []byte(secret),
		now:    now,
		// Claims validation is disabled on purpose: expiry is re-checked
		// explicitly below so that a stale token can never ride through on
		// library short-circuiting.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}, nil
}

// Verify checks the token's structure, signature, expiry and subject, in
// that order, and returns the decoded claims only when every check passes.
func (v *Verifier) Verify(tokenString string) (Claims, error) {
	mapClaims := jwt.MapClaims{}

	_, err := v.parser.ParseWithClaims(tokenString, mapClaims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return Claims{}, ErrTokenMalformed
		}
		// Signature failures, unexpected algorithms and anything else the
		// parser reports all collapse to a mismatch: fail closed.
		return Claims{}, ErrSignatureMismatch
	}

	// The signature is good from here on. Expiry is a hard gate: re-check
	// it against our own clock rather than trusting the parse result.
	exp, err := mapClaims.GetExpirationTime()
	if err != nil {
		return Claims{}, ErrTokenExpired
	}

	var expiresAt *time.Time
	if exp != nil {
		if exp.Time.Before(v.now()) {
			return Claims{}, ErrTokenExpired
		}
		t := exp.Time
		expiresAt = &t
	}

	// nbf gets the same treatment as exp: a token that is not valid yet
	// is not valid.
	nbf, err := mapClaims.GetNotBefore()
	if err != nil {
		return Claims{}, ErrTokenExpired
	}
	if nbf != nil && nbf.Time.After(v.now()) {
		return Claims{}, ErrTokenExpired
	}

	subject := resolveSubject(mapClaims)
	if subject == "" {
		return Claims{}, ErrNoSubject
	}

	email, _ := mapClaims["email"].(string)
	shopUUID, _ := mapClaims["shop_uuid"].(string)
	kind, _ := mapClaims["type"].(string)

	return Claims{
		Subject:   subject,
		Email:     email,
		ShopUUID:  shopUUID,
		Kind:      kind,
		ExpiresAt: expiresAt,
	}, nil
}

func resolveSubject(claims jwt.MapClaims) string {
	for _, name := range subjectClaimPriority {
		switch value := claims[name].(type) {
		case string:
			if value != "" {
				return value
			}
		case float64:
			return strconv.FormatFloat(value, 'f', -1, 64)
		}
	}
	return ""
}
