package gate

import (
	"errors"
	"time"
)

// Failure categories for a rejected request. Transport maps every one of
// these to HTTP 401; the distinction only feeds logs and the detail string.
var (
	ErrMissingHeader     = errors.New("authorization header missing")
	ErrMalformedHeader   = errors.New("authorization header malformed")
	ErrTokenMalformed    = errors.New("token structurally invalid")
	ErrSignatureMismatch = errors.New("token signature mismatch")
	ErrTokenExpired      = errors.New("token expired")
	ErrNoSubject         = errors.New("token carries no usable subject claim")
	ErrTokenRevoked      = errors.New("token revoked")
)

// Claims is the decoded payload of a token that passed signature and expiry
// checks. It is never constructed from an unverified token.
type Claims struct {
	Subject   string
	Email     string
	ShopUUID  string
	Kind      string
	ExpiresAt *time.Time
}

// Verdict is the single outcome the gate produces per request. Exactly one
// of the two shapes is populated: Allow with Subject and Headers, or a
// rejection with Status and Reason.
type Verdict struct {
	Allow   bool
	Subject string
	Headers map[string]string
	Status  int
	Reason  string
}

const (
	detailMissingHeader   = "Missing Authorization header"
	detailMalformedHeader = "Token not found or incorrect format. Use: Bearer <token>"
	detailMalformedToken  = "Token signature verification failed"
	detailBadSignature    = "Token signature mismatch"
	detailExpired         = "Token is invalid or expired"
	detailNoSubject       = "Invalid token payload"
	detailRevoked         = "Token has been revoked (logged out)."
)

// RejectionDetail maps a gate failure to the client-facing detail string.
// The strings are diagnostic only; callers branch on the 401 status, not
// on the text.
func RejectionDetail(err error) string {
	switch {
	case errors.Is(err, ErrMissingHeader):
		return detailMissingHeader
	case errors.Is(err, ErrMalformedHeader):
		return detailMalformedHeader
	case errors.Is(err, ErrTokenMalformed):
		return detailMalformedToken
	case errors.Is(err, ErrSignatureMismatch):
		return detailBadSignature
	case errors.Is(err, ErrTokenExpired):
		return detailExpired
	case errors.Is(err, ErrNoSubject):
		return detailNoSubject
	case errors.Is(err, ErrTokenRevoked):
		return detailRevoked
	default:
		return detailBadSignature
	}
}
