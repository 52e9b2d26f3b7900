package gate

import (
	"context"
	"net/http"

	"log/slog"

	"github.com/shopsphere/authgate/pkg/logger"
)

// RevocationList answers whether a token has been revoked (logged out).
// The Redis-backed implementation lives in internal/infra/cache.
type RevocationList interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// HeaderKeys names the identity headers attached to an allowed request.
type HeaderKeys struct {
	UserID    string
	UserEmail string
}

// Service runs the full gate for one request: extract, revocation check,
// verify, then build the verdict. It holds only immutable state and may be
// invoked from any number of requests at once.
type Service struct {
	verifier *Verifier
	revoked  RevocationList
	keys     HeaderKeys
}

func NewService(verifier *Verifier, revoked RevocationList, keys HeaderKeys) *Service {
	return &Service{
		verifier: verifier,
		revoked:  revoked,
		keys:     keys,
	}
}

// Authenticate produces the verdict for one inbound request given its raw
// Authorization header value. Every failure maps to 401; upstream services
// never see a request that failed here.
func (s *Service) Authenticate(ctx context.Context, authorization string) *Verdict {
	token, err := ExtractBearer(authorization)
	if err != nil {
		logger.WarnContext(ctx, "bearer extraction failed", slog.String("error", err.Error()))
		return s.reject(err)
	}

	if s.revoked != nil {
		revoked, revErr := s.revoked.IsRevoked(ctx, token)
		switch {
		case revErr != nil:
			// Revocation storage being down must not take authentication
			// down with it; the signature and expiry checks still gate.
			logger.ErrorContext(ctx, "revocation check failed", slog.String("error", revErr.Error()))
		case revoked:
			logger.WarnContext(ctx, "rejected revoked token")
			return s.reject(ErrTokenRevoked)
		}
	}

	claims, err := s.verifier.Verify(token)
	if err != nil {
		logger.WarnContext(ctx, "token verification failed", slog.String("error", err.Error()))
		return s.reject(err)
	}

	headers := map[string]string{s.keys.UserID: claims.Subject}
	if claims.Email != "" && s.keys.UserEmail != "" {
		headers[s.keys.UserEmail] = claims.Email
	}

	logger.InfoContext(ctx, "request authenticated", slog.String("subject", claims.Subject))

	return &Verdict{
		Allow:   true,
		Subject: claims.Subject,
		Headers: headers,
	}
}

// Verifier exposes the underlying verifier for collaborators (session
// refresh and introspection reuse it).
func (s *Service) Verifier() *Verifier {
	return s.verifier
}

func (s *Service) reject(err error) *Verdict {
	return &Verdict{
		Allow:  false,
		Status: http.StatusUnauthorized,
		Reason: RejectionDetail(err),
	}
}
