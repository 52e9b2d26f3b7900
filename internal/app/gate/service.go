package gate

import (
	"context"

	domain "github.com/shopsphere/authgate/internal/domain/gate"
	"github.com/shopsphere/authgate/pkg/tracer"
	"go.opentelemetry.io/otel/attribute"
)

// Service is the application-layer gate: the domain verdict plus a span
// per invocation.
type Service interface {
	Authenticate(ctx context.Context, authorization string) *domain.Verdict
}

type service struct {
	domainService *domain.Service
}

func NewService(domainService *domain.Service) Service {
	return &service{
		domainService: domainService,
	}
}

func (s *service) Authenticate(ctx context.Context, authorization string) *domain.Verdict {
	ctx, span := tracer.Start(ctx, "app.gate.Authenticate")
	defer span.End()

	verdict := s.domainService.Authenticate(ctx, authorization)

	if verdict.Allow {
		span.SetAttributes(
			attribute.Bool("gate.allowed", true),
			attribute.String("gate.subject", verdict.Subject),
		)
	} else {
		span.SetAttributes(
			attribute.Bool("gate.allowed", false),
			attribute.String("gate.reason", verdict.Reason),
		)
	}

	return verdict
}
