package v1

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/aposta-apoio-service/internal/core/domain"
	"github.com/duynhne/aposta-apoio-service/middleware"
)

// DashboardService reports row counts for the dashboard.
type DashboardService struct {
	users         domain.UserRepository
	professionals domain.ProfessionalRepository
	sessions      domain.SessionRepository
}

func NewDashboardService(users domain.UserRepository, professionals domain.ProfessionalRepository, sessions domain.SessionRepository) *DashboardService {
	return &DashboardService{
		users:         users,
		professionals: professionals,
		sessions:      sessions,
	}
}

// Summary counts users, professionals and sessions. The three counts are
// separate reads and may not be mutually consistent under concurrent writes.
func (s *DashboardService) Summary(ctx context.Context) (*domain.Summary, error) {
	ctx, span := middleware.StartSpan(ctx, "dashboard.summary", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	users, err := s.users.Count(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("count users: %w", err)
	}
	professionals, err := s.professionals.Count(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("count professionals: %w", err)
	}
	sessions, err := s.sessions.Count(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("count sessions: %w", err)
	}

	return &domain.Summary{
		TotalUsuarios:      users,
		TotalProfissionais: professionals,
		TotalSessoes:       sessions,
	}, nil
}
