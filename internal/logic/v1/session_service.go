package v1

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/aposta-apoio-service/internal/core/domain"
	"github.com/duynhne/aposta-apoio-service/middleware"
)

// SessionService implements CRUD over support sessions. Writes check that
// the referenced user and professional exist before touching the store.
type SessionService struct {
	sessions      domain.SessionRepository
	users         domain.UserRepository
	professionals domain.ProfessionalRepository
}

func NewSessionService(sessions domain.SessionRepository, users domain.UserRepository, professionals domain.ProfessionalRepository) *SessionService {
	return &SessionService{
		sessions:      sessions,
		users:         users,
		professionals: professionals,
	}
}

func (s *SessionService) Create(ctx context.Context, dto domain.SessionDTO) (*domain.SessionDTO, error) {
	ctx, span := middleware.StartSpan(ctx, "session.create", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("user.id", dto.UsuarioID),
		attribute.Int64("professional.id", dto.ProfissionalID),
	))
	defer span.End()

	if err := s.checkReferences(ctx, dto.UsuarioID, dto.ProfissionalID); err != nil {
		span.RecordError(err)
		return nil, err
	}

	session := sessionFromDTO(dto)
	id, err := s.sessions.Create(ctx, session)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("insert session: %w", err)
	}
	session.ID = id
	span.SetAttributes(attribute.Int64("session.id", id))

	out := domain.ToSessionDTO(session)
	return &out, nil
}

func (s *SessionService) List(ctx context.Context) ([]domain.SessionDTO, error) {
	sessions, err := s.sessions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	out := make([]domain.SessionDTO, 0, len(sessions))
	for i := range sessions {
		out = append(out, domain.ToSessionDTO(&sessions[i]))
	}
	return out, nil
}

func (s *SessionService) ListPage(ctx context.Context, req domain.PageRequest) (domain.Page[domain.SessionDTO], error) {
	ctx, span := middleware.StartSpan(ctx, "session.list_page", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("page", req.Page),
		attribute.Int("size", req.Size),
	))
	defer span.End()

	sessions, total, err := s.sessions.ListPage(ctx, req)
	if err != nil {
		span.RecordError(err)
		return domain.Page[domain.SessionDTO]{}, fmt.Errorf("list sessions page %d: %w", req.Page, err)
	}
	return domain.MapPage(domain.NewPage(sessions, req, total), func(ss domain.SupportSession) domain.SessionDTO {
		return domain.ToSessionDTO(&ss)
	}), nil
}

func (s *SessionService) Get(ctx context.Context, id int64) (*domain.SessionDTO, error) {
	session, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	out := domain.ToSessionDTO(session)
	return &out, nil
}

func (s *SessionService) Update(ctx context.Context, id int64, dto domain.SessionDTO) (*domain.SessionDTO, error) {
	ctx, span := middleware.StartSpan(ctx, "session.update", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("session.id", id),
	))
	defer span.End()

	if _, err := s.find(ctx, id); err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := s.checkReferences(ctx, dto.UsuarioID, dto.ProfissionalID); err != nil {
		span.RecordError(err)
		return nil, err
	}

	session := sessionFromDTO(dto)
	session.ID = id
	if err := s.sessions.Update(ctx, session); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("update session %d: %w", id, err)
	}
	out := domain.ToSessionDTO(session)
	return &out, nil
}

func (s *SessionService) Delete(ctx context.Context, id int64) error {
	ctx, span := middleware.StartSpan(ctx, "session.delete", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("session.id", id),
	))
	defer span.End()

	if _, err := s.find(ctx, id); err != nil {
		span.RecordError(err)
		return err
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete session %d: %w", id, err)
	}
	return nil
}

// checkReferences looks up the user first, then the professional.
func (s *SessionService) checkReferences(ctx context.Context, userID, professionalID int64) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("query user %d: %w", userID, err)
	}
	if user == nil {
		return fmt.Errorf("user %d: %w", userID, ErrInvalidReference)
	}

	p, err := s.professionals.GetByID(ctx, professionalID)
	if err != nil {
		return fmt.Errorf("query professional %d: %w", professionalID, err)
	}
	if p == nil {
		return fmt.Errorf("professional %d: %w", professionalID, ErrInvalidReference)
	}
	return nil
}

func (s *SessionService) find(ctx context.Context, id int64) (*domain.SupportSession, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("query session %d: %w", id, err)
	}
	if session == nil {
		return nil, fmt.Errorf("get session %d: %w", id, ErrSessionNotFound)
	}
	return session, nil
}

func sessionFromDTO(dto domain.SessionDTO) *domain.SupportSession {
	session := &domain.SupportSession{
		UsuarioID:      dto.UsuarioID,
		ProfissionalID: dto.ProfissionalID,
		Descricao:      dto.Descricao,
	}
	if dto.DataHora != nil {
		session.DataHora = *dto.DataHora
	}
	return session
}
