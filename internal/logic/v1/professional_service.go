package v1

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/aposta-apoio-service/internal/core/domain"
	"github.com/duynhne/aposta-apoio-service/middleware"
)

// ProfessionalService implements CRUD over support professionals.
type ProfessionalService struct {
	professionals domain.ProfessionalRepository
}

func NewProfessionalService(professionals domain.ProfessionalRepository) *ProfessionalService {
	return &ProfessionalService{professionals: professionals}
}

func (s *ProfessionalService) Create(ctx context.Context, dto domain.ProfessionalDTO) (*domain.ProfessionalDTO, error) {
	ctx, span := middleware.StartSpan(ctx, "professional.create", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("especialidade", string(dto.Especialidade)),
	))
	defer span.End()

	p := professionalFromDTO(dto)
	id, err := s.professionals.Create(ctx, p)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("insert professional: %w", err)
	}
	p.ID = id

	out := domain.ToProfessionalDTO(p)
	return &out, nil
}

func (s *ProfessionalService) List(ctx context.Context) ([]domain.ProfessionalDTO, error) {
	professionals, err := s.professionals.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list professionals: %w", err)
	}
	out := make([]domain.ProfessionalDTO, 0, len(professionals))
	for i := range professionals {
		out = append(out, domain.ToProfessionalDTO(&professionals[i]))
	}
	return out, nil
}

func (s *ProfessionalService) ListPage(ctx context.Context, req domain.PageRequest) (domain.Page[domain.ProfessionalDTO], error) {
	ctx, span := middleware.StartSpan(ctx, "professional.list_page", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("page", req.Page),
		attribute.Int("size", req.Size),
	))
	defer span.End()

	professionals, total, err := s.professionals.ListPage(ctx, req)
	if err != nil {
		span.RecordError(err)
		return domain.Page[domain.ProfessionalDTO]{}, fmt.Errorf("list professionals page %d: %w", req.Page, err)
	}
	return domain.MapPage(domain.NewPage(professionals, req, total), func(p domain.Professional) domain.ProfessionalDTO {
		return domain.ToProfessionalDTO(&p)
	}), nil
}

func (s *ProfessionalService) Get(ctx context.Context, id int64) (*domain.ProfessionalDTO, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	out := domain.ToProfessionalDTO(p)
	return &out, nil
}

func (s *ProfessionalService) Update(ctx context.Context, id int64, dto domain.ProfessionalDTO) (*domain.ProfessionalDTO, error) {
	ctx, span := middleware.StartSpan(ctx, "professional.update", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("professional.id", id),
	))
	defer span.End()

	if _, err := s.find(ctx, id); err != nil {
		span.RecordError(err)
		return nil, err
	}

	p := professionalFromDTO(dto)
	p.ID = id
	if err := s.professionals.Update(ctx, p); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("update professional %d: %w", id, err)
	}
	out := domain.ToProfessionalDTO(p)
	return &out, nil
}

// Delete removes professional id. Sessions still referencing it make the
// store reject the delete with domain.ErrDataIntegrity.
func (s *ProfessionalService) Delete(ctx context.Context, id int64) error {
	ctx, span := middleware.StartSpan(ctx, "professional.delete", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("professional.id", id),
	))
	defer span.End()

	if _, err := s.find(ctx, id); err != nil {
		span.RecordError(err)
		return err
	}
	if err := s.professionals.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete professional %d: %w", id, err)
	}
	return nil
}

func (s *ProfessionalService) find(ctx context.Context, id int64) (*domain.Professional, error) {
	p, err := s.professionals.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("query professional %d: %w", id, err)
	}
	if p == nil {
		return nil, fmt.Errorf("get professional %d: %w", id, ErrProfessionalNotFound)
	}
	return p, nil
}

func professionalFromDTO(dto domain.ProfessionalDTO) *domain.Professional {
	return &domain.Professional{
		Nome:          dto.Nome,
		Email:         dto.Email,
		Especialidade: dto.Especialidade,
		Endereco:      dto.Endereco,
	}
}
