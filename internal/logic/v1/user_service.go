package v1

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/aposta-apoio-service/internal/core/domain"
	"github.com/duynhne/aposta-apoio-service/middleware"
)

// UserService implements CRUD over users. Users created here have no
// credentials and cannot log in.
type UserService struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
}

func NewUserService(users domain.UserRepository, sessions domain.SessionRepository) *UserService {
	return &UserService{users: users, sessions: sessions}
}

func (s *UserService) Create(ctx context.Context, dto domain.UserDTO) (*domain.UserDTO, error) {
	ctx, span := middleware.StartSpan(ctx, "user.create", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	user := userFromDTO(dto)
	user.Role = domain.DefaultRole
	id, err := s.users.Create(ctx, user)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("insert user: %w", err)
	}
	user.ID = id
	span.SetAttributes(attribute.Int64("user.id", id))

	out := domain.ToUserDTO(user)
	return &out, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.UserDTO, error) {
	ctx, span := middleware.StartSpan(ctx, "user.list", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	users, err := s.users.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]domain.UserDTO, 0, len(users))
	for i := range users {
		out = append(out, domain.ToUserDTO(&users[i]))
	}
	return out, nil
}

func (s *UserService) ListPage(ctx context.Context, req domain.PageRequest) (domain.Page[domain.UserDTO], error) {
	ctx, span := middleware.StartSpan(ctx, "user.list_page", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("page", req.Page),
		attribute.Int("size", req.Size),
	))
	defer span.End()

	users, total, err := s.users.ListPage(ctx, req)
	if err != nil {
		span.RecordError(err)
		return domain.Page[domain.UserDTO]{}, fmt.Errorf("list users page %d: %w", req.Page, err)
	}
	return domain.MapPage(domain.NewPage(users, req, total), func(u domain.User) domain.UserDTO {
		return domain.ToUserDTO(&u)
	}), nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.UserDTO, error) {
	ctx, span := middleware.StartSpan(ctx, "user.get", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("user.id", id),
	))
	defer span.End()

	user, err := s.find(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	out := domain.ToUserDTO(user)
	return &out, nil
}

// Update replaces the profile fields of user id. Login, password and role
// are not touched.
func (s *UserService) Update(ctx context.Context, id int64, dto domain.UserDTO) (*domain.UserDTO, error) {
	ctx, span := middleware.StartSpan(ctx, "user.update", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("user.id", id),
	))
	defer span.End()

	if _, err := s.find(ctx, id); err != nil {
		span.RecordError(err)
		return nil, err
	}

	user := userFromDTO(dto)
	user.ID = id
	if err := s.users.Update(ctx, user); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	out := domain.ToUserDTO(user)
	return &out, nil
}

// Delete removes user id. It fails with ErrUserHasSessions while any
// support session references the user.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	ctx, span := middleware.StartSpan(ctx, "user.delete", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int64("user.id", id),
	))
	defer span.End()

	if _, err := s.find(ctx, id); err != nil {
		span.RecordError(err)
		return err
	}

	n, err := s.sessions.CountByUser(ctx, id)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("count sessions of user %d: %w", id, err)
	}
	if n > 0 {
		span.SetAttributes(attribute.Int64("user.sessions", n))
		return fmt.Errorf("delete user %d: %w", id, ErrUserHasSessions)
	}

	if err := s.users.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}

func (s *UserService) find(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("query user %d: %w", id, err)
	}
	if user == nil {
		return nil, fmt.Errorf("get user %d: %w", id, ErrUserNotFound)
	}
	return user, nil
}

func userFromDTO(dto domain.UserDTO) *domain.User {
	return &domain.User{
		Nome:           dto.Nome,
		Email:          dto.Email,
		Telefone:       dto.Telefone,
		CPF:            dto.CPF,
		DataNascimento: dto.DataNascimento,
		Endereco:       dto.Endereco,
	}
}
