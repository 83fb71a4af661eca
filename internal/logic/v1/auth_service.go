package v1

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/aposta-apoio-service/internal/core/domain"
	"github.com/duynhne/aposta-apoio-service/middleware"
)

// TokenType is echoed in the tipo field of a login response.
const TokenType = "Bearer"

// AuthService implements registration, login and principal lookup.
// It depends on repository interfaces (injected via constructor) and
// MUST NOT access the database or SQL directly.
type AuthService struct {
	users  domain.UserRepository
	tokens *TokenService
	hasher *PasswordHasher
}

// NewAuthService creates a new AuthService with the given dependencies.
func NewAuthService(users domain.UserRepository, tokens *TokenService, hasher *PasswordHasher) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		hasher: hasher,
	}
}

// Register creates a user with credentials. A reused login fails with
// ErrLoginTaken and nothing is written.
func (s *AuthService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.UserDTO, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.register", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("login", req.Login),
	))
	defer span.End()

	exists, err := s.users.ExistsByLogin(ctx, req.Login)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("check existing login: %w", err)
	}
	if exists {
		span.SetAttributes(attribute.Bool("registration.success", false))
		return nil, fmt.Errorf("register %q: %w", req.Login, ErrLoginTaken)
	}

	hash, err := s.hasher.Hash(req.Senha)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = domain.DefaultRole
	}

	user := &domain.User{
		Nome:           req.Nome,
		Email:          req.Email,
		Telefone:       req.Telefone,
		CPF:            req.CPF,
		DataNascimento: req.DataNascimento,
		Endereco:       req.Endereco,
		Login:          req.Login,
		PasswordHash:   hash,
		Role:           role,
	}

	id, err := s.users.Create(ctx, user)
	if err != nil {
		span.RecordError(err)
		// A concurrent registration won the unique index.
		if errors.Is(err, domain.ErrDataIntegrity) {
			return nil, fmt.Errorf("register %q: %w", req.Login, ErrLoginTaken)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	user.ID = id

	span.SetAttributes(
		attribute.Int64("user.id", id),
		attribute.Bool("registration.success", true),
	)
	span.AddEvent("user.registered")

	dto := domain.ToUserDTO(user)
	return &dto, nil
}

// Login checks the credentials and issues an access token. Unknown logins,
// users without a password and wrong passwords all fail with ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.TokenResponse, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.login", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("login", req.Login),
	))
	defer span.End()

	user, err := s.users.GetByLogin(ctx, req.Login)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query user %q: %w", req.Login, err)
	}
	if user == nil {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return nil, fmt.Errorf("authenticate %q: %w", req.Login, ErrInvalidCredentials)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Senha); err != nil {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return nil, fmt.Errorf("authenticate %q: %w", req.Login, err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("user.id", user.ID),
		attribute.Bool("auth.success", true),
	)
	span.AddEvent("user.authenticated")

	return &domain.TokenResponse{
		Token:     token,
		Tipo:      TokenType,
		ExpiresIn: s.tokens.ExpirationMillis(),
	}, nil
}

// LoadPrincipal resolves a verified token subject. It returns (nil, nil)
// when the login no longer exists.
func (s *AuthService) LoadPrincipal(ctx context.Context, login string) (*domain.Principal, error) {
	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("load principal %q: %w", login, err)
	}
	if user == nil {
		return nil, nil
	}
	return &domain.Principal{ID: user.ID, Login: user.Login, Role: user.Role}, nil
}
