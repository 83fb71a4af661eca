package v1

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/duynhne/aposta-apoio-service/internal/core/domain"
	"github.com/duynhne/aposta-apoio-service/internal/core/repository"
)

var errStore = errors.New("store unavailable")

type testRepos struct {
	users         *repository.MemoryUserRepository
	professionals *repository.MemoryProfessionalRepository
	sessions      *repository.MemorySessionRepository
}

func newTestRepos() testRepos {
	store := repository.NewMemoryStore()
	return testRepos{
		users:         repository.NewMemoryUserRepository(store),
		professionals: repository.NewMemoryProfessionalRepository(store),
		sessions:      repository.NewMemorySessionRepository(store),
	}
}

func newTestAuthService(users domain.UserRepository) *AuthService {
	return NewAuthService(users, NewTokenService(testSecret, time.Hour, nil), NewPasswordHasher(bcrypt.MinCost))
}

func testAddress() *domain.Address {
	return &domain.Address{
		Rua:    "Av. Paulista",
		Numero: "1000",
		Bairro: "Bela Vista",
		Cidade: "Sao Paulo",
		Estado: "SP",
		Cep:    "01310-100",
	}
}

func testUserDTO(nome string) domain.UserDTO {
	d := domain.NewDate(1990, time.May, 20)
	return domain.UserDTO{
		Nome:           nome,
		Email:          "maria@example.com",
		Telefone:       "11999990000",
		CPF:            "12345678901",
		DataNascimento: &d,
		Endereco:       testAddress(),
	}
}

func testProfessionalDTO(nome string) domain.ProfessionalDTO {
	return domain.ProfessionalDTO{
		Nome:          nome,
		Email:         "dra@example.com",
		Especialidade: domain.SpecialtyPsicologia,
		Endereco:      testAddress(),
	}
}

func testSessionDTO(userID, professionalID int64) domain.SessionDTO {
	dt := domain.DateTime{Time: time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)}
	return domain.SessionDTO{
		UsuarioID:      userID,
		ProfissionalID: professionalID,
		DataHora:       &dt,
		Descricao:      "Primeira conversa",
	}
}

func testRegisterRequest(login string) domain.RegisterRequest {
	d := domain.NewDate(1985, time.January, 2)
	return domain.RegisterRequest{
		Nome:           "Joao Silva",
		Email:          "joao@example.com",
		Telefone:       "11988887777",
		CPF:            "98765432100",
		DataNascimento: &d,
		Endereco:       testAddress(),
		Login:          login,
		Senha:          "segredo123",
	}
}

// mockUserRepository lets a test override single methods; the rest fail.
type mockUserRepository struct {
	CreateFunc        func(ctx context.Context, u *domain.User) (int64, error)
	GetByIDFunc       func(ctx context.Context, id int64) (*domain.User, error)
	GetByLoginFunc    func(ctx context.Context, login string) (*domain.User, error)
	ExistsByLoginFunc func(ctx context.Context, login string) (bool, error)
	CountFunc         func(ctx context.Context) (int64, error)
}

func (m *mockUserRepository) Create(ctx context.Context, u *domain.User) (int64, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, u)
	}
	return 0, errStore
}

func (m *mockUserRepository) Update(context.Context, *domain.User) error { return errStore }

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, errStore
}

func (m *mockUserRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	if m.GetByLoginFunc != nil {
		return m.GetByLoginFunc(ctx, login)
	}
	return nil, errStore
}

func (m *mockUserRepository) ExistsByLogin(ctx context.Context, login string) (bool, error) {
	if m.ExistsByLoginFunc != nil {
		return m.ExistsByLoginFunc(ctx, login)
	}
	return false, errStore
}

func (m *mockUserRepository) List(context.Context) ([]domain.User, error) { return nil, errStore }

func (m *mockUserRepository) ListPage(context.Context, domain.PageRequest) ([]domain.User, int64, error) {
	return nil, 0, errStore
}

func (m *mockUserRepository) Delete(context.Context, int64) error { return errStore }

func (m *mockUserRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, errStore
}
