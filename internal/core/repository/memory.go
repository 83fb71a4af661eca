package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/duynhne/aposta-apoio-service/internal/core/domain"
)

// MemoryStore is an in-memory backing store for development and tests.
// It enforces the same unique-login and foreign-key rules as the schema.
type MemoryStore struct {
	mu            sync.Mutex
	users         map[int64]domain.User
	professionals map[int64]domain.Professional
	sessions      map[int64]domain.SupportSession

	userSeq         int64
	professionalSeq int64
	sessionSeq      int64
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         make(map[int64]domain.User),
		professionals: make(map[int64]domain.Professional),
		sessions:      make(map[int64]domain.SupportSession),
	}
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*MemoryUserRepository)(nil)
var _ domain.ProfessionalRepository = (*MemoryProfessionalRepository)(nil)
var _ domain.SessionRepository = (*MemorySessionRepository)(nil)

// comparators order two values by one public sort field.
type comparators[T any] map[string]func(a, b T) int

func sortedPage[T any](items []T, req domain.PageRequest, cmps comparators[T], id func(T) int64) ([]T, int64, error) {
	for _, s := range req.Sort {
		if _, ok := cmps[s.Field]; !ok {
			return nil, 0, fmt.Errorf("sort by %q: %w", s.Field, domain.ErrInvalidSort)
		}
	}
	slices.SortStableFunc(items, func(a, b T) int {
		for _, s := range req.Sort {
			c := cmps[s.Field](a, b)
			if s.Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return cmp.Compare(id(a), id(b))
	})

	total := int64(len(items))
	start := req.Offset()
	if start < 0 || start > len(items) {
		start = len(items)
	}
	end := min(start+req.Size, len(items))
	return items[start:end], total, nil
}

func sortedValues[T any](m map[int64]T) []T {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}

// --- UserRepository ---

type MemoryUserRepository struct {
	s *MemoryStore
}

func NewMemoryUserRepository(s *MemoryStore) *MemoryUserRepository {
	return &MemoryUserRepository{s: s}
}

var userComparators = comparators[domain.User]{
	"id":    func(a, b domain.User) int { return cmp.Compare(a.ID, b.ID) },
	"nome":  func(a, b domain.User) int { return cmp.Compare(a.Nome, b.Nome) },
	"email": func(a, b domain.User) int { return cmp.Compare(a.Email, b.Email) },
	"cpf":   func(a, b domain.User) int { return cmp.Compare(a.CPF, b.CPF) },
	"dataNascimento": func(a, b domain.User) int {
		switch {
		case a.DataNascimento == nil && b.DataNascimento == nil:
			return 0
		case a.DataNascimento == nil:
			return 1
		case b.DataNascimento == nil:
			return -1
		}
		return a.DataNascimento.Compare(b.DataNascimento.Time)
	},
}

func (r *MemoryUserRepository) loginTaken(login string, except int64) bool {
	if login == "" {
		return false
	}
	for _, u := range r.s.users {
		if u.Login == login && u.ID != except {
			return true
		}
	}
	return false
}

func (r *MemoryUserRepository) Create(_ context.Context, u *domain.User) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.loginTaken(u.Login, 0) {
		return 0, fmt.Errorf("usuario_login_key: %w", domain.ErrDataIntegrity)
	}
	r.s.userSeq++
	stored := *u
	stored.ID = r.s.userSeq
	r.s.users[stored.ID] = stored
	return stored.ID, nil
}

func (r *MemoryUserRepository) Update(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.users[u.ID]
	if !ok {
		return nil
	}
	current.Nome = u.Nome
	current.Email = u.Email
	current.Telefone = u.Telefone
	current.CPF = u.CPF
	current.DataNascimento = u.DataNascimento
	current.Endereco = u.Endereco
	r.s.users[u.ID] = current
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *MemoryUserRepository) GetByLogin(_ context.Context, login string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if login == "" {
		return nil, nil
	}
	for _, u := range r.s.users {
		if u.Login == login {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *MemoryUserRepository) ExistsByLogin(ctx context.Context, login string) (bool, error) {
	u, err := r.GetByLogin(ctx, login)
	return u != nil, err
}

func (r *MemoryUserRepository) List(_ context.Context) ([]domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return sortedValues(r.s.users), nil
}

func (r *MemoryUserRepository) ListPage(_ context.Context, req domain.PageRequest) ([]domain.User, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return sortedPage(sortedValues(r.s.users), req, userComparators, func(u domain.User) int64 { return u.ID })
}

// Delete mirrors ON DELETE RESTRICT on sessao_apoio.usuario_id.
func (r *MemoryUserRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, s := range r.s.sessions {
		if s.UsuarioID == id {
			return fmt.Errorf("sessao_apoio_usuario_id_fkey: %w", domain.ErrDataIntegrity)
		}
	}
	delete(r.s.users, id)
	return nil
}

func (r *MemoryUserRepository) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.users)), nil
}

// --- ProfessionalRepository ---

type MemoryProfessionalRepository struct {
	s *MemoryStore
}

func NewMemoryProfessionalRepository(s *MemoryStore) *MemoryProfessionalRepository {
	return &MemoryProfessionalRepository{s: s}
}

var professionalComparators = comparators[domain.Professional]{
	"id":            func(a, b domain.Professional) int { return cmp.Compare(a.ID, b.ID) },
	"nome":          func(a, b domain.Professional) int { return cmp.Compare(a.Nome, b.Nome) },
	"email":         func(a, b domain.Professional) int { return cmp.Compare(a.Email, b.Email) },
	"especialidade": func(a, b domain.Professional) int { return cmp.Compare(a.Especialidade, b.Especialidade) },
}

func (r *MemoryProfessionalRepository) Create(_ context.Context, p *domain.Professional) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.professionalSeq++
	stored := *p
	stored.ID = r.s.professionalSeq
	r.s.professionals[stored.ID] = stored
	return stored.ID, nil
}

func (r *MemoryProfessionalRepository) Update(_ context.Context, p *domain.Professional) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.professionals[p.ID]; ok {
		r.s.professionals[p.ID] = *p
	}
	return nil
}

func (r *MemoryProfessionalRepository) GetByID(_ context.Context, id int64) (*domain.Professional, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.professionals[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *MemoryProfessionalRepository) List(_ context.Context) ([]domain.Professional, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return sortedValues(r.s.professionals), nil
}

func (r *MemoryProfessionalRepository) ListPage(_ context.Context, req domain.PageRequest) ([]domain.Professional, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return sortedPage(sortedValues(r.s.professionals), req, professionalComparators, func(p domain.Professional) int64 { return p.ID })
}

// Delete mirrors ON DELETE RESTRICT on sessao_apoio.profissional_id.
func (r *MemoryProfessionalRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, s := range r.s.sessions {
		if s.ProfissionalID == id {
			return fmt.Errorf("sessao_apoio_profissional_id_fkey: %w", domain.ErrDataIntegrity)
		}
	}
	delete(r.s.professionals, id)
	return nil
}

func (r *MemoryProfessionalRepository) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.professionals)), nil
}

// --- SessionRepository ---

type MemorySessionRepository struct {
	s *MemoryStore
}

func NewMemorySessionRepository(s *MemoryStore) *MemorySessionRepository {
	return &MemorySessionRepository{s: s}
}

var sessionComparators = comparators[domain.SupportSession]{
	"id":             func(a, b domain.SupportSession) int { return cmp.Compare(a.ID, b.ID) },
	"dataHora":       func(a, b domain.SupportSession) int { return a.DataHora.Compare(b.DataHora.Time) },
	"usuarioId":      func(a, b domain.SupportSession) int { return cmp.Compare(a.UsuarioID, b.UsuarioID) },
	"profissionalId": func(a, b domain.SupportSession) int { return cmp.Compare(a.ProfissionalID, b.ProfissionalID) },
}

// checkRefs mirrors the sessao_apoio foreign keys. Caller holds the lock.
func (r *MemorySessionRepository) checkRefs(s *domain.SupportSession) error {
	if _, ok := r.s.users[s.UsuarioID]; !ok {
		return fmt.Errorf("sessao_apoio_usuario_id_fkey: %w", domain.ErrDataIntegrity)
	}
	if _, ok := r.s.professionals[s.ProfissionalID]; !ok {
		return fmt.Errorf("sessao_apoio_profissional_id_fkey: %w", domain.ErrDataIntegrity)
	}
	return nil
}

func (r *MemorySessionRepository) Create(_ context.Context, s *domain.SupportSession) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkRefs(s); err != nil {
		return 0, err
	}
	r.s.sessionSeq++
	stored := *s
	stored.ID = r.s.sessionSeq
	r.s.sessions[stored.ID] = stored
	return stored.ID, nil
}

func (r *MemorySessionRepository) Update(_ context.Context, s *domain.SupportSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.sessions[s.ID]; !ok {
		return nil
	}
	if err := r.checkRefs(s); err != nil {
		return err
	}
	r.s.sessions[s.ID] = *s
	return nil
}

func (r *MemorySessionRepository) GetByID(_ context.Context, id int64) (*domain.SupportSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	s, ok := r.s.sessions[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *MemorySessionRepository) List(_ context.Context) ([]domain.SupportSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return sortedValues(r.s.sessions), nil
}

func (r *MemorySessionRepository) ListPage(_ context.Context, req domain.PageRequest) ([]domain.SupportSession, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return sortedPage(sortedValues(r.s.sessions), req, sessionComparators, func(s domain.SupportSession) int64 { return s.ID })
}

func (r *MemorySessionRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.sessions, id)
	return nil
}

func (r *MemorySessionRepository) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.sessions)), nil
}

func (r *MemorySessionRepository) CountByUser(_ context.Context, userID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, s := range r.s.sessions {
		if s.UsuarioID == userID {
			n++
		}
	}
	return n, nil
}
