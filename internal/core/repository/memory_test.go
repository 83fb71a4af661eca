package repository

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duynhne/aposta-apoio-service/internal/core/domain"
)

func seedProfessionals(t *testing.T, repo *MemoryProfessionalRepository, names ...string) {
	t.Helper()
	for _, n := range names {
		_, err := repo.Create(context.Background(), &domain.Professional{Nome: n, Especialidade: domain.SpecialtyCoaching})
		require.NoError(t, err)
	}
}

func TestMemoryProfessionals_ListPage(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProfessionalRepository(NewMemoryStore())
	seedProfessionals(t, repo, "Carla", "Ana", "Bruno", "Ana")

	items, total, err := repo.ListPage(ctx, domain.PageRequest{Page: 0, Size: 3, Sort: []domain.SortOrder{{Field: "nome"}}})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, items, 3)
	assert.Equal(t, []int64{2, 4, 3}, []int64{items[0].ID, items[1].ID, items[2].ID})

	items, _, err = repo.ListPage(ctx, domain.PageRequest{Page: 1, Size: 3, Sort: []domain.SortOrder{{Field: "nome"}}})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Carla", items[0].Nome)

	items, _, err = repo.ListPage(ctx, domain.PageRequest{Page: 0, Size: 10, Sort: []domain.SortOrder{{Field: "nome", Desc: true}}})
	require.NoError(t, err)
	assert.Equal(t, "Carla", items[0].Nome)

	items, _, err = repo.ListPage(ctx, domain.PageRequest{Page: 5, Size: 10})
	require.NoError(t, err)
	assert.Empty(t, items)

	// Page*Size wraps negative.
	items, _, err = repo.ListPage(ctx, domain.PageRequest{Page: math.MaxInt, Size: 2})
	require.NoError(t, err)
	assert.Empty(t, items)

	_, _, err = repo.ListPage(ctx, domain.PageRequest{Page: 0, Size: 10, Sort: []domain.SortOrder{{Field: "senha"}}})
	assert.ErrorIs(t, err, domain.ErrInvalidSort)
}

func TestMemoryUsers_UniqueLogin(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository(NewMemoryStore())

	_, err := repo.Create(ctx, &domain.User{Nome: "A", Login: "ana"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.User{Nome: "B", Login: "ana"})
	assert.ErrorIs(t, err, domain.ErrDataIntegrity)

	// Users created without a login never collide.
	_, err = repo.Create(ctx, &domain.User{Nome: "C"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.User{Nome: "D"})
	require.NoError(t, err)

	exists, err := repo.ExistsByLogin(ctx, "ana")
	require.NoError(t, err)
	assert.True(t, exists)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestMemoryUsers_UpdateKeepsCredentials(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository(NewMemoryStore())

	id, err := repo.Create(ctx, &domain.User{Nome: "Ana", Login: "ana", PasswordHash: "hash", Role: "USER"})
	require.NoError(t, err)

	require.NoError(t, repo.Update(ctx, &domain.User{ID: id, Nome: "Ana Maria"}))

	u, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", u.Nome)
	assert.Equal(t, "ana", u.Login)
	assert.Equal(t, "hash", u.PasswordHash)
}

func TestMemorySessions_ForeignKeys(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	users := NewMemoryUserRepository(store)
	pros := NewMemoryProfessionalRepository(store)
	sessions := NewMemorySessionRepository(store)

	uid, err := users.Create(ctx, &domain.User{Nome: "Ana"})
	require.NoError(t, err)
	pid, err := pros.Create(ctx, &domain.Professional{Nome: "Dr. Paulo"})
	require.NoError(t, err)

	_, err = sessions.Create(ctx, &domain.SupportSession{UsuarioID: uid, ProfissionalID: pid + 1})
	assert.ErrorIs(t, err, domain.ErrDataIntegrity)

	sid, err := sessions.Create(ctx, &domain.SupportSession{
		UsuarioID:      uid,
		ProfissionalID: pid,
		DataHora:       domain.DateTime{Time: time.Date(2025, 9, 20, 14, 30, 0, 0, time.UTC)},
	})
	require.NoError(t, err)

	assert.ErrorIs(t, users.Delete(ctx, uid), domain.ErrDataIntegrity)
	assert.ErrorIs(t, pros.Delete(ctx, pid), domain.ErrDataIntegrity)

	n, err := sessions.CountByUser(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, sessions.Delete(ctx, sid))
	require.NoError(t, users.Delete(ctx, uid))

	u, err := users.GetByID(ctx, uid)
	require.NoError(t, err)
	assert.Nil(t, u)
}
