package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duynhne/aposta-apoio-service/internal/core/domain"
)

const userSelect = `SELECT id, nome, email, telefone, cpf, data_nascimento, ` + addressColumns + `, login, senha, role FROM usuario`

var userSortColumns = map[string]string{
	"id":             "id",
	"nome":           "nome",
	"email":          "email",
	"cpf":            "cpf",
	"dataNascimento": "data_nascimento",
}

// PgxUserRepository implements domain.UserRepository using pgxpool.
type PgxUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PgxUserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PgxUserRepository {
	return &PgxUserRepository{pool: pool}
}

// Create inserts a new user and returns the generated user ID.
func (r *PgxUserRepository) Create(ctx context.Context, u *domain.User) (int64, error) {
	query := `INSERT INTO usuario (nome, email, telefone, cpf, data_nascimento, ` + addressColumns + `, login, senha, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`

	args := []any{u.Nome, u.Email, u.Telefone, u.CPF, dateArg(u.DataNascimento)}
	args = append(args, addressArgs(u.Endereco)...)
	args = append(args, nullIfEmpty(u.Login), nullIfEmpty(u.PasswordHash), u.Role)

	var id int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, translateError(err)
	}
	return id, nil
}

// Update replaces the profile fields of the user with u.ID.
func (r *PgxUserRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE usuario SET nome = $1, email = $2, telefone = $3, cpf = $4, data_nascimento = $5,
		endereco_rua = $6, endereco_numero = $7, endereco_bairro = $8, endereco_cidade = $9,
		endereco_estado = $10, endereco_cep = $11
		WHERE id = $12`

	args := []any{u.Nome, u.Email, u.Telefone, u.CPF, dateArg(u.DataNascimento)}
	args = append(args, addressArgs(u.Endereco)...)
	args = append(args, u.ID)

	_, err := r.pool.Exec(ctx, query, args...)
	return translateError(err)
}

// GetByID returns the user with the given ID.
// Returns (nil, nil) when no user is found.
func (r *PgxUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, userSelect+` WHERE id = $1`, id)
}

// GetByLogin returns the user matching the given login handle.
// Returns (nil, nil) when no user is found.
func (r *PgxUserRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	return r.getOne(ctx, userSelect+` WHERE login = $1`, login)
}

// ExistsByLogin returns true when a user with the given login exists.
func (r *PgxUserRepository) ExistsByLogin(ctx context.Context, login string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM usuario WHERE login = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, login).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// List returns every user ordered by ID.
func (r *PgxUserRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.query(ctx, userSelect+` ORDER BY id`)
}

// ListPage returns one page of users and the total count.
func (r *PgxUserRepository) ListPage(ctx context.Context, req domain.PageRequest) ([]domain.User, int64, error) {
	order, err := orderBy(req.Sort, userSortColumns)
	if err != nil {
		return nil, 0, err
	}
	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	users, err := r.query(ctx, userSelect+order+` LIMIT $1 OFFSET $2`, req.Size, req.Offset())
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *PgxUserRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM usuario WHERE id = $1`, id)
	return translateError(err)
}

func (r *PgxUserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM usuario`).Scan(&n)
	return n, err
}

func (r *PgxUserRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func (r *PgxUserRepository) query(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u     domain.User
		birth *time.Time
		addr  addressScan
		login *string
		hash  *string
	)
	targets := []any{&u.ID, &u.Nome, &u.Email, &u.Telefone, &u.CPF, &birth}
	targets = append(targets, addr.targets()...)
	targets = append(targets, &login, &hash, &u.Role)

	if err := row.Scan(targets...); err != nil {
		return nil, err
	}
	if birth != nil {
		u.DataNascimento = &domain.Date{Time: *birth}
	}
	u.Endereco = addr.address()
	u.Login = deref(login)
	u.PasswordHash = deref(hash)
	return &u, nil
}

func dateArg(d *domain.Date) any {
	if d == nil {
		return nil
	}
	return d.Time
}
