package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duynhne/aposta-apoio-service/internal/core/domain"
)

const professionalSelect = `SELECT id, nome, email, especialidade, ` + addressColumns + ` FROM profissional`

var professionalSortColumns = map[string]string{
	"id":            "id",
	"nome":          "nome",
	"email":         "email",
	"especialidade": "especialidade",
}

// PgxProfessionalRepository implements domain.ProfessionalRepository using pgxpool.
type PgxProfessionalRepository struct {
	pool *pgxpool.Pool
}

func NewProfessionalRepository(pool *pgxpool.Pool) *PgxProfessionalRepository {
	return &PgxProfessionalRepository{pool: pool}
}

func (r *PgxProfessionalRepository) Create(ctx context.Context, p *domain.Professional) (int64, error) {
	query := `INSERT INTO profissional (nome, email, especialidade, ` + addressColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`

	args := append([]any{p.Nome, p.Email, string(p.Especialidade)}, addressArgs(p.Endereco)...)

	var id int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, translateError(err)
	}
	return id, nil
}

func (r *PgxProfessionalRepository) Update(ctx context.Context, p *domain.Professional) error {
	query := `UPDATE profissional SET nome = $1, email = $2, especialidade = $3,
		endereco_rua = $4, endereco_numero = $5, endereco_bairro = $6, endereco_cidade = $7,
		endereco_estado = $8, endereco_cep = $9
		WHERE id = $10`

	args := append([]any{p.Nome, p.Email, string(p.Especialidade)}, addressArgs(p.Endereco)...)
	args = append(args, p.ID)

	_, err := r.pool.Exec(ctx, query, args...)
	return translateError(err)
}

// GetByID returns (nil, nil) when no professional is found.
func (r *PgxProfessionalRepository) GetByID(ctx context.Context, id int64) (*domain.Professional, error) {
	p, err := scanProfessional(r.pool.QueryRow(ctx, professionalSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (r *PgxProfessionalRepository) List(ctx context.Context) ([]domain.Professional, error) {
	return r.query(ctx, professionalSelect+` ORDER BY id`)
}

func (r *PgxProfessionalRepository) ListPage(ctx context.Context, req domain.PageRequest) ([]domain.Professional, int64, error) {
	order, err := orderBy(req.Sort, professionalSortColumns)
	if err != nil {
		return nil, 0, err
	}
	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	items, err := r.query(ctx, professionalSelect+order+` LIMIT $1 OFFSET $2`, req.Size, req.Offset())
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *PgxProfessionalRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM profissional WHERE id = $1`, id)
	return translateError(err)
}

func (r *PgxProfessionalRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM profissional`).Scan(&n)
	return n, err
}

func (r *PgxProfessionalRepository) query(ctx context.Context, query string, args ...any) ([]domain.Professional, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Professional
	for rows.Next() {
		p, err := scanProfessional(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

func scanProfessional(row pgx.Row) (*domain.Professional, error) {
	var (
		p         domain.Professional
		specialty string
		addr      addressScan
	)
	targets := append([]any{&p.ID, &p.Nome, &p.Email, &specialty}, addr.targets()...)
	if err := row.Scan(targets...); err != nil {
		return nil, err
	}
	p.Especialidade = domain.Specialty(specialty)
	p.Endereco = addr.address()
	return &p, nil
}
