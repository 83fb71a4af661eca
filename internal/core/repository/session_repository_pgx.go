package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duynhne/aposta-apoio-service/internal/core/domain"
)

const sessionSelect = `SELECT id, usuario_id, profissional_id, data_hora, descricao FROM sessao_apoio`

var sessionSortColumns = map[string]string{
	"id":             "id",
	"dataHora":       "data_hora",
	"usuarioId":      "usuario_id",
	"profissionalId": "profissional_id",
}

// PgxSessionRepository implements domain.SessionRepository using pgxpool.
type PgxSessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new PgxSessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *PgxSessionRepository {
	return &PgxSessionRepository{pool: pool}
}

// Create inserts a new support session and returns its ID.
func (r *PgxSessionRepository) Create(ctx context.Context, s *domain.SupportSession) (int64, error) {
	query := `INSERT INTO sessao_apoio (usuario_id, profissional_id, data_hora, descricao)
		VALUES ($1, $2, $3, $4) RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query, s.UsuarioID, s.ProfissionalID, s.DataHora.Time, s.Descricao).Scan(&id)
	if err != nil {
		return 0, translateError(err)
	}
	return id, nil
}

func (r *PgxSessionRepository) Update(ctx context.Context, s *domain.SupportSession) error {
	query := `UPDATE sessao_apoio SET usuario_id = $1, profissional_id = $2, data_hora = $3, descricao = $4
		WHERE id = $5`
	_, err := r.pool.Exec(ctx, query, s.UsuarioID, s.ProfissionalID, s.DataHora.Time, s.Descricao, s.ID)
	return translateError(err)
}

// GetByID returns the session with the given ID.
// Returns (nil, nil) when no session is found.
func (r *PgxSessionRepository) GetByID(ctx context.Context, id int64) (*domain.SupportSession, error) {
	s, err := scanSession(r.pool.QueryRow(ctx, sessionSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

func (r *PgxSessionRepository) List(ctx context.Context) ([]domain.SupportSession, error) {
	return r.query(ctx, sessionSelect+` ORDER BY id`)
}

func (r *PgxSessionRepository) ListPage(ctx context.Context, req domain.PageRequest) ([]domain.SupportSession, int64, error) {
	order, err := orderBy(req.Sort, sessionSortColumns)
	if err != nil {
		return nil, 0, err
	}
	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	items, err := r.query(ctx, sessionSelect+order+` LIMIT $1 OFFSET $2`, req.Size, req.Offset())
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *PgxSessionRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessao_apoio WHERE id = $1`, id)
	return translateError(err)
}

func (r *PgxSessionRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM sessao_apoio`).Scan(&n)
	return n, err
}

// CountByUser returns how many sessions reference the given user.
func (r *PgxSessionRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM sessao_apoio WHERE usuario_id = $1`, userID).Scan(&n)
	return n, err
}

func (r *PgxSessionRepository) query(ctx context.Context, query string, args ...any) ([]domain.SupportSession, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.SupportSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	return items, rows.Err()
}

func scanSession(row pgx.Row) (*domain.SupportSession, error) {
	var (
		s        domain.SupportSession
		dataHora time.Time
	)
	if err := row.Scan(&s.ID, &s.UsuarioID, &s.ProfissionalID, &dataHora, &s.Descricao); err != nil {
		return nil, err
	}
	s.DataHora = domain.DateTime{Time: dataHora}
	return &s, nil
}
