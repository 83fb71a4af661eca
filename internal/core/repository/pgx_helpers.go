package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/duynhne/aposta-apoio-service/internal/core/domain"
)

// Postgres SQLSTATE codes that surface as domain.ErrDataIntegrity.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
)

// translateError maps constraint violations to domain.ErrDataIntegrity and
// leaves every other error untouched.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgForeignKeyViolation, pgNotNullViolation:
			return fmt.Errorf("%s: %w", pgErr.ConstraintName, domain.ErrDataIntegrity)
		}
	}
	return err
}

// addressColumns are the embedded address columns in insert/select order.
const addressColumns = "endereco_rua, endereco_numero, endereco_bairro, endereco_cidade, endereco_estado, endereco_cep"

// addressScan receives nullable address columns.
type addressScan struct {
	Rua, Numero, Bairro, Cidade, Estado, Cep *string
}

func (a *addressScan) targets() []any {
	return []any{&a.Rua, &a.Numero, &a.Bairro, &a.Cidade, &a.Estado, &a.Cep}
}

// address returns nil when every column was NULL.
func (a *addressScan) address() *domain.Address {
	if a.Rua == nil && a.Numero == nil && a.Bairro == nil && a.Cidade == nil && a.Estado == nil && a.Cep == nil {
		return nil
	}
	return &domain.Address{
		Rua:    deref(a.Rua),
		Numero: deref(a.Numero),
		Bairro: deref(a.Bairro),
		Cidade: deref(a.Cidade),
		Estado: deref(a.Estado),
		Cep:    deref(a.Cep),
	}
}

// addressArgs returns six NULLs for a nil address.
func addressArgs(a *domain.Address) []any {
	if a == nil {
		return []any{nil, nil, nil, nil, nil, nil}
	}
	return []any{a.Rua, a.Numero, a.Bairro, a.Cidade, a.Estado, a.Cep}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// orderBy builds an ORDER BY clause from public sort fields. columns maps
// each allowed public name to its SQL column; id is always the final
// tie-breaker so pages are stable.
func orderBy(sort []domain.SortOrder, columns map[string]string) (string, error) {
	parts := make([]string, 0, len(sort)+1)
	for _, s := range sort {
		col, ok := columns[s.Field]
		if !ok {
			return "", fmt.Errorf("sort by %q: %w", s.Field, domain.ErrInvalidSort)
		}
		dir := "ASC"
		if s.Desc {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
	}
	parts = append(parts, "id ASC")
	return " ORDER BY " + strings.Join(parts, ", "), nil
}
