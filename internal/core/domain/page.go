package domain

// DefaultPageSize and MaxPageSize bound the size query parameter.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// SortOrder orders a listing by one public field name (e.g. "nome").
type SortOrder struct {
	Field string
	Desc  bool
}

// PageRequest selects a zero-based page of a listing.
type PageRequest struct {
	Page int
	Size int
	Sort []SortOrder
}

// Offset returns the number of rows skipped before this page.
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// Page is one slice of a listing plus the totals needed to navigate it.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// NewPage builds a Page from one slice of rows and the total row count.
func NewPage[T any](content []T, req PageRequest, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}

// MapPage converts the content of a page while keeping its totals.
func MapPage[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, len(p.Content))
	for i, v := range p.Content {
		out[i] = fn(v)
	}
	return Page[U]{
		Content:       out,
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
	}
}

// Sortable fields per resource, keyed by public (JSON) name.
var (
	UserSortFields         = []string{"id", "nome", "email", "cpf", "dataNascimento"}
	ProfessionalSortFields = []string{"id", "nome", "email", "especialidade"}
	SessionSortFields      = []string{"id", "dataHora", "usuarioId", "profissionalId"}
)
