package domain

import "context"

// SessionRepository defines the data-access contract for support sessions.
// Implementations live in internal/core/repository (Core layer).
type SessionRepository interface {
	// Create inserts a new session and returns the generated ID.
	Create(ctx context.Context, s *SupportSession) (int64, error)

	// Update replaces every mutable field of the session with s.ID.
	Update(ctx context.Context, s *SupportSession) error

	// GetByID returns the session with the given ID.
	// Returns (nil, nil) when no session is found.
	GetByID(ctx context.Context, id int64) (*SupportSession, error)

	List(ctx context.Context) ([]SupportSession, error)

	ListPage(ctx context.Context, req PageRequest) ([]SupportSession, int64, error)

	Delete(ctx context.Context, id int64) error

	Count(ctx context.Context) (int64, error)

	// CountByUser returns how many sessions reference the given user.
	CountByUser(ctx context.Context, userID int64) (int64, error)
}

// ProfessionalRepository defines the data-access contract for professionals.
type ProfessionalRepository interface {
	Create(ctx context.Context, p *Professional) (int64, error)

	Update(ctx context.Context, p *Professional) error

	// GetByID returns (nil, nil) when no professional is found.
	GetByID(ctx context.Context, id int64) (*Professional, error)

	List(ctx context.Context) ([]Professional, error)

	ListPage(ctx context.Context, req PageRequest) ([]Professional, int64, error)

	Delete(ctx context.Context, id int64) error

	Count(ctx context.Context) (int64, error)
}
