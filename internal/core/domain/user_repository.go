package domain

import "context"

// UserRepository defines the data-access contract for user operations.
// Implementations live in internal/core/repository (Core layer).
// The Logic layer depends on this interface only, never on SQL or pgx directly.
type UserRepository interface {
	// Create inserts a new user and returns the generated user ID.
	Create(ctx context.Context, u *User) (int64, error)

	// Update replaces every mutable profile field of the user with u.ID.
	// Credentials and role are left untouched.
	Update(ctx context.Context, u *User) error

	// GetByID returns the user with the given ID.
	// Returns (nil, nil) when no user is found.
	GetByID(ctx context.Context, id int64) (*User, error)

	// GetByLogin returns the user matching the given login handle.
	// Returns (nil, nil) when no user is found.
	GetByLogin(ctx context.Context, login string) (*User, error)

	// ExistsByLogin returns true when a user with the given login exists.
	ExistsByLogin(ctx context.Context, login string) (bool, error)

	// List returns every user ordered by ID.
	List(ctx context.Context) ([]User, error)

	// ListPage returns one page of users and the total user count.
	ListPage(ctx context.Context, req PageRequest) ([]User, int64, error)

	Delete(ctx context.Context, id int64) error

	Count(ctx context.Context) (int64, error)
}
