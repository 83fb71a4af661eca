package domain

import "errors"

// ErrDataIntegrity is returned by repositories when the store rejects a write
// because of a unique or foreign-key constraint.
var ErrDataIntegrity = errors.New("data integrity violation")

// ErrInvalidSort is returned when a sort field is not allowed for a resource.
var ErrInvalidSort = errors.New("invalid sort property")
