// Package v1 provides the business logic for API version 1: authentication,
// token issuance, and the user, professional and support-session services.
//
// Error Handling:
// This package defines sentinel errors for every failure a caller can act on.
// They are wrapped with context using fmt.Errorf("%w") when returned from
// business logic methods, and the web layer maps them to HTTP responses with
// errors.Is.
//
// Example Usage:
//
//	if user == nil {
//	    return nil, fmt.Errorf("get user %d: %w", id, ErrUserNotFound)
//	}
//
//	if sessions > 0 {
//	    return fmt.Errorf("delete user %d: %w", id, ErrUserHasSessions)
//	}
package v1

import "errors"

// Sentinel errors for business operations.
// These errors should be wrapped with context using fmt.Errorf("%w") when returned.
var (
	// ErrInvalidCredentials indicates the login is unknown or the password is wrong.
	// HTTP Status: 401 Unauthorized
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrLoginTaken indicates a registration reused an existing login.
	// HTTP Status: 400 Bad Request
	ErrLoginTaken = errors.New("login already registered")

	// ErrUserNotFound indicates no user has the requested ID.
	// HTTP Status: 404 Not Found
	ErrUserNotFound = errors.New("user not found")

	// ErrProfessionalNotFound indicates no professional has the requested ID.
	// HTTP Status: 404 Not Found
	ErrProfessionalNotFound = errors.New("professional not found")

	// ErrSessionNotFound indicates no support session has the requested ID.
	// HTTP Status: 404 Not Found
	ErrSessionNotFound = errors.New("support session not found")

	// ErrInvalidReference indicates a session points at a user or professional
	// that does not exist. Nothing is written.
	// HTTP Status: 400 Bad Request
	ErrInvalidReference = errors.New("referenced user or professional not found")

	// ErrUserHasSessions indicates a user cannot be deleted while sessions reference it.
	// HTTP Status: 409 Conflict
	ErrUserHasSessions = errors.New("user has support sessions")

	// ErrExternalService indicates a third-party call failed.
	// HTTP Status: 502 Bad Gateway
	ErrExternalService = errors.New("external service unavailable")
)
