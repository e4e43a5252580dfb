// internal/services/errors.go
package services

import "errors"

// Sentinel errors returned by the service layer. Handlers map these onto
// HTTP status codes with errors.Is.
var (
	// ErrNotFound: the requested resource does not exist or is soft-deleted.
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden: the caller is authenticated but not allowed to act on
	// this resource (wrong owner, wrong role).
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidTransition: the requested status change has no edge in the
	// workflow for this actor, or the application moved concurrently.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidState: the operation is not permitted in the application's
	// current status (e.g. editing after a decision).
	ErrInvalidState = errors.New("operation not permitted in current status")

	// ErrDuplicate: a uniqueness rule was violated (existing application,
	// taken username or email).
	ErrDuplicate = errors.New("resource already exists")

	// ErrInvalidCredentials: login failed or the account is blocked.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
