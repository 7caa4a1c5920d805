package errors

import "errors"

// This package defines the sentinel errors shared by the service and API layers.
// Services wrap these with fmt.Errorf("...: %w", ...) and the API layer maps them
// to HTTP status codes with errors.Is(), so neither side depends on the other's
// implementation details.

var (
	// ErrNotFound signifies that a requested resource could not be located.
	// This is typically mapped to a 404 Not Found HTTP status.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation signifies that input data provided by a client failed
	// business rule validation.
	// This is typically mapped to a 400 Bad Request HTTP status.
	ErrValidation = errors.New("validation failed")

	// ErrConflict signifies that an operation conflicts with the current state
	// of a resource.
	// This is typically mapped to a 409 Conflict HTTP status.
	ErrConflict = errors.New("resource conflict")

	// ErrPermission signifies that the authenticated user is not allowed to
	// touch the resource (e.g. another couple's chat).
	// This is typically mapped to a 403 Forbidden HTTP status.
	ErrPermission = errors.New("permission denied")

	// ErrUnauthorized signifies a missing or invalid bearer token.
	// This is typically mapped to a 401 Unauthorized HTTP status.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited signifies that the caller exceeded the chat request budget.
	// This is typically mapped to a 429 Too Many Requests HTTP status.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInternal signifies an unexpected error on the server.
	// This is typically mapped to a 500 Internal Server Error HTTP status.
	ErrInternal = errors.New("internal server error")
)
