package ports

import "errors"

// Standard application-level errors.
// Adapters wrap underlying infrastructure errors with these sentinels so
// the service layer can branch with errors.Is without knowing the backend.
var (
	// Command-path errors, returned synchronously to the caller.
	ErrDuplicateStream     = errors.New("event stream already exists")
	ErrStreamNotFound      = errors.New("event stream not found")
	ErrNotFound            = errors.New("resource not found")
	ErrConcurrencyConflict = errors.New("event stream version conflict")
	ErrValidation          = errors.New("invalid command payload")

	// Projection-path errors, retried internally via event redelivery and
	// never surfaced to the command's caller.
	ErrProjectionApply = errors.New("failed to apply event to read model")

	// Database specific errors.
	ErrDBConnection = errors.New("database connection error")
	ErrQueryFailed  = errors.New("database query failed")
)
