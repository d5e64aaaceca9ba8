package services

import "errors"

var (
	// ErrTaskNotFound covers both an absent task and an owner mismatch.
	// Callers must not be able to tell the two apart.
	ErrTaskNotFound = errors.New("task not found")

	// ErrNoMatch is returned for unknown accounts and wrong passwords alike.
	ErrNoMatch = errors.New("invalid credentials")

	ErrUserExists = errors.New("username or email already exists")
)

// ValidationError reports a rejected input with a human-readable reason.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}
