package storage

import "errors"

// Sentinel errors for storage operations.
var (
	// ErrNotFound is returned when a row does not exist or is owned by a
	// different account. Callers must not be able to tell the two apart.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned on uniqueness violations (duplicate email).
	ErrConflict = errors.New("already exists")
)
