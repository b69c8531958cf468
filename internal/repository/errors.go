package repository

import "errors"

var (
	// ErrNotFound is returned by mutating operations when the target row does not exist.
	ErrNotFound = errors.New("repository: not found")

	// ErrSlugConflict is returned when a write violates the unique slug index.
	ErrSlugConflict = errors.New("repository: slug already exists")
)
