// Package article provides use cases for managing news articles.
// It implements the article store contract: slug derivation and uniqueness,
// newest-first listing, lookup by slug and administrator CRUD.
package article

import "errors"

// Sentinel errors for article use case operations.
var (
	// ErrArticleNotFound indicates that the requested article was not found.
	ErrArticleNotFound = errors.New("article not found")

	// ErrInvalidArticleID indicates that the provided article ID is invalid.
	// Article IDs must be positive integers.
	ErrInvalidArticleID = errors.New("invalid article ID")

	// ErrDuplicateSlug indicates that another article already uses the slug.
	// The store never overwrites or auto-suffixes on collision.
	ErrDuplicateSlug = errors.New("article with this slug already exists")
)
