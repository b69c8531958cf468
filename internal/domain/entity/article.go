// Package entity defines the core domain entities and validation logic for the application.
// It contains the Article entity, slug derivation rules and domain-specific errors.
package entity

import "time"

// Article represents a news article published on the site.
// Slug is the unique URL identifier; PublicationDate is fixed at creation
// while UpdatedAt moves forward on every mutation.
type Article struct {
	ID              int64
	Title           string
	Slug            string
	Content         string
	Image           string // relative asset path, empty when the article has no image
	PublicationDate time.Time
	UpdatedAt       time.Time
}

// HasImage reports whether the article references a stored image asset.
func (a *Article) HasImage() bool {
	return a.Image != ""
}

// Touch refreshes UpdatedAt, keeping it at or after PublicationDate.
func (a *Article) Touch(now time.Time) {
	if now.Before(a.PublicationDate) {
		now = a.PublicationDate
	}
	a.UpdatedAt = now
}
