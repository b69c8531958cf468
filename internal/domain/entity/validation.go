package entity

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxTitleLength is the maximum article title length in runes.
const MaxTitleLength = 255

// ValidateTitle checks that a title is present and within MaxTitleLength.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Message: "is required"}
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return &ValidationError{
			Field:   "title",
			Message: fmt.Sprintf("must not exceed %d characters", MaxTitleLength),
		}
	}
	return nil
}

// ValidateContent checks that the article body is not blank.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return &ValidationError{Field: "content", Message: "is required"}
	}
	return nil
}

// Validate checks every field of an article that is about to be persisted.
func (a *Article) Validate() error {
	if err := ValidateTitle(a.Title); err != nil {
		return err
	}
	if err := ValidateSlug(a.Slug); err != nil {
		return err
	}
	if err := ValidateContent(a.Content); err != nil {
		return err
	}
	if a.UpdatedAt.Before(a.PublicationDate) {
		return &ValidationError{Field: "updated_at", Message: "must not be before publication_date"}
	}
	return nil
}
