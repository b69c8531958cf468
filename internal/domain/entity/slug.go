package entity

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// MaxSlugLength is the maximum slug length in runes.
const MaxSlugLength = 255

const (
	slugSeparator      = '-'
	fallbackSlugPrefix = "article-"
	fallbackTokenLen   = 12
)

// Slugify derives a URL-safe slug from a title.
//
// The title is NFKC-normalised and lowercased. Letters, marks, numbers and
// underscores are kept in any script; every other rune acts as a separator
// and each run of separators collapses into a single hyphen. Leading and
// trailing hyphens/underscores are stripped and the result is capped at
// MaxSlugLength runes.
//
// Slugify returns "" when the title contains nothing worth keeping
// (e.g. "!!!"); callers that need a slug use DeriveSlug instead.
//
// Examples:
//
//	Slugify("Hello World")     // "hello-world"
//	Slugify("Новости клуба!")  // "новости-клуба"
//	Slugify("Café — déjà vu")  // "café-déjà-vu"
func Slugify(title string) string {
	s := strings.ToLower(norm.NFKC.String(title))

	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for _, r := range s {
		if !isSlugRune(r) || r == slugSeparator {
			pendingSep = true
			continue
		}
		if pendingSep && b.Len() > 0 {
			b.WriteRune(slugSeparator)
		}
		pendingSep = false
		b.WriteRune(r)
	}

	return trimSlug(truncateRunes(trimSlug(b.String()), MaxSlugLength))
}

// FallbackSlug returns an opaque but deterministic slug for titles that
// slugify to nothing. The token is derived from a name-based UUID (v5) of
// the title, so the same title always yields the same fallback.
func FallbackSlug(title string) string {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(title))
	token := strings.ReplaceAll(id.String(), "-", "")
	return fallbackSlugPrefix + token[:fallbackTokenLen]
}

// DeriveSlug returns Slugify(title), or FallbackSlug(title) when that is empty.
// The result is never empty.
func DeriveSlug(title string) string {
	if slug := Slugify(title); slug != "" {
		return slug
	}
	return FallbackSlug(title)
}

// ValidateSlug checks an explicitly supplied slug.
// Only letters, marks, numbers, hyphens and underscores are allowed.
func ValidateSlug(slug string) error {
	if strings.TrimSpace(slug) == "" {
		return &ValidationError{Field: "slug", Message: "cannot be empty"}
	}
	if utf8.RuneCountInString(slug) > MaxSlugLength {
		return &ValidationError{
			Field:   "slug",
			Message: fmt.Sprintf("must not exceed %d characters", MaxSlugLength),
		}
	}
	for _, r := range slug {
		if !isSlugRune(r) {
			return &ValidationError{
				Field:   "slug",
				Message: "must contain only letters, numbers, hyphens or underscores",
			}
		}
	}
	return nil
}

func isSlugRune(r rune) bool {
	return r == '_' || r == slugSeparator ||
		unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsNumber(r)
}

func trimSlug(s string) string {
	return strings.Trim(s, "-_")
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
