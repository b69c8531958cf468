// Package admin describes how articles are presented to administrators:
// list columns, filters, search fields, the prepopulated slug and the edit form layout.
// The structure is static and shared by the admin API, its schema endpoint and the CLI.
package admin

import "news-site/internal/domain/entity"

// Article field names as exposed by the admin API.
const (
	FieldTitle           = "title"
	FieldSlug            = "slug"
	FieldContent         = "content"
	FieldImage           = "image"
	FieldPublicationDate = "publication_date"
	FieldUpdatedAt       = "updated_at"
)

// Fieldset groups form fields under a heading.
type Fieldset struct {
	Name   string   `json:"name" example:"Main"`
	Fields []string `json:"fields" example:"title,slug,content"`
}

// ModelAdmin is the admin configuration of one model.
type ModelAdmin struct {
	Model         string              `json:"model" example:"article"`
	ListDisplay   []string            `json:"list_display"`
	ListFilter    []string            `json:"list_filter"`
	SearchFields  []string            `json:"search_fields"`
	Prepopulated  map[string][]string `json:"prepopulated_fields"`
	DateHierarchy string              `json:"date_hierarchy" example:"publication_date"`
	Ordering      []string            `json:"ordering"`
	Fieldsets     []Fieldset          `json:"fieldsets"`
}

// ArticleAdmin returns the admin configuration for articles.
// Each call returns a fresh copy that callers may modify.
func ArticleAdmin() ModelAdmin {
	return ModelAdmin{
		Model:         "article",
		ListDisplay:   []string{FieldTitle, FieldPublicationDate, FieldSlug},
		ListFilter:    []string{FieldPublicationDate},
		SearchFields:  []string{FieldTitle, FieldContent},
		Prepopulated:  map[string][]string{FieldSlug: {FieldTitle}},
		DateHierarchy: FieldPublicationDate,
		Ordering:      []string{"-" + FieldPublicationDate},
		Fieldsets: []Fieldset{
			{Name: "Main", Fields: []string{FieldTitle, FieldSlug, FieldContent}},
			{Name: "Media", Fields: []string{FieldImage}},
		},
	}
}

// Row renders the list display columns of a for tabular output.
func (m ModelAdmin) Row(a *entity.Article) []string {
	row := make([]string, 0, len(m.ListDisplay))
	for _, field := range m.ListDisplay {
		row = append(row, Value(a, field))
	}
	return row
}

// Value returns the display value of one article field.
func Value(a *entity.Article, field string) string {
	switch field {
	case FieldTitle:
		return a.Title
	case FieldSlug:
		return a.Slug
	case FieldContent:
		return a.Content
	case FieldImage:
		return a.Image
	case FieldPublicationDate:
		return a.PublicationDate.Format("2006-01-02 15:04")
	case FieldUpdatedAt:
		return a.UpdatedAt.Format("2006-01-02 15:04")
	}
	return ""
}

// PrepopulateSlug derives the value of the prepopulated slug field from title.
func PrepopulateSlug(title string) string {
	return entity.DeriveSlug(title)
}
