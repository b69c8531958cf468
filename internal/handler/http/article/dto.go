// Package article provides the admin HTTP handlers for news articles.
// It includes handlers for listing, creating, updating and deleting articles,
// the bulk delete action, the admin schema and the slug preview.
package article

import (
	"time"

	"news-site/internal/common/pagination"
	"news-site/internal/domain/entity"
	"news-site/internal/handler/http/site"
)

// DTO represents the JSON structure for article data transfer.
type DTO struct {
	ID              int64     `json:"id" example:"1"`
	Title           string    `json:"title" example:"Town hall reopens after renovation"`
	Slug            string    `json:"slug" example:"town-hall-reopens-after-renovation"`
	Content         string    `json:"content" example:"<p>The town hall opens its doors again on Monday.</p>"`
	Image           string    `json:"image,omitempty" example:"news_images/1718000000000000000_hall.jpg"`
	ImageURL        string    `json:"image_url,omitempty" example:"/media/news_images/1718000000000000000_hall.jpg"`
	URL             string    `json:"url" example:"/news/town-hall-reopens-after-renovation/"`
	PublicationDate time.Time `json:"publication_date" example:"2025-10-26T10:00:00Z"`
	UpdatedAt       time.Time `json:"updated_at" example:"2025-10-26T12:00:00Z"`
}

// ListResponse is the admin list page. Columns mirrors the admin list display.
type ListResponse struct {
	Data       []DTO               `json:"data"`
	Columns    []string            `json:"columns" example:"title,publication_date,slug"`
	Pagination pagination.Metadata `json:"pagination"`
}

// BulkDeleteRequest is the body of the bulk delete action.
type BulkDeleteRequest struct {
	IDs []int64 `json:"ids" example:"1,2,3"`
}

// BulkDeleteResponse reports how many articles were removed.
type BulkDeleteResponse struct {
	Deleted int64 `json:"deleted" example:"3"`
}

// SlugResponse is the slug preview for a title.
type SlugResponse struct {
	Title string `json:"title" example:"Hello World"`
	Slug  string `json:"slug" example:"hello-world"`
}

func (h *Handler) toDTO(a *entity.Article) DTO {
	out := DTO{
		ID:              a.ID,
		Title:           a.Title,
		Slug:            a.Slug,
		Content:         a.Content,
		Image:           a.Image,
		URL:             site.DetailURL(a.Slug),
		PublicationDate: a.PublicationDate,
		UpdatedAt:       a.UpdatedAt,
	}
	if a.HasImage() && h.Images != nil {
		out.ImageURL = h.Images.URL(a.Image)
	}
	return out
}
