package article

import (
	"log/slog"
	"net/http"

	"news-site/internal/admin"
	"news-site/internal/common/pagination"
	"news-site/internal/infra/storage"
	artUC "news-site/internal/usecase/article"
)

// Handler serves the admin article API.
type Handler struct {
	Svc *artUC.Service
	// Images is optional; without it multipart uploads are rejected.
	Images        storage.AssetStore
	Admin         admin.ModelAdmin
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

// NewHandler returns a Handler using the article admin configuration.
func NewHandler(svc *artUC.Service, images storage.AssetStore, paginationCfg pagination.Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Svc:           svc,
		Images:        images,
		Admin:         admin.ArticleAdmin(),
		PaginationCfg: paginationCfg,
		Logger:        logger,
	}
}

// Register registers all admin article routes with the given mux.
func Register(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /admin/articles", h.List)
	mux.HandleFunc("POST /admin/articles", h.Create)
	mux.HandleFunc("GET /admin/articles/schema", h.Schema)
	mux.HandleFunc("POST /admin/articles/bulk-delete", h.BulkDelete)
	mux.HandleFunc("GET /admin/articles/{id}", h.Get)
	mux.HandleFunc("PUT /admin/articles/{id}", h.Update)
	mux.HandleFunc("DELETE /admin/articles/{id}", h.Delete)
	mux.HandleFunc("GET /admin/slugify", h.Slugify)
}
