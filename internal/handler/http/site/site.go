// Package site renders the public HTML pages: the news index, article detail
// pages and the static about, contacts and activities pages.
package site

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"iter"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"news-site/internal/config"
	"news-site/internal/domain/entity"
	"news-site/internal/handler/http/respond"
	"news-site/internal/observability/metrics"
	"news-site/internal/utils/text"
	artUC "news-site/internal/usecase/article"
)

// IndexSize is the number of articles shown on the index page.
const IndexSize = 12

// ExcerptRunes bounds the plain-text excerpt on index cards.
const ExcerptRunes = 200

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// ArticleReader is the read side of the article store used by the site.
type ArticleReader interface {
	Recent(ctx context.Context, limit int) iter.Seq2[*entity.Article, error]
	GetBySlug(ctx context.Context, slug string) (*entity.Article, error)
}

// AssetURLer maps a stored asset path to its public URL.
type AssetURLer interface {
	URL(relPath string) string
}

// Handler serves the public site.
type Handler struct {
	articles  ArticleReader
	assets    AssetURLer
	site      *config.SiteConfig
	logger    *slog.Logger
	templates map[string]*template.Template
}

// pageData is the data passed to every template.
type pageData struct {
	Site     config.SiteInfo
	Articles []*entity.Article
	Article  *entity.Article
	Page     config.Page
}

// New parses the embedded templates. assets may be nil when images are not served.
func New(articles ArticleReader, assets AssetURLer, site *config.SiteConfig, logger *slog.Logger) (*Handler, error) {
	if site == nil {
		return nil, errors.New("site config is required")
	}
	h := &Handler{
		articles:  articles,
		assets:    assets,
		site:      site,
		logger:    logger,
		templates: make(map[string]*template.Template),
	}

	funcs := template.FuncMap{
		"detailURL":   DetailURL,
		"imageURL":    h.imageURL,
		"excerpt":     func(content string) string { return text.Excerpt(content, ExcerptRunes) },
		"richText":    richText,
		"displayDate": func(t time.Time) string { return t.Format("2 January 2006") },
		"isoDate":     func(t time.Time) string { return t.Format(time.RFC3339) },
	}
	for _, name := range []string{"index", "detail", "page", "not_found", "error"} {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		h.templates[name] = tmpl
	}
	return h, nil
}

// Register mounts the site routes on mux. Canonical page URLs end with a slash;
// the slash-less form redirects permanently.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.renderIndex)
	mux.HandleFunc("GET /news/{slug}/{$}", h.renderDetail)
	mux.HandleFunc("GET /news/{slug}", redirectToSlash)
	for _, key := range config.RequiredPages {
		mux.HandleFunc("GET /"+key+"/{$}", h.renderStatic(key))
		mux.HandleFunc("GET /"+key, redirectToSlash)
	}

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err) // embed パスの誤り
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))
	mux.HandleFunc("/", h.notFound)
}

// DetailURL returns the canonical URL of the article with slug.
func DetailURL(slug string) string {
	return "/news/" + url.PathEscape(slug) + "/"
}

func (h *Handler) renderIndex(w http.ResponseWriter, r *http.Request) {
	articles := make([]*entity.Article, 0, IndexSize)
	for a, err := range h.articles.Recent(r.Context(), IndexSize) {
		if err != nil {
			h.serverError(w, r, err)
			return
		}
		articles = append(articles, a)
	}
	h.render(w, r, http.StatusOK, "index", pageData{Site: h.site.Site, Articles: articles})
}

func (h *Handler) renderDetail(w http.ResponseWriter, r *http.Request) {
	article, err := h.articles.GetBySlug(r.Context(), r.PathValue("slug"))
	if errors.Is(err, artUC.ErrArticleNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "detail", pageData{Site: h.site.Site, Article: article})
}

func (h *Handler) renderStatic(key string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, ok := h.site.Page(key)
		if !ok {
			h.notFound(w, r)
			return
		}
		h.render(w, r, http.StatusOK, "page", pageData{Site: h.site.Site, Page: page})
	}
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "not_found", pageData{Site: h.site.Site})
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "page render failed",
		slog.String("path", r.URL.Path),
		slog.String("error", respond.SanitizeError(err)))
	h.render(w, r, http.StatusInternalServerError, "error", pageData{Site: h.site.Site})
}

// render executes into a buffer so that a template error never leaves a half-written page.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, code int, name string, data pageData) {
	var buf bytes.Buffer
	if err := h.templates[name].ExecuteTemplate(&buf, "base", data); err != nil {
		h.logger.ErrorContext(r.Context(), "template execution failed",
			slog.String("template", name),
			slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	metrics.RecordPageRender(name)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) imageURL(path string) string {
	if path == "" || h.assets == nil {
		return ""
	}
	return h.assets.URL(path)
}

// richText renders article content as HTML.
func richText(content string) template.HTML {
	return template.HTML(content) // #nosec G203 -- content is authored through the admin API only
}

func redirectToSlash(w http.ResponseWriter, r *http.Request) {
	target := r.URL.EscapedPath() + "/"
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusMovedPermanently)
}
