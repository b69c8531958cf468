package article

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"news-site/internal/common/pagination"
	"news-site/internal/domain/entity"
	"news-site/internal/observability/metrics"
	"news-site/internal/observability/tracing"
	"news-site/internal/repository"
)

// MaxBulkDelete is the maximum number of IDs accepted by DeleteMany.
const MaxBulkDelete = 100

// AssetRemover deletes stored image assets that are no longer referenced.
type AssetRemover interface {
	Remove(ctx context.Context, path string) error
}

// CreateInput represents the input parameters for creating a new article.
// An empty Slug is derived from Title.
type CreateInput struct {
	Title   string
	Slug    string
	Content string
	Image   string
}

// UpdateInput represents the input parameters for updating an existing article.
// Fields with nil values will not be updated. A non-nil empty Image clears the
// image, as does ClearImage.
type UpdateInput struct {
	ID         int64
	Title      *string
	Slug       *string
	Content    *string
	Image      *string
	ClearImage bool
}

// SearchInput represents the admin list query.
type SearchInput struct {
	Query string     // whitespace separated keywords, all must match
	From  *time.Time // publication_date lower bound (inclusive)
	To    *time.Time // publication_date upper bound (inclusive)
	Page  int
	Limit int
}

// PaginatedResult represents the result of a paginated query.
// It contains both the data and pagination metadata.
type PaginatedResult struct {
	Data       []*entity.Article
	Pagination pagination.Metadata
}

// Service provides article management use cases.
// It handles business logic for article operations and delegates persistence to the repository.
type Service struct {
	Repo repository.ArticleRepository
	// Assets is optional; when set, replaced or orphaned images are removed.
	Assets AssetRemover
	// Pagination bounds the admin list. Zero value means pagination.DefaultConfig().
	Pagination pagination.Config
	// Now is the clock used for publication_date/updated_at. Defaults to UTC time.Now.
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *Service) paginationConfig() pagination.Config {
	if s.Pagination.MaxLimit <= 0 {
		return pagination.DefaultConfig()
	}
	return s.Pagination
}

// Create validates the input, derives the slug when absent and persists a new article.
// Returns a ValidationError for invalid input and ErrDuplicateSlug when the slug is taken.
func (s *Service) Create(ctx context.Context, in CreateInput) (_ *entity.Article, err error) {
	ctx, span := tracing.StartSpan(ctx, "article.Create")
	defer func() { tracing.EndSpan(span, err) }()

	if err := entity.ValidateTitle(in.Title); err != nil {
		return nil, err
	}
	if err := entity.ValidateContent(in.Content); err != nil {
		return nil, err
	}

	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = entity.Slugify(in.Title)
		if slug == "" {
			slug = entity.FallbackSlug(in.Title)
			metrics.RecordFallbackSlug()
		}
	} else if err := entity.ValidateSlug(slug); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("article.slug", slug))

	if err := s.ensureSlugAvailable(ctx, slug, 0); err != nil {
		return nil, err
	}

	now := s.now()
	art := &entity.Article{
		Title:           in.Title,
		Slug:            slug,
		Content:         in.Content,
		Image:           strings.TrimSpace(in.Image),
		PublicationDate: now,
		UpdatedAt:       now,
	}
	if err := art.Validate(); err != nil {
		return nil, err
	}

	if err := s.Repo.Create(ctx, art); err != nil {
		if errors.Is(err, repository.ErrSlugConflict) {
			metrics.RecordSlugConflict()
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSlug, slug)
		}
		return nil, fmt.Errorf("create article: %w", err)
	}

	metrics.RecordArticleMutation("create")
	return art, nil
}

// Get retrieves a single article by its ID.
// Returns ErrInvalidArticleID if the ID is not positive.
// Returns ErrArticleNotFound if the article does not exist.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Article, error) {
	if id <= 0 {
		return nil, ErrInvalidArticleID
	}

	article, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}
	return article, nil
}

// GetBySlug retrieves the article with exactly this slug.
// Returns ErrArticleNotFound if no article has the slug.
func (s *Service) GetBySlug(ctx context.Context, slug string) (_ *entity.Article, err error) {
	ctx, span := tracing.StartSpan(ctx, "article.GetBySlug", attribute.String("article.slug", slug))
	defer func() {
		if errors.Is(err, ErrArticleNotFound) {
			tracing.EndSpan(span, nil)
			return
		}
		tracing.EndSpan(span, err)
	}()

	if strings.TrimSpace(slug) == "" {
		return nil, ErrArticleNotFound
	}

	article, err := s.Repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get article by slug: %w", err)
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}
	return article, nil
}

// ListRecent returns up to limit articles, newest publication first.
// A non-positive limit yields an empty slice without querying storage.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]*entity.Article, error) {
	if limit <= 0 {
		return []*entity.Article{}, nil
	}

	start := time.Now()
	articles, err := s.Repo.ListRecent(ctx, limit)
	metrics.RecordOperationDuration("list_recent", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("list recent articles: %w", err)
	}
	if articles == nil {
		articles = []*entity.Article{}
	}
	return articles, nil
}

// Recent is the lazy form of ListRecent. The sequence is finite and
// restartable: every range over it queries the store again. A storage
// failure is yielded once as (nil, err) and ends the sequence.
func (s *Service) Recent(ctx context.Context, limit int) iter.Seq2[*entity.Article, error] {
	return func(yield func(*entity.Article, error) bool) {
		articles, err := s.ListRecent(ctx, limit)
		if err != nil {
			yield(nil, err)
			return
		}
		for _, a := range articles {
			if !yield(a, nil) {
				return
			}
		}
	}
}

// Update modifies an existing article with the provided input.
// Only non-nil fields in the input will be updated. The slug is never
// recomputed from a new title; an explicit new slug is validated and must be unique.
// Returns ErrInvalidArticleID, ErrArticleNotFound, ErrDuplicateSlug or a ValidationError.
func (s *Service) Update(ctx context.Context, in UpdateInput) (_ *entity.Article, err error) {
	ctx, span := tracing.StartSpan(ctx, "article.Update", attribute.Int64("article.id", in.ID))
	defer func() { tracing.EndSpan(span, err) }()

	if in.ID <= 0 {
		return nil, ErrInvalidArticleID
	}

	art, err := s.Repo.Get(ctx, in.ID)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if art == nil {
		return nil, ErrArticleNotFound
	}
	oldImage := art.Image

	if in.Title != nil {
		if err := entity.ValidateTitle(*in.Title); err != nil {
			return nil, err
		}
		art.Title = *in.Title
	}
	if in.Content != nil {
		if err := entity.ValidateContent(*in.Content); err != nil {
			return nil, err
		}
		art.Content = *in.Content
	}
	if in.Slug != nil {
		slug := strings.TrimSpace(*in.Slug)
		if err := entity.ValidateSlug(slug); err != nil {
			return nil, err
		}
		if slug != art.Slug {
			if err := s.ensureSlugAvailable(ctx, slug, art.ID); err != nil {
				return nil, err
			}
			art.Slug = slug
		}
	}
	switch {
	case in.Image != nil:
		art.Image = strings.TrimSpace(*in.Image)
	case in.ClearImage:
		art.Image = ""
	}

	art.Touch(s.now())
	if err := art.Validate(); err != nil {
		return nil, err
	}

	if err := s.Repo.Update(ctx, art); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrArticleNotFound
		case errors.Is(err, repository.ErrSlugConflict):
			metrics.RecordSlugConflict()
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSlug, art.Slug)
		}
		return nil, fmt.Errorf("update article: %w", err)
	}

	if oldImage != "" && oldImage != art.Image {
		s.removeAsset(ctx, oldImage)
	}

	metrics.RecordArticleMutation("update")
	return art, nil
}

// Delete removes an article by its ID together with its image asset.
// Returns ErrInvalidArticleID if the ID is not positive.
// Returns ErrArticleNotFound if the article does not exist.
func (s *Service) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := tracing.StartSpan(ctx, "article.Delete", attribute.Int64("article.id", id))
	defer func() { tracing.EndSpan(span, err) }()

	if id <= 0 {
		return ErrInvalidArticleID
	}

	art, err := s.Repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get article: %w", err)
	}
	if art == nil {
		return ErrArticleNotFound
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrArticleNotFound
		}
		return fmt.Errorf("delete article: %w", err)
	}

	if art.HasImage() {
		s.removeAsset(ctx, art.Image)
	}
	metrics.RecordArticleMutation("delete")
	return nil
}

// DeleteMany removes every listed article and returns how many were deleted.
// Unknown IDs are ignored. Non-positive IDs are rejected with ErrInvalidArticleID.
func (s *Service) DeleteMany(ctx context.Context, ids []int64) (_ int64, err error) {
	ctx, span := tracing.StartSpan(ctx, "article.DeleteMany", attribute.Int("article.count", len(ids)))
	defer func() { tracing.EndSpan(span, err) }()

	if len(ids) == 0 {
		return 0, &entity.ValidationError{Field: "ids", Message: "must not be empty"}
	}
	if len(ids) > MaxBulkDelete {
		return 0, &entity.ValidationError{Field: "ids", Message: fmt.Sprintf("must not contain more than %d items", MaxBulkDelete)}
	}

	seen := make(map[int64]struct{}, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return 0, ErrInvalidArticleID
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	// 画像パスは削除前に取得しておく
	var images []string
	if s.Assets != nil {
		for _, id := range unique {
			art, err := s.Repo.Get(ctx, id)
			if err != nil {
				return 0, fmt.Errorf("get article: %w", err)
			}
			if art != nil && art.HasImage() {
				images = append(images, art.Image)
			}
		}
	}

	deleted, err := s.Repo.DeleteBatch(ctx, unique)
	if err != nil {
		return 0, fmt.Errorf("delete articles: %w", err)
	}

	for _, img := range images {
		s.removeAsset(ctx, img)
	}
	metrics.RecordArticlesDeleted(deleted)
	return deleted, nil
}

// Search returns one page of the admin article list.
// Every whitespace separated keyword of Query must match title or content.
func (s *Service) Search(ctx context.Context, in SearchInput) (*PaginatedResult, error) {
	if in.From != nil && in.To != nil && in.From.After(*in.To) {
		return nil, &entity.ValidationError{Field: "to", Message: "must not be before from"}
	}

	cfg := s.paginationConfig()
	params := pagination.Params{Page: in.Page, Limit: in.Limit}.Normalize(cfg)

	filters := repository.ArticleSearchFilters{
		Keywords: ParseKeywords(in.Query),
		From:     in.From,
		To:       in.To,
	}

	total, err := s.Repo.Count(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("count articles: %w", err)
	}

	articles, err := s.Repo.Search(ctx, filters, params.Offset(), params.Limit)
	if err != nil {
		return nil, fmt.Errorf("search articles: %w", err)
	}
	if articles == nil {
		articles = []*entity.Article{}
	}

	return &PaginatedResult{
		Data:       articles,
		Pagination: pagination.NewMetadata(params, total),
	}, nil
}

// Count returns the total number of stored articles.
func (s *Service) Count(ctx context.Context) (int64, error) {
	n, err := s.Repo.Count(ctx, repository.ArticleSearchFilters{})
	if err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return n, nil
}

// ParseKeywords splits a search query on whitespace, dropping duplicates.
func ParseKeywords(query string) []string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		key := strings.ToLower(f)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, f)
	}
	return out
}

func (s *Service) ensureSlugAvailable(ctx context.Context, slug string, excludeID int64) error {
	exists, err := s.Repo.ExistsBySlug(ctx, slug, excludeID)
	if err != nil {
		return fmt.Errorf("check slug: %w", err)
	}
	if exists {
		metrics.RecordSlugConflict()
		return fmt.Errorf("%w: %q", ErrDuplicateSlug, slug)
	}
	return nil
}

// removeAsset deletes an unreferenced image. Failures are logged only.
func (s *Service) removeAsset(ctx context.Context, path string) {
	if s.Assets == nil {
		return
	}
	if err := s.Assets.Remove(ctx, path); err != nil {
		metrics.RecordAssetOperation("remove", false)
		slog.WarnContext(ctx, "failed to remove article image",
			slog.String("path", path),
			slog.Any("error", err))
		return
	}
	metrics.RecordAssetOperation("remove", true)
}
