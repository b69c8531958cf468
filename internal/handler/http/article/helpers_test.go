package article_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"news-site/internal/common/pagination"
	"news-site/internal/domain/entity"
	"news-site/internal/handler/http/article"
	"news-site/internal/handler/http/respond"
	"news-site/internal/repository"
	artUC "news-site/internal/usecase/article"
)

/* ───────── スタブ実装 ───────── */

// インメモリ ArticleRepository
type memRepo struct {
	mu     sync.Mutex
	data   map[int64]*entity.Article
	nextID int64
	err    error
}

func newMemRepo() *memRepo {
	return &memRepo{data: map[int64]*entity.Article{}, nextID: 1}
}

func (m *memRepo) put(a *entity.Article) *entity.Article {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = m.nextID
	m.nextID++
	c := *a
	m.data[a.ID] = &c
	return a
}

func (m *memRepo) sorted(f repository.ArticleSearchFilters) []*entity.Article {
	out := make([]*entity.Article, 0, len(m.data))
	for _, v := range m.data {
		if !matches(v, f) {
			continue
		}
		c := *v
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PublicationDate.Equal(out[j].PublicationDate) {
			return out[i].PublicationDate.After(out[j].PublicationDate)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func matches(a *entity.Article, f repository.ArticleSearchFilters) bool {
	for _, kw := range f.Keywords {
		kw = strings.ToLower(kw)
		if !strings.Contains(strings.ToLower(a.Title), kw) && !strings.Contains(strings.ToLower(a.Content), kw) {
			return false
		}
	}
	if f.From != nil && a.PublicationDate.Before(*f.From) {
		return false
	}
	if f.To != nil && a.PublicationDate.After(*f.To) {
		return false
	}
	return true
}

func (m *memRepo) Get(_ context.Context, id int64) (*entity.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if a, ok := m.data[id]; ok {
		c := *a
		return &c, nil
	}
	return nil, nil
}

func (m *memRepo) GetBySlug(_ context.Context, slug string) (*entity.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.data {
		if a.Slug == slug {
			c := *a
			return &c, nil
		}
	}
	return nil, m.err
}

func (m *memRepo) ListRecent(_ context.Context, limit int) ([]*entity.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.sorted(repository.ArticleSearchFilters{})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, m.err
}

func (m *memRepo) Search(_ context.Context, f repository.ArticleSearchFilters, offset, limit int) ([]*entity.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := m.sorted(f)
	if offset >= len(out) {
		return []*entity.Article{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRepo) Count(_ context.Context, f repository.ArticleSearchFilters) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	return int64(len(m.sorted(f))), nil
}

func (m *memRepo) Create(_ context.Context, a *entity.Article) error {
	if m.err != nil {
		return m.err
	}
	if taken, _ := m.ExistsBySlug(context.Background(), a.Slug, 0); taken {
		return repository.ErrSlugConflict
	}
	m.put(a)
	return nil
}

func (m *memRepo) Update(_ context.Context, a *entity.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.data[a.ID]; !ok {
		return repository.ErrNotFound
	}
	c := *a
	m.data[a.ID] = &c
	return nil
}

func (m *memRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.data[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.data, id)
	return nil
}

func (m *memRepo) DeleteBatch(_ context.Context, ids []int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	var n int64
	for _, id := range ids {
		if _, ok := m.data[id]; ok {
			delete(m.data, id)
			n++
		}
	}
	return n, nil
}

func (m *memRepo) ExistsBySlug(_ context.Context, slug string, excludeID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	for _, v := range m.data {
		if v.Slug == slug && v.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// 保存・削除を記録する AssetStore
type memImages struct {
	mu      sync.Mutex
	saved   map[string][]byte
	removed []string
	saveErr error
}

func newMemImages() *memImages {
	return &memImages{saved: map[string][]byte{}}
}

func (s *memImages) Save(_ context.Context, r io.Reader, filename string) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := "news_images/1_" + filename
	s.saved[p] = data
	return p, nil
}

func (s *memImages) Remove(_ context.Context, p string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, p)
	delete(s.saved, p)
	return nil
}

func (s *memImages) URL(p string) string { return "/media/" + p }

/* ───────── ヘルパー ───────── */

var baseTime = time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	repo   *memRepo
	images *memImages
	mux    *http.ServeMux
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := newMemRepo()
	images := newMemImages()
	svc := &artUC.Service{
		Repo:       repo,
		Assets:     images,
		Pagination: pagination.DefaultConfig(),
		Now:        func() time.Time { return baseTime },
	}
	h := article.NewHandler(svc, images, pagination.DefaultConfig(), slog.New(slog.NewJSONHandler(io.Discard, nil)))

	mux := http.NewServeMux()
	article.Register(mux, h)
	return &fixture{repo: repo, images: images, mux: mux}
}

func (f *fixture) seed(title, slug string, published time.Time) *entity.Article {
	return f.repo.put(&entity.Article{
		Title:           title,
		Slug:            slug,
		Content:         "<p>" + title + "</p>",
		PublicationDate: published,
		UpdatedAt:       published,
	})
}

func (f *fixture) do(method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) doJSON(method, target string, v any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if s, ok := v.(string); ok {
		buf.WriteString(s)
	} else if err := json.NewEncoder(&buf).Encode(v); err != nil {
		panic(err)
	}
	return f.do(method, target, &buf, "application/json")
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) respond.ErrorBody {
	t.Helper()
	return decode[respond.ErrorBody](t, rec)
}

var errDB = errors.New("pq: connection refused to postgres://admin:secret@db/news")
