// Package storage keeps uploaded article images on the local filesystem.
//
// Stored files are addressed by a slash separated path relative to the media
// root, e.g. "news_images/1718000000000000000_photo.jpg". That relative path is
// what the article record keeps in its image column.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"news-site/internal/observability/metrics"
)

// ImageFolder is the folder under the media root that holds article images.
const ImageFolder = "news_images"

// maxBaseNameRunes bounds the sanitised original name kept in the stored file name.
const maxBaseNameRunes = 64

var (
	// ErrUnsupportedType is returned for files that are not images.
	ErrUnsupportedType = errors.New("unsupported image type")
	// ErrInvalidPath is returned for paths that leave the media root.
	ErrInvalidPath = errors.New("invalid asset path")
)

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// AssetStore stores article images.
type AssetStore interface {
	// Save writes r under a new unique name derived from filename and returns its relative path.
	Save(ctx context.Context, r io.Reader, filename string) (string, error)
	// Remove deletes the asset. A missing file is not an error.
	Remove(ctx context.Context, relPath string) error
	// URL returns the public URL of the asset.
	URL(relPath string) string
}

// LocalStorage is an AssetStore backed by a directory.
type LocalStorage struct {
	root    string
	baseURL string
	now     func() time.Time
}

// NewLocalStorage returns a LocalStorage rooted at root, serving files under baseURL.
// The root directory is created if needed.
func NewLocalStorage(root, baseURL string) (*LocalStorage, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve media root: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(abs, ImageFolder), 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &LocalStorage{root: abs, baseURL: baseURL, now: time.Now}, nil
}

// Root returns the absolute media root.
func (s *LocalStorage) Root() string {
	return s.root
}

// Save writes r to news_images/<unix-nanos>_<sanitised base name><ext>.
func (s *LocalStorage) Save(ctx context.Context, r io.Reader, filename string) (_ string, err error) {
	defer func() { metrics.RecordAssetOperation("save", err == nil) }()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}

	base := sanitizeName(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	rel := path.Join(ImageFolder, fmt.Sprintf("%d_%s%s", s.now().UnixNano(), base, ext))
	dst := filepath.Join(s.root, filepath.FromSlash(rel))

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create asset: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("write asset: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("close asset: %w", err)
	}
	return rel, nil
}

// Remove deletes relPath. Paths outside the media root return ErrInvalidPath.
func (s *LocalStorage) Remove(ctx context.Context, relPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	abs, err := s.resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove asset: %w", err)
	}
	return nil
}

// URL returns baseURL joined with relPath. An empty path yields "".
func (s *LocalStorage) URL(relPath string) string {
	if relPath == "" {
		return ""
	}
	return s.baseURL + strings.TrimPrefix(relPath, "/")
}

// resolve maps relPath to an absolute path inside the media root.
func (s *LocalStorage) resolve(relPath string) (string, error) {
	if relPath == "" || filepath.IsAbs(relPath) || strings.HasPrefix(relPath, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, relPath)
	}
	abs := filepath.Join(s.root, filepath.FromSlash(relPath))
	rel, err := filepath.Rel(s.root, abs)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, relPath)
	}
	return abs, nil
}

// sanitizeName keeps letters, digits, '-' and '_' and replaces everything else with '_'.
func sanitizeName(name string) string {
	var b strings.Builder
	n := 0
	for _, r := range name {
		if n == maxBaseNameRunes {
			break
		}
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
		n++
	}
	out := strings.Trim(b.String(), "_")
	if out == "" {
		return "image"
	}
	return out
}
