package article

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"news-site/internal/domain/entity"
)

// MaxUploadSize bounds multipart request bodies including the image.
const MaxUploadSize = 10 << 20

// ArticleRequest is the create/update payload. Nil fields were not sent.
// Image is set only by a multipart upload; JSON bodies carrying it are rejected.
type ArticleRequest struct {
	Title      *string `json:"title"`
	Slug       *string `json:"slug"`
	Content    *string `json:"content"`
	Image      *string `json:"image"`
	ClearImage bool    `json:"clear_image"`

	// uploaded holds the stored path of a multipart image, set by saveUpload.
	uploaded string
}

var errBadBody = errors.New("invalid request body")

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// decodeForm reads a JSON body or a multipart form. A multipart "image" file
// is saved through the image store before the article is written.
func (h *Handler) decodeForm(w http.ResponseWriter, r *http.Request) (*ArticleRequest, error) {
	if !isMultipart(r) {
		var f ArticleRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("%w: %v", errBadBody, err)
		}
		// Image paths only ever come from the image store.
		if f.Image != nil {
			return nil, &entity.ValidationError{Field: "image", Message: "must be uploaded as a multipart file"}
		}
		return &f, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		return nil, fmt.Errorf("%w: %v", errBadBody, err)
	}

	var f ArticleRequest
	for name, dst := range map[string]**string{
		"title":   &f.Title,
		"slug":    &f.Slug,
		"content": &f.Content,
	} {
		if values, ok := r.MultipartForm.Value[name]; ok && len(values) > 0 {
			v := values[0]
			*dst = &v
		}
	}
	f.ClearImage = strings.EqualFold(r.FormValue("clear_image"), "true") || r.FormValue("clear_image") == "1"

	if err := h.saveUpload(r, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (h *Handler) saveUpload(r *http.Request, f *ArticleRequest) error {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	defer file.Close()

	if h.Images == nil {
		return errors.New("image uploads are not configured")
	}
	path, err := h.Images.Save(r.Context(), file, header.Filename)
	if err != nil {
		return fmt.Errorf("save image: %w", err)
	}
	f.uploaded = path
	f.Image = &path
	return nil
}

// discardUpload removes an image stored for a request that then failed.
func (h *Handler) discardUpload(ctx context.Context, f *ArticleRequest) {
	if f == nil || f.uploaded == "" || h.Images == nil {
		return
	}
	if err := h.Images.Remove(ctx, f.uploaded); err != nil {
		h.Logger.WarnContext(ctx, "failed to discard uploaded image",
			"path", f.uploaded,
			"error", err)
	}
}

func valueOf(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
