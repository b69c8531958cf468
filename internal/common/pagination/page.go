package pagination

import (
	"fmt"
	"net/url"
	"strconv"
)

// ParamError reports an unusable page or limit query parameter.
type ParamError struct {
	Param   string
	Message string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid query parameter: %s %s", e.Param, e.Message)
}

// Params is a 1-based page request.
type Params struct {
	Page  int
	Limit int
}

// Parse reads page and limit from query values. Missing values take the
// configured defaults; present values must be in range.
func Parse(q url.Values, cfg Config) (Params, error) {
	p := Params{Page: cfg.DefaultPage, Limit: cfg.DefaultLimit}

	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return p, &ParamError{Param: "page", Message: "must be a positive integer"}
		}
		p.Page = n
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > cfg.MaxLimit {
			return p, &ParamError{Param: "limit", Message: fmt.Sprintf("must be between 1 and %d", cfg.MaxLimit)}
		}
		p.Limit = n
	}
	return p, nil
}

// Normalize fills zero values from cfg and caps the limit. Callers outside
// HTTP (the CLI, the service layer) use it instead of Parse.
func (p Params) Normalize(cfg Config) Params {
	if p.Page <= 0 {
		p.Page = cfg.DefaultPage
	}
	if p.Limit <= 0 {
		p.Limit = cfg.DefaultLimit
	}
	p.Limit = min(p.Limit, cfg.MaxLimit)
	return p
}

// Offset is the number of rows skipped before this page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Metadata describes one page of a listing.
type Metadata struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// NewMetadata builds the page description for total matching rows. An empty
// listing still has one (empty) page.
func NewMetadata(p Params, total int64) Metadata {
	pages := 1
	if total > 0 && p.Limit > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Metadata{Total: total, Page: p.Page, Limit: p.Limit, TotalPages: pages}
}
