// Package pagination provides offset-based pagination helpers shared by the
// admin article list and the admin CLI.
package pagination

import (
	pkgconfig "news-site/pkg/config"
)

// Config holds pagination configuration settings.
type Config struct {
	DefaultPage  int // Default page number (typically 1)
	DefaultLimit int // Default items per page (typically 20)
	MaxLimit     int // Maximum allowed items per page (typically 100)
}

// DefaultConfig returns the default pagination configuration.
// Default values: page=1, limit=20, max=100
func DefaultConfig() Config {
	return Config{
		DefaultPage:  1,
		DefaultLimit: 20,
		MaxLimit:     100,
	}
}

// LoadFromEnv loads pagination config from environment variables.
// Supported environment variables:
//   - PAGINATION_DEFAULT_PAGE: Default page number
//   - PAGINATION_DEFAULT_LIMIT: Default items per page
//   - PAGINATION_MAX_LIMIT: Maximum items per page
//
// Unset, unparsable or non-positive values fall back to DefaultConfig().
// A default limit above the maximum is capped to the maximum.
func LoadFromEnv() Config {
	def := DefaultConfig()
	cfg := Config{
		DefaultPage:  positiveOr(pkgconfig.GetEnvInt("PAGINATION_DEFAULT_PAGE", def.DefaultPage), def.DefaultPage),
		DefaultLimit: positiveOr(pkgconfig.GetEnvInt("PAGINATION_DEFAULT_LIMIT", def.DefaultLimit), def.DefaultLimit),
		MaxLimit:     positiveOr(pkgconfig.GetEnvInt("PAGINATION_MAX_LIMIT", def.MaxLimit), def.MaxLimit),
	}
	if cfg.DefaultLimit > cfg.MaxLimit {
		cfg.DefaultLimit = cfg.MaxLimit
	}
	return cfg
}

func positiveOr(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
