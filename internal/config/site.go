// Package config loads the site content configuration: the site name and the
// text of the static about, contacts and activities pages.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Static page keys.
const (
	PageAbout      = "about"
	PageContacts   = "contacts"
	PageActivities = "activities"
)

// RequiredPages lists the pages every site configuration must define.
var RequiredPages = []string{PageAbout, PageContacts, PageActivities}

//go:embed site.yaml
var defaultSiteYAML []byte

// SiteConfig is the root of the site YAML document.
type SiteConfig struct {
	Site  SiteInfo        `yaml:"site"`
	Pages map[string]Page `yaml:"pages"`
}

// SiteInfo holds values rendered on every page.
type SiteInfo struct {
	Name     string `yaml:"name"`
	Tagline  string `yaml:"tagline"`
	Language string `yaml:"language"`
	Footer   string `yaml:"footer"`
}

// Page is the content of one static page.
type Page struct {
	Title    string    `yaml:"title"`
	Intro    string    `yaml:"intro"`
	Sections []Section `yaml:"sections"`
}

// Section is a headed block of paragraphs and/or labelled items.
type Section struct {
	Heading    string   `yaml:"heading"`
	Paragraphs []string `yaml:"paragraphs"`
	Items      []Item   `yaml:"items"`
}

// Item is a labelled value, optionally linked (http, https, mailto or tel).
type Item struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
	URL   string `yaml:"url"`
}

// DefaultSiteConfig returns the embedded site configuration.
func DefaultSiteConfig() (*SiteConfig, error) {
	return ParseSiteConfig(defaultSiteYAML)
}

// LoadSiteConfig reads the site configuration at path. An empty path returns
// the embedded default.
func LoadSiteConfig(path string) (*SiteConfig, error) {
	if path == "" {
		return DefaultSiteConfig()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read site config: %w", err)
	}
	return ParseSiteConfig(data)
}

// ParseSiteConfig decodes and validates a site YAML document. Unknown keys are rejected.
func ParseSiteConfig(data []byte) (*SiteConfig, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg SiteConfig
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse site config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("site config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks required fields, the presence of every required page and item links.
func (c *SiteConfig) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Site.Name) == "" {
		errs = append(errs, errors.New("site.name is required"))
	}
	for _, key := range RequiredPages {
		page, ok := c.Pages[key]
		if !ok {
			errs = append(errs, fmt.Errorf("pages.%s is required", key))
			continue
		}
		if strings.TrimSpace(page.Title) == "" {
			errs = append(errs, fmt.Errorf("pages.%s.title is required", key))
		}
		for i, s := range page.Sections {
			for j, item := range s.Items {
				if err := validateItemURL(item.URL); err != nil {
					errs = append(errs, fmt.Errorf("pages.%s.sections[%d].items[%d].url: %w", key, i, j, err))
				}
			}
		}
	}
	return errors.Join(errs...)
}

// Page returns the page for key.
func (c *SiteConfig) Page(key string) (Page, bool) {
	p, ok := c.Pages[key]
	return p, ok
}

func validateItemURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	switch u.Scheme {
	case "http", "https", "mailto", "tel":
		return nil
	default:
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
}
