// Package config defines the scrape configuration schema and loads it from
// YAML, TOML, or JSON files. Subsets override global settings field by field;
// anything a subset leaves unset falls back to the global value.
package config

import (
	"encoding/base64"
	"fmt"
)

// Domains the scraper recognizes.
const (
	DomainDanbooru  = "danbooru.donmai.us"
	DomainSafebooru = "safebooru.donmai.us"
)

// Config is the root configuration document.
type Config struct {
	Domain string `mapstructure:"domain" validate:"omitempty,oneof=danbooru.donmai.us safebooru.donmai.us"`

	Auth *AuthConfig `mapstructure:"auth"`

	Subsets []Subset `mapstructure:"subsets" validate:"required,min=1,dive"`

	// Global fallbacks, used when a subset does not override them.
	Caption      CaptionConfig `mapstructure:"caption"`
	SearchFilter SearchFilter  `mapstructure:"search_filter"`
	ResultFilter ResultFilter  `mapstructure:"search_result_filter"`

	// PreserveTags lists tokens whose underscores are kept verbatim when raw
	// tag strings are parsed (kaomoji).
	PreserveTags TokenSource `mapstructure:"preserve_tags"`

	MaxWorkers int                 `mapstructure:"max_workers" validate:"omitempty,min=1"`
	Cache      Option[CacheConfig] `mapstructure:"cache"`

	LogLevel  string `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
	LogFormat string `mapstructure:"log_format" validate:"omitempty,oneof=pretty json"`
}

// AuthConfig holds API credentials.
type AuthConfig struct {
	Username string `mapstructure:"username" validate:"required"`
	APIKey   string `mapstructure:"api_key" validate:"required"`
}

// BasicAuth returns the value for an Authorization: Basic header.
func (a *AuthConfig) BasicAuth() string {
	return base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("%s:%s", a.Username, a.APIKey)))
}

// CacheConfig controls the query result cache.
type CacheConfig struct {
	SearchResult bool `mapstructure:"search_result"`
}

// SubsetKind identifies how a subset sources its posts.
type SubsetKind int

const (
	// SubsetInvalid marks a subset with no query source configured.
	SubsetInvalid SubsetKind = iota
	// SubsetQuery runs a single tag query.
	SubsetQuery
	// SubsetQueryList runs every query from a line-separated file.
	SubsetQueryList
	// SubsetPostList fetches individual posts from a file of post URLs.
	SubsetPostList
)

// Subset is one configured unit of work: a query source plus its own output
// path and per-subset overrides.
type Subset struct {
	Domain string `mapstructure:"domain" validate:"omitempty,oneof=danbooru.donmai.us safebooru.donmai.us"`

	OutputPath string `mapstructure:"output_path" validate:"required"`
	Limit      int    `mapstructure:"limit" validate:"omitempty,min=1"`

	// Exactly one of these selects the subset kind.
	Query           string `mapstructure:"query"`
	QueryListFile   string `mapstructure:"query_list_file"`
	PostURLListFile string `mapstructure:"post_url_list_file"`

	Caption      Option[CaptionConfig] `mapstructure:"caption"`
	SearchFilter Option[SearchFilter]  `mapstructure:"search_filter"`
	ResultFilter Option[ResultFilter]  `mapstructure:"search_result_filter"`
}

// Kind returns the subset's kind, or SubsetInvalid when no source is set.
func (s *Subset) Kind() SubsetKind {
	switch {
	case s.Query != "":
		return SubsetQuery
	case s.QueryListFile != "":
		return SubsetQueryList
	case s.PostURLListFile != "":
		return SubsetPostList
	default:
		return SubsetInvalid
	}
}

// ResolveDomain returns the subset's domain, falling back to the global one.
func (c *Config) ResolveDomain(s *Subset) string {
	if s.Domain != "" {
		return s.Domain
	}
	return c.Domain
}

// ResolveCaption collapses a subset's caption override against the global
// fallback. The second return is false when captioning is disabled.
func (c *Config) ResolveCaption(s *Subset) (CaptionConfig, bool) {
	switch s.Caption.State {
	case StateDisabled:
		return CaptionConfig{}, false
	case StateDefault:
		return DefaultCaption(), true
	case StateExplicit:
		return *s.Caption.Value, true
	default:
		return c.Caption, true
	}
}

// ResolveResultFilter collapses a subset's result filter override against the
// global fallback. The second return is false when result filtering is
// explicitly disabled for the subset.
func (c *Config) ResolveResultFilter(s *Subset) (ResultFilter, bool) {
	switch s.ResultFilter.State {
	case StateDisabled:
		return ResultFilter{}, false
	case StateDefault:
		return ResultFilter{}, true
	case StateExplicit:
		return *s.ResultFilter.Value, true
	default:
		return c.ResultFilter, true
	}
}
