package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-sync/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the arXiv fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIBase overrides the arXiv API endpoint. Empty means the public
	// export.arxiv.org endpoint.
	APIBase string `json:"api_base,omitempty" yaml:"api_base,omitempty"`

	// Category is the arXiv category to query (default "cs.LG").
	Category string `json:"category" yaml:"category"`

	// Keywords filter fetched abstracts client-side. A paper is kept when
	// any keyword appears in its abstract, case-insensitively. Empty means
	// keep everything.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// FreeText adds free-text terms to the arXiv query.
	FreeText string `json:"free_text,omitempty" yaml:"free_text,omitempty"`

	// MaxResults caps the number of entries fetched across pages (default 1000).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// PageSize is the number of entries requested per API call (default 100).
	PageSize int `json:"page_size" yaml:"page_size"`

	// PageDelay is the pause between consecutive page requests (default 3s).
	PageDelay time.Duration `json:"page_delay" yaml:"page_delay"`

	// DateFrom and DateTo bound the submittedDate window. Zero values mean
	// "yesterday", matching the daily sync use case.
	DateFrom time.Time `json:"date_from,omitempty" yaml:"date_from,omitempty"`
	DateTo   time.Time `json:"date_to,omitempty" yaml:"date_to,omitempty"`
}

// NotionConfig holds credentials and settings for the Notion sink.
type NotionConfig struct {
	HTTPConfig `yaml:",inline"`

	// Token is the Notion integration token.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`

	// DatabaseID identifies the target database.
	DatabaseID string `json:"database_id" yaml:"database_id"`
}

// CSVConfig holds settings for the CSV sink.
type CSVConfig struct {
	// Path is the output file. Created with a header row when missing or
	// empty, appended to otherwise.
	Path string `json:"path" yaml:"path"`
}

// SQLiteConfig holds settings for the SQLite sink.
type SQLiteConfig struct {
	// Path is the database file, created on first use.
	Path string `json:"path" yaml:"path"`
}

// EnrichConfig holds settings for GitHub link enrichment.
type EnrichConfig struct {
	HTTPConfig `yaml:",inline"`

	// Skip disables enrichment entirely; no abstract-page requests are made.
	Skip bool `json:"skip" yaml:"skip"`
}

// Config groups all stage configurations for one pipeline run.
type Config struct {
	Fetch  FetchConfig  `json:"fetch" yaml:"fetch"`
	Enrich EnrichConfig `json:"enrich" yaml:"enrich"`
	Notion NotionConfig `json:"notion" yaml:"notion"`
	CSV    CSVConfig    `json:"csv" yaml:"csv"`
	SQLite SQLiteConfig `json:"sqlite" yaml:"sqlite"`
}
