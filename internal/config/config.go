// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config assembles the pipeline configuration from the environment,
// an optional viper config file, and the secrets directory, and selects
// which sink a run writes to.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-sync/pkg/types"
)

// Sink-selecting environment variables. CSV_PATH has priority, then
// SQLITE_PATH, then the Notion pair.
const (
	EnvNotionToken      = "NOTION_TOKEN"
	EnvNotionDatabaseID = "NOTION_DATABASE_ID"
	EnvCSVPath          = "CSV_PATH"
	EnvSQLitePath       = "SQLITE_PATH"
)

// Secrets directory key files, used when the corresponding variable is unset.
const (
	SecretNotionToken      = "notion-token"
	SecretNotionDatabaseID = "notion-database-id"
)

// ErrNoSink means no sink is configured at all.
var ErrNoSink = errors.New("no sink configured: set CSV_PATH, SQLITE_PATH, or NOTION_TOKEN and NOTION_DATABASE_ID")

// ErrMissingVar means a sink is partially configured. It is wrapped with
// the name of the absent variable.
var ErrMissingVar = errors.New("missing required variable")

// Mode identifies the selected sink.
type Mode int

const (
	ModeNotion Mode = iota
	ModeCSV
	ModeSQLite
)

func (m Mode) String() string {
	switch m {
	case ModeNotion:
		return "notion"
	case ModeCSV:
		return "csv"
	case ModeSQLite:
		return "sqlite"
	default:
		return "unknown"
	}
}

// Settings is the fully resolved configuration for one run.
type Settings struct {
	types.Config
	Mode Mode
}

const (
	defaultCategory  = "cs.LG"
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "paper-sync/0.1"
	defaultPageSize  = 100
	defaultMax       = 1000
	defaultPageDelay = 3 * time.Second
)

// LoadDotenv loads a .env file from the working directory into the process
// environment, if one exists. A missing file is not an error.
func LoadDotenv() error {
	if err := godotenv.Load(); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// SetDefaults registers fetch and HTTP defaults on v. Called once from the
// CLI before config file and environment resolution.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("category", defaultCategory)
	v.SetDefault("keywords", []string{})
	v.SetDefault("free_text", "")
	v.SetDefault("max_results", defaultMax)
	v.SetDefault("page_size", defaultPageSize)
	v.SetDefault("page_delay", defaultPageDelay)
	v.SetDefault("timeout", defaultTimeout)
	v.SetDefault("user_agent", defaultUserAgent)
	v.SetDefault("skip_enrich", false)
}

// Load resolves the fetch and enrichment knobs from v (defaults, config
// file, PAPER_SYNC_* environment). Sink selection is separate; see
// SelectSink.
func Load(v *viper.Viper) *Settings {
	httpCfg := types.HTTPConfig{
		Timeout:   v.GetDuration("timeout"),
		UserAgent: v.GetString("user_agent"),
	}

	s := &Settings{
		Config: types.Config{
			Fetch: types.FetchConfig{
				HTTPConfig: httpCfg,
				APIBase:    v.GetString("api_base"),
				Category:   v.GetString("category"),
				Keywords:   splitKeywords(v.GetStringSlice("keywords")),
				FreeText:   v.GetString("free_text"),
				MaxResults: v.GetInt("max_results"),
				PageSize:   v.GetInt("page_size"),
				PageDelay:  v.GetDuration("page_delay"),
			},
			Enrich: types.EnrichConfig{
				HTTPConfig: httpCfg,
				Skip:       v.GetBool("skip_enrich"),
			},
		},
	}

	return s
}

// SelectSink picks the sink mode from the credential environment
// variables, with the secrets map as fallback for the Notion pair. It
// performs no network I/O, so a misconfigured run fails before any request
// is made.
func SelectSink(s *Settings, secrets map[string]string) error {
	if path := os.Getenv(EnvCSVPath); path != "" {
		s.Mode = ModeCSV
		s.CSV = types.CSVConfig{Path: path}
		return nil
	}
	if path := os.Getenv(EnvSQLitePath); path != "" {
		s.Mode = ModeSQLite
		s.SQLite = types.SQLiteConfig{Path: path}
		return nil
	}

	token := fromEnvOrSecret(EnvNotionToken, SecretNotionToken, secrets)
	databaseID := fromEnvOrSecret(EnvNotionDatabaseID, SecretNotionDatabaseID, secrets)
	if token == "" && databaseID == "" {
		return ErrNoSink
	}
	if token == "" {
		return fmt.Errorf("%w: %s", ErrMissingVar, EnvNotionToken)
	}
	if databaseID == "" {
		return fmt.Errorf("%w: %s", ErrMissingVar, EnvNotionDatabaseID)
	}

	s.Mode = ModeNotion
	s.Notion = types.NotionConfig{
		HTTPConfig: s.Fetch.HTTPConfig,
		Token:      token,
		DatabaseID: databaseID,
	}
	return nil
}

func fromEnvOrSecret(envName, secretName string, secrets map[string]string) string {
	if v := os.Getenv(envName); v != "" {
		return v
	}
	return secrets[secretName]
}

// splitKeywords also accepts a single comma-separated value, the way the
// original environment convention expressed keyword lists.
func splitKeywords(raw []string) []string {
	var out []string
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
