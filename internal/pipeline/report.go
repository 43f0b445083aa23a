// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-sync/internal/fetch"
	"github.com/pdiddy/paper-sync/pkg/types"
)

// RunFile is the on-disk report of one run: the query actually sent, the
// fetch settings that shaped it, and the records that passed the filters.
type RunFile struct {
	Query   QueryParams          `yaml:"query"`
	Config  RunFileConfig        `yaml:"config"`
	Records []*types.PaperRecord `yaml:"records"`
	Summary RunSummary           `yaml:"summary"`
}

// QueryParams stores the query in a serializable form.
type QueryParams struct {
	Category string `yaml:"category,omitempty"`
	FreeText string `yaml:"free_text,omitempty"`
	DateFrom string `yaml:"date_from,omitempty"`
	DateTo   string `yaml:"date_to,omitempty"`
}

// RunFileConfig stores the fetch settings that produced the records.
type RunFileConfig struct {
	Keywords   []string `yaml:"keywords,omitempty"`
	MaxResults int      `yaml:"max_results"`
	PageSize   int      `yaml:"page_size"`
}

// RunSummary stores run statistics and a timestamp.
type RunSummary struct {
	Stats     `yaml:",inline"`
	Timestamp time.Time `yaml:"timestamp"`
}

const dateFmt = "2006-01-02"

// WriteRunFile saves the query, settings, records, and stats to a YAML file.
func WriteRunFile(path string, query fetch.Query, cfg types.FetchConfig, records []*types.PaperRecord, stats Stats) error {
	rf := RunFile{
		Query: QueryParams{
			Category: query.Category,
			FreeText: query.FreeText,
			DateFrom: query.From.Format(dateFmt),
			DateTo:   query.To.Format(dateFmt),
		},
		Config: RunFileConfig{
			Keywords:   cfg.Keywords,
			MaxResults: cfg.MaxResults,
			PageSize:   cfg.PageSize,
		},
		Records: records,
		Summary: RunSummary{
			Stats:     stats,
			Timestamp: time.Now(),
		},
	}

	data, err := yaml.Marshal(rf)
	if err != nil {
		return fmt.Errorf("encoding run report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing run report: %w", err)
	}
	return nil
}
