// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline composes the run: fetch entries from arXiv, filter and
// normalize them, enrich with GitHub links, and write each record to the
// configured sink.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/paper-sync/internal/enrich"
	"github.com/pdiddy/paper-sync/internal/fetch"
	"github.com/pdiddy/paper-sync/internal/sink"
	"github.com/pdiddy/paper-sync/pkg/types"
)

// Options control run behavior beyond the stage configs.
type Options struct {
	// DryRun prints the records instead of writing them to the sink.
	DryRun bool

	// JSON switches dry-run output from a table to indented JSON.
	JSON bool

	// SavePath, when set, writes a YAML run report after a successful run.
	SavePath string
}

// Stats summarizes one run.
type Stats struct {
	Fetched  int `yaml:"fetched"`
	Filtered int `yaml:"filtered"`
	Written  int `yaml:"written"`
}

// Run executes the pipeline once. Records are written to the sink in feed
// order, one write per record; the first failing write aborts the run and
// leaves prior writes intact. A zero-paper fetch is a successful run with
// zero writes.
func Run(ctx context.Context, client *http.Client, cfg types.Config, snk sink.Sink, opts Options, w io.Writer) (Stats, error) {
	var stats Stats

	query := fetch.QueryForWindow(cfg.Fetch, time.Now())

	entries, err := fetch.Fetch(ctx, client, query, cfg.Fetch)
	if err != nil {
		return stats, fmt.Errorf("fetching papers: %w", err)
	}
	stats.Fetched = len(entries)

	// The date filter only applies when the window defaulted to yesterday;
	// explicit windows trust the API-side submittedDate bound.
	onDate := time.Time{}
	if cfg.Fetch.DateFrom.IsZero() && cfg.Fetch.DateTo.IsZero() {
		onDate = query.From
	}
	filter := fetch.NewFilter(cfg.Fetch.Keywords, onDate)

	records, err := selectRecords(ctx, client, entries, filter, cfg, w)
	if err != nil {
		return stats, err
	}
	stats.Filtered = len(records)

	if opts.DryRun {
		if opts.JSON {
			if err := FormatJSON(records, w); err != nil {
				return stats, err
			}
		} else {
			FormatTable(records, w)
		}
	} else {
		for _, r := range records {
			if err := snk.Write(ctx, r); err != nil {
				return stats, fmt.Errorf("writing to %s sink: %w", snk.Name(), err)
			}
			stats.Written++
			fmt.Fprintf(w, "added: %s (%s)\n", r.Title, r.ArxivID)
		}
	}

	if opts.SavePath != "" {
		if err := WriteRunFile(opts.SavePath, query, cfg.Fetch, records, stats); err != nil {
			return stats, fmt.Errorf("saving run report: %w", err)
		}
		fmt.Fprintf(w, "run report saved to %s\n", opts.SavePath)
	}

	fmt.Fprintf(w, "%d fetched, %d matched, %d written\n", stats.Fetched, stats.Filtered, stats.Written)
	return stats, nil
}

// selectRecords maps raw entries to PaperRecords, applies the filters,
// tags each kept record with the query keywords, and enriches it with a
// GitHub link. Enrichment failures warn and continue; a malformed entry
// aborts the run.
func selectRecords(ctx context.Context, client *http.Client, entries []fetch.Entry, filter *fetch.Filter, cfg types.Config, w io.Writer) ([]*types.PaperRecord, error) {
	var records []*types.PaperRecord
	for _, entry := range entries {
		r, err := fetch.Map(entry)
		if err != nil {
			return nil, fmt.Errorf("normalizing entry: %w", err)
		}
		if !filter.Keep(r) {
			continue
		}
		r.Keywords = cfg.Fetch.Keywords

		if !cfg.Enrich.Skip {
			u, err := enrich.GitHubURL(ctx, client, r, cfg.Enrich)
			if err != nil {
				fmt.Fprintf(w, "warning: enrichment for %s: %v\n", r.ArxivID, err)
			} else {
				r.GitHubURL = u
			}
		}

		records = append(records, r)
	}
	return records, nil
}
