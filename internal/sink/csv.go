// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pdiddy/paper-sync/pkg/types"
)

// listSep joins multi-value fields (authors, categories, keywords) within
// one CSV cell.
const listSep = "; "

// csvHeader lists the output columns, one per PaperRecord field.
var csvHeader = []string{
	"arxiv_id", "title", "authors", "abstract", "url", "pdf_url",
	"published", "updated", "categories", "keywords", "github_url",
}

// CSVSink appends one row per record to a local file, writing the header
// row when the file is new or empty.
type CSVSink struct {
	file *os.File
	w    *csv.Writer
}

// NewCSV opens or creates the file at cfg.Path for appending. An
// unwritable path surfaces the wrapped os error.
func NewCSV(cfg types.CSVConfig) (*CSVSink, error) {
	f, err := os.OpenFile(cfg.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening CSV file %s: %w", cfg.Path, err)
	}

	s := &CSVSink{file: f, w: csv.NewWriter(f)}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat CSV file %s: %w", cfg.Path, err)
	}
	if info.Size() == 0 {
		if err := s.writeRow(csvHeader); err != nil {
			f.Close()
			return nil, fmt.Errorf("writing CSV header: %w", err)
		}
	}
	return s, nil
}

// Name returns the sink identifier.
func (s *CSVSink) Name() string { return "csv" }

// Write appends one row. Each row is flushed immediately so a later
// failure leaves earlier rows on disk.
func (s *CSVSink) Write(_ context.Context, r *types.PaperRecord) error {
	row := []string{
		r.ArxivID,
		r.Title,
		joinList(r.Authors),
		r.Abstract,
		r.URL,
		r.PDFURL,
		r.Published.Format(time.RFC3339),
		formatOptionalTime(r.Updated),
		joinList(r.Categories),
		joinList(r.Keywords),
		r.GitHubURL,
	}
	if err := s.writeRow(row); err != nil {
		return fmt.Errorf("writing CSV row for %s: %w", r.ArxivID, err)
	}
	return nil
}

// Close flushes any buffered output and releases the file handle.
func (s *CSVSink) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		s.file.Close()
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return s.file.Close()
}

func (s *CSVSink) writeRow(row []string) error {
	if err := s.w.Write(row); err != nil {
		return err
	}
	s.w.Flush()
	return s.w.Error()
}

func joinList(values []string) string {
	return strings.Join(values, listSep)
}

func formatOptionalTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
