// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-sync/internal/httputil"
	"github.com/pdiddy/paper-sync/pkg/types"
)

// --- mock sink ---

type mockSink struct {
	written []*types.PaperRecord
	failAt  int // 1-based write index to fail on; 0 means never
	closed  bool
}

func (m *mockSink) Name() string { return "mock" }

func (m *mockSink) Write(_ context.Context, r *types.PaperRecord) error {
	if m.failAt > 0 && len(m.written)+1 == m.failAt {
		return fmt.Errorf("sink exploded")
	}
	m.written = append(m.written, r)
	return nil
}

func (m *mockSink) Close() error {
	m.closed = true
	return nil
}

// --- fixtures ---

func entryXML(id, abstract, published string) string {
	return fmt.Sprintf(`<entry>
		<id>http://arxiv.org/abs/%sv1</id>
		<title>Paper %s</title>
		<summary>%s</summary>
		<published>%s</published>
		<author><name>A. Author</name></author>
	</entry>`, id, id, abstract, published)
}

func feedXML(entries ...string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
		<feed xmlns="http://www.w3.org/2005/Atom">` +
		strings.Join(entries, "\n") + `</feed>`
}

// explicitWindowCfg disables the yesterday default so fixture dates can be
// stable, and skips enrichment so no abs-page requests are made.
func explicitWindowCfg(apiBase string) types.Config {
	return types.Config{
		Fetch: types.FetchConfig{
			HTTPConfig: types.HTTPConfig{Timeout: 10 * time.Second, UserAgent: "test/0.1"},
			APIBase:    apiBase,
			Category:   "cs.LG",
			MaxResults: 50,
			PageSize:   50,
			DateFrom:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			DateTo:     time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		},
		Enrich: types.EnrichConfig{Skip: true},
	}
}

func TestRunZeroPapers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feedXML())
	}))
	defer srv.Close()

	snk := &mockSink{}
	var out bytes.Buffer
	stats, err := Run(context.Background(), srv.Client(), explicitWindowCfg(srv.URL), snk, Options{}, &out)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stats.Fetched != 0 || stats.Written != 0 {
		t.Errorf("stats = %+v, want zero fetched and written", stats)
	}
	if len(snk.written) != 0 {
		t.Errorf("sink received %d writes, want 0", len(snk.written))
	}
}

func TestRunWritesMatchedRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feedXML(
			entryXML("2608.00001", "A diffusion model for images.", "2026-08-29T10:00:00Z"),
			entryXML("2608.00002", "A survey of optimizers.", "2026-08-29T11:00:00Z"),
		))
	}))
	defer srv.Close()

	cfg := explicitWindowCfg(srv.URL)
	cfg.Fetch.Keywords = []string{"diffusion"}

	snk := &mockSink{}
	var out bytes.Buffer
	stats, err := Run(context.Background(), srv.Client(), cfg, snk, Options{}, &out)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if stats.Fetched != 2 || stats.Filtered != 1 || stats.Written != 1 {
		t.Errorf("stats = %+v, want 2 fetched, 1 filtered, 1 written", stats)
	}
	if len(snk.written) != 1 || snk.written[0].ArxivID != "2608.00001" {
		t.Fatalf("sink writes = %v", snk.written)
	}
	if got := snk.written[0].Keywords; len(got) != 1 || got[0] != "diffusion" {
		t.Errorf("record keywords = %v, want query keywords attached", got)
	}
	if !strings.Contains(out.String(), "1 written") {
		t.Errorf("output %q missing summary", out.String())
	}
}

func TestRunDefaultWindowFiltersByDate(t *testing.T) {
	yesterday := time.Now().AddDate(0, 0, -1)
	older := time.Now().AddDate(0, 0, -5)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feedXML(
			entryXML("2608.00001", "Fresh work.", yesterday.Format(time.RFC3339)),
			entryXML("2608.00002", "Stale work.", older.Format(time.RFC3339)),
		))
	}))
	defer srv.Close()

	cfg := explicitWindowCfg(srv.URL)
	cfg.Fetch.DateFrom = time.Time{}
	cfg.Fetch.DateTo = time.Time{}

	snk := &mockSink{}
	var out bytes.Buffer
	stats, err := Run(context.Background(), srv.Client(), cfg, snk, Options{}, &out)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stats.Written != 1 {
		t.Fatalf("stats = %+v, want only yesterday's paper written", stats)
	}
	if snk.written[0].ArxivID != "2608.00001" {
		t.Errorf("wrote %s, want the yesterday paper", snk.written[0].ArxivID)
	}
}

func TestRunFetchFailureWritesNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	snk := &mockSink{}
	var out bytes.Buffer
	_, err := Run(context.Background(), srv.Client(), explicitWindowCfg(srv.URL), snk, Options{}, &out)

	var statusErr *httputil.StatusError
	if !errors.As(err, &statusErr) || statusErr.Status != http.StatusInternalServerError {
		t.Fatalf("Run() error = %v, want HTTP 500 StatusError", err)
	}
	if len(snk.written) != 0 {
		t.Errorf("sink received %d writes before the failed fetch", len(snk.written))
	}
}

func TestRunSinkFailureKeepsPriorWrites(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feedXML(
			entryXML("2608.00001", "First.", "2026-08-29T10:00:00Z"),
			entryXML("2608.00002", "Second.", "2026-08-29T11:00:00Z"),
			entryXML("2608.00003", "Third.", "2026-08-29T12:00:00Z"),
		))
	}))
	defer srv.Close()

	snk := &mockSink{failAt: 2}
	var out bytes.Buffer
	stats, err := Run(context.Background(), srv.Client(), explicitWindowCfg(srv.URL), snk, Options{}, &out)
	if err == nil {
		t.Fatal("Run() should surface the sink failure")
	}
	if stats.Written != 1 || len(snk.written) != 1 {
		t.Errorf("written = %d (sink saw %d), want the first record to survive", stats.Written, len(snk.written))
	}
}

func TestRunMalformedEntryAborts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feedXML(`<entry>
			<id>http://arxiv.org/abs/2608.00001v1</id>
			<title>No abstract here</title>
			<published>2026-08-29T10:00:00Z</published>
			<author><name>A. Author</name></author>
		</entry>`))
	}))
	defer srv.Close()

	snk := &mockSink{}
	var out bytes.Buffer
	_, err := Run(context.Background(), srv.Client(), explicitWindowCfg(srv.URL), snk, Options{}, &out)
	if err == nil || !strings.Contains(err.Error(), "normalizing entry") {
		t.Fatalf("Run() error = %v, want normalization failure", err)
	}
	if len(snk.written) != 0 {
		t.Errorf("sink received writes despite malformed entry")
	}
}

func TestRunDryRunSkipsSink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feedXML(entryXML("2608.00001", "Work.", "2026-08-29T10:00:00Z")))
	}))
	defer srv.Close()

	snk := &mockSink{}
	var out bytes.Buffer
	stats, err := Run(context.Background(), srv.Client(), explicitWindowCfg(srv.URL), snk, Options{DryRun: true}, &out)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stats.Written != 0 || len(snk.written) != 0 {
		t.Errorf("dry run wrote to the sink: stats=%+v", stats)
	}
	if !strings.Contains(out.String(), "2608.00001") {
		t.Errorf("dry-run table missing record: %q", out.String())
	}
}

func TestRunSavesReport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feedXML(entryXML("2608.00001", "Work.", "2026-08-29T10:00:00Z")))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "run.yaml")
	snk := &mockSink{}
	var out bytes.Buffer
	_, err := Run(context.Background(), srv.Client(), explicitWindowCfg(srv.URL), snk, Options{SavePath: path}, &out)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	var rf RunFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		t.Fatalf("report is not valid YAML: %v", err)
	}
	if rf.Query.Category != "cs.LG" {
		t.Errorf("report query = %+v", rf.Query)
	}
	if len(rf.Records) != 1 || rf.Records[0].ArxivID != "2608.00001" {
		t.Errorf("report records = %v", rf.Records)
	}
	if rf.Summary.Written != 1 {
		t.Errorf("report summary = %+v", rf.Summary)
	}
}
