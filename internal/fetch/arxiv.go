// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch queries the arXiv API and normalizes entries into PaperRecords.
package fetch

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/paper-sync/internal/httputil"
	"github.com/pdiddy/paper-sync/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

const (
	defaultPageSize   = 100
	defaultMaxResults = 1000
	submittedDateFmt  = "200601021504"
)

// Query holds the arXiv search parameters for one run.
type Query struct {
	Category string
	FreeText string
	From     time.Time
	To       time.Time
}

// QueryForWindow builds a Query from cfg. A zero date window defaults to
// yesterday (local date), the daily sync case.
func QueryForWindow(cfg types.FetchConfig, now time.Time) Query {
	q := Query{
		Category: cfg.Category,
		FreeText: cfg.FreeText,
		From:     cfg.DateFrom,
		To:       cfg.DateTo,
	}
	if q.From.IsZero() && q.To.IsZero() {
		y := now.AddDate(0, 0, -1)
		q.From = time.Date(y.Year(), y.Month(), y.Day(), 0, 0, 0, 0, now.Location())
		q.To = q.From.AddDate(0, 0, 1)
	}
	return q
}

// IsEmpty reports whether the query contains no searchable terms.
func (q Query) IsEmpty() bool {
	return q.Category == "" && q.FreeText == ""
}

// buildQueryString constructs the search_query parameter. Date bounds use
// arXiv's submittedDate range syntax.
func buildQueryString(q Query) string {
	var parts []string

	if q.Category != "" {
		parts = append(parts, "cat:"+q.Category)
	}
	if q.FreeText != "" {
		// Join with spaces; the URL escaping happens once, in fetchPage.
		terms := strings.Fields(q.FreeText)
		parts = append(parts, "all:"+strings.Join(terms, " "))
	}
	if !q.From.IsZero() && !q.To.IsZero() {
		parts = append(parts, fmt.Sprintf("submittedDate:[%s TO %s]",
			q.From.Format(submittedDateFmt), q.To.Format(submittedDateFmt)))
	}

	return strings.Join(parts, " AND ")
}

// Fetch queries the arXiv API page by page and returns the raw entries.
// It stops when a page comes back short, when MaxResults is reached, or
// when the feed's reported total is exhausted. Transport failures surface
// as-is; non-200 responses as *httputil.StatusError; malformed feeds as a
// parse error.
func Fetch(ctx context.Context, client *http.Client, q Query, cfg types.FetchConfig) ([]Entry, error) {
	if q.IsEmpty() {
		return nil, fmt.Errorf("empty arXiv query: provide a category or free-text terms")
	}
	if q.From.IsZero() != q.To.IsZero() {
		return nil, fmt.Errorf("one-sided date window: provide both start and end dates")
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	if pageSize > maxResults {
		pageSize = maxResults
	}

	search := buildQueryString(q)

	var entries []Entry
	for start := 0; start < maxResults; start += pageSize {
		if start > 0 && cfg.PageDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(cfg.PageDelay):
			}
		}

		n := pageSize
		if start+n > maxResults {
			n = maxResults - start
		}

		feed, err := fetchPage(ctx, client, search, start, n, cfg)
		if err != nil {
			return nil, err
		}

		entries = append(entries, feed.Entries...)
		if len(feed.Entries) < n {
			break
		}
		if feed.TotalResults > 0 && len(entries) >= feed.TotalResults {
			break
		}
	}
	return entries, nil
}

func fetchPage(ctx context.Context, client *http.Client, search string, start, n int, cfg types.FetchConfig) (Feed, error) {
	base := cfg.APIBase
	if base == "" {
		base = arxivAPIBase
	}
	u := fmt.Sprintf("%s?search_query=%s&start=%d&max_results=%d&sortBy=submittedDate&sortOrder=descending",
		base, url.QueryEscape(search), start, n)

	resp, err := httputil.Get(ctx, client, u, cfg.HTTPConfig)
	if err != nil {
		return Feed{}, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	var feed Feed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return Feed{}, fmt.Errorf("parsing arXiv response: %w", err)
	}
	return feed, nil
}

// arXiv Atom feed XML structures.

// Feed is the top-level arXiv Atom response.
type Feed struct {
	TotalResults int     `xml:"totalResults"`
	Entries      []Entry `xml:"entry"`
}

// Entry is one raw paper entry as returned by the API.
type Entry struct {
	ID         string     `xml:"id"`
	Title      string     `xml:"title"`
	Summary    string     `xml:"summary"`
	Published  string     `xml:"published"`
	Updated    string     `xml:"updated"`
	Authors    []Author   `xml:"author"`
	Categories []Category `xml:"category"`
	Links      []Link     `xml:"link"`
}

// Author is an author element in an entry.
type Author struct {
	Name string `xml:"name"`
}

// Category is a category element in an entry.
type Category struct {
	Term string `xml:"term,attr"`
}

// Link is a link element in an entry; the PDF link carries title="pdf".
type Link struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}
