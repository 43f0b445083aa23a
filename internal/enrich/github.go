// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enrich augments PaperRecords with a GitHub repository link found
// in the abstract or on the arXiv abstract page.
package enrich

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/paper-sync/internal/httputil"
	"github.com/pdiddy/paper-sync/pkg/types"
)

// githubPattern matches a GitHub repository URL (owner/repo).
var githubPattern = regexp.MustCompile(`https?://github\.com/[a-zA-Z0-9-]+/[a-zA-Z0-9._-]+`)

// GitHubURL returns a repository link for the record, or "" when none is
// found. The abstract text is scanned first; only when that misses does it
// fetch the abstract page and scan its anchors. Page fetch or parse
// failures return an error, which callers treat as a warning.
func GitHubURL(ctx context.Context, client *http.Client, r *types.PaperRecord, cfg types.EnrichConfig) (string, error) {
	if u := githubPattern.FindString(r.Abstract); u != "" {
		return u, nil
	}
	if r.URL == "" {
		return "", nil
	}
	return scanAbstractPage(ctx, client, r.URL, cfg)
}

// scanAbstractPage fetches an arXiv abs page and returns the first GitHub
// repository URL among its links.
func scanAbstractPage(ctx context.Context, client *http.Client, pageURL string, cfg types.EnrichConfig) (string, error) {
	resp, err := httputil.Get(ctx, client, pageURL, cfg.HTTPConfig)
	if err != nil {
		return "", fmt.Errorf("fetching abstract page: %w", err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parsing abstract page: %w", err)
	}

	var found string
	doc.Find("a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		if !ok {
			return true
		}
		if m := githubPattern.FindString(href); m != "" {
			found = m
			return false
		}
		return true
	})
	return found, nil
}
