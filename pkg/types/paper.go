// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paper-sync pipeline.
package types

import "time"

// PaperRecord is the normalized representation of one fetched paper.
// Constructed by the record mapper, optionally enriched with a GitHub
// link, then written once to the configured sink.
type PaperRecord struct {
	// ArxivID is the bare arXiv identifier (e.g. "2301.07041").
	ArxivID string `json:"arxiv_id" yaml:"arxiv_id"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Abstract is the paper abstract.
	Abstract string `json:"abstract" yaml:"abstract"`

	// URL is the arXiv abstract page URL.
	URL string `json:"url" yaml:"url"`

	// PDFURL is the arXiv PDF URL.
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`

	// Published is the original submission time.
	Published time.Time `json:"published" yaml:"published"`

	// Updated is the time of the latest revision.
	Updated time.Time `json:"updated,omitempty" yaml:"updated,omitempty"`

	// Categories lists the arXiv category tags (e.g. "cs.LG").
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`

	// Keywords are the configured filter keywords that selected this paper.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	// GitHubURL is a repository link found in the abstract or on the
	// abstract page. Empty when enrichment found none or was skipped.
	GitHubURL string `json:"github_url,omitempty" yaml:"github_url,omitempty"`
}
