// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/paper-sync/pkg/types"
)

const (
	arxivAbsBase = "https://arxiv.org/abs/"
	arxivPDFBase = "https://arxiv.org/pdf/"
)

// ErrMissingField marks a raw entry that lacks a required field. Callers
// match it with errors.Is.
var ErrMissingField = errors.New("missing required field")

// Map converts a raw arXiv entry into a PaperRecord. It is a pure
// function: no I/O, no mutation of the input. Title, at least one author,
// abstract, identifier, and published date are required.
func Map(entry Entry) (*types.PaperRecord, error) {
	arxivID := ExtractArxivID(entry.ID)
	if arxivID == "" {
		return nil, fmt.Errorf("%w: id (got %q)", ErrMissingField, entry.ID)
	}

	title := collapseWhitespace(entry.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title (entry %s)", ErrMissingField, arxivID)
	}

	abstract := collapseWhitespace(entry.Summary)
	if abstract == "" {
		return nil, fmt.Errorf("%w: abstract (entry %s)", ErrMissingField, arxivID)
	}

	var authors []string
	for _, a := range entry.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			authors = append(authors, name)
		}
	}
	if len(authors) == 0 {
		return nil, fmt.Errorf("%w: authors (entry %s)", ErrMissingField, arxivID)
	}

	published, err := time.Parse(time.RFC3339, entry.Published)
	if err != nil {
		return nil, fmt.Errorf("%w: published date (entry %s): %v", ErrMissingField, arxivID, err)
	}

	r := &types.PaperRecord{
		ArxivID:   arxivID,
		Title:     title,
		Authors:   authors,
		Abstract:  abstract,
		URL:       arxivAbsBase + arxivID,
		PDFURL:    arxivPDFBase + arxivID,
		Published: published,
	}

	if t, parseErr := time.Parse(time.RFC3339, entry.Updated); parseErr == nil {
		r.Updated = t
	}
	for _, c := range entry.Categories {
		if c.Term != "" {
			r.Categories = append(r.Categories, c.Term)
		}
	}

	return r, nil
}

// ExtractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041").
func ExtractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}

// collapseWhitespace trims s and folds internal runs of whitespace,
// including the newlines arXiv inserts into titles and abstracts, into
// single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
