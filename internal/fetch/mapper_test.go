// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func validEntry() Entry {
	return Entry{
		ID:         "http://arxiv.org/abs/2301.07041v2",
		Title:      "Attention Is\n  All You Need",
		Summary:    "  We propose a new architecture.\n",
		Published:  "2026-08-29T10:30:00Z",
		Updated:    "2026-08-29T18:00:00Z",
		Authors:    []Author{{Name: " Ashish Vaswani "}, {Name: "Noam Shazeer"}},
		Categories: []Category{{Term: "cs.LG"}, {Term: "cs.CL"}},
	}
}

func TestMapValidEntry(t *testing.T) {
	r, err := Map(validEntry())
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	if r.ArxivID != "2301.07041" {
		t.Errorf("ArxivID = %q, want %q", r.ArxivID, "2301.07041")
	}
	if r.Title != "Attention Is All You Need" {
		t.Errorf("Title = %q, whitespace not collapsed", r.Title)
	}
	if r.Abstract != "We propose a new architecture." {
		t.Errorf("Abstract = %q, not trimmed", r.Abstract)
	}
	if len(r.Authors) != 2 || r.Authors[0] != "Ashish Vaswani" {
		t.Errorf("Authors = %v, want trimmed source order", r.Authors)
	}
	if r.URL != "https://arxiv.org/abs/2301.07041" {
		t.Errorf("URL = %q", r.URL)
	}
	if r.PDFURL != "https://arxiv.org/pdf/2301.07041" {
		t.Errorf("PDFURL = %q", r.PDFURL)
	}
	want := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)
	if !r.Published.Equal(want) {
		t.Errorf("Published = %v, want %v", r.Published, want)
	}
	if len(r.Categories) != 2 {
		t.Errorf("Categories = %v", r.Categories)
	}

	// None of the required fields may be empty for a valid entry.
	if r.Title == "" || len(r.Authors) == 0 || r.Abstract == "" || r.URL == "" || r.Published.IsZero() {
		t.Error("mapped record has an empty required field")
	}
}

func TestMapMissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Entry)
		field  string
	}{
		{"no id", func(e *Entry) { e.ID = "" }, "id"},
		{"bad id url", func(e *Entry) { e.ID = "http://example.com/nope" }, "id"},
		{"no title", func(e *Entry) { e.Title = "  \n " }, "title"},
		{"no abstract", func(e *Entry) { e.Summary = "" }, "abstract"},
		{"no authors", func(e *Entry) { e.Authors = nil }, "authors"},
		{"blank author names", func(e *Entry) { e.Authors = []Author{{Name: "  "}} }, "authors"},
		{"no published date", func(e *Entry) { e.Published = "" }, "published"},
		{"garbage published date", func(e *Entry) { e.Published = "yesterday" }, "published"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := validEntry()
			tt.mutate(&entry)

			_, err := Map(entry)
			if !errors.Is(err, ErrMissingField) {
				t.Fatalf("Map() error = %v, want ErrMissingField", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name field %q", err, tt.field)
			}
		})
	}
}

func TestExtractArxivID(t *testing.T) {
	tests := []struct {
		name  string
		idURL string
		want  string
	}{
		{"versioned", "http://arxiv.org/abs/2301.07041v1", "2301.07041"},
		{"unversioned", "http://arxiv.org/abs/2301.07041", "2301.07041"},
		{"https", "https://arxiv.org/abs/2608.12345v3", "2608.12345"},
		{"no abs path", "http://example.com/2301.07041", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractArxivID(tt.idURL); got != tt.want {
				t.Errorf("ExtractArxivID(%q) = %q, want %q", tt.idURL, got, tt.want)
			}
		})
	}
}
