// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/paper-sync/pkg/types"
)

// FormatTable writes records as a human-readable table to w.
func FormatTable(records []*types.PaperRecord, w io.Writer) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No papers matched.")
		return
	}

	fmt.Fprintf(w, "%-12s  %-60s  %-20s  %-10s  %s\n",
		"ID", "Title", "Authors", "Published", "GitHub")
	fmt.Fprintln(w, strings.Repeat("-", 115))

	for _, r := range records {
		title := r.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		github := ""
		if r.GitHubURL != "" {
			github = "yes"
		}
		fmt.Fprintf(w, "%-12s  %-60s  %-20s  %-10s  %s\n",
			r.ArxivID, title, formatAuthors(r.Authors), r.Published.Format("2006-01-02"), github)
	}

	fmt.Fprintf(w, "\n%d papers\n", len(records))
}

// FormatJSON writes records as indented JSON to w.
func FormatJSON(records []*types.PaperRecord, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 20)
	default:
		return truncate(authors[0], 14) + " et al."
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
