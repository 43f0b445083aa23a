// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"strings"
	"time"

	"github.com/pdiddy/paper-sync/pkg/types"
)

// Filter selects records by abstract keywords and publication date.
type Filter struct {
	keywords []string
	onDate   time.Time // zero means no date constraint
}

// NewFilter builds a Filter from the configured keywords, lowercased once.
// When the query window defaulted to yesterday, onDate restricts records to
// that date; pass the zero time for explicit windows where the API-side
// submittedDate bound is authoritative.
func NewFilter(keywords []string, onDate time.Time) *Filter {
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw != "" {
			lowered = append(lowered, strings.ToLower(kw))
		}
	}
	return &Filter{keywords: lowered, onDate: onDate}
}

// Keep reports whether the record passes both the keyword and date checks.
func (f *Filter) Keep(r *types.PaperRecord) bool {
	return f.MatchesKeywords(r.Abstract) && f.matchesDate(r.Published)
}

// MatchesKeywords reports whether any configured keyword appears in the
// abstract, case-insensitively. No keywords means everything matches.
func (f *Filter) MatchesKeywords(abstract string) bool {
	if len(f.keywords) == 0 {
		return true
	}
	lower := strings.ToLower(abstract)
	for _, kw := range f.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func (f *Filter) matchesDate(published time.Time) bool {
	if f.onDate.IsZero() {
		return true
	}
	y1, m1, d1 := f.onDate.Date()
	y2, m2, d2 := published.In(f.onDate.Location()).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
