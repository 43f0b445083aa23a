// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sink writes PaperRecords to a destination: a Notion database, a
// local CSV file, or a local SQLite database. Each record is one write;
// there is no transactionality across records, so a failed write leaves
// earlier writes intact and later ones unattempted.
package sink

import (
	"context"

	"github.com/pdiddy/paper-sync/pkg/types"
)

// Sink is the destination abstraction for normalized records. Implementations
// are used from a single goroutine; Write is called once per record and
// Close once after the last record (or after a failure).
type Sink interface {
	Name() string
	Write(ctx context.Context, r *types.PaperRecord) error
	Close() error
}
