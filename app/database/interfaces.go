package database

import (
	"context"
	"time"
)

// RecordResult reports the outcome of a conditional seen-URL insert.
type RecordResult int

const (
	RecordInserted RecordResult = iota
	RecordAlreadyPresent
	RecordFailed
)

// SeenURLRepository is the durable source of truth for "has this URL ever
// been processed". Records are created once per identifier and never updated
// or deleted by the pipeline.
type SeenURLRepository interface {
	// FilterExisting returns the subset of ids already recorded. An
	// individual lookup failure is logged and the id treated as not seen,
	// erring toward redundant reprocessing rather than silent loss.
	FilterExisting(ctx context.Context, ids []string) map[string]bool

	// Record inserts {id, url, insertedAt} only if no record with that id
	// exists. An existing record is not an error.
	Record(ctx context.Context, id, url string, insertedAt time.Time) RecordResult

	GetSeenCount(ctx context.Context) (int, error)
}
