package ports

import (
	"context"

	"aceintel/domain/record"
)

// RecordSource supplies raw tabular records for one dataset kind. The
// loader behind it discovers files, parses rows, and isolates per-file
// failures; the pipeline core only sees fully-formed immutable batches.
type RecordSource interface {
	// Load reads every discovered file for the kind. A single file's
	// failure is counted in the batch, not returned as an error; only
	// infrastructure faults (unreadable directory, cancelled context)
	// surface here.
	Load(ctx context.Context, kind record.SourceKind) (record.Batch, error)
}
