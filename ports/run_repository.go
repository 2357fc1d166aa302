package ports

import (
	"context"

	"aceintel/domain/core"
	"aceintel/domain/run"
)

// RunRepository persists pipeline runs and their summaries. Persistence
// is optional; the pipeline core never depends on it directly.
type RunRepository interface {
	Create(ctx context.Context, result *run.Result) error
	GetByID(ctx context.Context, id core.RunID) (*run.Result, error)
	Latest(ctx context.Context) (*run.Result, error)
}
