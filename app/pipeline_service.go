package app

import (
	"context"
	"fmt"
	"time"

	"aceintel/domain/core"
	"aceintel/domain/record"
	"aceintel/domain/run"
	"aceintel/internal/normalize"
	"aceintel/internal/reconcile"
	"aceintel/internal/report"
	"aceintel/ports"
)

// PipelineService orchestrates one reconciliation run: load both
// datasets, normalize, resolve join keys, merge, and summarize.
type PipelineService struct {
	source     ports.RecordSource
	normalizer *normalize.Normalizer
	engine     *reconcile.Engine
	reporter   *report.Reporter
	runs       ports.RunRepository
	diag       ports.Diagnostics
	settings   map[string]string
}

// NewPipelineService creates a pipeline service. The run repository may
// be nil; results are then kept in memory only. Settings feed the run
// fingerprint alongside the input file list.
func NewPipelineService(
	source ports.RecordSource,
	normalizer *normalize.Normalizer,
	engine *reconcile.Engine,
	reporter *report.Reporter,
	runs ports.RunRepository,
	diag ports.Diagnostics,
	settings map[string]string,
) *PipelineService {
	if diag == nil {
		diag = ports.NopDiagnostics{}
	}
	return &PipelineService{
		source:     source,
		normalizer: normalizer,
		engine:     engine,
		reporter:   reporter,
		runs:       runs,
		diag:       diag,
		settings:   settings,
	}
}

// Execute runs the full pipeline once. A dataset whose glob matches no
// files yields an empty batch, not an error; only environmental failures
// (unreadable data directory, cancelled context) abort the run.
func (s *PipelineService) Execute(ctx context.Context) (*run.Result, error) {
	startTime := time.Now()
	runID := core.RunID(core.NewID())
	s.diag.Info("starting reconciliation run %s", runID)

	datasets := make(map[record.SourceKind]report.DatasetInput, len(record.Kinds()))
	var allNormalized []record.NormalizedRecord
	var inputFiles []string

	for _, kind := range record.Kinds() {
		batch, err := s.source.Load(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s dataset: %w", kind, err)
		}

		normalized := s.normalizer.NormalizeBatch(batch)
		unmapped := s.normalizer.Mapping(kind).Validate(batchColumns(batch))
		if len(unmapped) > 0 {
			s.diag.Warn("%s: unmapped attributes: %v", kind, unmapped)
		}

		datasets[kind] = report.DatasetInput{
			Batch:      batch,
			Normalized: normalized,
			Unmapped:   unmapped,
		}
		allNormalized = append(allNormalized, normalized...)
		inputFiles = append(inputFiles, batch.Files...)

		s.diag.Info("%s: loaded %d records from %d/%d files",
			kind, len(batch.Records), batch.FilesLoaded, batch.FilesDiscovered)
	}

	merged := s.engine.Merge(allNormalized)
	summary := s.reporter.Summarize(datasets, merged)

	result := &run.Result{
		RunID:       runID,
		Fingerprint: core.ComputeRunFingerprint(s.settings, inputFiles),
		StartedAt:   core.NewTimestamp(startTime),
		Duration:    time.Since(startTime),
		Merged:      merged,
		Summary:     summary,
	}

	if s.runs != nil {
		// Persistence failures never fail the run itself.
		if err := s.runs.Create(ctx, result); err != nil {
			s.diag.Error("failed to persist run %s: %v", runID, err)
		}
	}

	s.diag.Info("run %s finished in %s: %d groups, status %s",
		runID, result.Duration.Round(time.Millisecond), len(merged), summary.Status)
	return result, nil
}

// batchColumns collects the distinct source columns seen across a batch,
// for mapping validation. Column order within a record is preserved for
// the first record that introduces each column.
func batchColumns(batch record.Batch) []string {
	seen := make(map[string]struct{})
	var cols []string
	for _, rec := range batch.Records {
		for _, col := range rec.Columns {
			if _, ok := seen[col]; !ok {
				seen[col] = struct{}{}
				cols = append(cols, col)
			}
		}
	}
	return cols
}
