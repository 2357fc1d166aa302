// Package report turns loader and merge outputs into run summaries.
package report

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"aceintel/domain/merge"
	"aceintel/domain/record"
	"aceintel/domain/run"
	"aceintel/ports"
)

// DatasetInput bundles everything known about one dataset after loading
// and normalization.
type DatasetInput struct {
	Batch      record.Batch
	Normalized []record.NormalizedRecord
	Unmapped   []string
}

// Reporter computes PipelineSummary values from pipeline outputs
type Reporter struct {
	diag ports.Diagnostics
}

// NewReporter creates a reporter
func NewReporter(diag ports.Diagnostics) *Reporter {
	if diag == nil {
		diag = ports.NopDiagnostics{}
	}
	return &Reporter{diag: diag}
}

// Summarize builds the run summary. Status is no_data only when every
// dataset produced zero records; a summary is still produced so callers
// can report empty datasets uniformly.
func (r *Reporter) Summarize(datasets map[record.SourceKind]DatasetInput, merged []merge.MergedRecord) run.PipelineSummary {
	summary := run.PipelineSummary{
		Status:   run.StatusOK,
		Datasets: make(map[record.SourceKind]run.DatasetSummary, len(datasets)),
	}

	totalRecords := 0
	for _, kind := range record.Kinds() {
		in, ok := datasets[kind]
		if !ok {
			continue
		}
		ds := r.summarizeDataset(kind, in)
		summary.Datasets[kind] = ds
		totalRecords += ds.Records
	}

	if totalRecords == 0 {
		summary.Status = run.StatusNoData
		r.diag.Warn("no records loaded from any dataset")
	}

	summary.Merge = summarizeMerge(merged)
	return summary
}

func (r *Reporter) summarizeDataset(kind record.SourceKind, in DatasetInput) run.DatasetSummary {
	ds := run.DatasetSummary{
		Kind:            kind,
		Records:         len(in.Batch.Records),
		Columns:         columnInventory(in.Batch.Records),
		FilesDiscovered: in.Batch.FilesDiscovered,
		FilesLoaded:     in.Batch.FilesLoaded,
		FilesFailed:     in.Batch.FilesFailed,
		UnmappedAttrs:   in.Unmapped,
	}

	ds.MinDate, ds.MaxDate = dateRange(in.Normalized)

	if kind == record.SourceBusSpeed {
		ds.SpeedMean, ds.SpeedStdDev = speedStats(in.Normalized)
	}

	if ds.FilesFailed > 0 {
		r.diag.Warn("%s: %d of %d files failed to load", kind, ds.FilesFailed, ds.FilesDiscovered)
	}
	return ds
}

// columnInventory returns the sorted union of source column names seen
// across all raw records of a dataset.
func columnInventory(records []record.RawRecord) []string {
	seen := make(map[string]struct{})
	for _, rec := range records {
		for _, col := range rec.Columns {
			seen[col] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for col := range seen {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

func dateRange(records []record.NormalizedRecord) (*time.Time, *time.Time) {
	var min, max *time.Time
	for _, rec := range records {
		if rec.Timestamp == nil {
			continue
		}
		ts := *rec.Timestamp
		if min == nil || ts.Before(*min) {
			t := ts
			min = &t
		}
		if max == nil || ts.After(*max) {
			t := ts
			max = &t
		}
	}
	return min, max
}

// speedStats computes mean and standard deviation over every speed
// metric present. Both are nil when no record carries a speed value.
func speedStats(records []record.NormalizedRecord) (*float64, *float64) {
	var speeds []float64
	for _, rec := range records {
		if v, ok := rec.Metric(record.MetricSpeed); ok {
			speeds = append(speeds, v)
		}
	}
	if len(speeds) == 0 {
		return nil, nil
	}
	mean := stat.Mean(speeds, nil)
	stdDev := 0.0
	if len(speeds) > 1 {
		stdDev = stat.StdDev(speeds, nil)
	}
	return &mean, &stdDev
}

func summarizeMerge(merged []merge.MergedRecord) run.MergeSummary {
	ms := run.MergeSummary{Groups: len(merged)}
	for _, group := range merged {
		if !group.Key.IsResolved() {
			ms.UnresolvedRecords += group.RecordCount()
			continue
		}
		switch {
		case group.Matched():
			ms.MatchedGroups++
		case len(group.BusSpeeds) > 0:
			ms.BusSpeedOnly++
		default:
			ms.EnforcementOnly++
		}
	}
	return ms
}
