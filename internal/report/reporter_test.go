package report

import (
	"strings"
	"testing"
	"time"

	"aceintel/domain/core"
	"aceintel/domain/merge"
	"aceintel/domain/record"
	"aceintel/domain/run"
)

func normalized(kind record.SourceKind, ts time.Time, speed float64) record.NormalizedRecord {
	route := core.RouteID("B1")
	rec := record.NormalizedRecord{Kind: kind, RouteID: &route, Timestamp: &ts}
	if kind == record.SourceBusSpeed {
		rec.Metrics = map[core.MetricKey]float64{record.MetricSpeed: speed}
	}
	return rec
}

func TestSummarize_DatasetCounts(t *testing.T) {
	reporter := NewReporter(nil)

	jan1 := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	jan5 := time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC)

	datasets := map[record.SourceKind]DatasetInput{
		record.SourceBusSpeed: {
			Batch: record.Batch{
				Kind: record.SourceBusSpeed,
				Records: []record.RawRecord{
					{Columns: []string{"Route", "Date", "Average Speed"}},
					{Columns: []string{"Route", "Date", "Average Speed"}},
				},
				FilesDiscovered: 2,
				FilesLoaded:     1,
				FilesFailed:     1,
			},
			Normalized: []record.NormalizedRecord{
				normalized(record.SourceBusSpeed, jan5, 14.0),
				normalized(record.SourceBusSpeed, jan1, 10.0),
			},
		},
	}

	summary := reporter.Summarize(datasets, nil)

	if summary.Status != run.StatusOK {
		t.Errorf("expected ok status, got %s", summary.Status)
	}
	ds := summary.Datasets[record.SourceBusSpeed]
	if ds.Records != 2 || ds.FilesFailed != 1 {
		t.Errorf("unexpected counts: %+v", ds)
	}
	if ds.MinDate == nil || !ds.MinDate.Equal(jan1) {
		t.Errorf("expected min date %v, got %v", jan1, ds.MinDate)
	}
	if ds.MaxDate == nil || !ds.MaxDate.Equal(jan5) {
		t.Errorf("expected max date %v, got %v", jan5, ds.MaxDate)
	}
	if ds.SpeedMean == nil || *ds.SpeedMean != 12.0 {
		t.Errorf("expected mean speed 12.0, got %v", ds.SpeedMean)
	}
	want := []string{"Average Speed", "Date", "Route"}
	if len(ds.Columns) != 3 || ds.Columns[0] != want[0] || ds.Columns[1] != want[1] || ds.Columns[2] != want[2] {
		t.Errorf("expected sorted column inventory %v, got %v", want, ds.Columns)
	}
}

func TestSummarize_NoDataStatus(t *testing.T) {
	reporter := NewReporter(nil)

	datasets := map[record.SourceKind]DatasetInput{
		record.SourceBusSpeed:    {Batch: record.Batch{Kind: record.SourceBusSpeed}},
		record.SourceEnforcement: {Batch: record.Batch{Kind: record.SourceEnforcement}},
	}

	summary := reporter.Summarize(datasets, nil)
	if summary.Status != run.StatusNoData {
		t.Fatalf("empty datasets must report no_data, got %s", summary.Status)
	}
	if len(summary.Datasets) != 2 {
		t.Errorf("summaries must still be produced for empty datasets, got %d", len(summary.Datasets))
	}
}

func TestSummarize_MergeBreakdown(t *testing.T) {
	reporter := NewReporter(nil)
	bucket := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	routeKey := merge.JoinKey{Kind: merge.KeyRouteTime, Route: "B1", Bucket: bucket}
	merged := []merge.MergedRecord{
		{
			Key:          routeKey,
			BusSpeeds:    []record.NormalizedRecord{{Kind: record.SourceBusSpeed}},
			Enforcements: []record.NormalizedRecord{{Kind: record.SourceEnforcement}},
		},
		{
			Key:       merge.JoinKey{Kind: merge.KeyRouteTime, Route: "M15", Bucket: bucket},
			BusSpeeds: []record.NormalizedRecord{{Kind: record.SourceBusSpeed}},
		},
		{
			Key:          merge.JoinKey{Kind: merge.KeyZone, Zone: "Midtown", Bucket: bucket},
			Enforcements: []record.NormalizedRecord{{Kind: record.SourceEnforcement}},
		},
		{
			Key:       merge.JoinKey{Kind: merge.KeyUnresolved},
			BusSpeeds: []record.NormalizedRecord{{Kind: record.SourceBusSpeed}},
		},
	}

	summary := reporter.Summarize(nil, merged)
	ms := summary.Merge
	if ms.Groups != 4 || ms.MatchedGroups != 1 || ms.BusSpeedOnly != 1 || ms.EnforcementOnly != 1 || ms.UnresolvedRecords != 1 {
		t.Errorf("unexpected merge breakdown: %+v", ms)
	}
}

func TestMarkdown_RendersSections(t *testing.T) {
	mean := 12.5
	res := &run.Result{
		RunID:     core.RunID("01942f3e-test"),
		StartedAt: core.NewTimestamp(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)),
		Duration:  125 * time.Millisecond,
		Summary: run.PipelineSummary{
			Status: run.StatusOK,
			Datasets: map[record.SourceKind]run.DatasetSummary{
				record.SourceBusSpeed: {
					Kind:      record.SourceBusSpeed,
					Records:   10,
					SpeedMean: &mean,
				},
			},
			Merge: run.MergeSummary{Groups: 3, MatchedGroups: 2},
		},
	}

	md := Markdown(res)
	for _, want := range []string{"# Reconciliation Run", "## Bus Speeds", "## Merge", "Mean speed | 12.50", "Matched groups | 2"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}
