package run

import (
	"time"

	"aceintel/domain/core"
	"aceintel/domain/merge"
	"aceintel/domain/record"
)

// Status summarizes the outcome of a pipeline run
type Status string

const (
	// StatusOK means at least one dataset produced records
	StatusOK Status = "ok"
	// StatusNoData means both dataset globs matched zero files or only
	// empty files; reported as a summary status, not an exception, so
	// downstream reporting still succeeds with empty datasets.
	StatusNoData Status = "no_data"
)

// DatasetSummary describes one loaded dataset
type DatasetSummary struct {
	Kind            record.SourceKind `json:"kind"`
	Records         int               `json:"records"`
	Columns         []string          `json:"columns"`
	MinDate         *time.Time        `json:"min_date,omitempty"`
	MaxDate         *time.Time        `json:"max_date,omitempty"`
	FilesDiscovered int               `json:"files_discovered"`
	FilesLoaded     int               `json:"files_loaded"`
	FilesFailed     int               `json:"files_failed"`
	UnmappedAttrs   []string          `json:"unmapped_attributes,omitempty"`
	SpeedMean       *float64          `json:"speed_mean,omitempty"`
	SpeedStdDev     *float64          `json:"speed_std_dev,omitempty"`
}

// MergeSummary describes the reconciliation outcome
type MergeSummary struct {
	Groups            int `json:"groups"`
	MatchedGroups     int `json:"matched_groups"`
	BusSpeedOnly      int `json:"bus_speed_only_groups"`
	EnforcementOnly   int `json:"enforcement_only_groups"`
	UnresolvedRecords int `json:"unresolved_records"`
}

// PipelineSummary is recomputed on demand from the current merged record
// set; it is never a source of truth on its own.
type PipelineSummary struct {
	Status   Status                               `json:"status"`
	Datasets map[record.SourceKind]DatasetSummary `json:"datasets"`
	Merge    MergeSummary                         `json:"merge"`
}

// Result is the full output of one pipeline execution
type Result struct {
	RunID       core.RunID           `json:"run_id"`
	Fingerprint core.RunFingerprint  `json:"fingerprint"`
	StartedAt   core.Timestamp       `json:"started_at"`
	Duration    time.Duration        `json:"duration"`
	Merged      []merge.MergedRecord `json:"merged"`
	Summary     PipelineSummary      `json:"summary"`
}
