package record

import (
	"time"

	"aceintel/domain/core"
)

// SourceKind tags which dataset a record came from
type SourceKind string

const (
	SourceBusSpeed    SourceKind = "bus_speeds"
	SourceEnforcement SourceKind = "ace_enforcement"
)

// Kinds returns all dataset kinds in a stable order
func Kinds() []SourceKind {
	return []SourceKind{SourceBusSpeed, SourceEnforcement}
}

// RawRecord is one input row as produced by the loader: source column
// name to raw cell value, tagged with provenance. Immutable once built.
type RawRecord struct {
	Kind    SourceKind        `json:"kind"`
	File    string            `json:"file"`
	Fields  map[string]string `json:"fields"`
	RowIdx  int               `json:"row_idx"`
	Columns []string          `json:"columns"`
}

// NormalizedRecord carries the canonical attribute set. SourceKind is
// always present; every other field is optional since source schemas
// vary. Never mutated after the normalizer creates it.
type NormalizedRecord struct {
	Kind      SourceKind                 `json:"kind"`
	RouteID   *core.RouteID              `json:"route_id,omitempty"`
	Timestamp *time.Time                 `json:"timestamp,omitempty"`
	Zone      *string                    `json:"zone,omitempty"`
	Direction *string                    `json:"direction,omitempty"`
	Metrics   map[core.MetricKey]float64 `json:"metrics,omitempty"`
}

// Canonical metric keys shared across the pipeline
const (
	MetricSpeed       core.MetricKey = "speed"
	MetricSpeedBefore core.MetricKey = "speed_before"
	MetricSpeedAfter  core.MetricKey = "speed_after"
	MetricViolations  core.MetricKey = "violations"
)

// HasRouteTime reports whether the record can join on route and time
func (r NormalizedRecord) HasRouteTime() bool {
	return r.RouteID != nil && r.Timestamp != nil
}

// HasZoneTime reports whether the record can join on zone and time
func (r NormalizedRecord) HasZoneTime() bool {
	return r.Zone != nil && r.Timestamp != nil
}

// Metric looks up a metric by key
func (r NormalizedRecord) Metric(key core.MetricKey) (float64, bool) {
	v, ok := r.Metrics[key]
	return v, ok
}

// Batch is the loader output for one dataset kind: all raw records plus
// per-file load accounting. One file's failure never aborts the batch.
type Batch struct {
	Kind            SourceKind  `json:"kind"`
	Records         []RawRecord `json:"records"`
	FilesDiscovered int         `json:"files_discovered"`
	FilesLoaded     int         `json:"files_loaded"`
	FilesFailed     int         `json:"files_failed"`
	Files           []string    `json:"files"`
}

// Empty reports whether the batch holds no records
func (b Batch) Empty() bool {
	return len(b.Records) == 0
}
