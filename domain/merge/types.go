// Package merge holds the join-key and merged-group types produced by the
// reconciliation engine. The default join is route+time bucketing with a
// geographic-zone fallback; the other strategies documented for this data
// (pure geographic, violation time windows) are configuration variants of
// the same key vocabulary rather than separate code paths.
package merge

import (
	"fmt"
	"time"

	"aceintel/domain/core"
	"aceintel/domain/record"
)

// KeyKind discriminates how a record was matched
type KeyKind string

const (
	KeyRouteTime  KeyKind = "route_time"
	KeyZone       KeyKind = "zone"
	KeyUnresolved KeyKind = "unresolved"
)

// JoinKey is the derived identifier used to group records from different
// sources that refer to the same real-world route/time/place.
// Unresolved only when neither route+timestamp nor zone+timestamp is present.
type JoinKey struct {
	Kind   KeyKind      `json:"kind"`
	Route  core.RouteID `json:"route,omitempty"`
	Zone   string       `json:"zone,omitempty"`
	Bucket time.Time    `json:"bucket,omitempty"`
}

// String renders a stable grouping key. Unresolved keys carry no fields
// and collide intentionally; the engine discriminates them per record.
func (k JoinKey) String() string {
	switch k.Kind {
	case KeyRouteTime:
		return fmt.Sprintf("route|%s|%s", k.Route, k.Bucket.Format(time.RFC3339))
	case KeyZone:
		return fmt.Sprintf("zone|%s|%s", k.Zone, k.Bucket.Format(time.RFC3339))
	default:
		return "unresolved"
	}
}

// IsResolved reports whether the key can match records across sources
func (k JoinKey) IsResolved() bool {
	return k.Kind != KeyUnresolved
}

// SpeedAggregation selects the reducer applied when a group holds more
// than one bus-speed record.
type SpeedAggregation string

const (
	AggMean   SpeedAggregation = "mean"
	AggMedian SpeedAggregation = "median"
	AggFirst  SpeedAggregation = "first"
)

// ParseSpeedAggregation validates a configured aggregation name
func ParseSpeedAggregation(s string) (SpeedAggregation, error) {
	switch SpeedAggregation(s) {
	case AggMean, AggMedian, AggFirst:
		return SpeedAggregation(s), nil
	case "":
		return AggMean, nil
	default:
		return "", fmt.Errorf("%w: %q", core.ErrInvalidAggregation, s)
	}
}

// MergedRecord pairs the bus-speed and enforcement records sharing a
// JoinKey, plus the derived features. Created once per distinct key
// during the engine pass and immutable thereafter.
//
// EnforcementDensity is 0 (not nil) for groups with no enforcement
// records: absence of enforcement is a meaningful zero. A group with no
// bus-speed records has a nil AvgSpeedImprovement since no delta is
// computable.
type MergedRecord struct {
	Key                 JoinKey                    `json:"key"`
	BusSpeeds           []record.NormalizedRecord  `json:"bus_speeds"`
	Enforcements        []record.NormalizedRecord  `json:"enforcements"`
	SpeedAggregates     map[core.MetricKey]float64 `json:"speed_aggregates,omitempty"`
	EnforcementDensity  int                        `json:"enforcement_density"`
	AvgSpeedImprovement *float64                   `json:"avg_speed_improvement,omitempty"`
}

// RecordCount returns how many normalized records the group holds
func (m MergedRecord) RecordCount() int {
	return len(m.BusSpeeds) + len(m.Enforcements)
}

// Matched reports whether the group pairs records from both sources
func (m MergedRecord) Matched() bool {
	return len(m.BusSpeeds) > 0 && len(m.Enforcements) > 0
}
