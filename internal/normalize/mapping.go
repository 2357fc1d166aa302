package normalize

import (
	"sort"
	"strings"

	"aceintel/domain/core"
	"aceintel/domain/record"
)

// Mapping is the explicit schema-mapping table for one dataset kind:
// canonical attribute to a prioritized list of acceptable source column
// names. Matching is case-insensitive and the first candidate that hits
// a column is authoritative; no two candidates are ever merged.
type Mapping struct {
	RouteID   []string
	Timestamp []string
	Zone      []string
	Direction []string
	Metrics   map[core.MetricKey][]string
}

// DefaultMappings returns the stock mapping table per dataset kind.
// The timestamp candidate orders follow the MTA export conventions:
// enforcement files carry violation_date, speed files carry date.
func DefaultMappings() map[record.SourceKind]Mapping {
	return map[record.SourceKind]Mapping{
		record.SourceBusSpeed: {
			RouteID:   []string{"route_id", "route", "bus_route"},
			Timestamp: []string{"date", "timestamp", "month"},
			Zone:      []string{"borough", "zone"},
			Direction: []string{"direction"},
			Metrics: map[core.MetricKey][]string{
				record.MetricSpeed:       {"average speed", "average_speed", "speed", "average road speed"},
				record.MetricSpeedBefore: {"speed_before", "speed before"},
				record.MetricSpeedAfter:  {"speed_after", "speed after"},
			},
		},
		record.SourceEnforcement: {
			RouteID:   []string{"route_id", "bus_route_id", "route", "bus_route"},
			Timestamp: []string{"violation_date", "date", "timestamp", "first occurrence"},
			Zone:      []string{"borough", "zone", "violation_county"},
			Direction: []string{"direction"},
			Metrics: map[core.MetricKey][]string{
				record.MetricViolations: {"violation_count", "violations"},
			},
		},
	}
}

// WithTimestampCandidates returns a copy of the mapping with the
// timestamp candidate list replaced (configuration override).
func (m Mapping) WithTimestampCandidates(candidates []string) Mapping {
	if len(candidates) == 0 {
		return m
	}
	out := m
	out.Timestamp = candidates
	return out
}

// resolve finds the first candidate (in priority order) present among the
// columns, comparing case-insensitively. Within one candidate, file
// column order breaks ties so resolution is deterministic.
func resolve(candidates []string, columns []string) (string, bool) {
	for _, cand := range candidates {
		for _, col := range columns {
			if strings.EqualFold(cand, col) {
				return col, true
			}
		}
	}
	return "", false
}

// Validate reports which canonical attributes have no acceptable source
// column, so gaps are observable instead of silently absent.
func (m Mapping) Validate(columns []string) []string {
	var unmapped []string
	if _, ok := resolve(m.RouteID, columns); !ok {
		unmapped = append(unmapped, "route_id")
	}
	if _, ok := resolve(m.Timestamp, columns); !ok {
		unmapped = append(unmapped, "timestamp")
	}
	if _, ok := resolve(m.Zone, columns); !ok {
		unmapped = append(unmapped, "zone")
	}
	if _, ok := resolve(m.Direction, columns); !ok {
		unmapped = append(unmapped, "direction")
	}
	for key, candidates := range m.Metrics {
		if _, ok := resolve(candidates, columns); !ok {
			unmapped = append(unmapped, "metric:"+key.String())
		}
	}
	sort.Strings(unmapped)
	return unmapped
}
