package reconcile

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"aceintel/domain/core"
	"aceintel/domain/merge"
	"aceintel/domain/record"
)

// Engine executes the configured join over the full set of normalized
// records from both sources. Single-pass grouping, purely functional
// over the input collection: the engine never drops a record, and every
// input lands in exactly one output group (outer-join semantics).
type Engine struct {
	resolver *Resolver
	agg      merge.SpeedAggregation
}

// NewEngine creates a merge engine with the given resolver and speed reducer
func NewEngine(resolver *Resolver, agg merge.SpeedAggregation) *Engine {
	if resolver == nil {
		resolver = NewResolver(core.BucketDay)
	}
	if agg == "" {
		agg = merge.AggMean
	}
	return &Engine{resolver: resolver, agg: agg}
}

// Merge groups records by join key and computes the derived features per
// group. Unresolved records form singleton groups so they stay traceable
// rather than collapsing into one catch-all bucket. Group order follows
// first appearance in the input, which keeps output deterministic.
func (e *Engine) Merge(records []record.NormalizedRecord) []merge.MergedRecord {
	groups := make(map[string]*merge.MergedRecord)
	var order []string

	for i, rec := range records {
		key := e.resolver.Resolve(rec)

		mapKey := key.String()
		if !key.IsResolved() {
			// Singleton group per unresolved record
			mapKey = fmt.Sprintf("unresolved|%d", i)
		}

		group, ok := groups[mapKey]
		if !ok {
			group = &merge.MergedRecord{Key: key}
			groups[mapKey] = group
			order = append(order, mapKey)
		}

		switch rec.Kind {
		case record.SourceBusSpeed:
			group.BusSpeeds = append(group.BusSpeeds, rec)
		case record.SourceEnforcement:
			group.Enforcements = append(group.Enforcements, rec)
		}
	}

	out := make([]merge.MergedRecord, 0, len(order))
	for _, mapKey := range order {
		group := groups[mapKey]
		e.deriveFeatures(group)
		out = append(out, *group)
	}
	return out
}

// deriveFeatures computes the per-group derived fields. Zero enforcement
// records is a meaningful zero, not missing data; a missing speed delta
// stays nil since no improvement is computable.
func (e *Engine) deriveFeatures(group *merge.MergedRecord) {
	group.EnforcementDensity = len(group.Enforcements)

	for _, key := range []core.MetricKey{record.MetricSpeed, record.MetricSpeedBefore, record.MetricSpeedAfter} {
		if agg, ok := e.aggregateMetric(group.BusSpeeds, key); ok {
			if group.SpeedAggregates == nil {
				group.SpeedAggregates = make(map[core.MetricKey]float64)
			}
			group.SpeedAggregates[key] = agg
		}
	}

	before, hasBefore := group.SpeedAggregates[record.MetricSpeedBefore]
	after, hasAfter := group.SpeedAggregates[record.MetricSpeedAfter]
	if hasBefore && hasAfter {
		delta := after - before
		group.AvgSpeedImprovement = &delta
	}
}

// aggregateMetric reduces one metric across the group's bus-speed
// records with the configured reducer.
func (e *Engine) aggregateMetric(recs []record.NormalizedRecord, key core.MetricKey) (float64, bool) {
	var values []float64
	for _, rec := range recs {
		if v, ok := rec.Metric(key); ok {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return 0, false
	}

	switch e.agg {
	case merge.AggMedian:
		v, err := stats.Median(values)
		if err != nil {
			return 0, false
		}
		return v, true
	case merge.AggFirst:
		return values[0], true
	default:
		v, err := stats.Mean(values)
		if err != nil {
			return 0, false
		}
		return v, true
	}
}
