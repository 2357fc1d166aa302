// Package reconcile turns normalized records from both datasets into a
// unified, queryable record set: the resolver derives the best available
// join key per record and the engine executes the outer-join grouping.
package reconcile

import (
	"aceintel/domain/core"
	"aceintel/domain/merge"
	"aceintel/domain/record"
)

// Resolver derives a JoinKey from a normalized record. Transit speed
// measurements and enforcement events are rarely recorded at identical
// instants, so timestamps are discretized into buckets of a configured
// width; the width is an explicit, inspectable value, not a hidden
// heuristic.
type Resolver struct {
	width core.BucketWidth
}

// NewResolver creates a resolver with the given bucket width;
// zero means day buckets.
func NewResolver(width core.BucketWidth) *Resolver {
	if width <= 0 {
		width = core.BucketDay
	}
	return &Resolver{width: width}
}

// Width returns the configured bucket width
func (r *Resolver) Width() core.BucketWidth {
	return r.width
}

// Resolve picks the best available key in fixed order: route+timestamp,
// then zone+timestamp, else Unresolved. Bucketing truncates toward the
// earlier boundary in UTC, so resolving the same timestamp twice always
// yields the same bucket regardless of record order.
func (r *Resolver) Resolve(rec record.NormalizedRecord) merge.JoinKey {
	switch {
	case rec.HasRouteTime():
		return merge.JoinKey{
			Kind:   merge.KeyRouteTime,
			Route:  *rec.RouteID,
			Bucket: r.width.Truncate(*rec.Timestamp),
		}
	case rec.HasZoneTime():
		return merge.JoinKey{
			Kind:   merge.KeyZone,
			Zone:   *rec.Zone,
			Bucket: r.width.Truncate(*rec.Timestamp),
		}
	default:
		return merge.JoinKey{Kind: merge.KeyUnresolved}
	}
}
