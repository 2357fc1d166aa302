package reconcile

import (
	"testing"
	"time"

	"aceintel/domain/core"
	"aceintel/domain/merge"
	"aceintel/domain/record"
)

func busRecord(route string, ts *time.Time, zone *string) record.NormalizedRecord {
	rec := record.NormalizedRecord{Kind: record.SourceBusSpeed, Timestamp: ts, Zone: zone}
	if route != "" {
		r := core.RouteID(route)
		rec.RouteID = &r
	}
	return rec
}

func TestResolve_RouteTimeWins(t *testing.T) {
	r := NewResolver(core.BucketDay)
	ts := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	zone := "Brooklyn"

	key := r.Resolve(busRecord("B1", &ts, &zone))

	if key.Kind != merge.KeyRouteTime {
		t.Fatalf("expected route_time key, got %s", key.Kind)
	}
	if key.Route != "B1" {
		t.Errorf("unexpected route: %s", key.Route)
	}
	if !key.Bucket.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected midnight-aligned bucket, got %v", key.Bucket)
	}
}

func TestResolve_ZoneFallback(t *testing.T) {
	r := NewResolver(core.BucketDay)
	ts := time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC)
	zone := "Queens"

	key := r.Resolve(busRecord("", &ts, &zone))

	if key.Kind != merge.KeyZone {
		t.Fatalf("expected zone key, got %s", key.Kind)
	}
	if key.Zone != "Queens" {
		t.Errorf("unexpected zone: %s", key.Zone)
	}
}

func TestResolve_UnresolvedWithoutTimestamp(t *testing.T) {
	r := NewResolver(core.BucketDay)
	zone := "Bronx"

	// Route and zone alone cannot join without a timestamp.
	key := r.Resolve(busRecord("B44", nil, &zone))
	if key.Kind != merge.KeyUnresolved {
		t.Fatalf("expected unresolved key, got %s", key.Kind)
	}
	if key.IsResolved() {
		t.Error("unresolved key must not report as resolved")
	}
}

func TestResolve_DeterministicBucketing(t *testing.T) {
	widths := []core.BucketWidth{core.BucketHour, core.BucketDay}
	ts := time.Date(2024, 5, 17, 14, 37, 12, 0, time.UTC)

	for _, w := range widths {
		r := NewResolver(w)
		first := r.Resolve(busRecord("B1", &ts, nil))
		for i := 0; i < 5; i++ {
			again := r.Resolve(busRecord("B1", &ts, nil))
			if !again.Bucket.Equal(first.Bucket) {
				t.Fatalf("width %s: bucket not stable: %v vs %v", w, again.Bucket, first.Bucket)
			}
		}
		if !first.Bucket.Before(ts) && !first.Bucket.Equal(ts) {
			t.Errorf("width %s: bucket must truncate toward the earlier boundary", w)
		}
	}
}

func TestResolve_NonUTCInputNormalized(t *testing.T) {
	r := NewResolver(core.BucketDay)
	loc := time.FixedZone("EST", -5*3600)
	ts := time.Date(2024, 1, 1, 22, 0, 0, 0, loc) // 03:00 Jan 2 UTC

	key := r.Resolve(busRecord("B1", &ts, nil))
	want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if !key.Bucket.Equal(want) {
		t.Errorf("bucketing must be UTC-aligned: got %v, want %v", key.Bucket, want)
	}
}
