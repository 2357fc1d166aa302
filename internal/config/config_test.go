package config

import (
	"testing"
	"time"

	"aceintel/domain/core"
	"aceintel/domain/merge"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Pipeline.Bucket != core.BucketDay {
		t.Errorf("expected day bucket default, got %v", cfg.Pipeline.Bucket)
	}
	if cfg.Pipeline.SpeedAgg != merge.AggMean {
		t.Errorf("expected mean aggregation default, got %v", cfg.Pipeline.SpeedAgg)
	}
	if cfg.Pipeline.LoaderParallelism != 4 {
		t.Errorf("expected default parallelism 4, got %d", cfg.Pipeline.LoaderParallelism)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
}

func TestLoad_BucketOverride(t *testing.T) {
	t.Setenv("ACE_BUCKET", "1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Pipeline.Bucket != core.BucketHour {
		t.Errorf("expected hour bucket, got %v", cfg.Pipeline.Bucket)
	}
}

func TestLoad_InvalidBucket(t *testing.T) {
	cases := []string{"banana", "30s"}
	for _, val := range cases {
		t.Setenv("ACE_BUCKET", val)
		if _, err := Load(); err == nil {
			t.Errorf("expected error for bucket %q", val)
		}
	}
}

func TestLoad_InvalidAggregation(t *testing.T) {
	t.Setenv("ACE_SPEED_AGG", "mode")
	if _, err := Load(); err == nil {
		t.Error("expected error for unknown aggregation")
	}
}

func TestLoad_DateColumnOverride(t *testing.T) {
	t.Setenv("ACE_SPEED_DATE_COLUMNS", "Month, Report Date ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cols := cfg.Pipeline.SpeedDateColumns
	if len(cols) != 2 || cols[0] != "Month" || cols[1] != "Report Date" {
		t.Errorf("unexpected date columns: %v", cols)
	}
}

func TestParseBucket_Widths(t *testing.T) {
	got, err := parseBucket("15m")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Duration() != 15*time.Minute {
		t.Errorf("expected 15m, got %v", got.Duration())
	}
}
