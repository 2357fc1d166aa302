package tabular

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/semaphore"

	"aceintel/domain/core"
	"aceintel/domain/record"
	"aceintel/ports"
)

// DirectoryLoader implements ports.RecordSource over a directory of data
// files. Files for a kind are discovered with a glob pattern and read
// with bounded parallelism; a single file's failure is isolated, logged,
// and counted rather than aborting the batch.
type DirectoryLoader struct {
	dataDir     string
	patterns    map[record.SourceKind]string
	parallelism int64
	diag        ports.Diagnostics
}

// DefaultPatterns returns the stock glob per dataset kind
func DefaultPatterns() map[record.SourceKind]string {
	return map[record.SourceKind]string{
		record.SourceBusSpeed:    "MTA_Bus_Speeds*.csv",
		record.SourceEnforcement: "MTA_Bus_Automated_Camera_Enforcement*.csv",
	}
}

// NewDirectoryLoader creates a loader for the given data directory
func NewDirectoryLoader(dataDir string, patterns map[record.SourceKind]string, parallelism int, diag ports.Diagnostics) *DirectoryLoader {
	if patterns == nil {
		patterns = DefaultPatterns()
	}
	if parallelism < 1 {
		parallelism = 1
	}
	if diag == nil {
		diag = ports.NopDiagnostics{}
	}
	return &DirectoryLoader{
		dataDir:     dataDir,
		patterns:    patterns,
		parallelism: int64(parallelism),
		diag:        diag,
	}
}

// Load discovers and reads every file matching the kind's pattern.
// Results are ordered by file name so batches are stable across runs
// regardless of goroutine scheduling.
func (l *DirectoryLoader) Load(ctx context.Context, kind record.SourceKind) (record.Batch, error) {
	batch := record.Batch{Kind: kind}

	pattern, ok := l.patterns[kind]
	if !ok {
		return batch, fmt.Errorf("no glob pattern configured for dataset kind %q", kind)
	}

	if _, err := os.Stat(l.dataDir); err != nil {
		return batch, fmt.Errorf("%w: %s: %v", core.ErrDataDir, l.dataDir, err)
	}

	files, err := filepath.Glob(filepath.Join(l.dataDir, pattern))
	if err != nil {
		return batch, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}
	sort.Strings(files)

	batch.FilesDiscovered = len(files)
	batch.Files = files
	if len(files) == 0 {
		l.diag.Warn("no files found matching pattern %q for %s", pattern, kind)
		return batch, nil
	}
	l.diag.Info("loading %s data: %d file(s) matching %q", kind, len(files), pattern)

	perFile := make([][]record.RawRecord, len(files))
	failed := make([]bool, len(files))

	sem := semaphore.NewWeighted(l.parallelism)
	var wg sync.WaitGroup
	for i, path := range files {
		if err := sem.Acquire(ctx, 1); err != nil {
			return batch, fmt.Errorf("loader cancelled: %w", err)
		}
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			defer sem.Release(1)

			records, err := NewFileReader(path).Read(kind)
			if err != nil {
				l.diag.Error("error loading file %s: %v", path, err)
				failed[i] = true
				return
			}
			l.diag.Debug("loaded %d records from %s", len(records), path)
			perFile[i] = records
		}(i, path)
	}
	wg.Wait()

	for i := range files {
		if failed[i] {
			batch.FilesFailed++
			continue
		}
		batch.FilesLoaded++
		batch.Records = append(batch.Records, perFile[i]...)
	}

	l.diag.Info("loaded %d records from %d/%d %s files", len(batch.Records), batch.FilesLoaded, batch.FilesDiscovered, kind)
	return batch, nil
}
