package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"aceintel/domain/core"
	"aceintel/domain/merge"
	"aceintel/domain/record"
	"aceintel/domain/run"
	"aceintel/internal/normalize"
	"aceintel/internal/reconcile"
	"aceintel/internal/report"
	"aceintel/ports"
)

// Mock implementations for testing
type MockRecordSource struct {
	mock.Mock
}

func (m *MockRecordSource) Load(ctx context.Context, kind record.SourceKind) (record.Batch, error) {
	args := m.Called(ctx, kind)
	return args.Get(0).(record.Batch), args.Error(1)
}

type MockRunRepository struct {
	mock.Mock
}

func (m *MockRunRepository) Create(ctx context.Context, result *run.Result) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockRunRepository) GetByID(ctx context.Context, id core.RunID) (*run.Result, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*run.Result), args.Error(1)
}

func (m *MockRunRepository) Latest(ctx context.Context) (*run.Result, error) {
	args := m.Called(ctx)
	return args.Get(0).(*run.Result), args.Error(1)
}

func speedBatch() record.Batch {
	cols := []string{"Route", "Date", "Average Speed"}
	return record.Batch{
		Kind: record.SourceBusSpeed,
		Records: []record.RawRecord{
			{
				Kind:    record.SourceBusSpeed,
				Fields:  map[string]string{"Route": "B1", "Date": "2024-01-01T08:00:00", "Average Speed": "12.0"},
				Columns: cols,
			},
		},
		FilesDiscovered: 1,
		FilesLoaded:     1,
		Files:           []string{"speeds.csv"},
	}
}

func enforcementBatch() record.Batch {
	cols := []string{"Bus Route ID", "Violation_Date"}
	return record.Batch{
		Kind: record.SourceEnforcement,
		Records: []record.RawRecord{
			{
				Kind:    record.SourceEnforcement,
				Fields:  map[string]string{"Bus Route ID": "B1", "Violation_Date": "2024-01-01T09:30:00"},
				Columns: cols,
			},
		},
		FilesDiscovered: 1,
		FilesLoaded:     1,
		Files:           []string{"enforcement.csv"},
	}
}

func newService(source *MockRecordSource, runs ports.RunRepository) *PipelineService {
	engine := reconcile.NewEngine(reconcile.NewResolver(core.BucketDay), merge.AggMean)
	return NewPipelineService(
		source,
		normalize.New(nil),
		engine,
		report.NewReporter(nil),
		runs,
		nil,
		map[string]string{"bucket": "24h"},
	)
}

func TestExecute_EndToEnd(t *testing.T) {
	source := new(MockRecordSource)
	source.On("Load", mock.Anything, record.SourceBusSpeed).Return(speedBatch(), nil)
	source.On("Load", mock.Anything, record.SourceEnforcement).Return(enforcementBatch(), nil)

	svc := newService(source, nil)
	result, err := svc.Execute(context.Background())

	assert.NoError(t, err)
	assert.NotEmpty(t, result.RunID)
	assert.NotEmpty(t, result.Fingerprint)
	assert.Equal(t, run.StatusOK, result.Summary.Status)

	// Same route, same day bucket: one matched group
	assert.Len(t, result.Merged, 1)
	group := result.Merged[0]
	assert.Equal(t, merge.KeyRouteTime, group.Key.Kind)
	assert.Equal(t, core.RouteID("B1"), group.Key.Route)
	assert.Equal(t, 1, group.EnforcementDensity)
	assert.Equal(t, 12.0, group.SpeedAggregates[record.MetricSpeed])
	assert.Equal(t, 1, result.Summary.Merge.MatchedGroups)

	source.AssertExpectations(t)
}

func TestExecute_EmptyDatasetsReportNoData(t *testing.T) {
	source := new(MockRecordSource)
	source.On("Load", mock.Anything, record.SourceBusSpeed).
		Return(record.Batch{Kind: record.SourceBusSpeed}, nil)
	source.On("Load", mock.Anything, record.SourceEnforcement).
		Return(record.Batch{Kind: record.SourceEnforcement}, nil)

	svc := newService(source, nil)
	result, err := svc.Execute(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, run.StatusNoData, result.Summary.Status)
	assert.Empty(t, result.Merged)
}

func TestExecute_LoadErrorAborts(t *testing.T) {
	source := new(MockRecordSource)
	source.On("Load", mock.Anything, record.SourceBusSpeed).
		Return(record.Batch{}, core.ErrDataDir)

	svc := newService(source, nil)
	result, err := svc.Execute(context.Background())

	assert.Nil(t, result)
	assert.True(t, errors.Is(err, core.ErrDataDir))
}

func TestExecute_PersistsResult(t *testing.T) {
	source := new(MockRecordSource)
	source.On("Load", mock.Anything, record.SourceBusSpeed).Return(speedBatch(), nil)
	source.On("Load", mock.Anything, record.SourceEnforcement).Return(enforcementBatch(), nil)

	runs := new(MockRunRepository)
	runs.On("Create", mock.Anything, mock.AnythingOfType("*run.Result")).Return(nil)

	svc := newService(source, runs)
	_, err := svc.Execute(context.Background())

	assert.NoError(t, err)
	runs.AssertExpectations(t)
}

func TestExecute_PersistenceFailureDoesNotFailRun(t *testing.T) {
	source := new(MockRecordSource)
	source.On("Load", mock.Anything, record.SourceBusSpeed).Return(speedBatch(), nil)
	source.On("Load", mock.Anything, record.SourceEnforcement).Return(enforcementBatch(), nil)

	runs := new(MockRunRepository)
	runs.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	svc := newService(source, runs)
	result, err := svc.Execute(context.Background())

	assert.NoError(t, err)
	assert.NotNil(t, result)
}

func TestExecute_FingerprintStableAcrossRuns(t *testing.T) {
	source := new(MockRecordSource)
	source.On("Load", mock.Anything, record.SourceBusSpeed).Return(speedBatch(), nil)
	source.On("Load", mock.Anything, record.SourceEnforcement).Return(enforcementBatch(), nil)

	svc := newService(source, nil)

	first, err := svc.Execute(context.Background())
	assert.NoError(t, err)
	time.Sleep(time.Millisecond)
	second, err := svc.Execute(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.NotEqual(t, first.RunID, second.RunID)
}
