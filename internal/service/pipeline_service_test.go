package service

import (
	"context"
	"testing"
	"time"

	"github.com/haltia/conveyor/internal"
	"github.com/haltia/conveyor/internal/store"
	"github.com/haltia/conveyor/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockPipelineStore struct {
	mock.Mock
}

func (m *MockPipelineStore) CreatePipeline(
	ctx context.Context,
	name, description, scriptPath string,
) (*store.Pipeline, error) {
	args := m.Called(ctx, name, description, scriptPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Pipeline), args.Error(1)
}

func (m *MockPipelineStore) ReadPipelineByID(
	ctx context.Context,
	id int64,
) (*store.Pipeline, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Pipeline), args.Error(1)
}

func (m *MockPipelineStore) UpdatePipeline(
	ctx context.Context,
	id int64,
	name, description, scriptPath string,
) error {
	args := m.Called(ctx, id, name, description, scriptPath)
	return args.Error(0)
}

func (m *MockPipelineStore) UpdatePipelineSchedule(
	ctx context.Context,
	id int64,
	schedule, jobID *string,
) error {
	args := m.Called(ctx, id, schedule, jobID)
	return args.Error(0)
}

func (m *MockPipelineStore) UpdatePipelineScheduleJobID(
	ctx context.Context,
	id int64,
	jobID *string,
) error {
	args := m.Called(ctx, id, jobID)
	return args.Error(0)
}

func (m *MockPipelineStore) DeletePipeline(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPipelineStore) ListPipelines(ctx context.Context) ([]*store.Pipeline, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*store.Pipeline), args.Error(1)
}

func (m *MockPipelineStore) ListScheduledPipelines(
	ctx context.Context,
) ([]*store.Pipeline, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*store.Pipeline), args.Error(1)
}

type MockRunStore struct {
	mock.Mock
}

func (m *MockRunStore) CreateRun(ctx context.Context, pipelineID int64) (*store.Run, error) {
	args := m.Called(ctx, pipelineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Run), args.Error(1)
}

func (m *MockRunStore) ReadRunByID(ctx context.Context, id int64) (*store.Run, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Run), args.Error(1)
}

func (m *MockRunStore) UpdateRunStartedOn(
	ctx context.Context,
	id int64,
	workdir string,
	status store.RunStatus,
	startedOn *time.Time,
) error {
	args := m.Called(ctx, id, workdir, status, startedOn)
	return args.Error(0)
}

func (m *MockRunStore) UpdateRunEndedOn(
	ctx context.Context,
	id int64,
	status store.RunStatus,
	artifacts, failedStage, errorDetail *string,
	endedOn *time.Time,
) error {
	args := m.Called(ctx, id, status, artifacts, failedStage, errorDetail, endedOn)
	return args.Error(0)
}

func (m *MockRunStore) AppendRunOutput(ctx context.Context, id int64, out string) error {
	args := m.Called(ctx, id, out)
	return args.Error(0)
}

func (m *MockRunStore) DeleteRun(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRunStore) ListPipelineRuns(
	ctx context.Context,
	pipelineID int64,
) ([]store.Run, error) {
	args := m.Called(ctx, pipelineID)
	return args.Get(0).([]store.Run), args.Error(1)
}

func (m *MockRunStore) ListLatestPipelineRuns(
	ctx context.Context,
	pipelineID, limit int64,
) ([]store.Run, error) {
	args := m.Called(ctx, pipelineID, limit)
	return args.Get(0).([]store.Run), args.Error(1)
}

func (m *MockRunStore) CountPipelineRuns(ctx context.Context, pipelineID int64) (int64, error) {
	args := m.Called(ctx, pipelineID)
	return args.Get(0).(int64), args.Error(1)
}

func newTestPipelineService(
	pipelineStore store.PipelineStore,
	runStore store.RunStore,
) *PipelineService {
	internal.SetConfiguration(&internal.Configuration{QueueSize: 2})
	return NewPipelineService(pipelineStore, runStore, nil, nil, nil)
}

func TestPipelineService_CreatePipeline(t *testing.T) {
	t.Run("success - run queue created alongside pipeline", func(t *testing.T) {
		// arrange
		mockPipelines := new(MockPipelineStore)
		mockPipelines.On(
			"CreatePipeline",
			context.Background(),
			"demo", "demo pipeline", "pipeline.yaml",
		).Return(&store.Pipeline{PipelineID: 7, Name: "demo"}, nil)
		pipelineService := newTestPipelineService(mockPipelines, new(MockRunStore))

		// act
		p, err := pipelineService.CreatePipeline(
			context.Background(), "demo", "demo pipeline", "pipeline.yaml",
		)

		// assert
		assert.NoError(t, err)
		assert.NotNil(t, p)
		_, ok := pipelineService.GetPipelineRunQueue(7)
		assert.True(t, ok)
		pipelineService.ShutdownAll()
	})
}

func TestPipelineService_DeletePipeline(t *testing.T) {
	t.Run("success - run queue removed with pipeline", func(t *testing.T) {
		// arrange
		mockPipelines := new(MockPipelineStore)
		mockPipelines.On("DeletePipeline", context.Background(), int64(7)).Return(nil)
		pipelineService := newTestPipelineService(mockPipelines, new(MockRunStore))
		pipelineService.AddRunQueue(7, 2)

		// act
		err := pipelineService.DeletePipeline(context.Background(), 7)

		// assert
		assert.NoError(t, err)
		_, ok := pipelineService.GetPipelineRunQueue(7)
		assert.False(t, ok)
	})
}

func TestPipelineService_EnqueueRun(t *testing.T) {
	t.Run("failure - no queue for pipeline", func(t *testing.T) {
		// arrange
		pipelineService := newTestPipelineService(new(MockPipelineStore), new(MockRunStore))

		// act
		err := pipelineService.EnqueueRun(&store.Run{RunID: 1, RunPipelineID: 42})

		// assert
		assert.Error(t, err)
	})

	t.Run("failure - queue full", func(t *testing.T) {
		// arrange
		pipelineService := newTestPipelineService(new(MockPipelineStore), new(MockRunStore))
		pipelineService.AddRunQueue(42, 1)

		// act
		first := pipelineService.EnqueueRun(&store.Run{RunID: 1, RunPipelineID: 42})
		second := pipelineService.EnqueueRun(&store.Run{RunID: 2, RunPipelineID: 42})

		// assert
		assert.NoError(t, first)
		assert.Error(t, second)
	})
}

func TestPipelineService_UpdatePipelineSchedule(t *testing.T) {
	t.Run("clearing schedule clears stored cron", func(t *testing.T) {
		// arrange
		mockPipelines := new(MockPipelineStore)
		mockPipelines.On("ReadPipelineByID", context.Background(), int64(7)).
			Return(&store.Pipeline{
				PipelineID: 7,
				Schedule:   util.AsPtr("0 * * * *"),
			}, nil)
		mockPipelines.On(
			"UpdatePipelineSchedule",
			context.Background(), int64(7), (*string)(nil), (*string)(nil),
		).Return(nil)
		pipelineService := newTestPipelineService(mockPipelines, new(MockRunStore))

		// act
		err := pipelineService.UpdatePipelineSchedule(context.Background(), 7, nil)

		// assert
		assert.NoError(t, err)
		mockPipelines.AssertExpectations(t)
	})
}
