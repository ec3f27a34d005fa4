package testutil

import (
	"context"

	"github.com/haltia/conveyor/internal/store"
	"github.com/stretchr/testify/mock"
)

type MockPipelineService struct {
	mock.Mock
}

func (m *MockPipelineService) CreatePipeline(
	ctx context.Context,
	name, description, scriptPath string,
) (*store.Pipeline, error) {
	args := m.Called(ctx, name, description, scriptPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Pipeline), args.Error(1)
}

func (m *MockPipelineService) GetPipelineByID(
	ctx context.Context,
	pipelineID int64,
) (*store.Pipeline, error) {
	args := m.Called(ctx, pipelineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Pipeline), args.Error(1)
}

func (m *MockPipelineService) ListPipelines(ctx context.Context) ([]*store.Pipeline, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*store.Pipeline), args.Error(1)
}

func (m *MockPipelineService) UpdatePipeline(
	ctx context.Context,
	pipelineID int64,
	name, description, scriptPath string,
) error {
	args := m.Called(ctx, pipelineID, name, description, scriptPath)
	return args.Error(0)
}

func (m *MockPipelineService) UpdatePipelineSchedule(
	ctx context.Context,
	pipelineID int64,
	schedule *string,
) error {
	args := m.Called(ctx, pipelineID, schedule)
	return args.Error(0)
}

func (m *MockPipelineService) DeletePipeline(ctx context.Context, pipelineID int64) error {
	args := m.Called(ctx, pipelineID)
	return args.Error(0)
}

func (m *MockPipelineService) CreateRun(
	ctx context.Context,
	pipelineID int64,
) (*store.Run, error) {
	args := m.Called(ctx, pipelineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Run), args.Error(1)
}

func (m *MockPipelineService) GetRunByID(ctx context.Context, runID int64) (*store.Run, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Run), args.Error(1)
}

func (m *MockPipelineService) ListPipelineRuns(
	ctx context.Context,
	pipelineID int64,
) ([]store.Run, error) {
	args := m.Called(ctx, pipelineID)
	return args.Get(0).([]store.Run), args.Error(1)
}

func (m *MockPipelineService) ListLatestPipelineRuns(
	ctx context.Context,
	pipelineID, limit int64,
) ([]store.Run, error) {
	args := m.Called(ctx, pipelineID, limit)
	return args.Get(0).([]store.Run), args.Error(1)
}

func (m *MockPipelineService) GetPipelineRunCount(
	ctx context.Context,
	pipelineID int64,
) (int64, error) {
	args := m.Called(ctx, pipelineID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPipelineService) DeleteRun(ctx context.Context, runID int64) error {
	args := m.Called(ctx, runID)
	return args.Error(0)
}

func (m *MockPipelineService) EnqueueRun(r *store.Run) error {
	args := m.Called(r)
	return args.Error(0)
}
