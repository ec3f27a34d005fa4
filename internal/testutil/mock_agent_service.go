package testutil

import (
	"context"

	"github.com/haltia/conveyor/internal/engine"
	"github.com/haltia/conveyor/internal/store"
	"github.com/stretchr/testify/mock"
)

type MockAgentService struct {
	mock.Mock
}

func (m *MockAgentService) CreateAgent(
	ctx context.Context,
	name, hostname, username, workspace, labels, credentialRef, description string,
) (*store.Agent, error) {
	args := m.Called(ctx, name, hostname, username, workspace, labels, credentialRef, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Agent), args.Error(1)
}

func (m *MockAgentService) GetAgentByID(ctx context.Context, agentID int64) (*store.Agent, error) {
	args := m.Called(ctx, agentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Agent), args.Error(1)
}

func (m *MockAgentService) ListAgents(ctx context.Context) ([]*store.Agent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*store.Agent), args.Error(1)
}

func (m *MockAgentService) UpdateAgent(
	ctx context.Context,
	agentID int64,
	name, hostname, username, workspace, labels, credentialRef, description string,
) error {
	args := m.Called(
		ctx, agentID, name, hostname, username, workspace, labels, credentialRef, description,
	)
	return args.Error(0)
}

func (m *MockAgentService) DeleteAgent(ctx context.Context, agentID int64) error {
	args := m.Called(ctx, agentID)
	return args.Error(0)
}

func (m *MockAgentService) EnsureControllerAgent(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockAgentService) BuildPool(ctx context.Context) (*engine.Pool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engine.Pool), args.Error(1)
}

func (m *MockAgentService) TestAgentConnection(ctx context.Context, agentID int64) error {
	args := m.Called(ctx, agentID)
	return args.Error(0)
}
