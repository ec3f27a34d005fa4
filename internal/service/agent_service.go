package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/haltia/conveyor/internal/engine"
	"github.com/haltia/conveyor/internal/exec"
	"github.com/haltia/conveyor/internal/store"
)

type AgentServicer interface {
	CreateAgent(
		ctx context.Context,
		name, hostname, username, workspace, labels, credentialRef, description string,
	) (*store.Agent, error)
	GetAgentByID(context.Context, int64) (*store.Agent, error)
	ListAgents(context.Context) ([]*store.Agent, error)
	UpdateAgent(
		ctx context.Context,
		agentID int64,
		name, hostname, username, workspace, labels, credentialRef, description string,
	) error
	DeleteAgent(context.Context, int64) error
	EnsureControllerAgent(context.Context) error
	BuildPool(context.Context) (*engine.Pool, error)
	TestAgentConnection(context.Context, int64) error
}

type AgentStore interface {
	store.AgentStore
	CreateControllerAgent(context.Context) (*store.Agent, error)
}

type AgentService struct {
	agentStore AgentStore
	dialer     *exec.Dialer
}

func NewAgentService(s AgentStore, creds exec.CredentialSource) *AgentService {
	return &AgentService{agentStore: s, dialer: exec.NewDialer(creds)}
}

func (s *AgentService) CreateAgent(
	ctx context.Context,
	name, hostname, username, workspace, labels, credentialRef, description string,
) (*store.Agent, error) {
	return s.agentStore.CreateAgent(
		ctx,
		name,
		hostname,
		username,
		workspace,
		labels,
		credentialRef,
		description,
	)
}

func (s *AgentService) GetAgentByID(ctx context.Context, agentID int64) (*store.Agent, error) {
	return s.agentStore.ReadAgentByID(ctx, agentID)
}

func (s *AgentService) ListAgents(ctx context.Context) ([]*store.Agent, error) {
	agents, err := s.agentStore.ListAgents(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return agents, nil
}

func (s *AgentService) UpdateAgent(
	ctx context.Context,
	agentID int64,
	name, hostname, username, workspace, labels, credentialRef, description string,
) error {
	return s.agentStore.UpdateAgent(
		ctx,
		agentID,
		name,
		hostname,
		username,
		workspace,
		labels,
		credentialRef,
		description,
	)
}

func (s *AgentService) DeleteAgent(ctx context.Context, agentID int64) error {
	return s.agentStore.DeleteAgent(ctx, agentID)
}

// EnsureControllerAgent registers the controller machine itself as an agent
// so pipelines can run without any remote hosts configured.
func (s *AgentService) EnsureControllerAgent(ctx context.Context) error {
	agents, err := s.ListAgents(ctx)
	if err != nil {
		return err
	}
	for _, a := range agents {
		if a.ToHost().IsLocal() {
			return nil
		}
	}
	_, err = s.agentStore.CreateControllerAgent(ctx)
	return err
}

// BuildPool snapshots the agent inventory into a pool for one pipeline run.
// Each run resolves against its own pool, so a host busy in one run does not
// block resolution in another.
func (s *AgentService) BuildPool(ctx context.Context) (*engine.Pool, error) {
	agents, err := s.ListAgents(ctx)
	if err != nil {
		return nil, err
	}
	hosts := make([]*engine.Host, len(agents))
	for i, a := range agents {
		hosts[i] = a.ToHost()
	}
	return engine.NewPool(hosts...), nil
}

func (s *AgentService) TestAgentConnection(ctx context.Context, agentID int64) error {
	a, err := s.GetAgentByID(ctx, agentID)
	if err != nil {
		return err
	}
	host := a.ToHost()
	if host.IsLocal() {
		return nil
	}
	client, err := s.dialer.Dial(ctx, host)
	if err != nil {
		return err
	}
	return client.Close()
}
