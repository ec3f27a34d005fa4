package store

import (
	"context"
	"strings"

	"github.com/haltia/conveyor/internal/engine"
)

// Agent is an execution host registered in the inventory. Labels are stored
// as a space-separated list; CredentialRef names the credential used to
// reach the host, never the secret itself.
type Agent struct {
	AgentID       int64 `param:"agent_id"`
	Name          string
	Hostname      string
	Username      string
	Workspace     string
	Labels        string
	CredentialRef string
	Description   string
}

func (a *Agent) LabelList() []string {
	return strings.Fields(a.Labels)
}

// ToHost converts the inventory row into a pool host for the engine.
func (a *Agent) ToHost() *engine.Host {
	return &engine.Host{
		Name:          a.Name,
		Hostname:      a.Hostname,
		Username:      a.Username,
		Workspace:     a.Workspace,
		Labels:        a.LabelList(),
		CredentialRef: a.CredentialRef,
	}
}

type AgentStore interface {
	CreateAgent(context.Context, string, string, string, string, string, string, string) (*Agent, error)
	ReadAgentByID(context.Context, int64) (*Agent, error)
	UpdateAgent(context.Context, int64, string, string, string, string, string, string, string) error
	DeleteAgent(context.Context, int64) error
	ListAgents(context.Context) ([]*Agent, error)
}
