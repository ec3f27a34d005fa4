package store

import (
	"context"
	"database/sql"

	"github.com/georgysavva/scany/v2/sqlscan"
)

type AgentSQLiteStore struct {
	rdb, rwdb *sql.DB
}

func NewAgentSQLiteStore(rdb, rwdb *sql.DB) *AgentSQLiteStore {
	return &AgentSQLiteStore{rdb, rwdb}
}

// CreateControllerAgent registers the controller machine itself as an agent
// so pipelines can run without any remote hosts configured.
func (store *AgentSQLiteStore) CreateControllerAgent(ctx context.Context) (*Agent, error) {
	a := &Agent{
		Name:        "Localhost",
		Hostname:    "localhost",
		Workspace:   "runs",
		Labels:      "local",
		Description: "Agent to run pipelines on the controller machine.",
	}
	query := `insert into agents (
		name,
		hostname,
		username,
		workspace,
		labels,
		credential_ref,
		description
	)
	values ($1, $2, $3, $4, $5, $6, $7)
	returning agent_id`
	err := sqlscan.Get(
		ctx, store.rwdb, a, query,
		a.Name,
		a.Hostname,
		a.Username,
		a.Workspace,
		a.Labels,
		a.CredentialRef,
		a.Description,
	)
	return a, err
}

func (store *AgentSQLiteStore) CreateAgent(
	ctx context.Context,
	name, hostname, username, workspace, labels, credentialRef, description string,
) (*Agent, error) {
	a := &Agent{
		Name:          name,
		Hostname:      hostname,
		Username:      username,
		Workspace:     workspace,
		Labels:        labels,
		CredentialRef: credentialRef,
		Description:   description,
	}
	query := `insert into agents (
		name,
		hostname,
		username,
		workspace,
		labels,
		credential_ref,
		description
	)
	values ($1, $2, $3, $4, $5, $6, $7)
	returning agent_id`
	err := sqlscan.Get(
		ctx, store.rwdb, a, query,
		a.Name,
		a.Hostname,
		a.Username,
		a.Workspace,
		a.Labels,
		a.CredentialRef,
		a.Description,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (store *AgentSQLiteStore) ReadAgentByID(ctx context.Context, id int64) (*Agent, error) {
	a := &Agent{AgentID: id}
	query := `select * from agents where agent_id = $1`
	if err := sqlscan.Get(ctx, store.rdb, a, query, a.AgentID); err != nil {
		return nil, err
	}
	return a, nil
}

func (store *AgentSQLiteStore) UpdateAgent(
	ctx context.Context,
	id int64,
	name, hostname, username, workspace, labels, credentialRef, description string,
) error {
	query := `update agents
	set name = $1,
		hostname = $2,
		username = $3,
		workspace = $4,
		labels = $5,
		credential_ref = $6,
		description = $7
	where agent_id = $8`
	_, err := store.rwdb.ExecContext(
		ctx, query,
		name,
		hostname,
		username,
		workspace,
		labels,
		credentialRef,
		description,
		id,
	)
	return err
}

func (store *AgentSQLiteStore) DeleteAgent(ctx context.Context, id int64) error {
	query := `delete from agents where agent_id = $1`
	_, err := store.rwdb.ExecContext(ctx, query, id)
	return err
}

func (store *AgentSQLiteStore) ListAgents(ctx context.Context) ([]*Agent, error) {
	query := `select * from agents order by agent_id`
	agents := make([]*Agent, 0)
	err := sqlscan.Select(ctx, store.rdb, &agents, query)
	return agents, err
}
