package handler

type CredentialParams struct {
	CredentialID  int64  `param:"credential_id" json:"credential_id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	SSHPrivateKey string `json:"ssh_private_key"`
}

type AgentParams struct {
	AgentID       int64  `param:"agent_id" json:"agent_id"`
	Name          string `json:"name"`
	Hostname      string `json:"hostname"`
	Username      string `json:"username"`
	Workspace     string `json:"workspace"`
	Labels        string `json:"labels"`
	CredentialRef string `json:"credential_ref"`
	Description   string `json:"description"`
}

type PipelineParams struct {
	PipelineID  int64  `param:"pipeline_id" json:"pipeline_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ScriptPath  string `json:"script_path"`
}

type ScheduleParams struct {
	PipelineID int64   `param:"pipeline_id"`
	Schedule   *string `json:"schedule"`
}

type RunParams struct {
	PipelineID int64 `param:"pipeline_id"`
	RunID      int64 `param:"run_id"`
}

type ListRunsParams struct {
	PipelineID int64 `param:"pipeline_id"`
	Limit      int64 `query:"limit"`
}

type APIKeyParams struct {
	ID int64 `param:"id"`
}

type ConfigParams struct {
	QueueSize       int64 `json:"queue_size"`
	StrictArtifacts bool  `json:"strict_artifacts"`
}
