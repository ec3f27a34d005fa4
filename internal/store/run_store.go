package store

import (
	"context"
	"time"
)

type RunStatus string

const (
	StatusQueued  RunStatus = "queued"
	StatusRunning RunStatus = "running"
	StatusFailed  RunStatus = "failed"
	StatusPassed  RunStatus = "passed"
)

// Run is one execution of a pipeline. FailedStage and ErrorDetail are set on
// failed runs so the terminal result names the failing stage and the
// underlying cause.
type Run struct {
	RunID            int64 `param:"run_id"`
	RunPipelineID    int64
	WorkingDirectory *string
	Output           *string
	Artifacts        *string
	FailedStage      *string
	ErrorDetail      *string
	Status           RunStatus
	CreatedOn        time.Time
	StartedOn        *time.Time
	EndedOn          *time.Time
}

type RunStore interface {
	CreateRun(context.Context, int64) (*Run, error)
	ReadRunByID(context.Context, int64) (*Run, error)
	UpdateRunStartedOn(context.Context, int64, string, RunStatus, *time.Time) error
	UpdateRunEndedOn(context.Context, int64, RunStatus, *string, *string, *string, *time.Time) error
	AppendRunOutput(context.Context, int64, string) error
	DeleteRun(context.Context, int64) error
	ListPipelineRuns(context.Context, int64) ([]Run, error)
	ListLatestPipelineRuns(context.Context, int64, int64) ([]Run, error)
	CountPipelineRuns(context.Context, int64) (int64, error)
}
