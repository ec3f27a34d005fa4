package store

import "context"

// Pipeline is a registered pipeline declaration. ScriptPath points at the
// YAML declaration file interpreted for every run.
type Pipeline struct {
	PipelineID  int64 `param:"pipeline_id"`
	Name        string
	Description string
	// Path to the pipeline declaration file
	ScriptPath string
	// Run schedule in cron syntax
	Schedule *string
	// Scheduled job ID
	ScheduleJobID *string
}

type PipelineStore interface {
	CreatePipeline(context.Context, string, string, string) (*Pipeline, error)
	ReadPipelineByID(context.Context, int64) (*Pipeline, error)
	UpdatePipeline(context.Context, int64, string, string, string) error
	UpdatePipelineSchedule(context.Context, int64, *string, *string) error
	UpdatePipelineScheduleJobID(context.Context, int64, *string) error
	DeletePipeline(context.Context, int64) error
	ListPipelines(context.Context) ([]*Pipeline, error)
	ListScheduledPipelines(context.Context) ([]*Pipeline, error)
}
