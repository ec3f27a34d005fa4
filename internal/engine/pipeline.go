package engine

import (
	"context"
	"time"
)

// Pipeline is a constructed, declarative value interpreted by the
// Controller: an ordered stage list, a default agent requirement and the
// tool environment resolved once before any stage runs. The pipeline
// exclusively owns its stages and each stage its steps.
type Pipeline struct {
	Name         string
	DefaultAgent AgentRequirement

	// Env holds the resolved global tool-version declarations, passed as
	// environment context to every shell command step.
	Env map[string]string

	Stages []*Stage

	Status Status
	Result *ExecutionResult
}

func NewPipeline(name string, defaultAgent AgentRequirement, stages ...*Stage) *Pipeline {
	return &Pipeline{
		Name:         name,
		DefaultAgent: defaultAgent,
		Env:          make(map[string]string),
		Stages:       stages,
		Status:       StatusPending,
	}
}

// Controller runs pipelines: stages strictly in declaration order, fail-fast
// on the first stage failure. There is no parallelism, no retry and no
// rollback of prior stages' side effects.
type Controller struct {
	executor *StageExecutor
	opts     Options
}

func NewController(pool *Pool, collab Collaborators, opts Options) *Controller {
	runner := NewStepRunner(collab, opts)
	return &Controller{
		executor: NewStageExecutor(pool, runner, opts),
		opts:     opts,
	}
}

// Run drives the pipeline from Pending through Running to a terminal status.
// On the first stage failure the pipeline fails immediately and all later
// stages are left Pending. The terminal result names the failing stage
// through StageFailedError.
func (c *Controller) Run(ctx context.Context, p *Pipeline, workdir string) ExecutionResult {
	start := time.Now()
	p.Status = StatusRunning
	c.opts.logf("pipeline '%s' started", p.Name)

	for _, stage := range p.Stages {
		res := c.executor.Execute(ctx, stage, p.DefaultAgent, workdir, p.Env)
		if res.Failed() {
			final := failed(
				StageFailedError{Stage: stage.Name, Cause: res.Err},
				time.Since(start),
			)
			final.ExitCode = res.ExitCode
			p.Status = StatusFailed
			p.Result = &final
			c.opts.logf("pipeline '%s' failed at stage '%s': %v", p.Name, stage.Name, res.Err)
			return final
		}
		c.opts.logf("stage '%s' succeeded in %s", stage.Name, res.Duration)
	}

	final := succeeded(time.Since(start))
	p.Status = StatusSucceeded
	p.Result = &final
	c.opts.logf("pipeline '%s' succeeded in %s", p.Name, final.Duration)
	return final
}
