package engine

import (
	"context"
	"time"
)

// Stage is a named, ordered unit of pipeline work bound to one agent. The
// agent requirement is optional; nil inherits the pipeline default.
type Stage struct {
	Name  string
	Agent *AgentRequirement
	Steps []Step

	Status      Status
	Result      *ExecutionResult
	StepResults []StepResult
}

func NewStage(name string, steps ...Step) *Stage {
	return &Stage{Name: name, Steps: steps, Status: StatusPending}
}

// OnAgent overrides the pipeline's default agent requirement for this stage.
func (s *Stage) OnAgent(req AgentRequirement) *Stage {
	s.Agent = &req
	return s
}

// EffectiveAgent returns the stage override when present, else the pipeline
// default. The override strictly takes precedence.
func (s *Stage) EffectiveAgent(defaultAgent AgentRequirement) AgentRequirement {
	if s.Agent != nil {
		return *s.Agent
	}
	return defaultAgent
}

// StageExecutor binds a stage to a host and runs its steps.
type StageExecutor struct {
	pool   *Pool
	runner *StepRunner
	opts   Options
}

func NewStageExecutor(pool *Pool, runner *StepRunner, opts Options) *StageExecutor {
	return &StageExecutor{pool: pool, runner: runner, opts: opts}
}

// Execute resolves the stage's effective agent requirement, binds a host and
// runs the stage's steps on it. When resolution fails the stage fails with
// the resolution error and no steps run.
func (se *StageExecutor) Execute(
	ctx context.Context,
	stage *Stage,
	defaultAgent AgentRequirement,
	workdir string,
	env map[string]string,
) ExecutionResult {
	start := time.Now()
	stage.Status = StatusRunning

	req := stage.EffectiveAgent(defaultAgent)
	host, err := se.pool.Resolve(req)
	if err != nil {
		se.opts.logf("stage '%s': %v", stage.Name, err)
		res := failed(err, time.Since(start))
		stage.Status = StatusFailed
		stage.Result = &res
		return res
	}
	defer se.pool.Release(host)

	se.opts.logf("stage '%s' running on agent '%s' (requirement: %s)", stage.Name, host.Name, req)

	stepResults, res := se.runner.Run(ctx, stage.Steps, host, workdir, env)
	res.Duration = time.Since(start)
	stage.StepResults = stepResults
	stage.Result = &res
	if res.Failed() {
		stage.Status = StatusFailed
	} else {
		stage.Status = StatusSucceeded
	}
	return res
}
