package engine

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Options configures engine policy.
type Options struct {
	// StrictArtifacts turns the best-effort archive/publish steps into hard
	// failures when their glob matches nothing.
	StrictArtifacts bool
	// Output receives progress lines. Nil means silent.
	Output func(line string)
}

func (o Options) logf(format string, args ...any) {
	if o.Output != nil {
		o.Output(fmt.Sprintf(format, args...))
	}
}

// StepRunner executes the steps of one stage strictly in declaration order
// on the bound host, stopping at the first failure. No reordering or skipping
// is permitted even when steps look independent.
type StepRunner struct {
	collab Collaborators
	opts   Options
}

func NewStepRunner(collab Collaborators, opts Options) *StepRunner {
	return &StepRunner{collab: collab, opts: opts}
}

// Run returns the result of every attempted step and the overall result,
// which is the result of the last attempted step (or the first failure).
func (sr *StepRunner) Run(
	ctx context.Context,
	steps []Step,
	host *Host,
	workdir string,
	env map[string]string,
) ([]StepResult, ExecutionResult) {
	rc := &runContext{
		host:    host,
		workdir: workdir,
		env:     env,
		collab:  sr.collab,
	}

	start := time.Now()
	results := make([]StepResult, 0, len(steps))

	for _, step := range steps {
		sr.opts.logf("  |  running step '%s'", step.Name())

		stepStart := time.Now()
		err := step.run(ctx, rc)
		elapsed := time.Since(stepStart)

		if err != nil && sr.demotable(err) {
			sr.opts.logf("  |  warning: %v", err)
			err = nil
		}

		if err != nil {
			res := failed(err, elapsed)
			results = append(results, StepResult{Step: step.Name(), ExecutionResult: res})
			res.Duration = time.Since(start)
			return results, res
		}
		results = append(results, StepResult{Step: step.Name(), ExecutionResult: succeeded(elapsed)})
	}

	return results, succeeded(time.Since(start))
}

// demotable reports whether an error is a best-effort "nothing matched"
// outcome that should be logged as a warning rather than abort the stage.
func (sr *StepRunner) demotable(err error) bool {
	if sr.opts.StrictArtifacts {
		return false
	}
	return errors.Is(err, ErrNoArtifactsMatched) || errors.Is(err, ErrNoReportsMatched)
}
