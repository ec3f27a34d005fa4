package engine

import (
	"errors"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// ExecutionResult is produced by the step runner and the stage executor and
// is read-only once attached.
type ExecutionResult struct {
	Status   Status
	ExitCode int
	Err      error
	Duration time.Duration
}

func (r ExecutionResult) Failed() bool {
	return r.Status == StatusFailed
}

func succeeded(d time.Duration) ExecutionResult {
	return ExecutionResult{Status: StatusSucceeded, Duration: d}
}

func failed(err error, d time.Duration) ExecutionResult {
	res := ExecutionResult{Status: StatusFailed, Err: err, Duration: d}
	var cmdErr CommandError
	if errors.As(err, &cmdErr) {
		res.ExitCode = cmdErr.ExitCode
	} else {
		res.ExitCode = 1
	}
	return res
}

// StepResult pairs a step's display name with its execution result.
type StepResult struct {
	Step string
	ExecutionResult
}
