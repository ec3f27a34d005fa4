package engine

import (
	"errors"
	"fmt"
)

var ErrNoAgentsAvailable = errors.New("no agents available in the pool")

// ErrNoArtifactsMatched and ErrNoReportsMatched are demoted to warnings by
// the step runner unless strict mode is configured.
var (
	ErrNoArtifactsMatched = errors.New("no artifacts matched pattern")
	ErrNoReportsMatched   = errors.New("no test reports matched pattern")
)

type NoMatchingAgentError struct {
	Label string
}

func (e NoMatchingAgentError) Error() string {
	return fmt.Sprintf("no agent advertises label '%s'", e.Label)
}

type CheckoutError struct {
	Repository string
	Cause      error
}

func (e CheckoutError) Error() string {
	return fmt.Sprintf("checkout of %s failed: %v", e.Repository, e.Cause)
}

func (e CheckoutError) Unwrap() error {
	return e.Cause
}

type CommandError struct {
	Command  string
	ExitCode int
}

func (e CommandError) Error() string {
	return fmt.Sprintf("command '%s' exited with code %d", e.Command, e.ExitCode)
}

type StageFailedError struct {
	Stage string
	Cause error
}

func (e StageFailedError) Error() string {
	return fmt.Sprintf("stage '%s' failed: %v", e.Stage, e.Cause)
}

func (e StageFailedError) Unwrap() error {
	return e.Cause
}
