package engine

import (
	"context"
	"errors"
	"fmt"
)

// Step is a single tagged action within a stage. Steps are immutable once
// constructed; construct them with the Checkout, ShellCommand,
// ArchiveArtifacts and PublishTestResults functions.
type Step interface {
	Name() string
	run(ctx context.Context, rc *runContext) error
}

// runContext carries the per-stage execution state a step needs: the bound
// host, the run's working directory, the resolved tool environment and the
// collaborators.
type runContext struct {
	host    *Host
	workdir string
	env     map[string]string
	collab  Collaborators
}

type checkoutStep struct {
	repository    string
	credentialRef string
}

func Checkout(repository, credentialRef string) Step {
	return checkoutStep{repository: repository, credentialRef: credentialRef}
}

func (s checkoutStep) Name() string {
	return fmt.Sprintf("checkout %s", s.repository)
}

func (s checkoutStep) run(ctx context.Context, rc *runContext) error {
	if err := rc.collab.Source.Checkout(
		ctx, rc.host, rc.workdir, s.repository, s.credentialRef,
	); err != nil {
		var ce CheckoutError
		if errors.As(err, &ce) {
			return err
		}
		return CheckoutError{Repository: s.repository, Cause: err}
	}
	return nil
}

type shellCommandStep struct {
	command string
}

func ShellCommand(command string) Step {
	return shellCommandStep{command: command}
}

func (s shellCommandStep) Name() string {
	return s.command
}

func (s shellCommandStep) run(ctx context.Context, rc *runContext) error {
	res, err := rc.collab.Commands.Execute(ctx, rc.host, rc.workdir, s.command, rc.env)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return CommandError{Command: s.command, ExitCode: res.ExitCode}
	}
	return nil
}

type archiveArtifactsStep struct {
	pattern        string
	followSymlinks bool
}

func ArchiveArtifacts(pattern string, followSymlinks bool) Step {
	return archiveArtifactsStep{pattern: pattern, followSymlinks: followSymlinks}
}

func (s archiveArtifactsStep) Name() string {
	return fmt.Sprintf("archive artifacts %s", s.pattern)
}

func (s archiveArtifactsStep) run(ctx context.Context, rc *runContext) error {
	_, err := rc.collab.Artifacts.Archive(ctx, rc.host, rc.workdir, s.pattern, s.followSymlinks)
	return err
}

type publishTestResultsStep struct {
	pattern   string
	retention RetentionPolicy
}

func PublishTestResults(pattern string, retention RetentionPolicy) Step {
	return publishTestResultsStep{pattern: pattern, retention: retention}
}

func (s publishTestResultsStep) Name() string {
	return fmt.Sprintf("publish test results %s", s.pattern)
}

func (s publishTestResultsStep) run(ctx context.Context, rc *runContext) error {
	_, err := rc.collab.Reports.Publish(ctx, rc.host, rc.workdir, s.pattern, s.retention)
	return err
}
