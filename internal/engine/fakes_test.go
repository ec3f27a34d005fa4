package engine

import (
	"context"
	"fmt"
)

// fakeCollaborators is an in-memory stand-in for the four external systems.
// Every call is appended to the trace so tests can assert execution order.
type fakeCollaborators struct {
	trace []string

	checkoutErr   error
	exitCodes     map[string]int
	archiveCount  int
	archiveErr    error
	reportCount   int
	reportErr     error
	lastEnv       map[string]string
	lastFollow    *bool
	lastRetention *RetentionPolicy
}

func (f *fakeCollaborators) collaborators() Collaborators {
	return Collaborators{
		Source:    f,
		Commands:  f,
		Artifacts: f,
		Reports:   f,
	}
}

func (f *fakeCollaborators) Checkout(
	ctx context.Context, host *Host, workdir, repository, credentialRef string,
) error {
	f.trace = append(f.trace, fmt.Sprintf("checkout %s@%s", repository, host.Name))
	return f.checkoutErr
}

func (f *fakeCollaborators) Execute(
	ctx context.Context, host *Host, workdir, command string, env map[string]string,
) (CommandResult, error) {
	f.trace = append(f.trace, fmt.Sprintf("exec %s@%s", command, host.Name))
	f.lastEnv = env
	return CommandResult{ExitCode: f.exitCodes[command]}, nil
}

func (f *fakeCollaborators) Archive(
	ctx context.Context, host *Host, workdir, pattern string, followSymlinks bool,
) (int, error) {
	f.trace = append(f.trace, fmt.Sprintf("archive %s@%s", pattern, host.Name))
	f.lastFollow = &followSymlinks
	if f.archiveErr != nil {
		return 0, f.archiveErr
	}
	if f.archiveCount == 0 {
		return 0, ErrNoArtifactsMatched
	}
	return f.archiveCount, nil
}

func (f *fakeCollaborators) Publish(
	ctx context.Context, host *Host, workdir, pattern string, retention RetentionPolicy,
) (int, error) {
	f.trace = append(f.trace, fmt.Sprintf("publish %s@%s", pattern, host.Name))
	f.lastRetention = &retention
	if f.reportErr != nil {
		return 0, f.reportErr
	}
	if f.reportCount == 0 {
		return 0, ErrNoReportsMatched
	}
	return f.reportCount, nil
}

func singleHostPool() *Pool {
	return NewPool(&Host{
		Name:      "Localhost",
		Hostname:  "localhost",
		Workspace: "runs",
	})
}
