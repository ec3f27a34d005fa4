package engine

import "context"

// The engine orchestrates four external collaborators through narrow
// contracts. Production implementations live in internal/exec; tests use
// in-memory fakes.

type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// SourceControl checks out a repository into the working directory on the
// bound host. The credential reference is resolved by an external store.
type SourceControl interface {
	Checkout(ctx context.Context, host *Host, workdir, repository, credentialRef string) error
}

// CommandExecutor runs a shell command in the working directory on the bound
// host, with the given environment merged into the process environment. It
// blocks until the command completes.
type CommandExecutor interface {
	Execute(ctx context.Context, host *Host, workdir, command string, env map[string]string) (CommandResult, error)
}

// ArtifactStore archives files matching the glob pattern relative to the
// working directory. With followSymlinks false, symlinked files matching the
// glob are excluded from archival, not dereferenced. Returns the number of
// archived files, or ErrNoArtifactsMatched when the pattern matches nothing.
type ArtifactStore interface {
	Archive(ctx context.Context, host *Host, workdir, pattern string, followSymlinks bool) (int, error)
}

// RetentionPolicy bounds how many published report sets are kept per
// pipeline. Zero keeps everything.
type RetentionPolicy struct {
	KeepRuns int
}

// ReportPublisher publishes test report files matching the glob pattern.
// Returns the number of files published, or ErrNoReportsMatched when the
// pattern matches nothing.
type ReportPublisher interface {
	Publish(ctx context.Context, host *Host, workdir, pattern string, retention RetentionPolicy) (int, error)
}

// Collaborators bundles the external systems a step runner delegates to.
type Collaborators struct {
	Source    SourceControl
	Commands  CommandExecutor
	Artifacts ArtifactStore
	Reports   ReportPublisher
}
