package exec

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/haltia/conveyor/internal/engine"
)

// GitSource is the production version-control collaborator. It checks out by
// running git through the command executor on the bound host. For a local
// host a referenced credential is resolved to a deploy key for the clone;
// remote hosts authenticate with their own configured git credentials, the
// reference only being recorded for diagnostics.
type GitSource struct {
	exec  engine.CommandExecutor
	creds CredentialSource
}

func NewGitSource(exec engine.CommandExecutor, creds CredentialSource) *GitSource {
	return &GitSource{exec: exec, creds: creds}
}

func (g *GitSource) Checkout(
	ctx context.Context,
	host *engine.Host,
	workdir, repository, credentialRef string,
) error {
	env := make(map[string]string)

	if host.IsLocal() && credentialRef != "" && g.creds != nil {
		keyPath, cleanup, err := g.deployKey(ctx, credentialRef)
		if err != nil {
			return engine.CheckoutError{Repository: repository, Cause: err}
		}
		defer cleanup()
		env["GIT_SSH_COMMAND"] = fmt.Sprintf("ssh -i %s -o IdentitiesOnly=yes", keyPath)
	}

	res, err := g.exec.Execute(
		ctx, host, workdir,
		fmt.Sprintf("git clone %s .", repository),
		env,
	)
	if err != nil {
		return engine.CheckoutError{Repository: repository, Cause: err}
	}
	if res.ExitCode != 0 {
		return engine.CheckoutError{
			Repository: repository,
			Cause:      engine.CommandError{Command: "git clone", ExitCode: res.ExitCode},
		}
	}
	return nil
}

// deployKey materializes the referenced private key as a temporary file for
// the duration of the clone.
func (g *GitSource) deployKey(
	ctx context.Context,
	ref string,
) (string, func(), error) {
	key, err := g.creds.PrivateKey(ctx, ref)
	if err != nil {
		return "", nil, err
	}
	f, err := os.CreateTemp("", "conveyor-key-*")
	if err != nil {
		return "", nil, err
	}
	if err := f.Chmod(0o600); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", nil, err
	}
	if _, err := f.Write(key); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", nil, err
	}
	path := filepath.Clean(f.Name())
	return path, func() { os.Remove(path) }, nil
}
