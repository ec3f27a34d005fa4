package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	osexec "os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/haltia/conveyor/internal/engine"
	"golang.org/x/crypto/ssh"
)

// Executor is the production command collaborator. Commands run in the
// stage's working directory under the host workspace, locally for the
// controller host and over SSH for remote hosts. It blocks until the command
// completes; there is no mid-step cancellation beyond the context.
type Executor struct {
	dialer *Dialer
	output func(line string)
}

func NewExecutor(dialer *Dialer, output func(string)) *Executor {
	return &Executor{dialer: dialer, output: output}
}

func (e *Executor) Execute(
	ctx context.Context,
	host *engine.Host,
	workdir, command string,
	env map[string]string,
) (engine.CommandResult, error) {
	if host.IsLocal() {
		return e.executeLocal(ctx, host, workdir, command, env)
	}
	return e.executeRemote(ctx, host, workdir, command, env)
}

func (e *Executor) executeLocal(
	ctx context.Context,
	host *engine.Host,
	workdir, command string,
	env map[string]string,
) (engine.CommandResult, error) {
	dir := filepath.Join(host.Workspace, workdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return engine.CommandResult{}, err
	}

	cmd := osexec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), envPairs(env)...)

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	cmd.Stdout = io.MultiWriter(stdout, e.lineWriter())
	cmd.Stderr = io.MultiWriter(stderr, e.lineWriter())

	err := cmd.Run()
	res := engine.CommandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	var exitErr *osexec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	if err != nil {
		return res, err
	}
	return res, nil
}

func (e *Executor) executeRemote(
	ctx context.Context,
	host *engine.Host,
	workdir, command string,
	env map[string]string,
) (engine.CommandResult, error) {
	client, err := e.dialer.Dial(ctx, host)
	if err != nil {
		return engine.CommandResult{}, err
	}
	defer client.Close()

	sess, err := client.NewSession()
	if err != nil {
		return engine.CommandResult{}, fmt.Errorf("err creating ssh session: %w", err)
	}
	defer sess.Close()

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	sess.Stdout = io.MultiWriter(stdout, e.lineWriter())
	sess.Stderr = io.MultiWriter(stderr, e.lineWriter())

	remote := fmt.Sprintf(
		"mkdir -p %s/%s && cd %s/%s && %s%s",
		host.Workspace, workdir,
		host.Workspace, workdir,
		envPrefix(env), command,
	)

	doneCh := make(chan error, 1)
	go func() {
		doneCh <- sess.Run(remote)
	}()

	select {
	case <-ctx.Done():
		sess.Signal(ssh.SIGINT)
		return engine.CommandResult{}, ctx.Err()
	case err := <-doneCh:
		res := engine.CommandResult{
			Stdout: stdout.String(),
			Stderr: stderr.String(),
		}
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitStatus()
			return res, nil
		}
		if err != nil {
			return res, err
		}
		return res, nil
	}
}

// lineWriter tees command output to the configured output sink line by line.
func (e *Executor) lineWriter() io.Writer {
	if e.output == nil {
		return io.Discard
	}
	return &lineWriter{out: e.output}
}

type lineWriter struct {
	out func(string)
	buf bytes.Buffer
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// partial line, keep it buffered for the next write
			w.buf.WriteString(line)
			break
		}
		w.out(strings.TrimRight(line, "\n"))
	}
	return len(p), nil
}

func envPairs(env map[string]string) []string {
	pairs := make([]string, 0, len(env))
	for k, v := range env {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return pairs
}

// envPrefix renders the tool environment as VAR=value assignments prefixed
// to the remote command, since sshd commonly rejects Setenv requests.
func envPrefix(env map[string]string) string {
	pairs := envPairs(env)
	if len(pairs) == 0 {
		return ""
	}
	return strings.Join(pairs, " ") + " "
}
