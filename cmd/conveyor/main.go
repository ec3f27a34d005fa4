package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/haltia/conveyor/internal"
	"github.com/haltia/conveyor/internal/engine"
	"github.com/haltia/conveyor/internal/exec"
	"github.com/haltia/conveyor/internal/script"
)

// conveyor runs a single pipeline declaration on the local machine and
// exits 0 when the pipeline passes, 1 when it fails.
func main() {
	var (
		scriptPath   = flag.String("f", "pipeline.yaml", "path to the pipeline declaration")
		workspace    = flag.String("workspace", "runs", "directory pipeline runs execute under")
		artifactsDir = flag.String("artifacts", "artifacts", "directory archived artifacts are copied to")
		reportsDir   = flag.String("reports", "reports", "directory published reports are copied to")
		strict       = flag.Bool("strict", false, "fail archive/publish steps whose pattern matches nothing")
	)
	flag.Parse()

	ps, err := script.ParseFile(*scriptPath)
	if err != nil {
		log.Fatal(err)
	}
	if err := ps.Validate(); err != nil {
		log.Fatal(err)
	}
	pipeline := ps.Build()

	pool := engine.NewPool(&engine.Host{
		Name:      "Localhost",
		Hostname:  "localhost",
		Workspace: *workspace,
		Labels:    []string{"local"},
	})

	output := func(line string) {
		fmt.Println(line)
	}
	dialer := exec.NewDialer(noCredentials{})
	executor := exec.NewExecutor(dialer, output)
	collab := engine.Collaborators{
		Source:    exec.NewGitSource(executor, noCredentials{}),
		Commands:  executor,
		Artifacts: exec.NewArtifactCollector(dialer, *artifactsDir),
		Reports:   exec.NewReportStore(dialer, *reportsDir),
	}

	controller := engine.NewController(pool, collab, engine.Options{
		StrictArtifacts: *strict,
		Output:          output,
	})

	workdir := time.Now().UTC().Format(internal.RunDirLayout)
	result := controller.Run(context.Background(), pipeline, workdir)
	if result.Failed() {
		log.Println(result.Err)
		os.Exit(1)
	}
}

type noCredentials struct{}

func (noCredentials) PrivateKey(ctx context.Context, ref string) ([]byte, error) {
	return nil, fmt.Errorf("credential %q requested but no credential store is configured", ref)
}
