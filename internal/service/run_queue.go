package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/haltia/conveyor/internal"
	"github.com/haltia/conveyor/internal/engine"
	"github.com/haltia/conveyor/internal/exec"
	"github.com/haltia/conveyor/internal/script"
	"github.com/haltia/conveyor/internal/settings"
	"github.com/haltia/conveyor/internal/store"
	"github.com/haltia/conveyor/internal/util"
)

// RunPipelineServicer is the slice of the pipeline service a run queue needs
// to drive one run through its lifecycle.
type RunPipelineServicer interface {
	GetPipelineByID(context.Context, int64) (*store.Pipeline, error)
	UpdateRunStartedOn(context.Context, int64, string, store.RunStatus, *time.Time) error
	UpdateRunEndedOn(
		context.Context, int64, store.RunStatus, *string, *string, *string, *time.Time,
	) error
	AppendRunOutput(context.Context, int64, string) error
}

type PoolBuilder interface {
	BuildPool(context.Context) (*engine.Pool, error)
}

func NewRunQueue(
	pipelineService RunPipelineServicer,
	agents PoolBuilder,
	creds exec.CredentialSource,
	maxRuns int64,
) *RunQueue {
	return &RunQueue{
		pipelineService: pipelineService,
		agents:          agents,
		creds:           creds,
		queue:           make(chan *store.Run, maxRuns),
		done:            make(chan struct{}),
	}
}

// RunQueue serializes the runs of one pipeline: runs are processed strictly
// in enqueue order, one at a time.
type RunQueue struct {
	pipelineService RunPipelineServicer
	agents          PoolBuilder
	creds           exec.CredentialSource

	queue chan *store.Run
	done  chan struct{}

	outputCh chan string
	mu       sync.Mutex
}

func (rq *RunQueue) Enqueue(r *store.Run) error {
	select {
	case rq.queue <- r:
		return nil
	default:
		return NewErrRunQueueFull()
	}
}

func (rq *RunQueue) Run() {
	for {
		select {
		case run := <-rq.queue:
			rq.outputCh = make(chan string)

			var wg sync.WaitGroup
			wg.Go(func() {
				rq.handleOutput(run.RunID)
			})

			if err := rq.processRun(context.Background(), run); err != nil {
				log.Println("err processing pipeline run:", err)
				rq.failRun(run, err)

				failMessage := `
=============================================
FAIL || Pipeline execution failed.
=============================================
`
				rq.outputCh <- failMessage
			}

			close(rq.outputCh)
			wg.Wait()
		case <-rq.done:
			close(rq.queue)
			return
		}
	}
}

func (rq *RunQueue) Shutdown() {
	rq.mu.Lock()
	defer rq.mu.Unlock()
	select {
	case <-rq.done:
	default:
		close(rq.done)
	}
}

func (rq *RunQueue) handleOutput(runID int64) {
	for out := range rq.outputCh {
		if err := rq.pipelineService.AppendRunOutput(
			context.Background(), runID, out,
		); err != nil {
			log.Printf("err appending run output: %+v\n", err)
		}
	}
}

func (rq *RunQueue) failRun(run *store.Run, cause error) {
	var failedStage *string
	detail := cause.Error()

	var sfe engine.StageFailedError
	if errors.As(cause, &sfe) {
		failedStage = util.AsPtr(sfe.Stage)
		if sfe.Cause != nil {
			detail = sfe.Cause.Error()
		}
	}

	if err := rq.pipelineService.UpdateRunEndedOn(
		context.Background(),
		run.RunID,
		store.StatusFailed,
		run.Artifacts,
		failedStage,
		&detail,
		util.AsPtr(time.Now().UTC()),
	); err != nil {
		log.Println("err updating run status to failed:", errors.Join(cause, err))
	}
}

func (rq *RunQueue) processRun(ctx context.Context, run *store.Run) error {
	p, err := rq.pipelineService.GetPipelineByID(ctx, run.RunPipelineID)
	if err != nil {
		rq.outputCh <- fmt.Sprintf("err reading pipeline: %+v\n", err)
		return err
	}

	ps, err := script.ParseFile(p.ScriptPath)
	if err != nil {
		rq.outputCh <- fmt.Sprintf("err parsing pipeline declaration: %+v\n", err)
		return err
	}
	if err := ps.Validate(); err != nil {
		rq.outputCh <- fmt.Sprintf("err validating pipeline declaration: %+v\n", err)
		return err
	}
	pipeline := ps.Build()

	pool, err := rq.agents.BuildPool(ctx)
	if err != nil {
		rq.outputCh <- fmt.Sprintf("err building agent pool: %+v\n", err)
		return err
	}

	workdir := time.Now().UTC().Format(internal.RunDirLayout)

	run.Status = store.StatusRunning
	run.StartedOn = util.AsPtr(time.Now().UTC())
	if err := rq.pipelineService.UpdateRunStartedOn(
		context.Background(),
		run.RunID,
		workdir,
		run.Status,
		run.StartedOn,
	); err != nil {
		rq.outputCh <- "err updating run started on"
		return err
	}
	run.WorkingDirectory = &workdir

	rq.outputCh <- "Parsed pipeline declaration. Starting pipeline execution...\n"

	output := func(line string) {
		rq.outputCh <- line + "\n"
	}
	artifactsRoot := filepath.Join(
		settings.Settings.ArtifactsDir, fmt.Sprintf("%d", p.PipelineID),
	)
	reportsRoot := filepath.Join(
		settings.Settings.ReportsDir, fmt.Sprintf("%d", p.PipelineID),
	)

	dialer := exec.NewDialer(rq.creds)
	executor := exec.NewExecutor(dialer, output)
	collab := engine.Collaborators{
		Source:    exec.NewGitSource(executor, rq.creds),
		Commands:  executor,
		Artifacts: exec.NewArtifactCollector(dialer, artifactsRoot),
		Reports:   exec.NewReportStore(dialer, reportsRoot),
	}

	controller := engine.NewController(pool, collab, engine.Options{
		StrictArtifacts: internal.GetConfiguration().StrictArtifacts,
		Output:          output,
	})

	result := controller.Run(ctx, pipeline, workdir)
	if exists, _ := util.PathExists(filepath.Join(artifactsRoot, workdir)); exists {
		run.Artifacts = util.AsPtr(filepath.Join(artifactsRoot, workdir))
	}
	if result.Failed() {
		return result.Err
	}

	passMessage := `
=============================================
PASS || Executed pipeline stages successfully.
=============================================
`
	rq.outputCh <- passMessage

	run.Status = store.StatusPassed
	run.EndedOn = util.AsPtr(time.Now().UTC())
	if err := rq.pipelineService.UpdateRunEndedOn(
		context.Background(),
		run.RunID,
		run.Status,
		run.Artifacts,
		nil,
		nil,
		run.EndedOn,
	); err != nil {
		rq.outputCh <- "err updating run ended on"
		return err
	}

	return nil
}
