package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/haltia/conveyor/internal"
	"github.com/haltia/conveyor/internal/store"
	"github.com/haltia/conveyor/internal/util"
)

type PipelineServicer interface {
	CreatePipeline(context.Context, string, string, string) (*store.Pipeline, error)
	GetPipelineByID(context.Context, int64) (*store.Pipeline, error)
	ListPipelines(context.Context) ([]*store.Pipeline, error)
	UpdatePipeline(context.Context, int64, string, string, string) error
	UpdatePipelineSchedule(context.Context, int64, *string) error
	DeletePipeline(context.Context, int64) error

	CreateRun(context.Context, int64) (*store.Run, error)
	GetRunByID(context.Context, int64) (*store.Run, error)
	ListPipelineRuns(context.Context, int64) ([]store.Run, error)
	ListLatestPipelineRuns(context.Context, int64, int64) ([]store.Run, error)
	GetPipelineRunCount(context.Context, int64) (int64, error)
	DeleteRun(context.Context, int64) error

	EnqueueRun(*store.Run) error
}

type PipelineService struct {
	pipelineStore store.PipelineStore
	runStore      store.RunStore

	agentService      AgentServicer
	credentialService CredentialServicer
	scheduler         gocron.Scheduler

	mu     sync.Mutex
	queues map[int64]*RunQueue
}

func NewPipelineService(
	pipelineStore store.PipelineStore,
	runStore store.RunStore,
	agentService AgentServicer,
	credentialService CredentialServicer,
	scheduler gocron.Scheduler,
) *PipelineService {
	return &PipelineService{
		pipelineStore:     pipelineStore,
		runStore:          runStore,
		agentService:      agentService,
		credentialService: credentialService,
		scheduler:         scheduler,
		queues:            make(map[int64]*RunQueue),
	}
}

// InitializeRunQueues creates and starts one run queue per registered
// pipeline and re-registers the cron jobs of scheduled pipelines. Called
// once on startup.
func (s *PipelineService) InitializeRunQueues(ctx context.Context) error {
	pipelines, err := s.ListPipelines(ctx)
	if err != nil {
		return err
	}

	ids := make([]int64, len(pipelines))
	for i, p := range pipelines {
		ids[i] = p.PipelineID
	}

	s.AddRunQueues(ids, internal.GetConfiguration().QueueSize)
	s.StartRunQueues()

	scheduled, err := s.ListScheduledPipelines(ctx)
	if err != nil {
		return err
	}
	for _, p := range scheduled {
		jobID, err := s.SchedulePipelineRun(p.PipelineID, *p.Schedule)
		if err != nil {
			return err
		}
		if err := s.pipelineStore.UpdatePipelineScheduleJobID(
			ctx, p.PipelineID, jobID,
		); err != nil {
			return err
		}
	}
	return nil
}

func (s *PipelineService) CreatePipeline(
	ctx context.Context,
	name, description, scriptPath string,
) (*store.Pipeline, error) {
	p, err := s.pipelineStore.CreatePipeline(ctx, name, description, scriptPath)
	if err != nil {
		return nil, err
	}
	s.AddRunQueue(p.PipelineID, internal.GetConfiguration().QueueSize)
	if err := s.StartRunQueue(p.PipelineID); err != nil {
		return p, err
	}
	return p, nil
}

func (s *PipelineService) GetPipelineByID(
	ctx context.Context,
	pipelineID int64,
) (*store.Pipeline, error) {
	return s.pipelineStore.ReadPipelineByID(ctx, pipelineID)
}

func (s *PipelineService) ListPipelines(ctx context.Context) ([]*store.Pipeline, error) {
	pipelines, err := s.pipelineStore.ListPipelines(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return pipelines, nil
}

func (s *PipelineService) ListScheduledPipelines(
	ctx context.Context,
) ([]*store.Pipeline, error) {
	pipelines, err := s.pipelineStore.ListScheduledPipelines(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return pipelines, nil
}

func (s *PipelineService) UpdatePipeline(
	ctx context.Context,
	pipelineID int64,
	name, description, scriptPath string,
) error {
	return s.pipelineStore.UpdatePipeline(ctx, pipelineID, name, description, scriptPath)
}

func (s *PipelineService) UpdatePipelineSchedule(
	ctx context.Context,
	id int64,
	schedule *string,
) error {
	p, err := s.pipelineStore.ReadPipelineByID(ctx, id)
	if err != nil {
		return err
	}

	if schedule == nil {
		if p.ScheduleJobID != nil && s.scheduler != nil {
			if err := s.scheduler.RemoveJob(uuid.MustParse(*p.ScheduleJobID)); err != nil {
				log.Println("unable to remove existing job: ", err)
			}
		}
		return s.pipelineStore.UpdatePipelineSchedule(ctx, p.PipelineID, nil, nil)
	}

	jobID, err := s.SchedulePipelineRun(p.PipelineID, *schedule)
	if err != nil {
		return err
	}
	return s.pipelineStore.UpdatePipelineSchedule(ctx, p.PipelineID, schedule, jobID)
}

func (s *PipelineService) DeletePipeline(ctx context.Context, pipelineID int64) error {
	if err := s.pipelineStore.DeletePipeline(ctx, pipelineID); err != nil {
		return err
	}
	s.RemoveRunQueue(pipelineID)
	return nil
}

func (s *PipelineService) CreateRun(
	ctx context.Context,
	pipelineID int64,
) (*store.Run, error) {
	return s.runStore.CreateRun(ctx, pipelineID)
}

func (s *PipelineService) GetRunByID(ctx context.Context, runID int64) (*store.Run, error) {
	return s.runStore.ReadRunByID(ctx, runID)
}

func (s *PipelineService) UpdateRunStartedOn(
	ctx context.Context,
	runID int64,
	workingDirectory string,
	status store.RunStatus,
	startedOn *time.Time,
) error {
	return s.runStore.UpdateRunStartedOn(ctx, runID, workingDirectory, status, startedOn)
}

func (s *PipelineService) UpdateRunEndedOn(
	ctx context.Context,
	runID int64,
	status store.RunStatus,
	artifacts, failedStage, errorDetail *string,
	endedOn *time.Time,
) error {
	return s.runStore.UpdateRunEndedOn(
		ctx, runID, status, artifacts, failedStage, errorDetail, endedOn,
	)
}

func (s *PipelineService) AppendRunOutput(ctx context.Context, runID int64, out string) error {
	return s.runStore.AppendRunOutput(ctx, runID, out)
}

func (s *PipelineService) DeleteRun(ctx context.Context, runID int64) error {
	return s.runStore.DeleteRun(ctx, runID)
}

func (s *PipelineService) ListPipelineRuns(
	ctx context.Context,
	pipelineID int64,
) ([]store.Run, error) {
	runs, err := s.runStore.ListPipelineRuns(ctx, pipelineID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return runs, nil
}

func (s *PipelineService) ListLatestPipelineRuns(
	ctx context.Context,
	pipelineID, limit int64,
) ([]store.Run, error) {
	return s.runStore.ListLatestPipelineRuns(ctx, pipelineID, limit)
}

func (s *PipelineService) GetPipelineRunCount(ctx context.Context, id int64) (int64, error) {
	return s.runStore.CountPipelineRuns(ctx, id)
}

func (s *PipelineService) SchedulePipelineRun(
	pipelineID int64,
	schedule string,
) (*string, error) {
	if s.scheduler == nil {
		return nil, nil
	}
	job, err := s.scheduler.NewJob(
		gocron.CronJob(schedule, false),
		gocron.NewTask(func() {
			r, err := s.CreateRun(context.Background(), pipelineID)
			if err != nil {
				log.Println("err creating scheduled run:", err)
				return
			}
			if err := s.EnqueueRun(r); err != nil {
				log.Println("queue is full")
			}
		}))
	if err != nil {
		return nil, fmt.Errorf("error scheduling pipeline job: %+w", err)
	}
	return util.AsPtr(job.ID().String()), nil
}

func (s *PipelineService) AddRunQueues(ids []int64, maxRuns int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.queues[id] = NewRunQueue(s, s.agentService, s.credentialService, maxRuns)
	}
}

func (s *PipelineService) StartRunQueues() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.queues {
		go s.queues[i].Run()
	}
}

func (s *PipelineService) AddRunQueue(id int64, maxRuns int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queues[id] = NewRunQueue(s, s.agentService, s.credentialService, maxRuns)
}

func (s *PipelineService) StartRunQueue(id int64) error {
	rq, ok := s.GetPipelineRunQueue(id)
	if !ok {
		return fmt.Errorf("run queue for pipeline %d does not exist", id)
	}
	go rq.Run()
	return nil
}

func (s *PipelineService) GetPipelineRunQueue(id int64) (*RunQueue, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rq, ok := s.queues[id]
	return rq, ok
}

func (s *PipelineService) RemoveRunQueue(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.queues, id)
}

func (s *PipelineService) EnqueueRun(r *store.Run) error {
	rq, ok := s.GetPipelineRunQueue(r.RunPipelineID)
	if !ok {
		return fmt.Errorf("run queue for pipeline %d does not exist", r.RunPipelineID)
	}
	return rq.Enqueue(r)
}

func (s *PipelineService) ShutdownAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var wg sync.WaitGroup
	for _, rq := range s.queues {
		wg.Go(func() {
			rq.Shutdown()
		})
	}
	wg.Wait()
}
