package store

import (
	"context"
	"database/sql"

	"github.com/georgysavva/scany/v2/sqlscan"
)

type PipelineSQLiteStore struct {
	rdb, rwdb *sql.DB
}

func NewPipelineSQLiteStore(rdb, rwdb *sql.DB) *PipelineSQLiteStore {
	return &PipelineSQLiteStore{rdb, rwdb}
}

func (store *PipelineSQLiteStore) CreatePipeline(
	ctx context.Context,
	name, description, scriptPath string,
) (*Pipeline, error) {
	p := &Pipeline{
		Name:        name,
		Description: description,
		ScriptPath:  scriptPath,
	}
	query := `insert into pipelines (
		name,
		description,
		script_path
	)
	values ($1, $2, $3)
	returning pipeline_id`
	if err := sqlscan.Get(
		ctx, store.rwdb, p, query,
		p.Name,
		p.Description,
		p.ScriptPath,
	); err != nil {
		return nil, err
	}
	return p, nil
}

func (store *PipelineSQLiteStore) ReadPipelineByID(
	ctx context.Context,
	id int64,
) (*Pipeline, error) {
	p := &Pipeline{PipelineID: id}
	query := "select * from pipelines where pipeline_id = $1"
	if err := sqlscan.Get(ctx, store.rdb, p, query, p.PipelineID); err != nil {
		return nil, err
	}
	return p, nil
}

func (store *PipelineSQLiteStore) UpdatePipeline(
	ctx context.Context,
	id int64,
	name, description, scriptPath string,
) error {
	query := `update pipelines
	set name = $1,
		description = $2,
		script_path = $3
	where pipeline_id = $4`
	_, err := store.rwdb.ExecContext(ctx, query, name, description, scriptPath, id)
	return err
}

func (store *PipelineSQLiteStore) UpdatePipelineSchedule(
	ctx context.Context,
	id int64,
	schedule, scheduleJobID *string,
) error {
	query := `update pipelines
	set schedule = $1,
		schedule_job_id = $2
	where pipeline_id = $3`
	_, err := store.rwdb.ExecContext(ctx, query, schedule, scheduleJobID, id)
	return err
}

func (store *PipelineSQLiteStore) UpdatePipelineScheduleJobID(
	ctx context.Context,
	id int64,
	scheduleJobID *string,
) error {
	query := `update pipelines
	set schedule_job_id = $1
	where pipeline_id = $2`
	_, err := store.rwdb.ExecContext(ctx, query, scheduleJobID, id)
	return err
}

func (store *PipelineSQLiteStore) DeletePipeline(ctx context.Context, id int64) error {
	query := `delete from pipelines where pipeline_id = $1`
	_, err := store.rwdb.ExecContext(ctx, query, id)
	return err
}

func (store *PipelineSQLiteStore) ListPipelines(ctx context.Context) ([]*Pipeline, error) {
	query := `select * from pipelines order by pipeline_id`
	pipelines := make([]*Pipeline, 0)
	err := sqlscan.Select(ctx, store.rdb, &pipelines, query)
	return pipelines, err
}

func (store *PipelineSQLiteStore) ListScheduledPipelines(ctx context.Context) ([]*Pipeline, error) {
	query := `select * from pipelines where schedule is not null`
	pipelines := make([]*Pipeline, 0)
	err := sqlscan.Select(ctx, store.rdb, &pipelines, query)
	return pipelines, err
}
