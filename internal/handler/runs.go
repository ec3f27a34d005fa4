package handler

import (
	"net/http"
	"path/filepath"

	"github.com/haltia/conveyor/internal/service"
	"github.com/haltia/conveyor/internal/util"
	"github.com/labstack/echo/v4"
)

type RunHandler struct {
	pipelineService service.PipelineServicer
}

func NewRunHandler(pipelineService service.PipelineServicer) *RunHandler {
	return &RunHandler{pipelineService: pipelineService}
}

// PostRun queues a new run for the pipeline. The run executes
// asynchronously; poll the run endpoints for progress.
func (h *RunHandler) PostRun(c echo.Context) error {
	rp := new(RunParams)
	if err := c.Bind(rp); err != nil {
		return newError(err, http.StatusBadRequest, "invalid pipeline id")
	}

	if _, err := h.pipelineService.GetPipelineByID(
		c.Request().Context(), rp.PipelineID,
	); err != nil {
		if isNotFoundError(err) {
			return newError(err, http.StatusNotFound, "pipeline not found")
		}
		return newError(err, http.StatusInternalServerError, "unable to read pipeline")
	}

	r, err := h.pipelineService.CreateRun(c.Request().Context(), rp.PipelineID)
	if err != nil {
		return newError(err, http.StatusInternalServerError, "unable to create run")
	}

	if err := h.pipelineService.EnqueueRun(r); err != nil {
		return newError(err, http.StatusTooManyRequests, "run queue is full")
	}
	return c.JSON(http.StatusAccepted, r)
}

func (h *RunHandler) GetRuns(c echo.Context) error {
	lp := new(ListRunsParams)
	if err := c.Bind(lp); err != nil {
		return newError(err, http.StatusBadRequest, "invalid pipeline id")
	}

	if lp.Limit > 0 {
		runs, err := h.pipelineService.ListLatestPipelineRuns(
			c.Request().Context(), lp.PipelineID, lp.Limit,
		)
		if err != nil {
			return newError(err, http.StatusInternalServerError, "unable to list runs")
		}
		return c.JSON(http.StatusOK, runs)
	}

	runs, err := h.pipelineService.ListPipelineRuns(c.Request().Context(), lp.PipelineID)
	if err != nil {
		return newError(err, http.StatusInternalServerError, "unable to list runs")
	}
	return c.JSON(http.StatusOK, runs)
}

func (h *RunHandler) GetRun(c echo.Context) error {
	rp := new(RunParams)
	if err := c.Bind(rp); err != nil {
		return newError(err, http.StatusBadRequest, "invalid run id")
	}

	r, err := h.pipelineService.GetRunByID(c.Request().Context(), rp.RunID)
	if err != nil {
		if isNotFoundError(err) {
			return newError(err, http.StatusNotFound, "run not found")
		}
		return newError(err, http.StatusInternalServerError, "unable to read run")
	}
	return c.JSON(http.StatusOK, r)
}

func (h *RunHandler) GetRunOutput(c echo.Context) error {
	rp := new(RunParams)
	if err := c.Bind(rp); err != nil {
		return newError(err, http.StatusBadRequest, "invalid run id")
	}

	r, err := h.pipelineService.GetRunByID(c.Request().Context(), rp.RunID)
	if err != nil {
		if isNotFoundError(err) {
			return newError(err, http.StatusNotFound, "run not found")
		}
		return newError(err, http.StatusInternalServerError, "unable to read run")
	}

	var output string
	if r.Output != nil {
		output = *r.Output
	}
	return c.String(http.StatusOK, output)
}

// GetRunArtifacts downloads the run's collected artifacts as a zip archive.
func (h *RunHandler) GetRunArtifacts(c echo.Context) error {
	rp := new(RunParams)
	if err := c.Bind(rp); err != nil {
		return newError(err, http.StatusBadRequest, "invalid run id")
	}

	r, err := h.pipelineService.GetRunByID(c.Request().Context(), rp.RunID)
	if err != nil {
		if isNotFoundError(err) {
			return newError(err, http.StatusNotFound, "run not found")
		}
		return newError(err, http.StatusInternalServerError, "unable to read run")
	}
	if r.Artifacts == nil {
		return newError(nil, http.StatusNotFound, "run has no artifacts")
	}
	if exists, _ := util.PathExists(*r.Artifacts); !exists {
		return newError(nil, http.StatusNotFound, "artifacts directory is gone")
	}

	zipPath, err := util.ArchiveDirectory(*r.Artifacts)
	if err != nil {
		return newError(err, http.StatusInternalServerError, "unable to archive artifacts")
	}
	return c.Attachment(zipPath, filepath.Base(zipPath))
}

func (h *RunHandler) DeleteRun(c echo.Context) error {
	rp := new(RunParams)
	if err := c.Bind(rp); err != nil {
		return newError(err, http.StatusBadRequest, "invalid run id")
	}

	if err := h.pipelineService.DeleteRun(c.Request().Context(), rp.RunID); err != nil {
		return newError(err, http.StatusInternalServerError, "unable to delete run")
	}
	return c.NoContent(http.StatusNoContent)
}
