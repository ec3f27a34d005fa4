package handler

import (
	"net/http"

	"github.com/haltia/conveyor/internal/service"
	"github.com/haltia/conveyor/internal/store"
	"github.com/labstack/echo/v4"
)

type PipelineHandler struct {
	pipelineService service.PipelineServicer
}

func NewPipelineHandler(pipelineService service.PipelineServicer) *PipelineHandler {
	return &PipelineHandler{pipelineService: pipelineService}
}

func (h *PipelineHandler) PostPipeline(c echo.Context) error {
	pp := new(PipelineParams)
	if err := c.Bind(pp); err != nil {
		return newError(err, http.StatusBadRequest, "invalid pipeline data")
	}
	if pp.Name == "" || pp.ScriptPath == "" {
		return newError(nil, http.StatusBadRequest, "name and script_path are required")
	}

	p, err := h.pipelineService.CreatePipeline(
		c.Request().Context(),
		pp.Name,
		pp.Description,
		pp.ScriptPath,
	)
	if err != nil {
		return newError(err, http.StatusInternalServerError, "unable to create pipeline")
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *PipelineHandler) GetPipelines(c echo.Context) error {
	pipelines, err := h.pipelineService.ListPipelines(c.Request().Context())
	if err != nil {
		return newError(err, http.StatusInternalServerError, "unable to list pipelines")
	}
	if pipelines == nil {
		pipelines = []*store.Pipeline{}
	}
	return c.JSON(http.StatusOK, pipelines)
}

func (h *PipelineHandler) GetPipeline(c echo.Context) error {
	pp := new(PipelineParams)
	if err := c.Bind(pp); err != nil {
		return newError(err, http.StatusBadRequest, "invalid pipeline id")
	}

	p, err := h.pipelineService.GetPipelineByID(c.Request().Context(), pp.PipelineID)
	if err != nil {
		if isNotFoundError(err) {
			return newError(err, http.StatusNotFound, "pipeline not found")
		}
		return newError(err, http.StatusInternalServerError, "unable to read pipeline")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PipelineHandler) PatchPipeline(c echo.Context) error {
	pp := new(PipelineParams)
	if err := c.Bind(pp); err != nil {
		return newError(err, http.StatusBadRequest, "invalid pipeline data")
	}

	if err := h.pipelineService.UpdatePipeline(
		c.Request().Context(),
		pp.PipelineID,
		pp.Name,
		pp.Description,
		pp.ScriptPath,
	); err != nil {
		return newError(err, http.StatusInternalServerError, "unable to update pipeline")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PipelineHandler) PatchPipelineSchedule(c echo.Context) error {
	sp := new(ScheduleParams)
	if err := c.Bind(sp); err != nil {
		return newError(err, http.StatusBadRequest, "invalid schedule data")
	}

	if err := h.pipelineService.UpdatePipelineSchedule(
		c.Request().Context(),
		sp.PipelineID,
		sp.Schedule,
	); err != nil {
		return newError(err, http.StatusInternalServerError, "unable to update schedule")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PipelineHandler) DeletePipeline(c echo.Context) error {
	pp := new(PipelineParams)
	if err := c.Bind(pp); err != nil {
		return newError(err, http.StatusBadRequest, "invalid pipeline id")
	}

	if err := h.pipelineService.DeletePipeline(
		c.Request().Context(), pp.PipelineID,
	); err != nil {
		return newError(err, http.StatusInternalServerError, "unable to delete pipeline")
	}
	return c.NoContent(http.StatusNoContent)
}
