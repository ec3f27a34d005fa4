package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/haltia/conveyor/internal/store"
	"github.com/haltia/conveyor/internal/util"
	"github.com/haltia/conveyor/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestPipelineHandler_PostPipeline(t *testing.T) {
	t.Run("success - pipeline created", func(t *testing.T) {
		// arrange
		mockService := new(testutil.MockPipelineService)
		mockService.On(
			"CreatePipeline",
			mock.Anything,
			"backend", "backend build", "pipelines/backend.yaml",
		).Return(&store.Pipeline{PipelineID: 1, Name: "backend"}, nil)

		e := echo.New()
		body := `{
			"name": "backend",
			"description": "backend build",
			"script_path": "pipelines/backend.yaml"
		}`
		req := httptest.NewRequest(http.MethodPost, "/api/pipelines", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		h := NewPipelineHandler(mockService)

		// act
		err := h.PostPipeline(c)

		// assert
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("failure - script path required", func(t *testing.T) {
		// arrange
		mockService := new(testutil.MockPipelineService)
		e := echo.New()
		req := httptest.NewRequest(
			http.MethodPost, "/api/pipelines", strings.NewReader(`{"name": "backend"}`),
		)
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		h := NewPipelineHandler(mockService)

		// act
		err := h.PostPipeline(c)

		// assert
		assert.Error(t, err)
		mockService.AssertNotCalled(t, "CreatePipeline")
	})
}

func TestPipelineHandler_GetPipeline(t *testing.T) {
	t.Run("failure - unknown pipeline maps to not found", func(t *testing.T) {
		// arrange
		mockService := new(testutil.MockPipelineService)
		mockService.On("GetPipelineByID", mock.Anything, int64(9)).
			Return(nil, sql.ErrNoRows)

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/pipelines/9", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("pipeline_id")
		c.SetParamValues("9")
		h := NewPipelineHandler(mockService)

		// act
		err := h.GetPipeline(c)

		// assert
		assert.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusNotFound, he.Code)
	})
}

func TestPipelineHandler_PatchPipelineSchedule(t *testing.T) {
	t.Run("success - schedule set", func(t *testing.T) {
		// arrange
		mockService := new(testutil.MockPipelineService)
		mockService.On(
			"UpdatePipelineSchedule",
			mock.Anything, int64(1), util.AsPtr("0 2 * * *"),
		).Return(nil)

		e := echo.New()
		req := httptest.NewRequest(
			http.MethodPatch,
			"/api/pipelines/1/schedule",
			strings.NewReader(`{"schedule": "0 2 * * *"}`),
		)
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("pipeline_id")
		c.SetParamValues("1")
		h := NewPipelineHandler(mockService)

		// act
		err := h.PatchPipelineSchedule(c)

		// assert
		assert.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("success - schedule cleared with null", func(t *testing.T) {
		// arrange
		mockService := new(testutil.MockPipelineService)
		mockService.On(
			"UpdatePipelineSchedule",
			mock.Anything, int64(1), (*string)(nil),
		).Return(nil)

		e := echo.New()
		req := httptest.NewRequest(
			http.MethodPatch,
			"/api/pipelines/1/schedule",
			strings.NewReader(`{"schedule": null}`),
		)
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("pipeline_id")
		c.SetParamValues("1")
		h := NewPipelineHandler(mockService)

		// act
		err := h.PatchPipelineSchedule(c)

		// assert
		assert.NoError(t, err)
		mockService.AssertExpectations(t)
	})
}
