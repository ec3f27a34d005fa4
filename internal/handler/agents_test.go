package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/haltia/conveyor/internal/store"
	"github.com/haltia/conveyor/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAgentHandler_PostAgent(t *testing.T) {
	t.Run("success - agent created", func(t *testing.T) {
		// arrange
		mockService := new(testutil.MockAgentService)
		mockService.On(
			"CreateAgent",
			mock.Anything,
			"builder", "10.0.0.5", "ci", "/home/ci/runs", "linux docker", "agent-key", "",
		).Return(&store.Agent{AgentID: 1, Name: "builder"}, nil)

		e := echo.New()
		body := `{
			"name": "builder",
			"hostname": "10.0.0.5",
			"username": "ci",
			"workspace": "/home/ci/runs",
			"labels": "linux docker",
			"credential_ref": "agent-key"
		}`
		req := httptest.NewRequest(http.MethodPost, "/api/agents", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		h := NewAgentHandler(mockService)

		// act
		err := h.PostAgent(c)

		// assert
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"builder"`)
	})

	t.Run("failure - missing required fields", func(t *testing.T) {
		// arrange
		mockService := new(testutil.MockAgentService)
		e := echo.New()
		req := httptest.NewRequest(
			http.MethodPost, "/api/agents", strings.NewReader(`{"name": "builder"}`),
		)
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		h := NewAgentHandler(mockService)

		// act
		err := h.PostAgent(c)

		// assert
		assert.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Code)
		mockService.AssertNotCalled(t, "CreateAgent")
	})
}

func TestAgentHandler_GetAgents(t *testing.T) {
	t.Run("success - agents listed", func(t *testing.T) {
		// arrange
		mockService := new(testutil.MockAgentService)
		mockService.On("ListAgents", mock.Anything).Return([]*store.Agent{
			{AgentID: 1, Name: "Localhost", Hostname: "localhost"},
		}, nil)

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/agents", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		h := NewAgentHandler(mockService)

		// act
		err := h.GetAgents(c)

		// assert
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Localhost")
	})
}

func TestAgentHandler_PostTestAgentConnection(t *testing.T) {
	t.Run("failure - unreachable agent maps to bad gateway", func(t *testing.T) {
		// arrange
		mockService := new(testutil.MockAgentService)
		mockService.On("TestAgentConnection", mock.Anything, int64(3)).
			Return(assert.AnError)

		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/api/agents/3/test-connection", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("agent_id")
		c.SetParamValues("3")
		h := NewAgentHandler(mockService)

		// act
		err := h.PostTestAgentConnection(c)

		// assert
		assert.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadGateway, he.Code)
	})
}
