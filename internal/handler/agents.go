package handler

import (
	"net/http"

	"github.com/haltia/conveyor/internal/service"
	"github.com/haltia/conveyor/internal/store"
	"github.com/labstack/echo/v4"
)

type AgentHandler struct {
	agentService service.AgentServicer
}

func NewAgentHandler(agentService service.AgentServicer) *AgentHandler {
	return &AgentHandler{agentService: agentService}
}

func (h *AgentHandler) PostAgent(c echo.Context) error {
	ap := new(AgentParams)
	if err := c.Bind(ap); err != nil {
		return newError(err, http.StatusBadRequest, "invalid agent data")
	}
	if ap.Name == "" || ap.Hostname == "" || ap.Workspace == "" {
		return newError(nil, http.StatusBadRequest, "name, hostname and workspace are required")
	}

	a, err := h.agentService.CreateAgent(
		c.Request().Context(),
		ap.Name,
		ap.Hostname,
		ap.Username,
		ap.Workspace,
		ap.Labels,
		ap.CredentialRef,
		ap.Description,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return newError(err, http.StatusConflict, "agent name already in use")
		}
		return newError(err, http.StatusInternalServerError, "unable to create agent")
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *AgentHandler) GetAgents(c echo.Context) error {
	agents, err := h.agentService.ListAgents(c.Request().Context())
	if err != nil {
		return newError(err, http.StatusInternalServerError, "unable to list agents")
	}
	if agents == nil {
		agents = []*store.Agent{}
	}
	return c.JSON(http.StatusOK, agents)
}

func (h *AgentHandler) GetAgent(c echo.Context) error {
	ap := new(AgentParams)
	if err := c.Bind(ap); err != nil {
		return newError(err, http.StatusBadRequest, "invalid agent id")
	}

	a, err := h.agentService.GetAgentByID(c.Request().Context(), ap.AgentID)
	if err != nil {
		if isNotFoundError(err) {
			return newError(err, http.StatusNotFound, "agent not found")
		}
		return newError(err, http.StatusInternalServerError, "unable to read agent")
	}
	return c.JSON(http.StatusOK, a)
}

func (h *AgentHandler) PatchAgent(c echo.Context) error {
	ap := new(AgentParams)
	if err := c.Bind(ap); err != nil {
		return newError(err, http.StatusBadRequest, "invalid agent data")
	}

	if err := h.agentService.UpdateAgent(
		c.Request().Context(),
		ap.AgentID,
		ap.Name,
		ap.Hostname,
		ap.Username,
		ap.Workspace,
		ap.Labels,
		ap.CredentialRef,
		ap.Description,
	); err != nil {
		return newError(err, http.StatusInternalServerError, "unable to update agent")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AgentHandler) DeleteAgent(c echo.Context) error {
	ap := new(AgentParams)
	if err := c.Bind(ap); err != nil {
		return newError(err, http.StatusBadRequest, "invalid agent id")
	}

	if err := h.agentService.DeleteAgent(c.Request().Context(), ap.AgentID); err != nil {
		return newError(err, http.StatusInternalServerError, "unable to delete agent")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AgentHandler) PostTestAgentConnection(c echo.Context) error {
	ap := new(AgentParams)
	if err := c.Bind(ap); err != nil {
		return newError(err, http.StatusBadRequest, "invalid agent id")
	}

	if err := h.agentService.TestAgentConnection(
		c.Request().Context(), ap.AgentID,
	); err != nil {
		return newError(err, http.StatusBadGateway, "unable to connect to agent")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "connection ok"})
}
