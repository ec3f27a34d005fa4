package handler

import (
	"net/http"

	"github.com/haltia/conveyor/internal/service"
	"github.com/labstack/echo/v4"
)

type APIKeyHandler struct {
	apiKeyService service.APIKeyServicer
}

func NewAPIKeyHandler(apiKeyService service.APIKeyServicer) *APIKeyHandler {
	return &APIKeyHandler{apiKeyService: apiKeyService}
}

func (h *APIKeyHandler) PostAPIKey(c echo.Context) error {
	key, err := h.apiKeyService.CreateAPIKey(c.Request().Context())
	if err != nil {
		return newError(err, http.StatusInternalServerError, "unable to create API key")
	}
	return c.JSON(http.StatusCreated, key)
}

func (h *APIKeyHandler) GetAPIKeys(c echo.Context) error {
	keys, err := h.apiKeyService.ListAPIKeys(c.Request().Context())
	if err != nil {
		return newError(err, http.StatusInternalServerError, "unable to list API keys")
	}
	return c.JSON(http.StatusOK, keys)
}

func (h *APIKeyHandler) DeleteAPIKey(c echo.Context) error {
	kp := new(APIKeyParams)
	if err := c.Bind(kp); err != nil {
		return newError(err, http.StatusBadRequest, "invalid API key id")
	}

	if err := h.apiKeyService.DeleteAPIKey(c.Request().Context(), kp.ID); err != nil {
		return newError(err, http.StatusInternalServerError, "unable to delete API key")
	}
	return c.NoContent(http.StatusNoContent)
}
