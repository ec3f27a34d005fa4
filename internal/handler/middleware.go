package handler

import (
	"net/http"

	"github.com/haltia/conveyor/internal"
	"github.com/haltia/conveyor/internal/service"
	"github.com/labstack/echo/v4"
)

// APIKeyAuth rejects requests without a registered key in the
// X-Conveyor-API-Key header.
func APIKeyAuth(apiKeys service.APIKeyServicer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			value := c.Request().Header.Get(internal.APIKeyHeader)
			if value == "" {
				return newError(nil, http.StatusUnauthorized, "missing API key")
			}
			if _, err := apiKeys.GetAPIKeyByValue(c.Request().Context(), value); err != nil {
				return newError(err, http.StatusUnauthorized, "invalid API key")
			}
			return next(c)
		}
	}
}
