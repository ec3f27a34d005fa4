package handler

import (
	"net/http"

	"github.com/haltia/conveyor/internal"
	"github.com/labstack/echo/v4"
)

func GetConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, internal.GetConfiguration())
}

func PostConfig(c echo.Context) error {
	cp := new(ConfigParams)
	if err := c.Bind(cp); err != nil {
		return newError(err, http.StatusBadRequest, "invalid config data")
	}
	if cp.QueueSize <= 0 {
		return newError(nil, http.StatusBadRequest, "queue_size must be positive")
	}

	config := &internal.Configuration{
		QueueSize:       cp.QueueSize,
		StrictArtifacts: cp.StrictArtifacts,
	}
	if err := internal.UpdateConfiguration(config); err != nil {
		return newError(
			err, http.StatusInternalServerError, "unable to update configuration file",
		)
	}
	return c.JSON(http.StatusOK, internal.GetConfiguration())
}
