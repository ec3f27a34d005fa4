package handler

import (
	"net/http"

	"github.com/haltia/conveyor/internal/service"
	"github.com/labstack/echo/v4"
)

type CredentialHandler struct {
	credentialService service.CredentialServicer
}

func NewCredentialHandler(credentialService service.CredentialServicer) *CredentialHandler {
	return &CredentialHandler{credentialService: credentialService}
}

type credentialResponse struct {
	CredentialID int64  `json:"credential_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
}

func (h *CredentialHandler) PostCredential(c echo.Context) error {
	cp := new(CredentialParams)
	if err := c.Bind(cp); err != nil {
		return newError(err, http.StatusBadRequest, "invalid credential data")
	}
	if cp.Name == "" || cp.SSHPrivateKey == "" {
		return newError(nil, http.StatusBadRequest, "name and ssh_private_key are required")
	}

	credential, err := h.credentialService.CreateCredential(
		c.Request().Context(),
		cp.Name,
		cp.Description,
		cp.SSHPrivateKey,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return newError(err, http.StatusConflict, "credential name already in use")
		}
		return newError(err, http.StatusInternalServerError, "unable to create credential")
	}

	return c.JSON(http.StatusCreated, credentialResponse{
		CredentialID: credential.CredentialID,
		Name:         credential.Name,
		Description:  credential.Description,
	})
}

func (h *CredentialHandler) GetCredentials(c echo.Context) error {
	credentials, err := h.credentialService.ListCredentials(c.Request().Context())
	if err != nil {
		return newError(err, http.StatusInternalServerError, "unable to list credentials")
	}

	response := make([]credentialResponse, len(credentials))
	for i, credential := range credentials {
		response[i] = credentialResponse{
			CredentialID: credential.CredentialID,
			Name:         credential.Name,
			Description:  credential.Description,
		}
	}
	return c.JSON(http.StatusOK, response)
}

func (h *CredentialHandler) PatchCredential(c echo.Context) error {
	cp := new(CredentialParams)
	if err := c.Bind(cp); err != nil {
		return newError(err, http.StatusBadRequest, "invalid credential data")
	}

	if err := h.credentialService.UpdateCredential(
		c.Request().Context(),
		cp.CredentialID,
		cp.Name,
		cp.Description,
	); err != nil {
		return newError(err, http.StatusInternalServerError, "unable to update credential")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CredentialHandler) DeleteCredential(c echo.Context) error {
	cp := new(CredentialParams)
	if err := c.Bind(cp); err != nil {
		return newError(err, http.StatusBadRequest, "invalid credential id")
	}

	if err := h.credentialService.DeleteCredential(
		c.Request().Context(), cp.CredentialID,
	); err != nil {
		return newError(err, http.StatusInternalServerError, "unable to delete credential")
	}
	return c.NoContent(http.StatusNoContent)
}
