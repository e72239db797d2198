package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/vc-scout/internal/enrich"
	"github.com/octobees/vc-scout/internal/gemini"
)

// ModelLister lists generative models visible to the configured credential.
type ModelLister interface {
	ListModels(ctx context.Context) ([]gemini.ModelInfo, error)
}

// ModelsHandler exposes the models available to the server's API key.
type ModelsHandler struct {
	lister ModelLister
}

// NewModelsHandler builds a handler. A nil lister means no API key is configured.
func NewModelsHandler(lister ModelLister) *ModelsHandler {
	return &ModelsHandler{lister: lister}
}

// List handles GET /models requests.
func (h *ModelsHandler) List(c echo.Context) error {
	if h.lister == nil {
		return Error(c, http.StatusInternalServerError, "Missing "+enrich.CredentialSetting)
	}

	models, err := h.lister.ListModels(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusBadGateway, "failed to list models")
	}

	return Success(c, http.StatusOK, "models retrieved", models)
}
