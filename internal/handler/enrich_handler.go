package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/octobees/vc-scout/internal/dto"
	"github.com/octobees/vc-scout/internal/enrich"
	"github.com/octobees/vc-scout/internal/logger"
)

// HeaderEnrichmentDegraded is set to "true" when the result is the fallback payload.
const HeaderEnrichmentDegraded = "X-Enrichment-Degraded"

// Enricher runs the enrichment pipeline for a website.
type Enricher interface {
	Enrich(ctx context.Context, website string) (*enrich.Outcome, error)
}

// EnrichHandler serves POST /enrich. Errors are plain text; success is the bare result JSON.
type EnrichHandler struct {
	enricher Enricher
	logger   *zap.Logger
}

// NewEnrichHandler wires a new EnrichHandler instance.
func NewEnrichHandler(enricher Enricher, log *zap.Logger) *EnrichHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &EnrichHandler{enricher: enricher, logger: log}
}

// Enrich handles POST /enrich requests.
func (h *EnrichHandler) Enrich(c echo.Context) error {
	var payload dto.EnrichRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&payload); err != nil {
		return Text(c, http.StatusBadRequest, enrich.ErrMissingWebsite.Error())
	}
	website := strings.TrimSpace(payload.Website)

	ctx := c.Request().Context()
	outcome, err := h.enricher.Enrich(ctx, website)
	if err != nil {
		status := enrichErrorStatus(err)
		if status >= http.StatusInternalServerError {
			logger.ForContext(ctx, h.logger).Error("enrichment failed",
				zap.String("website", website),
				zap.Error(err))
		}
		return Text(c, status, err.Error())
	}

	if outcome.Degraded {
		c.Response().Header().Set(HeaderEnrichmentDegraded, "true")
	}
	return c.JSON(http.StatusOK, outcome.Result)
}

func enrichErrorStatus(err error) int {
	var fetchErr *enrich.UpstreamFetchError
	var cfgErr *enrich.ConfigurationError
	switch {
	case errors.Is(err, enrich.ErrMissingWebsite), errors.Is(err, enrich.ErrInvalidWebsite):
		return http.StatusBadRequest
	case errors.As(err, &fetchErr):
		return http.StatusBadRequest
	case errors.As(err, &cfgErr):
		return http.StatusInternalServerError
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
