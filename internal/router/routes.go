package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/vc-scout/internal/config"
	"github.com/octobees/vc-scout/internal/handler"
	middlewarepkg "github.com/octobees/vc-scout/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Companies *handler.CompaniesHandler
	Import    *handler.ImportHandler
	Enrich    *handler.EnrichHandler
	Models    *handler.ModelsHandler
	Metrics   http.Handler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})
	if handlers.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(handlers.Metrics))
	}

	e.GET("/companies", handlers.Companies.List)
	e.GET("/companies/facets", handlers.Companies.Facets)
	e.GET("/companies/:id", handlers.Companies.Get)
	if handlers.Import != nil {
		e.POST("/companies/import", handlers.Import.UploadCSV)
	}

	e.GET("/models", handlers.Models.List)
	e.POST(middlewarepkg.EnrichPath, handlers.Enrich.Enrich, middlewarepkg.EnrichRateLimiter(cfg.RateLimitEnrich))
}
