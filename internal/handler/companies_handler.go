package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/vc-scout/internal/dto"
	"github.com/octobees/vc-scout/internal/repository"
	"github.com/octobees/vc-scout/internal/service"
)

// CompaniesHandler exposes company directory endpoints.
type CompaniesHandler struct {
	service *service.CompaniesService
}

// NewCompaniesHandler creates a new handler instance.
func NewCompaniesHandler(service *service.CompaniesService) *CompaniesHandler {
	return &CompaniesHandler{service: service}
}

// List handles GET /companies requests.
func (h *CompaniesHandler) List(c echo.Context) error {
	filter := dto.ListFilter{
		Q:        strings.TrimSpace(c.QueryParam("q")),
		Industry: strings.TrimSpace(c.QueryParam("industry")),
		Stage:    strings.TrimSpace(c.QueryParam("stage")),
		Page:     parseIntDefault(c.QueryParam("page"), 1),
		PerPage:  parseIntDefault(c.QueryParam("per_page"), 10),
	}

	page, err := h.service.ListCompanies(c.Request().Context(), filter)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list companies")
	}

	return Success(c, http.StatusOK, "companies retrieved", page)
}

// Get handles GET /companies/:id requests.
func (h *CompaniesHandler) Get(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return Error(c, http.StatusBadRequest, "id is required")
	}

	company, err := h.service.GetCompany(c.Request().Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCompanyNotFound):
			return Error(c, http.StatusNotFound, "company not found")
		default:
			return Error(c, http.StatusInternalServerError, "failed to fetch company")
		}
	}

	return Success(c, http.StatusOK, "ok", company)
}

// Facets handles GET /companies/facets requests.
func (h *CompaniesHandler) Facets(c echo.Context) error {
	industries, stages, err := h.service.Facets(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list facets")
	}
	return Success(c, http.StatusOK, "ok", map[string]any{"industries": industries, "stages": stages})
}

func parseIntDefault(input string, fallback int) int {
	if input == "" {
		return fallback
	}
	if value, err := strconv.Atoi(input); err == nil {
		return value
	}
	return fallback
}
