package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/octobees/vc-scout/internal/dto"
	"github.com/octobees/vc-scout/internal/entity"
	"github.com/octobees/vc-scout/internal/repository"
	"github.com/octobees/vc-scout/internal/service"
)

type stubCompaniesRepo struct {
	companies []entity.Company
	err       error
}

func (s *stubCompaniesRepo) List(ctx context.Context) ([]entity.Company, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.companies, nil
}

func (s *stubCompaniesRepo) Get(ctx context.Context, id string) (*entity.Company, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, c := range s.companies {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, repository.ErrCompanyNotFound
}

func newCompaniesHandler(repo repository.CompaniesRepository) *CompaniesHandler {
	return NewCompaniesHandler(service.NewCompaniesService(repo, nil))
}

func sampleCompanies() []entity.Company {
	return []entity.Company{
		{ID: "acme", Name: "Acme", Website: "https://acme.example", Industry: "AI", Stage: "Seed", Description: "Plumbing robots"},
		{ID: "beta", Name: "Beta", Website: "https://beta.example", Industry: "Fintech", Stage: "Series A", Description: "Payments"},
		{ID: "gamma", Name: "Gamma", Website: "https://gamma.example", Industry: "AI", Stage: "Series A", Description: "Agents"},
	}
}

func TestCompaniesHandler_List_Success(t *testing.T) {
	handler := newCompaniesHandler(&stubCompaniesRepo{companies: sampleCompanies()})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/companies?q=plumbing&industry=AI&stage=All&per_page=25", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var payload struct {
		Status string          `json:"status"`
		Data   dto.CompanyPage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Status != "success" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if payload.Data.Total != 1 || payload.Data.Items[0].ID != "acme" {
		t.Fatalf("expected query filter applied, got %+v", payload.Data)
	}
	if payload.Data.PerPage != 25 {
		t.Fatalf("expected per_page 25, got %d", payload.Data.PerPage)
	}
}

func TestCompaniesHandler_List_DefaultPaging(t *testing.T) {
	handler := newCompaniesHandler(&stubCompaniesRepo{companies: sampleCompanies()})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/companies?page=abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var payload struct {
		Data dto.CompanyPage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Data.Page != 1 || payload.Data.PerPage != 10 || payload.Data.Total != 3 {
		t.Fatalf("unexpected paging defaults: %+v", payload.Data)
	}
}

func TestCompaniesHandler_List_Error(t *testing.T) {
	handler := newCompaniesHandler(&stubCompaniesRepo{err: context.DeadlineExceeded})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/companies", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestCompaniesHandler_Get(t *testing.T) {
	tests := map[string]struct {
		id     string
		repo   *stubCompaniesRepo
		status int
	}{
		"found":     {id: "beta", repo: &stubCompaniesRepo{companies: sampleCompanies()}, status: http.StatusOK},
		"not found": {id: "zeta", repo: &stubCompaniesRepo{companies: sampleCompanies()}, status: http.StatusNotFound},
		"blank id":  {id: "", repo: &stubCompaniesRepo{}, status: http.StatusBadRequest},
		"failure":   {id: "beta", repo: &stubCompaniesRepo{err: context.Canceled}, status: http.StatusInternalServerError},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/companies/"+tc.id, nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.SetParamNames("id")
			c.SetParamValues(tc.id)

			if err := newCompaniesHandler(tc.repo).Get(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
		})
	}
}

func TestCompaniesHandler_Facets(t *testing.T) {
	handler := newCompaniesHandler(&stubCompaniesRepo{companies: sampleCompanies()})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/companies/facets", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Facets(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var payload struct {
		Data struct {
			Industries []string `json:"industries"`
			Stages     []string `json:"stages"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload.Data.Industries) != 3 || payload.Data.Industries[0] != "All" {
		t.Fatalf("unexpected industries: %v", payload.Data.Industries)
	}
	if len(payload.Data.Stages) != 3 {
		t.Fatalf("unexpected stages: %v", payload.Data.Stages)
	}
}
