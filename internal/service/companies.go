package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/octobees/vc-scout/internal/dto"
	"github.com/octobees/vc-scout/internal/entity"
	"github.com/octobees/vc-scout/internal/repository"
)

const (
	defaultPerPage = 10
	maxPerPage     = 100

	defaultIndustry    = "AI"
	defaultStage       = "Seed"
	defaultLocation    = "Unknown"
	defaultDescription = "Added by user."
)

var (
	// ErrNameRequired is returned when a custom company has no name.
	ErrNameRequired = errors.New("Name is required")
	// ErrWebsiteScheme is returned when a custom company website is not an http(s) URL.
	ErrWebsiteScheme = errors.New("Website must start with https://")
)

// CustomCompaniesSource supplies user-added companies, listed ahead of the seed directory.
type CustomCompaniesSource interface {
	CustomCompanies(ctx context.Context) ([]entity.Company, error)
}

// CompaniesService exposes read operations over the company directory.
type CompaniesService struct {
	repo   repository.CompaniesRepository
	custom CustomCompaniesSource
}

// CSVValidationError indicates that the provided CSV payload is invalid.
type CSVValidationError struct {
	Message string
}

// Error implements the error interface.
func (e CSVValidationError) Error() string {
	return e.Message
}

// ImportSummary reports how many CSV rows became companies.
type ImportSummary struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Total    int `json:"total"`
}

// NewCompaniesService creates a new instance of CompaniesService. custom may be nil.
func NewCompaniesService(repo repository.CompaniesRepository, custom CustomCompaniesSource) *CompaniesService {
	return &CompaniesService{repo: repo, custom: custom}
}

// ListCompanies filters the directory and returns the requested page. Pages past the end
// are clamped to the last page.
func (s *CompaniesService) ListCompanies(ctx context.Context, filter dto.ListFilter) (dto.CompanyPage, error) {
	if filter.PerPage <= 0 {
		filter.PerPage = defaultPerPage
	}
	if filter.PerPage > maxPerPage {
		filter.PerPage = maxPerPage
	}

	all, err := s.all(ctx)
	if err != nil {
		return dto.CompanyPage{}, err
	}

	matched := make([]entity.Company, 0, len(all))
	for _, c := range all {
		if matchesFilter(c, filter) {
			matched = append(matched, c)
		}
	}

	totalPages := (len(matched) + filter.PerPage - 1) / filter.PerPage
	if totalPages < 1 {
		totalPages = 1
	}
	page := min(max(filter.Page, 1), totalPages)
	start := min((page-1)*filter.PerPage, len(matched))
	end := min(start+filter.PerPage, len(matched))

	return dto.CompanyPage{
		Items:      matched[start:end],
		Total:      len(matched),
		Page:       page,
		PerPage:    filter.PerPage,
		TotalPages: totalPages,
	}, nil
}

// GetCompany looks up a company by id, custom entries first.
func (s *CompaniesService) GetCompany(ctx context.Context, id string) (*entity.Company, error) {
	custom, err := s.customCompanies(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range custom {
		if c.ID == id {
			return &c, nil
		}
	}
	return s.repo.Get(ctx, id)
}

// Facets returns the distinct industries and stages in first-seen order, each led by "All".
func (s *CompaniesService) Facets(ctx context.Context) (industries, stages []string, err error) {
	all, err := s.all(ctx)
	if err != nil {
		return nil, nil, err
	}
	industries = distinct(all, func(c entity.Company) string { return c.Industry })
	stages = distinct(all, func(c entity.Company) string { return c.Stage })
	return industries, stages, nil
}

// NewCustomCompany validates user input and applies directory defaults.
func NewCustomCompany(req dto.AddCompanyRequest) (entity.Company, error) {
	name := strings.TrimSpace(req.Name)
	website := strings.TrimSpace(req.Website)
	if name == "" {
		return entity.Company{}, ErrNameRequired
	}
	if !strings.HasPrefix(website, "http://") && !strings.HasPrefix(website, "https://") {
		return entity.Company{}, ErrWebsiteScheme
	}

	return entity.Company{
		ID:          entity.NewCompanyID(name),
		Name:        name,
		Website:     website,
		Industry:    valueOr(req.Industry, defaultIndustry),
		Stage:       valueOr(req.Stage, defaultStage),
		Location:    valueOr(req.Location, defaultLocation),
		Description: valueOr(req.Description, defaultDescription),
	}, nil
}

// ImportCompaniesCSV reads custom companies from a CSV reader. Rows without a name and
// website are skipped; a website without an http(s) scheme fails the import.
func ImportCompaniesCSV(r io.Reader) ([]entity.Company, ImportSummary, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ImportSummary{}, CSVValidationError{Message: "csv file is empty"}
		}
		return nil, ImportSummary{}, fmt.Errorf("read csv header: %w", err)
	}

	indexMap, valErr := buildHeaderIndex(header)
	if valErr != nil {
		return nil, ImportSummary{}, valErr
	}

	var (
		companies = make([]entity.Company, 0)
		summary   ImportSummary
		rowNum    = 1
	)

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, ImportSummary{}, fmt.Errorf("read csv row: %w", err)
		}

		rowNum++
		summary.Total++

		req := dto.AddCompanyRequest{
			Name:        column(row, indexMap, "name"),
			Website:     column(row, indexMap, "website"),
			Industry:    column(row, indexMap, "industry"),
			Stage:       column(row, indexMap, "stage"),
			Location:    column(row, indexMap, "location"),
			Description: column(row, indexMap, "description"),
		}
		if req.Name == "" || req.Website == "" {
			summary.Skipped++
			continue
		}

		company, err := NewCustomCompany(req)
		if err != nil {
			return nil, ImportSummary{}, CSVValidationError{Message: fmt.Sprintf("invalid website value on row %d", rowNum)}
		}
		companies = append(companies, company)
		summary.Imported++
	}

	return companies, summary, nil
}

func (s *CompaniesService) all(ctx context.Context) ([]entity.Company, error) {
	custom, err := s.customCompanies(ctx)
	if err != nil {
		return nil, err
	}
	seed, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return append(custom, seed...), nil
}

func (s *CompaniesService) customCompanies(ctx context.Context) ([]entity.Company, error) {
	if s.custom == nil {
		return nil, nil
	}
	custom, err := s.custom.CustomCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("load custom companies: %w", err)
	}
	return custom, nil
}

func matchesFilter(c entity.Company, filter dto.ListFilter) bool {
	if query := strings.ToLower(strings.TrimSpace(filter.Q)); query != "" {
		if !strings.Contains(strings.ToLower(c.Name), query) &&
			!strings.Contains(strings.ToLower(c.Website), query) &&
			!strings.Contains(strings.ToLower(c.Description), query) {
			return false
		}
	}
	if filter.Industry != "" && filter.Industry != dto.FilterAll && c.Industry != filter.Industry {
		return false
	}
	if filter.Stage != "" && filter.Stage != dto.FilterAll && c.Stage != filter.Stage {
		return false
	}
	return true
}

func distinct(companies []entity.Company, field func(entity.Company) string) []string {
	seen := make(map[string]struct{})
	out := []string{dto.FilterAll}
	for _, c := range companies {
		v := field(c)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

var requiredCSVHeaders = []string{"name", "website"}

func buildHeaderIndex(header []string) (map[string]int, error) {
	index := make(map[string]int)
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}

	missing := make([]string, 0)
	for _, required := range requiredCSVHeaders {
		if _, ok := index[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, CSVValidationError{Message: fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", "))}
	}
	return index, nil
}

func column(row []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func valueOr(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
