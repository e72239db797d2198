package repository

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/octobees/vc-scout/internal/entity"
)

//go:embed seed/companies.yaml
var defaultSeed []byte

// ErrCompanyNotFound indicates no company matched the requested id.
var ErrCompanyNotFound = errors.New("company not found")

// CompaniesRepository describes read access to the company directory.
type CompaniesRepository interface {
	List(ctx context.Context) ([]entity.Company, error)
	Get(ctx context.Context, id string) (*entity.Company, error)
}

// SeedCompaniesRepository serves a fixed, read-only list of companies.
type SeedCompaniesRepository struct {
	companies []entity.Company
	byID      map[string]int
}

// NewSeedCompaniesRepository loads the directory from path, or the built-in seed when path is empty.
func NewSeedCompaniesRepository(path string) (*SeedCompaniesRepository, error) {
	data := defaultSeed
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		data = raw
	}
	return ParseSeed(data)
}

// ParseSeed decodes a YAML list of companies. Entries without a name or website are rejected;
// missing ids are derived from the name.
func ParseSeed(data []byte) (*SeedCompaniesRepository, error) {
	var companies []entity.Company
	if err := yaml.Unmarshal(data, &companies); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	repo := &SeedCompaniesRepository{
		companies: make([]entity.Company, 0, len(companies)),
		byID:      make(map[string]int, len(companies)),
	}
	for i, c := range companies {
		c.Name = strings.TrimSpace(c.Name)
		c.Website = strings.TrimSpace(c.Website)
		if c.Name == "" || c.Website == "" {
			return nil, fmt.Errorf("seed entry %d: name and website are required", i+1)
		}
		if c.ID == "" {
			c.ID = entity.NewCompanyID(c.Name)
		}
		if _, dup := repo.byID[c.ID]; dup {
			return nil, fmt.Errorf("seed entry %d: duplicate id %q", i+1, c.ID)
		}
		repo.byID[c.ID] = len(repo.companies)
		repo.companies = append(repo.companies, c)
	}
	return repo, nil
}

// List returns a copy of every seed company in file order.
func (r *SeedCompaniesRepository) List(ctx context.Context) ([]entity.Company, error) {
	out := make([]entity.Company, len(r.companies))
	copy(out, r.companies)
	return out, nil
}

// Get returns the company with the given id.
func (r *SeedCompaniesRepository) Get(ctx context.Context, id string) (*entity.Company, error) {
	idx, ok := r.byID[id]
	if !ok {
		return nil, ErrCompanyNotFound
	}
	c := r.companies[idx]
	return &c, nil
}

var _ CompaniesRepository = (*SeedCompaniesRepository)(nil)
