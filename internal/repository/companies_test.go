package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewSeedCompaniesRepository_Embedded(t *testing.T) {
	repo, err := NewSeedCompaniesRepository("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	companies, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(companies) < 10 {
		t.Fatalf("expected a populated seed, got %d companies", len(companies))
	}
	for _, c := range companies {
		if c.ID == "" || c.Name == "" || c.Website == "" {
			t.Fatalf("seed entry missing required fields: %+v", c)
		}
	}

	got, err := repo.Get(context.Background(), companies[0].ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != companies[0].Name {
		t.Fatalf("expected %s, got %s", companies[0].Name, got.Name)
	}
}

func TestNewSeedCompaniesRepository_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	data := "- name: Acme Robotics\n  website: https://acme.example\n  industry: Robotics\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	repo, err := NewSeedCompaniesRepository(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, err := repo.Get(context.Background(), "acme-robotics")
	if err != nil {
		t.Fatalf("expected derived id lookup to succeed: %v", err)
	}
	if c.Industry != "Robotics" {
		t.Fatalf("unexpected industry: %s", c.Industry)
	}

	if _, err := NewSeedCompaniesRepository(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestParseSeed_Errors(t *testing.T) {
	tests := map[string]string{
		"invalid yaml":    "- name: [",
		"missing website": "- name: Acme\n",
		"duplicate id":    "- id: a\n  name: A\n  website: https://a.example\n- id: a\n  name: B\n  website: https://b.example\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseSeed([]byte(data)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestSeedCompaniesRepository_GetMissing(t *testing.T) {
	repo, err := ParseSeed([]byte("- name: A\n  website: https://a.example\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := repo.Get(context.Background(), "nope"); !errors.Is(err, ErrCompanyNotFound) {
		t.Fatalf("expected ErrCompanyNotFound, got %v", err)
	}

	// List returns a copy
	list, _ := repo.List(context.Background())
	list[0].Name = "mutated"
	again, _ := repo.List(context.Background())
	if again[0].Name != "A" {
		t.Fatalf("expected repository contents to be immutable")
	}
}
