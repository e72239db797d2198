package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/octobees/vc-scout/internal/entity"
	"github.com/octobees/vc-scout/internal/repository"
)

// ListExport is the JSON form of an exported list. Ids that no longer resolve are reported
// separately instead of failing the export.
type ListExport struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	CompanyIDs        []string         `json:"companyIds"`
	Companies         []entity.Company `json:"companies"`
	ExportedAt        string           `json:"exportedAt"`
	MissingCompanyIDs []string         `json:"missingCompanyIds"`
}

var exportCSVHeader = []string{"id", "name", "website", "industry", "stage", "location"}

// ResolveList looks up every company id of a list in the directory.
func (s *CompaniesService) ResolveList(ctx context.Context, id, name string, companyIDs []string, now time.Time) (ListExport, error) {
	out := ListExport{
		ID:                id,
		Name:              name,
		CompanyIDs:        companyIDs,
		Companies:         make([]entity.Company, 0, len(companyIDs)),
		ExportedAt:        now.UTC().Format(entity.ScrapedAtLayout),
		MissingCompanyIDs: make([]string, 0),
	}
	for _, cid := range companyIDs {
		c, err := s.GetCompany(ctx, cid)
		if errors.Is(err, repository.ErrCompanyNotFound) {
			out.MissingCompanyIDs = append(out.MissingCompanyIDs, cid)
			continue
		}
		if err != nil {
			return ListExport{}, err
		}
		out.Companies = append(out.Companies, *c)
	}
	return out, nil
}

// WriteJSON writes the export as indented JSON.
func (e ListExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e); err != nil {
		return fmt.Errorf("encode list export: %w", err)
	}
	return nil
}

// WriteCSV writes one row per resolved company.
func (e ListExport) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportCSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, c := range e.Companies {
		if err := cw.Write([]string{c.ID, c.Name, c.Website, c.Industry, c.Stage, c.Location}); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
