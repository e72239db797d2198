package dto

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/octobees/vc-scout/internal/entity"
)

// FilterAll disables the industry or stage filter.
const FilterAll = "All"

// ListFilter contains query parameters for company listing endpoints.
type ListFilter struct {
	Q        string
	Industry string
	Stage    string
	Page     int
	PerPage  int
}

// QueryString encodes the active filters as a URL query, leading "?" included.
// Defaults are omitted so an unfiltered first page encodes to "".
func (f ListFilter) QueryString() string {
	params := url.Values{}
	if q := strings.TrimSpace(f.Q); q != "" {
		params.Set("q", q)
	}
	if f.Industry != "" && f.Industry != FilterAll {
		params.Set("industry", f.Industry)
	}
	if f.Stage != "" && f.Stage != FilterAll {
		params.Set("stage", f.Stage)
	}
	if f.Page > 1 {
		params.Set("page", strconv.Itoa(f.Page))
	}
	if qs := params.Encode(); qs != "" {
		return "?" + qs
	}
	return ""
}

// ParseListFilter reverses QueryString. Unknown keys are ignored.
func ParseListFilter(queryString string) ListFilter {
	values, err := url.ParseQuery(strings.TrimPrefix(strings.TrimSpace(queryString), "?"))
	if err != nil {
		return ListFilter{Page: 1}
	}
	page, err := strconv.Atoi(values.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	return ListFilter{
		Q:        values.Get("q"),
		Industry: values.Get("industry"),
		Stage:    values.Get("stage"),
		Page:     page,
	}
}

// CompanyPage is one page of a filtered company listing.
type CompanyPage struct {
	Items      []entity.Company `json:"items"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PerPage    int              `json:"per_page"`
	TotalPages int              `json:"total_pages"`
}

// AddCompanyRequest carries user input for a custom directory entry.
type AddCompanyRequest struct {
	Name        string `json:"name"`
	Website     string `json:"website"`
	Industry    string `json:"industry"`
	Stage       string `json:"stage"`
	Location    string `json:"location"`
	Description string `json:"description"`
}
