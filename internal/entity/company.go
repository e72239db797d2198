package entity

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	schemePattern  = regexp.MustCompile(`https?://`)
	nonSlugPattern = regexp.MustCompile(`[^a-z0-9]+`)
)

// Company represents a business listed in the discovery directory.
type Company struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Website     string `json:"website" yaml:"website"`
	Industry    string `json:"industry" yaml:"industry"`
	Stage       string `json:"stage" yaml:"stage"`
	Location    string `json:"location" yaml:"location"`
	Description string `json:"description" yaml:"description"`
}

// Slugify derives a company identifier from its display name.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = schemePattern.ReplaceAllString(slug, "")
	slug = nonSlugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// NewCompanyID returns the slug for name, or a random UUID when the name has no usable characters.
func NewCompanyID(name string) string {
	if slug := Slugify(name); slug != "" {
		return slug
	}
	return uuid.NewString()
}
