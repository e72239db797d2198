package entity

import "time"

// ScrapedAtLayout renders fetch timestamps as ISO-8601 UTC with millisecond precision.
const ScrapedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// Source records the page an enrichment was derived from.
type Source struct {
	URL       string `json:"url"`
	ScrapedAt string `json:"scrapedAt"`
}

// NewSource stamps url with the given fetch time in UTC.
func NewSource(url string, scrapedAt time.Time) Source {
	return Source{URL: url, ScrapedAt: scrapedAt.UTC().Format(ScrapedAtLayout)}
}

// EnrichmentResult is the structured summary returned for a company website.
type EnrichmentResult struct {
	Summary        string   `json:"summary"`
	WhatTheyDo     []string `json:"whatTheyDo"`
	Keywords       []string `json:"keywords"`
	DerivedSignals []string `json:"derivedSignals"`
	Sources        []Source `json:"sources"`
}

// EnrichmentCache is a cached enrichment result keyed by company on the caller side.
type EnrichmentCache struct {
	Result   EnrichmentResult `json:"result"`
	CachedAt string           `json:"cachedAt"`
}
