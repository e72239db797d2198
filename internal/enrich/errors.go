package enrich

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingWebsite is returned when the caller did not supply a website.
	ErrMissingWebsite = errors.New("Missing website")
	// ErrInvalidWebsite is returned when the website is not an absolute http(s) URL.
	ErrInvalidWebsite = errors.New("Invalid website")
	// ErrEmptyModelResponse indicates the model answered without any text.
	ErrEmptyModelResponse = errors.New("model returned no text")
)

// ConfigurationError reports a required setting that is absent.
type ConfigurationError struct {
	Setting string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return "Missing " + e.Setting
}

// UpstreamFetchError describes a failed page fetch. StatusCode is zero when no response was received.
type UpstreamFetchError struct {
	URL        string
	StatusCode int
	Cause      error
}

// Error implements the error interface.
func (e *UpstreamFetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("Failed to fetch website: %d", e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("Failed to fetch website: %v", e.Cause)
	}
	return "Failed to fetch website"
}

func (e *UpstreamFetchError) Unwrap() error {
	return e.Cause
}

// ModelOutputError wraps a model response that could not be used. It never leaves the package
// as a returned error; the pipeline recovers from it with the fallback payload.
type ModelOutputError struct {
	Raw   string
	Cause error
}

// Error implements the error interface.
func (e *ModelOutputError) Error() string {
	return fmt.Sprintf("unusable model output: %v", e.Cause)
}

func (e *ModelOutputError) Unwrap() error {
	return e.Cause
}
