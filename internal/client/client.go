// Package client calls a running vc-scout server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/octobees/vc-scout/internal/dto"
	"github.com/octobees/vc-scout/internal/entity"
	"github.com/octobees/vc-scout/internal/gemini"
)

const maxErrorBody = 4 << 10

// StatusError carries a non-2xx server response.
type StatusError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Body)
}

// EnrichResponse is a decoded POST /enrich reply.
type EnrichResponse struct {
	Result   entity.EnrichmentResult
	Degraded bool
}

// EnrichClient talks to the enrichment endpoints of a vc-scout server.
type EnrichClient struct {
	client  *http.Client
	baseURL string
}

// NewEnrichClient builds a client for baseURL. A nil client gets a default with a timeout
// long enough for a fetch plus a model call.
func NewEnrichClient(client *http.Client, baseURL string) *EnrichClient {
	if client == nil {
		client = &http.Client{Timeout: 90 * time.Second}
	}
	return &EnrichClient{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// Enrich posts {companyId, website} to /enrich.
func (c *EnrichClient) Enrich(ctx context.Context, companyID, website, requestID string) (*EnrichResponse, error) {
	body, err := json.Marshal(dto.EnrichRequest{CompanyID: companyID, Website: website})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/enrich", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create enrich request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("enrich request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, statusError(resp)
	}

	var out EnrichResponse
	if err := json.NewDecoder(resp.Body).Decode(&out.Result); err != nil {
		return nil, fmt.Errorf("could not decode enrich response: %w", err)
	}
	out.Degraded = resp.Header.Get("X-Enrichment-Degraded") == "true"
	return &out, nil
}

// ListModels fetches GET /models.
func (c *EnrichClient) ListModels(ctx context.Context) ([]gemini.ModelInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create models request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("models request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, statusError(resp)
	}

	var envelope struct {
		Status  string             `json:"status"`
		Message string             `json:"message"`
		Data    []gemini.ModelInfo `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil && err != io.EOF {
		return nil, fmt.Errorf("could not decode models response: %w", err)
	}
	return envelope.Data, nil
}

// statusError reads the error body. Envelope replies contribute their message; plain text is used as is.
func statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	text := strings.TrimSpace(string(raw))

	var envelope struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &envelope) == nil && envelope.Message != "" {
		text = envelope.Message
	}
	return &StatusError{StatusCode: resp.StatusCode, Body: text}
}
