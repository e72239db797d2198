// Package gemini talks to the hosted generative language API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "models/gemini-2.5-flash"

// ErrEmptyResponse is returned when the model produced no candidate text.
var ErrEmptyResponse = errors.New("model returned no candidates")

// Config holds connection settings for the model API.
type Config struct {
	APIKey   string
	Model    string
	Endpoint string
	Timeout  time.Duration
}

// ModelInfo describes a model available to the configured key.
type ModelInfo struct {
	Name                       string   `json:"name"`
	DisplayName                string   `json:"displayName,omitempty"`
	Description                string   `json:"description,omitempty"`
	InputTokenLimit            int64    `json:"inputTokenLimit,omitempty"`
	OutputTokenLimit           int64    `json:"outputTokenLimit,omitempty"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods,omitempty"`
}

// Client generates content with a single configured model.
type Client struct {
	genai   *genai.Client
	model   string
	timeout time.Duration
}

// New builds a client for the Gemini API backend authenticated with cfg.APIKey.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("api key must not be empty")
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Endpoint != "" {
		cc.HTTPOptions.BaseURL = cfg.Endpoint
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Client{genai: client, model: ModelName(cfg.Model), timeout: cfg.Timeout}, nil
}

// ModelName returns the resource name for model, adding the "models/" prefix when missing.
func ModelName(model string) string {
	model = strings.TrimSpace(model)
	if model == "" {
		return DefaultModel
	}
	if !strings.HasPrefix(model, "models/") {
		return "models/" + model
	}
	return model
}

// Model reports the resource name used for generation.
func (c *Client) Model() string {
	return c.model
}

// GenerateText sends prompt as a single user turn and joins the text parts of the first candidate.
// Thought parts are skipped.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}

// ListModels returns every base model visible to the configured key, following pagination.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	models := make([]ModelInfo, 0)
	for m, err := range c.genai.Models.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list models: %w", err)
		}
		if m == nil {
			continue
		}
		models = append(models, ModelInfo{
			Name:                       m.Name,
			DisplayName:                m.DisplayName,
			Description:                m.Description,
			InputTokenLimit:            int64(m.InputTokenLimit),
			OutputTokenLimit:           int64(m.OutputTokenLimit),
			SupportedGenerationMethods: m.SupportedActions,
		})
	}
	return models, nil
}
