// Package ai provides the Gemini-backed implementations of the Embedder
// and TextGenerator collaborators. Calls are blocking network requests with
// no internal retry; transient-failure policy belongs to the host.
package ai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Config for the Gemini client.
type Config struct {
	APIKey         string
	GenerateModel  string // e.g. "gemini-1.5-flash"
	EmbeddingModel string // e.g. "text-embedding-004"
}

// Client wraps one genai client for both generation and embedding.
type Client struct {
	cfg    Config
	client *genai.Client
	logger *slog.Logger
}

func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing GOOGLE_API_KEY for gemini client")
	}
	if cfg.GenerateModel == "" {
		cfg.GenerateModel = "gemini-1.5-flash"
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = "text-embedding-004"
	}
	if logger == nil {
		logger = slog.Default()
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{cfg: cfg, client: client, logger: logger}, nil
}

func (c *Client) Close() error { return c.client.Close() }

// Generate sends prompt to the generation model and returns the full text
// of the first candidate.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.cfg.GenerateModel)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini generate: empty response")
	}
	var out string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out += string(text)
		}
	}
	if out == "" {
		return "", fmt.Errorf("gemini generate: no text parts in response")
	}
	return out, nil
}

// Embed returns the embedding vector for text. The model fixes the
// dimension for the lifetime of a deployment.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	model := c.client.EmbeddingModel(c.cfg.EmbeddingModel)
	resp, err := model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("gemini embed: no embedding returned")
	}
	return resp.Embedding.Values, nil
}
