// Package llm implements the external text-generation collaborator on the
// Generative Language API.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Config holds the Gemini invocation parameters, fixed at startup.
type Config struct {
	APIKey          string
	Model           string
	Temperature     float32
	MaxOutputTokens int32
}

// GeminiClient satisfies analyzer.TextGenerator with a single blocking
// GenerateContent call per request.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiClient creates the client and configures the model. The API key
// is required; model parameters are applied once and never mutated.
func NewGeminiClient(ctx context.Context, cfg Config) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required (set GEMINI_API_KEY)")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(cfg.Temperature)
	model.SetMaxOutputTokens(cfg.MaxOutputTokens)
	return &GeminiClient{client: client, model: model}, nil
}

// Generate sends the instruction block and the composed user message as
// one request and returns the concatenated text of the first candidate.
func (g *GeminiClient) Generate(ctx context.Context, system, user string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(system), genai.Text(user))
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini returned no candidates")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String(), nil
}

// Close releases the underlying API client.
func (g *GeminiClient) Close() error { return g.client.Close() }
