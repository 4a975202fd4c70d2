package utils

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ErrEmptyResponse is returned when the model replies without any text.
var ErrEmptyResponse = errors.New("model returned no text")

type AIConfig struct {
	APIKey   string
	Endpoint string
}

// GeminiClient wraps the generative AI SDK for JSON-only prompts.
type GeminiClient struct {
	client *genai.Client
}

func NewGeminiClient(ctx context.Context, cfg AIConfig) (*GeminiClient, error) {
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	c, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GeminiClient{client: c}, nil
}

func (g *GeminiClient) Close() error {
	return g.client.Close()
}

// Generate sends instruction and prompt as two parts of one user turn and
// returns the reply shaped like the REST generateContent body, so callers
// can probe candidates[i].content.parts[0].text.
func (g *GeminiClient) Generate(ctx context.Context, model, instruction, prompt string) (any, error) {
	resp, err := g.generate(ctx, model, genai.Text(instruction), genai.Text(prompt))
	if err != nil {
		return nil, err
	}
	candidates := make([]any, 0, len(resp.Candidates))
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		parts := make([]any, 0, len(c.Content.Parts))
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				parts = append(parts, map[string]any{"text": string(t)})
			}
		}
		candidates = append(candidates, map[string]any{
			"content": map[string]any{"parts": parts},
		})
	}
	if len(candidates) == 0 {
		return nil, ErrEmptyResponse
	}
	return map[string]any{"candidates": candidates}, nil
}

// GenerateText returns the concatenated text of every candidate.
func (g *GeminiClient) GenerateText(ctx context.Context, model string, parts ...genai.Part) (string, error) {
	resp, err := g.generate(ctx, model, parts...)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (g *GeminiClient) generate(ctx context.Context, model string, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	m := g.client.GenerativeModel(model)
	m.ResponseMIMEType = "application/json"
	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, err
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, ErrEmptyResponse
	}
	return resp, nil
}
