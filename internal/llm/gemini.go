package llm

import (
	"context"
	"fmt"
	"iter"

	"github.com/ashureev/ikigai/internal/prompt"
	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiGenerator streams from the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
	params Params
}

// NewGemini creates a Gemini-backed generator.
func NewGemini(ctx context.Context, s Settings) (*GeminiGenerator, error) {
	if s.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	model := s.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	cc := &genai.ClientConfig{
		APIKey:  s.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if s.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: s.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiGenerator{client: client, model: model, params: s.Params}, nil
}

// Name returns the provider and model.
func (g *GeminiGenerator) Name() string {
	return "gemini:" + g.model
}

// Stream implements Generator.
func (g *GeminiGenerator) Stream(ctx context.Context, p prompt.Prompt) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		cfg := &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(p.System, genai.RoleUser),
			Temperature:       genai.Ptr(g.params.Temperature),
			TopP:              genai.Ptr(g.params.TopP),
			TopK:              genai.Ptr(g.params.TopK),
		}

		for resp, err := range g.client.Models.GenerateContentStream(ctx, g.model, genai.Text(p.User), cfg) {
			if err != nil {
				yield("", providerError("gemini stream: %v", err))
				return
			}
			text := resp.Text()
			if text == "" {
				continue
			}
			if !yield(text, nil) {
				return
			}
		}
	}
}
