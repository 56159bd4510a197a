// Package llm streams text from large language model providers.
package llm

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/ashureev/ikigai/internal/prompt"
)

// ErrProvider wraps every failure reported by a model provider.
var ErrProvider = errors.New("llm provider error")

// Generator streams generated text for a prompt.
// The returned sequence yields text fragments in arrival order and ends
// after the first error.
type Generator interface {
	Stream(ctx context.Context, p prompt.Prompt) iter.Seq2[string, error]
	Name() string
}

// Params are the sampling settings shared by all providers.
type Params struct {
	Temperature float32
	TopP        float32
	TopK        float32
}

// DefaultParams returns the sampling settings the summary was tuned with.
func DefaultParams() Params {
	return Params{
		Temperature: 0.7,
		TopP:        1,
		TopK:        32,
	}
}

// Settings configure a provider.
type Settings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	Params   Params
}

// String omits the API key so settings can be logged.
func (s Settings) String() string {
	return fmt.Sprintf("provider=%s model=%s base_url=%s", s.Provider, s.Model, s.BaseURL)
}

// Provider names accepted by New.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderMock   = "mock"
)

// New builds the generator named by s.Provider.
func New(ctx context.Context, s Settings) (Generator, error) {
	switch s.Provider {
	case ProviderGemini, "":
		return NewGemini(ctx, s)
	case ProviderOpenAI:
		return NewOpenAI(s)
	case ProviderMock:
		return MockGenerator{}, nil
	default:
		return nil, fmt.Errorf("llm provider %q not supported", s.Provider)
	}
}

func providerError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrProvider, fmt.Sprintf(format, args...))
}
