package llm

import (
	"context"
	"errors"
	"io"
	"iter"

	"github.com/ashureev/ikigai/internal/prompt"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIGenerator streams from any OpenAI-compatible chat completion API.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
	params Params
}

// NewOpenAI creates an OpenAI-compatible generator. BaseURL selects gateways
// such as OpenRouter or DeepSeek.
func NewOpenAI(s Settings) (*OpenAIGenerator, error) {
	if s.APIKey == "" {
		return nil, errors.New("openai api key missing; provide API_KEY")
	}
	if s.Model == "" {
		return nil, errors.New("llm model is required")
	}

	cfg := openai.DefaultConfig(s.APIKey)
	if s.BaseURL != "" {
		cfg.BaseURL = s.BaseURL
	}

	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(cfg),
		model:  s.Model,
		params: s.Params,
	}, nil
}

// Name returns the provider and model.
func (o *OpenAIGenerator) Name() string {
	return "openai:" + o.model
}

// Stream implements Generator.
func (o *OpenAIGenerator) Stream(ctx context.Context, p prompt.Prompt) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		req := openai.ChatCompletionRequest{
			Model: o.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: p.System},
				{Role: openai.ChatMessageRoleUser, Content: p.User},
			},
			Stream:      true,
			Temperature: o.params.Temperature,
			TopP:        o.params.TopP,
		}

		stream, err := o.client.CreateChatCompletionStream(ctx, req)
		if err != nil {
			yield("", providerError("create stream: %v", err))
			return
		}
		defer func() {
			_ = stream.Close()
		}()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield("", providerError("read stream: %v", err))
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}
			text := resp.Choices[0].Delta.Content
			if text == "" {
				continue
			}
			if !yield(text, nil) {
				return
			}
		}
	}
}

var _ Generator = (*OpenAIGenerator)(nil)
var _ Generator = (*GeminiGenerator)(nil)
