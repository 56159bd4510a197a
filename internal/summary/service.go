// Package summary produces streamed Ikigai summaries from answer records.
package summary

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"github.com/ashureev/ikigai/internal/domain"
	"github.com/ashureev/ikigai/internal/llm"
	"github.com/ashureev/ikigai/internal/prompt"
)

// Service turns an AnswerRecord into a streamed HTML summary.
type Service struct {
	generator llm.Generator
	timeout   time.Duration
}

// NewService creates a summary service. A zero timeout leaves the stream
// bounded only by the caller's context.
func NewService(generator llm.Generator, timeout time.Duration) *Service {
	return &Service{generator: generator, timeout: timeout}
}

// Provider names the underlying model provider.
func (s *Service) Provider() string {
	return s.generator.Name()
}

// Stream builds the prompt for rec and forwards provider output unchanged.
func (s *Service) Stream(ctx context.Context, rec domain.AnswerRecord) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		sctx := ctx
		if s.timeout > 0 {
			var cancel context.CancelFunc
			sctx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}

		p := prompt.Build(rec)
		slog.Debug("Summary prompt built",
			"provider", s.generator.Name(),
			"system_length", len(p.System),
			"prompt_length", len(p.User),
		)

		for chunk, err := range s.generator.Stream(sctx, p) {
			if !yield(chunk, err) || err != nil {
				return
			}
		}
	}
}
