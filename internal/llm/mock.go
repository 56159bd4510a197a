package llm

import (
	"context"
	"iter"
	"strings"

	"github.com/ashureev/ikigai/internal/prompt"
)

// MockGenerator returns a canned summary without calling a provider.
// It is meant for local development of the client.
type MockGenerator struct{}

// Name implements Generator.
func (MockGenerator) Name() string { return "mock" }

// Stream implements Generator.
func (MockGenerator) Stream(ctx context.Context, p prompt.Prompt) iter.Seq2[string, error] {
	chunks := []string{
		"<h3>Síntesis de tu Ikigai</h3>",
		"<p>Este es un resumen de ejemplo generado localmente.</p>",
		"<h3>Puntos Clave de Conexión</h3><ul>",
		"<li>" + firstLine(p.User) + "</li></ul>",
		"<h3>Tu Ikigai Potencial</h3><p><strong>Sigue explorando.</strong></p>",
	}
	return func(yield func(string, error) bool) {
		for _, c := range chunks {
			if err := ctx.Err(); err != nil {
				yield("", err)
				return
			}
			if !yield(c, nil) {
				return
			}
		}
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
