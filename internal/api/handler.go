// Package api provides HTTP handlers for the Ikigai summary server.
package api

import (
	"context"
	"encoding/json"
	"iter"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ashureev/ikigai/internal/content"
	"github.com/ashureev/ikigai/internal/domain"
	"github.com/ashureev/ikigai/internal/identity"
	"github.com/ashureev/ikigai/internal/metrics"
	"github.com/ashureev/ikigai/internal/ratelimit"
)

// FailureMessage is returned when the provider fails before any output.
const FailureMessage = "Failed to get summary from AI service."

// DefaultMaxRequestBodyBytes bounds the answer payload.
const DefaultMaxRequestBodyBytes = 64 << 10

// Summarizer streams a summary for an answer record.
type Summarizer interface {
	Stream(ctx context.Context, rec domain.AnswerRecord) iter.Seq2[string, error]
	Provider() string
}

// Options tunes a Handler.
type Options struct {
	MaxRequestBodyBytes int64
	AllowedOrigins      []string
}

// Handler serves the summary endpoints.
type Handler struct {
	summaries Summarizer
	limiter   ratelimit.Limiter
	metrics   *metrics.Metrics
	content   *content.Content
	opts      Options
}

// NewHandler creates a Handler. limiter may be nil to disable throttling.
func NewHandler(summaries Summarizer, limiter ratelimit.Limiter, m *metrics.Metrics, c *content.Content, opts Options) *Handler {
	if opts.MaxRequestBodyBytes <= 0 {
		opts.MaxRequestBodyBytes = DefaultMaxRequestBodyBytes
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if m == nil {
		m = metrics.New()
	}
	if c == nil {
		c = content.Default()
	}
	return &Handler{summaries: summaries, limiter: limiter, metrics: m, content: c, opts: opts}
}

// RegisterRoutes mounts the API on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/generate", h.HandleGenerate)
	r.Get("/api/content", h.HandleContent)
	r.Get("/api/health", h.HandleHealth)
	r.Get("/ws/generate", h.HandleGenerateWS)
}

// allow applies the per-client rate limit. Limiter failures let the
// request through so a Redis outage does not take the service down.
func (h *Handler) allow(ctx context.Context) bool {
	if h.limiter == nil {
		return true
	}
	key := identity.ClientKey(ctx)
	ok, err := h.limiter.Allow(ctx, key)
	if err != nil {
		slog.Warn("Rate limiter unavailable, allowing request", "client", key, "error", err)
		return true
	}
	if !ok {
		h.metrics.RateLimited()
		slog.Info("Generation rate limited", "client", key)
	}
	return ok
}

// HandleContent serves the wizard copy (section texts, quotes, messages).
func (h *Handler) HandleContent(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.content)
}

// HandleHealth reports liveness and the configured provider.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"provider": h.summaries.Provider(),
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
