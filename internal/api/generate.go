package api

import (
	"encoding/json"
	"errors"
	"iter"
	"log/slog"
	"net/http"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/ashureev/ikigai/internal/domain"
	"github.com/ashureev/ikigai/internal/identity"
	"github.com/ashureev/ikigai/internal/metrics"
	"github.com/ashureev/ikigai/internal/stream"
)

// GenerationIDHeader carries the id used to correlate server logs with a client report.
const GenerationIDHeader = "X-Ikigai-Generation-ID"

// HandleGenerate handles POST /api/generate: it streams the summary as
// plain UTF-8 text and reports how the stream ended in a trailer.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if !h.allow(r.Context()) {
		Error(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxRequestBodyBytes)
	var rec domain.AnswerRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			Error(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		Error(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	genID := uuid.NewString()
	logger := slog.With(
		"generation_id", genID,
		"request_id", chiMiddleware.GetReqID(r.Context()),
		"user_id", identity.UserIDFromContext(r.Context()),
	)
	provider := h.summaries.Provider()
	finish := h.metrics.StreamStarted(provider, "http")
	start := time.Now()

	next, stop := iter.Pull2(h.summaries.Stream(r.Context(), rec))
	defer stop()

	first, err, more := firstChunk(next)
	if err != nil {
		logger.Error("Summary generation failed", "provider", provider, "error", err)
		finish(metrics.StatusFailedEarly, 0, 0)
		Error(w, http.StatusInternalServerError, FailureMessage)
		return
	}
	if more {
		h.metrics.FirstChunk(time.Since(start))
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set(GenerationIDHeader, genID)
	w.Header().Set("Trailer", stream.StatusTrailer+", "+stream.ErrorTrailer)
	w.WriteHeader(http.StatusOK)

	chunks, written := 0, 0
	for chunk, err := first, error(nil); more; chunk, err, more = next() {
		if err != nil && r.Context().Err() != nil {
			logger.Warn("Client went away during summary stream", "chunks", chunks, "error", err)
			finish(metrics.StatusAborted, chunks, written)
			return
		}
		if err != nil {
			logger.Error("Summary stream interrupted", "chunks", chunks, "bytes", written, "error", err)
			w.Header().Set(stream.StatusTrailer, stream.StatusError)
			w.Header().Set(stream.ErrorTrailer, FailureMessage)
			finish(metrics.StatusFailedStream, chunks, written)
			return
		}
		if chunk == "" {
			continue
		}
		n, writeErr := w.Write([]byte(chunk))
		written += n
		if writeErr != nil {
			logger.Warn("Client went away during summary stream", "error", writeErr)
			finish(metrics.StatusAborted, chunks, written)
			return
		}
		chunks++
		flusher.Flush()
	}

	w.Header().Set(stream.StatusTrailer, stream.StatusComplete)
	finish(metrics.StatusComplete, chunks, written)
	logger.Info("Summary generated", "provider", provider, "chunks", chunks, "bytes", written, "duration", time.Since(start))
}

// firstChunk pulls until the first non-empty chunk, an error, or the end.
// more is false when the sequence ended without output.
func firstChunk(next func() (string, error, bool)) (chunk string, err error, more bool) {
	for {
		chunk, err, more = next()
		if !more || err != nil || chunk != "" {
			return chunk, err, more
		}
	}
}
