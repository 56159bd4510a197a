package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"

	"github.com/ashureev/ikigai/internal/domain"
	"github.com/ashureev/ikigai/internal/identity"
	"github.com/ashureev/ikigai/internal/metrics"
	"github.com/ashureev/ikigai/internal/stream"
)

const wsRequestTimeout = 10 * time.Second

// HandleGenerateWS handles GET /ws/generate. The first client message is
// the answer record; the server replies with chunk frames followed by
// exactly one done or error frame.
func (h *Handler) HandleGenerateWS(w http.ResponseWriter, r *http.Request) {
	if !h.allow(r.Context()) {
		Error(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.opts.AllowedOrigins,
	})
	if err != nil {
		slog.Warn("WebSocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(h.opts.MaxRequestBodyBytes)

	readCtx, cancel := context.WithTimeout(r.Context(), wsRequestTimeout)
	var rec domain.AnswerRecord
	err = wsjson.Read(readCtx, conn, &rec)
	cancel()
	if err != nil {
		slog.Warn("Invalid WebSocket generate request", "error", err)
		conn.Close(websocket.StatusPolicyViolation, "invalid request body")
		return
	}

	// Nothing more is expected from the client; CloseRead keeps control
	// frames flowing and cancels ctx when the peer goes away.
	ctx := conn.CloseRead(r.Context())

	genID := uuid.NewString()
	logger := slog.With("generation_id", genID, "user_id", identity.UserIDFromContext(r.Context()), "transport", "ws")
	finish := h.metrics.StreamStarted(h.summaries.Provider(), "ws")
	start := time.Now()

	chunks, written := 0, 0
	for chunk, err := range h.summaries.Stream(ctx, rec) {
		if err != nil {
			if ctx.Err() != nil {
				logger.Warn("Client went away during summary stream", "error", err)
				finish(metrics.StatusAborted, chunks, written)
				return
			}
			status := metrics.StatusFailedStream
			if chunks == 0 {
				status = metrics.StatusFailedEarly
			}
			logger.Error("Summary generation failed", "chunks", chunks, "error", err)
			finish(status, chunks, written)
			_ = wsjson.Write(ctx, conn, stream.Frame{Type: stream.FrameError, Error: FailureMessage})
			conn.Close(websocket.StatusNormalClosure, "")
			return
		}
		if chunk == "" {
			continue
		}
		if chunks == 0 {
			h.metrics.FirstChunk(time.Since(start))
		}
		if err := wsjson.Write(ctx, conn, stream.Frame{Type: stream.FrameChunk, Content: chunk}); err != nil {
			logger.Warn("Failed to write chunk frame", "error", err)
			finish(metrics.StatusAborted, chunks, written)
			return
		}
		chunks++
		written += len(chunk)
	}

	if err := wsjson.Write(ctx, conn, stream.Frame{Type: stream.FrameDone}); err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("Failed to write done frame", "error", err)
	}
	finish(metrics.StatusComplete, chunks, written)
	logger.Info("Summary generated", "chunks", chunks, "bytes", written, "duration", time.Since(start))
	conn.Close(websocket.StatusNormalClosure, "")
}
