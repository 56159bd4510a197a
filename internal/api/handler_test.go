//nolint:revive // "api" package name is intentionally concise for this layer.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"iter"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ashureev/ikigai/internal/domain"
	"github.com/ashureev/ikigai/internal/identity"
	"github.com/ashureev/ikigai/internal/metrics"
)

// fakeSummarizer yields chunks, then failErr if set.
type fakeSummarizer struct {
	chunks  []string
	failErr error

	mu  sync.Mutex
	got []domain.AnswerRecord
}

func (f *fakeSummarizer) Provider() string { return "fake" }

func (f *fakeSummarizer) Stream(ctx context.Context, rec domain.AnswerRecord) iter.Seq2[string, error] {
	f.mu.Lock()
	f.got = append(f.got, rec)
	f.mu.Unlock()
	return func(yield func(string, error) bool) {
		for _, c := range f.chunks {
			if !yield(c, nil) {
				return
			}
		}
		if f.failErr != nil {
			yield("", f.failErr)
		}
	}
}

func (f *fakeSummarizer) requests() []domain.AnswerRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.AnswerRecord(nil), f.got...)
}

// fakeLimiter allows the first n calls.
type fakeLimiter struct {
	n     int
	calls int
	err   error
}

func (l *fakeLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.calls++
	if l.err != nil {
		return false, l.err
	}
	return l.calls <= l.n, nil
}

func (l *fakeLimiter) Close() error { return nil }

func newRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(identity.Middleware(true))
	h.RegisterRoutes(r)
	return r
}

const body = `{"passion":"leer","vocation":"escribir","mission":"ayudar","profession":"enseñar"}`

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]string{"foo": "bar"}

	JSON(w, http.StatusOK, data)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var got map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if got["foo"] != "bar" {
		t.Errorf("Expected foo=bar, got %v", got["foo"])
	}
}

func TestGenerateStreamsPlainText(t *testing.T) {
	sum := &fakeSummarizer{chunks: []string{"<h3>A</h3>", "", "<p>B</p>"}}
	h := NewHandler(sum, nil, metrics.New(), nil, Options{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(body))
	newRouter(h).ServeHTTP(rec, req)

	resp := rec.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Errorf("Unexpected content type %q", ct)
	}
	if rec.Body.String() != "<h3>A</h3><p>B</p>" {
		t.Errorf("Unexpected body %q", rec.Body.String())
	}
	if resp.Header.Get(GenerationIDHeader) == "" {
		t.Error("Expected generation id header")
	}
	if got := resp.Trailer.Get("X-Ikigai-Stream-Status"); got != "complete" {
		t.Errorf("Expected complete trailer, got %q", got)
	}

	want := domain.AnswerRecord{Passion: "leer", Vocation: "escribir", Mission: "ayudar", Profession: "enseñar"}
	if got := sum.requests(); len(got) != 1 || got[0] != want {
		t.Errorf("Unexpected records %+v", got)
	}
}

func TestGenerateFailureBeforeOutput(t *testing.T) {
	sum := &fakeSummarizer{failErr: errors.New("quota exceeded")}
	h := NewHandler(sum, nil, metrics.New(), nil, Options{})

	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(body)))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}
	var got map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode error: %v", err)
	}
	if got["error"] != FailureMessage {
		t.Errorf("Unexpected error %q", got["error"])
	}
	if strings.Contains(rec.Body.String(), "quota") {
		t.Error("Provider details must not leak to the client")
	}
}

func TestGenerateFailureMidStream(t *testing.T) {
	sum := &fakeSummarizer{chunks: []string{"<h3>Síntesis</h3>"}, failErr: errors.New("connection reset")}
	h := NewHandler(sum, nil, metrics.New(), nil, Options{})

	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(body)))

	resp := rec.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 once streaming started, got %d", resp.StatusCode)
	}
	if rec.Body.String() != "<h3>Síntesis</h3>" {
		t.Errorf("Unexpected body %q", rec.Body.String())
	}
	if got := resp.Trailer.Get("X-Ikigai-Stream-Status"); got != "error" {
		t.Errorf("Expected error trailer, got %q", got)
	}
}

func TestGenerateRejectsInvalidJSON(t *testing.T) {
	sum := &fakeSummarizer{}
	h := NewHandler(sum, nil, metrics.New(), nil, Options{})

	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader("{")))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
	if len(sum.requests()) != 0 {
		t.Error("Provider must not be called for invalid input")
	}
}

func TestGenerateRejectsOversizedBody(t *testing.T) {
	h := NewHandler(&fakeSummarizer{}, nil, metrics.New(), nil, Options{MaxRequestBodyBytes: 16})

	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(body)))

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected 413, got %d", rec.Code)
	}
}

func TestGenerateAcceptsBlankFields(t *testing.T) {
	sum := &fakeSummarizer{chunks: []string{"ok"}}
	h := NewHandler(sum, nil, metrics.New(), nil, Options{})

	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(`{}`)))

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
}

func TestGenerateRateLimited(t *testing.T) {
	lim := &fakeLimiter{n: 1}
	h := NewHandler(&fakeSummarizer{chunks: []string{"x"}}, lim, metrics.New(), nil, Options{})
	router := newRouter(h)

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(body)))
	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(body)))

	if first.Code != http.StatusOK {
		t.Errorf("Expected first request allowed, got %d", first.Code)
	}
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("Expected 429, got %d", second.Code)
	}
}

func TestGenerateLimiterErrorFailsOpen(t *testing.T) {
	lim := &fakeLimiter{err: errors.New("redis down")}
	h := NewHandler(&fakeSummarizer{chunks: []string{"x"}}, lim, metrics.New(), nil, Options{})

	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Errorf("Expected request allowed, got %d", rec.Code)
	}
}

func TestContentEndpoint(t *testing.T) {
	h := NewHandler(&fakeSummarizer{}, nil, metrics.New(), nil, Options{})

	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/content", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var got struct {
		Sections []struct {
			Key string `json:"key"`
		} `json:"sections"`
		Quotes []string `json:"quotes"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode content: %v", err)
	}
	if len(got.Sections) != 4 || got.Sections[0].Key != "passion" {
		t.Errorf("Unexpected sections %+v", got.Sections)
	}
	if len(got.Quotes) == 0 {
		t.Error("Expected quotes")
	}
}

func TestHealthEndpoint(t *testing.T) {
	h := NewHandler(&fakeSummarizer{}, nil, metrics.New(), nil, Options{})

	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if !strings.Contains(rec.Body.String(), `"provider":"fake"`) {
		t.Errorf("Unexpected health body %s", rec.Body.String())
	}
}
