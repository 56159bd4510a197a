package summary

import (
	"context"
	"errors"
	"iter"
	"strings"
	"testing"
	"time"

	"github.com/ashureev/ikigai/internal/domain"
	"github.com/ashureev/ikigai/internal/prompt"
)

type fakeGenerator struct {
	chunks []string
	err    error
	got         prompt.Prompt
	hadDeadline bool
}

func (f *fakeGenerator) Name() string { return "fake" }

func (f *fakeGenerator) Stream(ctx context.Context, p prompt.Prompt) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		f.got = p
		_, f.hadDeadline = ctx.Deadline()
		for _, c := range f.chunks {
			if !yield(c, nil) {
				return
			}
		}
		if f.err != nil {
			yield("", f.err)
		}
	}
}

func TestServiceForwardsChunks(t *testing.T) {
	gen := &fakeGenerator{chunks: []string{"<h3>A</h3>", "<p>B</p>"}}
	svc := NewService(gen, 0)

	var sb strings.Builder
	for chunk, err := range svc.Stream(context.Background(), domain.AnswerRecord{Mission: "helping others"}) {
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		sb.WriteString(chunk)
	}

	if sb.String() != "<h3>A</h3><p>B</p>" {
		t.Errorf("Unexpected summary %q", sb.String())
	}
	if !strings.Contains(gen.got.User, "helping others") {
		t.Error("Expected prompt to embed the answers")
	}
	if gen.hadDeadline {
		t.Error("Expected no deadline without timeout")
	}
}

func TestServiceStopsAfterError(t *testing.T) {
	boom := errors.New("boom")
	gen := &fakeGenerator{chunks: []string{"partial"}, err: boom}
	svc := NewService(gen, time.Minute)

	var chunks []string
	var gotErr error
	for chunk, err := range svc.Stream(context.Background(), domain.AnswerRecord{}) {
		if err != nil {
			gotErr = err
			continue
		}
		chunks = append(chunks, chunk)
	}

	if !errors.Is(gotErr, boom) {
		t.Errorf("Expected boom, got %v", gotErr)
	}
	if len(chunks) != 1 || chunks[0] != "partial" {
		t.Errorf("Unexpected chunks %v", chunks)
	}
	if !gen.hadDeadline {
		t.Error("Expected timeout to set a deadline")
	}
	if svc.Provider() != "fake" {
		t.Errorf("Unexpected provider %q", svc.Provider())
	}
}

type ctxCheckingGenerator struct{}

func (ctxCheckingGenerator) Name() string { return "ctx" }

func (ctxCheckingGenerator) Stream(ctx context.Context, _ prompt.Prompt) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if err := ctx.Err(); err != nil {
			yield("", err)
			return
		}
		yield("ok", nil)
	}
}

func TestServiceStreamCanBeRangedTwice(t *testing.T) {
	seq := NewService(ctxCheckingGenerator{}, time.Minute).Stream(context.Background(), domain.AnswerRecord{})

	for pass := 0; pass < 2; pass++ {
		var got []string
		for chunk, err := range seq {
			if err != nil {
				t.Fatalf("pass %d: unexpected error: %v", pass, err)
			}
			got = append(got, chunk)
		}
		if len(got) != 1 || got[0] != "ok" {
			t.Errorf("pass %d: unexpected chunks %v", pass, got)
		}
	}
}
