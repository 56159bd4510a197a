package tui

import (
	"context"
	"iter"
	"log/slog"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ashureev/ikigai/internal/domain"
	"github.com/ashureev/ikigai/internal/rotator"
	"github.com/ashureev/ikigai/internal/store"
)

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

// CopyResetDelay is how long the copied indicator stays visible.
const CopyResetDelay = 2500 * time.Millisecond

type (
	chunkMsg      struct{ text string }
	streamDoneMsg struct{}
	streamErrMsg  struct{ err error }
	quoteTickMsg  struct{}
	copyResetMsg  struct{ seq int }
	persistedMsg  struct{ err error }
)

// generation pulls one summary stream. next is only ever called from one
// command at a time.
type generation struct {
	next func() (string, error, bool)
	stop func()
}

func startGeneration(seq iter.Seq2[string, error]) *generation {
	next, stop := iter.Pull2(seq)
	return &generation{next: next, stop: stop}
}

// pull reads the next chunk of the stream.
func (g *generation) pull() tea.Cmd {
	return func() tea.Msg {
		chunk, err, ok := g.next()
		switch {
		case !ok:
			return streamDoneMsg{}
		case err != nil:
			return streamErrMsg{err: err}
		default:
			return chunkMsg{text: chunk}
		}
	}
}

// quotes bridges the rotator goroutine to the program. Ticks are dropped
// rather than blocking when the program has not consumed the previous one.
type quotes struct {
	rot *rotator.Rotator
	ch  chan int
}

func startQuotes(ctx context.Context, n int, interval time.Duration) *quotes {
	q := &quotes{ch: make(chan int, 1)}
	q.rot = rotator.New(n, interval, func(i int) {
		select {
		case q.ch <- i:
		default:
		}
	})
	q.rot.Start(ctx)
	return q
}

func (q *quotes) wait() tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-q.ch; !ok {
			return nil
		}
		return quoteTickMsg{}
	}
}

// stop halts the rotator before closing the channel so no tick is sent
// on a closed channel.
func (q *quotes) stop() {
	q.rot.Stop()
	close(q.ch)
}

// persister writes answers in the order edits happened: a write that
// lost the race to a newer one is skipped.
type persister struct {
	kv store.KV

	mu      sync.Mutex
	written int
}

func (p *persister) save(ctx context.Context, seq int, rec domain.AnswerRecord) tea.Cmd {
	if p == nil || p.kv == nil {
		return nil
	}
	return func() tea.Msg {
		p.mu.Lock()
		defer p.mu.Unlock()
		if seq <= p.written {
			return nil
		}
		p.written = seq
		if err := store.SaveAnswers(ctx, p.kv, rec); err != nil {
			slog.Warn("Failed to save answers", "error", err)
			return persistedMsg{err: err}
		}
		return persistedMsg{}
	}
}

func copyResetAfter(seq int) tea.Cmd {
	return tea.Tick(CopyResetDelay, func(time.Time) tea.Msg {
		return copyResetMsg{seq: seq}
	})
}
