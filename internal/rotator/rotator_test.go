package rotator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorder struct {
	mu   sync.Mutex
	seen []int
}

func (r *recorder) add(i int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, i)
}

func (r *recorder) snapshot() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.seen...)
}

func TestRotatorCyclesAndWraps(t *testing.T) {
	rec := &recorder{}
	r := New(3, 5*time.Millisecond, rec.add)
	r.Start(context.Background())

	require.Eventually(t, func() bool { return len(rec.snapshot()) >= 4 }, time.Second, time.Millisecond)
	r.Stop()

	seen := rec.snapshot()
	assert.Equal(t, []int{1, 2, 0, 1}, seen[:4])
	assert.False(t, r.Running())
}

func TestRotatorStopsChanging(t *testing.T) {
	rec := &recorder{}
	r := New(2, 2*time.Millisecond, rec.add)
	r.Start(context.Background())
	require.Eventually(t, func() bool { return len(rec.snapshot()) >= 1 }, time.Second, time.Millisecond)

	r.Stop()
	after := len(rec.snapshot())
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, len(rec.snapshot()))
}

func TestRotatorStopIsIdempotent(t *testing.T) {
	r := New(2, time.Millisecond, nil)
	r.Stop()
	r.Start(context.Background())
	r.Start(context.Background())
	r.Stop()
	r.Stop()
	assert.False(t, r.Running())
}

func TestRotatorStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := New(2, time.Millisecond, nil)
	r.Start(ctx)
	cancel()
	r.Stop()
}

func TestRotatorWithoutItemsNeverStarts(t *testing.T) {
	r := New(0, time.Millisecond, nil)
	r.Start(context.Background())
	assert.False(t, r.Running())
}
