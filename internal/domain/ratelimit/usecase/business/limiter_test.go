package business

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newLimiter(max int, window time.Duration) (*Limiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	l := NewLimiter(Config{MaxCommands: max, Window: window}, zerolog.Nop())
	l.now = clock.Now
	return l, clock
}

func TestLimiter_EleventhCommandIsLimited(t *testing.T) {
	l, clock := newLimiter(10, time.Minute)

	for i := 0; i < 10; i++ {
		assert.False(t, l.CheckAndRecord("user:1"), "command %d", i+1)
		clock.Advance(time.Second)
	}

	assert.True(t, l.CheckAndRecord("user:1"))
	assert.Equal(t, 0, l.Remaining("user:1"))

	assert.False(t, l.CheckAndRecord("user:2"))
}

func TestLimiter_LimitedRequestsAreNotRecorded(t *testing.T) {
	l, clock := newLimiter(2, time.Minute)

	assert.False(t, l.CheckAndRecord("user:1"))
	clock.Advance(30 * time.Second)
	assert.False(t, l.CheckAndRecord("user:1"))

	for i := 0; i < 5; i++ {
		assert.True(t, l.CheckAndRecord("user:1"))
	}

	// first timestamp leaves the window, rejected attempts never counted
	clock.Advance(31 * time.Second)
	assert.Equal(t, 1, l.Remaining("user:1"))
	assert.False(t, l.CheckAndRecord("user:1"))
	assert.True(t, l.CheckAndRecord("user:1"))
}

func TestLimiter_ExactWindowBoundary(t *testing.T) {
	l, clock := newLimiter(1, time.Minute)

	assert.False(t, l.CheckAndRecord("user:1"))
	clock.Advance(time.Minute - time.Nanosecond)
	assert.True(t, l.CheckAndRecord("user:1"))
	clock.Advance(time.Nanosecond)
	assert.False(t, l.CheckAndRecord("user:1"))
}

func TestLimiter_ResetAndRemaining(t *testing.T) {
	l, _ := newLimiter(3, time.Minute)

	assert.Equal(t, 3, l.Remaining("user:1"))
	l.CheckAndRecord("user:1")
	l.CheckAndRecord("user:1")
	assert.Equal(t, 1, l.Remaining("user:1"))

	l.Reset("user:1")
	assert.Equal(t, 3, l.Remaining("user:1"))
}

func TestLimiter_Sweep(t *testing.T) {
	l, clock := newLimiter(5, time.Minute)

	l.CheckAndRecord("user:1")
	clock.Advance(40 * time.Second)
	l.CheckAndRecord("user:2")
	clock.Advance(30 * time.Second)

	assert.Equal(t, 1, l.Sweep())
	assert.Equal(t, 1, l.tracked())
	assert.Equal(t, 4, l.Remaining("user:2"))
}

func TestLimiter_ConcurrentCountsAreExact(t *testing.T) {
	l, _ := newLimiter(50, time.Minute)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !l.CheckAndRecord("user:1") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowed)
}

func TestLimiter_RunStopsOnCancel(t *testing.T) {
	l := NewLimiter(Config{MaxCommands: 1, Window: time.Millisecond, SweepInterval: time.Millisecond}, zerolog.Nop())
	l.CheckAndRecord("user:1")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return l.tracked() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
