package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

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
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestBreaker(settings Settings) (*Breaker, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	settings.now = clock.Now
	return New("test", settings), clock
}

func run(b *Breaker, fail bool) error {
	return b.Do(context.Background(), func(context.Context) error {
		if fail {
			return errBoom
		}
		return nil
	})
}

func TestBreakerStateTransitions(t *testing.T) {
	tests := []struct {
		name          string
		requests      []bool // true = failure
		advance       time.Duration
		expectedState State
	}{
		{"stays closed on successes", []bool{false, false, false}, 0, StateClosed},
		{"stays closed below threshold", []bool{true, true}, 0, StateClosed},
		{"opens after consecutive failures", []bool{true, true, true}, 0, StateOpen},
		{"success resets the streak", []bool{true, true, false, true, true}, 0, StateClosed},
		{"half-open after timeout", []bool{true, true, true}, 2 * time.Second, StateHalfOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, clock := newTestBreaker(Settings{
				Timeout: time.Second,
				ReadyToTrip: func(counts Counts) bool {
					return counts.ConsecutiveFailures >= 3
				},
			})

			for _, fail := range tt.requests {
				_ = run(b, fail)
			}
			clock.Advance(tt.advance)

			assert.Equal(t, tt.expectedState, b.State())
		})
	}
}

func TestBreakerRejectsWhileOpen(t *testing.T) {
	b, _ := newTestBreaker(Settings{
		ReadyToTrip: func(counts Counts) bool { return counts.ConsecutiveFailures >= 1 },
	})

	require.ErrorIs(t, run(b, true), errBoom)

	called := false
	err := b.Do(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestBreakerHalfOpenRecovery(t *testing.T) {
	b, clock := newTestBreaker(Settings{
		MaxRequests: 2,
		Timeout:     time.Second,
		ReadyToTrip: func(counts Counts) bool { return counts.ConsecutiveFailures >= 1 },
	})

	_ = run(b, true)
	clock.Advance(2 * time.Second)
	require.Equal(t, StateHalfOpen, b.State())

	require.NoError(t, run(b, false))
	assert.Equal(t, StateHalfOpen, b.State())
	require.NoError(t, run(b, false))
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	b, clock := newTestBreaker(Settings{
		Timeout:     time.Second,
		ReadyToTrip: func(counts Counts) bool { return counts.ConsecutiveFailures >= 1 },
	})

	_ = run(b, true)
	clock.Advance(2 * time.Second)
	_ = run(b, true)

	assert.Equal(t, StateOpen, b.State())
}

func TestBreakerHalfOpenLimitsProbes(t *testing.T) {
	b, clock := newTestBreaker(Settings{
		MaxRequests: 1,
		Timeout:     time.Second,
		ReadyToTrip: func(counts Counts) bool { return counts.ConsecutiveFailures >= 1 },
	})

	_ = run(b, true)
	clock.Advance(2 * time.Second)

	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = b.Do(context.Background(), func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	assert.ErrorIs(t, run(b, false), ErrTooManyRequests)
	close(release)
	<-done
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerIgnoresCancellation(t *testing.T) {
	b, _ := newTestBreaker(Settings{
		ReadyToTrip: func(counts Counts) bool { return counts.ConsecutiveFailures >= 1 },
	})

	err := b.Do(context.Background(), func(context.Context) error {
		return context.Canceled
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, uint32(1), b.Counts().TotalSuccesses)
}

func TestBreakerCustomIsFailure(t *testing.T) {
	notCounted := errors.New("client error")
	b, _ := newTestBreaker(Settings{
		ReadyToTrip: func(counts Counts) bool { return counts.ConsecutiveFailures >= 1 },
		IsFailure:   func(err error) bool { return err != nil && !errors.Is(err, notCounted) },
	})

	_ = b.Do(context.Background(), func(context.Context) error { return notCounted })
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerIntervalResetsCounts(t *testing.T) {
	b, clock := newTestBreaker(Settings{Interval: time.Minute})

	_ = run(b, true)
	_ = run(b, false)
	require.Equal(t, uint32(2), b.Counts().Requests)

	clock.Advance(2 * time.Minute)
	b.State()
	assert.Equal(t, Counts{}, b.Counts())
}

func TestBreakerPanicCountsAsFailure(t *testing.T) {
	b, _ := newTestBreaker(Settings{
		ReadyToTrip: func(counts Counts) bool { return counts.ConsecutiveFailures >= 1 },
	})

	assert.Panics(t, func() {
		_ = b.Do(context.Background(), func(context.Context) error { panic("boom") })
	})
	assert.Equal(t, StateOpen, b.State())
}

func TestBreakerOnStateChange(t *testing.T) {
	var transitions []string
	b, clock := newTestBreaker(Settings{
		Timeout:     time.Second,
		ReadyToTrip: func(counts Counts) bool { return counts.ConsecutiveFailures >= 1 },
		OnStateChange: func(name string, from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})

	_ = run(b, true)
	clock.Advance(2 * time.Second)
	_ = run(b, false)

	assert.Equal(t, []string{"closed->open", "open->half-open", "half-open->closed"}, transitions)
}

func TestGroup(t *testing.T) {
	g := NewGroup(Settings{})

	a := g.Get("wpad.example.com")
	assert.Same(t, a, g.Get("wpad.example.com"))
	assert.NotSame(t, a, g.Get("other.example.com"))
	assert.Equal(t, "wpad.example.com", a.Name())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "unknown", State(42).String())
}
