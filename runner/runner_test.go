package runner

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestRunCyclesUntilContextCanceled(t *testing.T) {
	var calls int32
	ctx, cancel := context.WithCancel(context.Background())

	r := &Runner{
		Cycle: func(ctx context.Context) error {
			n := atomic.AddInt32(&calls, 1)
			if n >= 3 {
				cancel()
			}
			return nil
		},
		Interval:   time.Millisecond,
		MinBackoff: time.Millisecond,
		MaxBackoff: 10 * time.Millisecond,
		Logger:     zerolog.New(io.Discard),
	}

	done := make(chan struct{})
	go func() { r.Run(ctx); close(done) }()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}

	if atomic.LoadInt32(&calls) < 3 {
		t.Fatalf("expected at least 3 cycles, got %d", calls)
	}
}

func TestRunBacksOffAfterFailureAndResetsAfterSuccess(t *testing.T) {
	var attempts []time.Time
	var callCount int32
	ctx, cancel := context.WithCancel(context.Background())

	r := &Runner{
		Cycle: func(ctx context.Context) error {
			n := atomic.AddInt32(&callCount, 1)
			attempts = append(attempts, time.Now())
			if n <= 2 {
				return errors.New("transient failure")
			}
			if n == 3 {
				return nil
			}
			cancel()
			return nil
		},
		Interval:   5 * time.Millisecond,
		MinBackoff: 5 * time.Millisecond,
		MaxBackoff: 40 * time.Millisecond,
		Logger:     zerolog.New(io.Discard),
	}

	done := make(chan struct{})
	go func() { r.Run(ctx); close(done) }()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}

	if callCount < 4 {
		t.Fatalf("expected at least 4 cycles, got %d", callCount)
	}
	// The first failure sleeps MinBackoff, the second twice that.
	if gap := attempts[1].Sub(attempts[0]); gap < 5*time.Millisecond {
		t.Fatalf("gap after first failure = %v, want >= 5ms", gap)
	}
	if gap := attempts[2].Sub(attempts[1]); gap < 10*time.Millisecond {
		t.Fatalf("gap after second failure = %v, want >= 10ms (doubled backoff)", gap)
	}
}

func TestWithStopSignalCancelsOnReleaseWithoutSignal(t *testing.T) {
	ctx, stop := WithStopSignal(context.Background())
	stop()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("stop() did not cancel the context")
	}
}
