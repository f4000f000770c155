// Package runner drives the recurring three-stage cycle (spec.md §4.12,
// C12): players → match ids → match data, in order, sleeping between
// cycles and backing off after failures, all at points a signal handler
// can interrupt cooperatively.
package runner

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/riftlabs/ladder-pipeline/observability"
)

// Runner cycles Cycle on a timer, applying exponential backoff after a
// failed cycle and resetting to MinBackoff after the next success.
type Runner struct {
	Cycle      func(ctx context.Context) error
	Interval   time.Duration
	MinBackoff time.Duration
	MaxBackoff time.Duration
	Metrics    *observability.RunnerMetrics
	Logger     zerolog.Logger
}

// Run blocks, cycling until ctx is canceled.
func (r *Runner) Run(ctx context.Context) {
	backoff := r.MinBackoff

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		start := time.Now()
		err := r.Cycle(ctx)
		ok := err == nil
		if r.Metrics != nil {
			r.Metrics.Cycle(ok, time.Since(start).Seconds())
		}

		var sleepFor time.Duration
		if ok {
			r.Logger.Info().Dur("duration", time.Since(start)).Msg("pipeline cycle completed")
			backoff = r.MinBackoff
			if r.Metrics != nil {
				r.Metrics.SetBackoff(0)
			}
			sleepFor = r.Interval
		} else {
			r.Logger.Error().Err(err).Dur("backoff", backoff).Msg("pipeline cycle failed")
			if r.Metrics != nil {
				r.Metrics.SetBackoff(backoff.Seconds())
			}
			sleepFor = backoff
			backoff *= 2
			if backoff > r.MaxBackoff {
				backoff = r.MaxBackoff
			}
		}

		if !sleepCtx(ctx, sleepFor) {
			return
		}
	}
}

// sleepCtx sleeps for d, or returns false early if ctx is canceled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// WithStopSignal returns a context canceled on SIGINT or SIGTERM, and a
// stop function to release the signal handler early.
func WithStopSignal(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}
