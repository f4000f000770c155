// Package orchestrator implements the stage orchestration skeleton
// (spec.md §4.11, C11): a Loader reads the stage's input state, a
// Collector streams records against that state, and a Saver persists the
// stream under one run id, rolling back every table it touched if the
// stage fails partway through.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Context carries the identity of one stage run through Collector and
// Saver: a fixed timestamp, a fresh run id, and the pipeline's name
// (spec.md §4.11 "OrchestrationContext").
type Context struct {
	TS       int64
	RunID    string
	Pipeline string
}

// NewContext stamps a fresh run id and the current time for one stage run.
func NewContext(pipeline string) Context {
	return Context{TS: time.Now().Unix(), RunID: uuid.NewString(), Pipeline: pipeline}
}

// Loader reads prior durable state and returns the plain record describing
// a stage run's input.
type Loader[S any] interface {
	Load(ctx context.Context) (S, error)
}

// Collector produces a stream of records from the Loader's state.
type Collector[S any, I any] interface {
	Collect(ctx context.Context, state S, octx Context) <-chan I
}

// Saver consumes the Collector's stream, persisting (and, for match data,
// parsing) in batches keyed by run id.
type Saver[S any, I any] interface {
	Save(ctx context.Context, octx Context, state S, items <-chan I) error
}

// Rollbacker is implemented by Savers that can undo everything written
// under one run id. The base Orchestrator calls it when Save fails.
type Rollbacker interface {
	Rollback(ctx context.Context, runID string) error
}

const rollbackTimeout = 10 * time.Minute

// Orchestrator wires one Loader/Collector/Saver triple under a named
// pipeline (spec.md §4.11 "base orchestrator").
type Orchestrator[S any, I any] struct {
	Pipeline  string
	Loader    Loader[S]
	Collector Collector[S, I]
	Saver     Saver[S, I]
}

// Run assembles a fresh Context, drives Loader → Collector → Saver, and
// rolls back the run id on Saver failure if the Saver supports it.
func (o *Orchestrator[S, I]) Run(ctx context.Context) error {
	octx := NewContext(o.Pipeline)

	state, err := o.Loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("%s: load failed: %w", o.Pipeline, err)
	}

	items := o.Collector.Collect(ctx, state, octx)

	if err := o.Saver.Save(ctx, octx, state, items); err != nil {
		if rb, ok := o.Saver.(Rollbacker); ok {
			rbCtx, cancel := context.WithTimeout(context.Background(), rollbackTimeout)
			defer cancel()
			if rerr := rb.Rollback(rbCtx, octx.RunID); rerr != nil {
				return fmt.Errorf("%s: save failed: %w (rollback also failed: %v)", o.Pipeline, err, rerr)
			}
		}
		return fmt.Errorf("%s: save failed: %w", o.Pipeline, err)
	}
	return nil
}
