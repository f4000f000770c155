package stage

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/riftlabs/ladder-pipeline/httpfetch"
	"github.com/riftlabs/ladder-pipeline/ladder"
	"github.com/riftlabs/ladder-pipeline/orchestrator"
	"github.com/riftlabs/ladder-pipeline/riot"
	"github.com/riftlabs/ladder-pipeline/store"
)

// PlayersState is the players stage's input: the per-queue elite/sub-elite
// collection bounds.
type PlayersState struct {
	Bounds map[riot.Queue]riot.QueueBounds
}

// PlayersLoader returns a fixed bounds configuration. The players stage has
// no prior durable state to read — collection bounds are operator config,
// not crawl history.
type PlayersLoader struct {
	Bounds map[riot.Queue]riot.QueueBounds
}

func (l PlayersLoader) Load(ctx context.Context) (PlayersState, error) {
	return PlayersState{Bounds: l.Bounds}, nil
}

// PlayersCollector concatenates the elite then sub-elite ladder streams
// (spec.md §4.11 "Players stage").
type PlayersCollector struct {
	Fetcher *httpfetch.Fetcher
	Logger  zerolog.Logger
}

func (c PlayersCollector) Collect(ctx context.Context, state PlayersState, octx orchestrator.Context) <-chan ladder.Entry {
	out := make(chan ladder.Entry)

	elite := make(map[riot.Queue]riot.EliteBounds, len(state.Bounds))
	subElite := make(map[riot.Queue]riot.SubEliteBounds, len(state.Bounds))
	for q, b := range state.Bounds {
		elite[q] = b.Elite
		subElite[q] = b.SubElite
	}

	go func() {
		defer close(out)
		for _, e := range ladder.StreamElite(ctx, c.Fetcher, elite, c.Logger) {
			select {
			case <-ctx.Done():
				return
			case out <- e:
			}
		}
		for _, e := range ladder.StreamSubElite(ctx, c.Fetcher, subElite, c.Logger) {
			select {
			case <-ctx.Done():
				return
			case out <- e:
			}
		}
	}()

	return out
}

// PlayersSaver submits every entry to the store, which batches inserts in
// groups of 20 000 with a 5s periodic flush (spec.md §4.11). When Collected
// is non-nil, every entry is also appended there — the match-id stage
// needs this run's player set as its own input, and re-reading it back out
// of the store would just be an extra round trip within the same cycle.
type PlayersSaver struct {
	Store     *store.Store
	Collected *[]ladder.Entry
}

func (s PlayersSaver) Save(ctx context.Context, octx orchestrator.Context, state PlayersState, items <-chan ladder.Entry) error {
	for e := range items {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := s.Store.Err(); err != nil {
			return err
		}
		s.Store.SaveLadderEntry(octx.RunID, e)
		if s.Collected != nil {
			*s.Collected = append(*s.Collected, e)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Store.Err()
}

func (s PlayersSaver) Rollback(ctx context.Context, runID string) error {
	return s.Store.Rollback(ctx, runID)
}
