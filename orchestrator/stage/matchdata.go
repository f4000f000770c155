package stage

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/riftlabs/ladder-pipeline/httpfetch"
	"github.com/riftlabs/ladder-pipeline/matchpayload"
	"github.com/riftlabs/ladder-pipeline/orchestrator"
	"github.com/riftlabs/ladder-pipeline/parse/nontimeline"
	"github.com/riftlabs/ladder-pipeline/parse/timeline"
	"github.com/riftlabs/ladder-pipeline/store"
)

// MatchDataState is the match-data stage's input: the pending match ids
// discovered by the match-id stage.
type MatchDataState struct {
	MatchIDs []string
}

// MatchDataLoader passes the pending match id list through unchanged.
type MatchDataLoader struct {
	MatchIDs []string
}

func (l MatchDataLoader) Load(ctx context.Context) (MatchDataState, error) {
	return MatchDataState{MatchIDs: l.MatchIDs}, nil
}

// MatchDataCollector fans out both payload streams for every match id
// (spec.md §4.6).
type MatchDataCollector struct {
	Fetcher *httpfetch.Fetcher
	Logger  zerolog.Logger
}

func (c MatchDataCollector) Collect(ctx context.Context, state MatchDataState, octx orchestrator.Context) <-chan matchpayload.Item {
	return matchpayload.Merge(ctx, c.Fetcher, state.MatchIDs, c.Logger)
}

// MatchDataSaver parses each fetched payload (C7/C8) and persists its
// tables under one run id. A failed fetch is logged and skipped — the
// parsers themselves are soft-fail on malformed payloads (spec.md §4.7,
// §4.8) — so only a canceled run context or a terminal store write failure
// (Store.Err) fails the stage (spec.md §4.11 "A failure anywhere rolls back
// every table in both schedules").
type MatchDataSaver struct {
	Store  *store.Store
	Logger zerolog.Logger
}

func (s MatchDataSaver) Save(ctx context.Context, octx orchestrator.Context, state MatchDataState, items <-chan matchpayload.Item) error {
	for item := range items {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := s.Store.Err(); err != nil {
			return err
		}

		if item.Result.Outcome != httpfetch.OK {
			s.Logger.Info().
				Str("match_id", item.MatchID).
				Str("outcome", string(item.Result.Outcome)).
				Msg("match payload fetch failed, skipping")
			continue
		}

		switch item.Stream {
		case matchpayload.NonTimeline:
			tables := nontimeline.Run(item.Result.Data, s.Logger)
			s.Store.SaveNonTimeline(octx.RunID, tables)
		case matchpayload.Timeline:
			tables := timeline.Run(item.Result.Data, s.Logger)
			s.Store.SaveTimeline(octx.RunID, tables)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Store.Err()
}

func (s MatchDataSaver) Rollback(ctx context.Context, runID string) error {
	return s.Store.Rollback(ctx, runID)
}
