package stage

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/riftlabs/ladder-pipeline/httpfetch"
	"github.com/riftlabs/ladder-pipeline/matchids"
	"github.com/riftlabs/ladder-pipeline/orchestrator"
	"github.com/riftlabs/ladder-pipeline/store"
)

// MatchIDsState is the match-id stage's input: one crawl cursor per player
// known from the current ladder snapshot (spec.md §4.11 "Match-ID stage").
// Rather than re-reading the known-players universe back out of the store,
// the runner hands this stage the players stage's own output directly —
// the two stages run back to back within one cycle, so there is no prior
// durable read to perform.
type MatchIDsState struct {
	Players []matchids.State
	EndTime int64
}

// MatchIDsLoader passes the pre-seeded crawl cursors through unchanged.
type MatchIDsLoader struct {
	Players []matchids.State
	EndTime int64
}

func (l MatchIDsLoader) Load(ctx context.Context) (MatchIDsState, error) {
	return MatchIDsState{Players: l.Players, EndTime: l.EndTime}, nil
}

// MatchIDsCollector streams every discovered match-id page for every
// player to exhaustion (spec.md §4.5 worker pool).
type MatchIDsCollector struct {
	Fetcher *httpfetch.Fetcher
	Logger  zerolog.Logger
}

func (c MatchIDsCollector) Collect(ctx context.Context, state MatchIDsState, octx orchestrator.Context) <-chan matchids.Page {
	return matchids.Stream(ctx, c.Fetcher, state.Players, state.EndTime, c.Logger)
}

// MatchIDsSaver persists every discovered id, batched at 200 000 rows or a
// 1s timeout (spec.md §4.11). A page fetch failure is logged and skipped
// rather than aborting the run — an individual player's exhausted retry
// budget should not roll back every other player's already-collected ids;
// only a canceled run context or a terminal store write failure triggers
// rollback. When Collected is non-nil, every distinct match id discovered
// is also appended there for the match-data stage to consume within the
// same cycle. Once the id stream is exhausted, Save upserts the run's
// player PUUID universe and a fresh "last collected at" row, pruning every
// older one (spec.md §4.11).
type MatchIDsSaver struct {
	Store     *store.Store
	Collected *[]string
}

func (s MatchIDsSaver) Save(ctx context.Context, octx orchestrator.Context, state MatchIDsState, pages <-chan matchids.Page) error {
	seen := make(map[string]bool)
	for page := range pages {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := s.Store.Err(); err != nil {
			return err
		}
		if page.Err != nil {
			continue
		}
		for _, id := range page.IDs {
			s.Store.SaveMatchID(octx.RunID, store.MatchIDRow{
				PUUID:   page.State.PUUID,
				Queue:   string(page.State.Queue),
				MatchID: id,
			})
			if s.Collected != nil && !seen[id] {
				seen[id] = true
				*s.Collected = append(*s.Collected, id)
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.Store.Err(); err != nil {
		return err
	}

	seenPUUID := make(map[string]bool, len(state.Players))
	puuids := make([]string, 0, len(state.Players))
	for _, p := range state.Players {
		if seenPUUID[p.PUUID] {
			continue
		}
		seenPUUID[p.PUUID] = true
		puuids = append(puuids, p.PUUID)
	}
	if err := s.Store.SavePlayerPUUIDs(ctx, octx.RunID, puuids); err != nil {
		return err
	}
	if err := s.Store.SaveLastCollectedAt(ctx, octx.RunID, octx.TS); err != nil {
		return err
	}
	return s.Store.Err()
}

func (s MatchIDsSaver) Rollback(ctx context.Context, runID string) error {
	return s.Store.Rollback(ctx, runID)
}
