// Package matchids implements the match-id crawler (spec.md §4.5, C5): a
// worker pool of self-feeding paginators sharing one work queue, onto
// which each full page re-enqueues its player's successor state, that
// walks every player's ranked match history forward in 100-id pages until
// each is exhausted.
package matchids

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/riftlabs/ladder-pipeline/httpfetch"
	"github.com/riftlabs/ladder-pipeline/riot"
)

const (
	maxPageStart = 900
	maxPageCount = 100
	maxInFlight  = 128
)

// State is one player's match-id crawl cursor: mutated only by producing a
// new State with NextPageStart advanced when the last page was full
// (spec.md §3 "Player crawl state").
type State struct {
	PUUID         string
	Queue         riot.Queue
	SuperShard    riot.SuperShard
	StartTime     int64
	NextPageStart int
}

// urlForState builds the match-id listing URL for one fetch. A package
// variable rather than a plain function so tests can point the crawler at
// a fake server without threading a base-URL field through State.
var urlForState = func(s State, endTime int64) string {
	template := riot.MatchIDsURL(s.SuperShard, s.PUUID, s.StartTime, endTime, s.Queue)
	return fmt.Sprintf(template, s.NextPageStart)
}

func (s State) url(endTime int64) string {
	return urlForState(s, endTime)
}

func (s State) advanced() State {
	next := s
	next.NextPageStart += maxPageCount
	return next
}

// Page is one fetched page of match ids for one player, or a fetch
// failure surfaced to the caller.
type Page struct {
	State State
	IDs   []string
	Err   error
}

// Stream crawls every player in initial to exhaustion, sending a Page per
// fetched page (even if empty) on the returned channel, which closes once
// every player's crawl has terminated. ts is the run's fixed endTime
// bound, shared across every request in the crawl.
func Stream(ctx context.Context, fetcher *httpfetch.Fetcher, initial []State, ts int64, logger zerolog.Logger) <-chan Page {
	work := make(chan *State, len(initial)+1)
	out := make(chan Page, maxInFlight)

	var pending sync.WaitGroup
	pending.Add(len(initial))
	for i := range initial {
		st := initial[i]
		work <- &st
	}

	var workers sync.WaitGroup
	workers.Add(maxInFlight)
	for i := 0; i < maxInFlight; i++ {
		go func() {
			defer workers.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case st, ok := <-work:
					if !ok || st == nil {
						return
					}
					runOne(ctx, fetcher, *st, ts, work, out, &pending, logger)
				}
			}
		}()
	}

	go func() {
		pending.Wait()
		close(work)
		workers.Wait()
		close(out)
	}()

	return out
}

func runOne(ctx context.Context, fetcher *httpfetch.Fetcher, st State, ts int64, work chan<- *State, out chan<- Page, pending *sync.WaitGroup, logger zerolog.Logger) {
	defer pending.Done()

	res := fetcher.Fetch(ctx, st.url(ts), string(st.SuperShard))
	if res.Outcome != httpfetch.OK {
		logger.Info().
			Str("puuid", st.PUUID).
			Str("outcome", string(res.Outcome)).
			Msg("match-id page fetch failed")
		out <- Page{State: st, Err: fmt.Errorf("match-id fetch failed: %s", res.Outcome)}
		return
	}

	ids, err := decodeIDs(res.Data)
	if err != nil {
		out <- Page{State: st, Err: err}
		return
	}

	out <- Page{State: st, IDs: ids}

	if st.NextPageStart != maxPageStart && len(ids) == maxPageCount {
		next := st.advanced()
		pending.Add(1)
		// Enqueue off the worker goroutine so a momentarily full work
		// channel never blocks a worker that could otherwise keep
		// draining it — mirrors the unbounded asyncio.Queue the original
		// crawler relies on.
		go func() { work <- &next }()
	}
}
