// Package matchpayload implements the dual-producer match-payload fan-in
// (spec.md §4.6, C6): one stream of non-timeline match fetches and one of
// timeline fetches, both spread by super-shard and chunked, merged onto a
// single bounded channel for the saver stage to consume.
package matchpayload

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/riftlabs/ladder-pipeline/httpfetch"
	"github.com/riftlabs/ladder-pipeline/riot"
	"github.com/riftlabs/ladder-pipeline/spread"
)

// Stream names which endpoint a tagged Item came from.
type Stream int

const (
	NonTimeline Stream = iota
	Timeline
)

const (
	maxInFlight  = 16
	mergeCapacity = 3000
)

// matchByIDURLFn and timelineByIDURLFn are package variables rather than
// direct riot.MatchByIDURL/TimelineByIDURL calls so tests can point the
// fan-in at a fake server.
var (
	matchByIDURLFn    = riot.MatchByIDURL
	timelineByIDURLFn = riot.TimelineByIDURL
)

// Item is one fetched payload tagged with its originating stream and
// source match id. Result.Data is nil when the fetch did not succeed.
type Item struct {
	MatchID string
	Stream  Stream
	Result  httpfetch.Result
}

// Merge fetches both the non-timeline and timeline payload for every match
// id concurrently and yields them interleaved on the returned channel,
// which closes once both producer streams are exhausted (spec.md §4.6
// "Merger"). No ordering is promised across or within streams.
func Merge(ctx context.Context, fetcher *httpfetch.Fetcher, matchIDs []string, logger zerolog.Logger) <-chan Item {
	out := make(chan Item, mergeCapacity)

	pump := func(stream Stream, urlFn func(riot.SuperShard, string) string) {
		type job struct {
			matchID    string
			superShard riot.SuperShard
		}
		jobs := make([]job, len(matchIDs))
		for i, id := range matchIDs {
			jobs[i] = job{matchID: id, superShard: riot.SuperShardOfMatchID(id)}
		}
		spreadJobs := spread.Spread(jobs, func(j job) riot.SuperShard { return j.superShard })

		for _, batch := range spread.Chunk(spreadJobs, maxInFlight) {
			type fetched struct {
				matchID string
				res     httpfetch.Result
			}
			results := make(chan fetched, len(batch))
			for _, j := range batch {
				j := j
				go func() {
					res := fetcher.Fetch(ctx, urlFn(j.superShard, j.matchID), string(j.superShard))
					results <- fetched{matchID: j.matchID, res: res}
				}()
			}
			for range batch {
				f := <-results
				select {
				case <-ctx.Done():
					return
				case out <- Item{MatchID: f.matchID, Stream: stream, Result: f.res}:
				}
			}
		}
	}

	go func() {
		var done int
		doneCh := make(chan struct{}, 2)

		go func() { pump(NonTimeline, matchByIDURLFn); doneCh <- struct{}{} }()
		go func() { pump(Timeline, timelineByIDURLFn); doneCh <- struct{}{} }()

		for done < 2 {
			select {
			case <-doneCh:
				done++
			case <-ctx.Done():
				close(out)
				return
			}
		}
		close(out)
	}()

	return out
}
