package ladder

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/riftlabs/ladder-pipeline/httpfetch"
	"github.com/riftlabs/ladder-pipeline/riot"
	"github.com/riftlabs/ladder-pipeline/spread"
)

const pageUpperBound = 1024

// bracketKey identifies one (shard, queue, tier, division) page-bound
// discovery unit.
type bracketKey struct {
	shard    riot.Shard
	queue    riot.Queue
	bracket  riot.Bracket
}

// DiscoverPageBounds binary searches, for every bracket named in bounds
// across every shard, the largest page number with a non-empty result
// (spec.md §4.4 "Page-bound discovery"). Probes are spread by shard and
// chunked by maxInFlight.
func DiscoverPageBounds(ctx context.Context, fetcher *httpfetch.Fetcher, bounds map[riot.Queue]riot.SubEliteBounds, logger zerolog.Logger) map[bracketKey]int {
	type probeState struct {
		key        bracketKey
		low, high  int
		done       bool
		lastPage   int
	}

	var states []*probeState
	for queue, b := range bounds {
		for _, bracket := range riot.BoundedBrackets(b) {
			for _, shard := range riot.AllShards {
				states = append(states, &probeState{
					key:  bracketKey{shard: shard, queue: queue, bracket: bracket},
					low:  1,
					high: pageUpperBound + 1,
				})
			}
		}
	}

	// Binary search proceeds in synchronized rounds: every still-active
	// probe issues one request per round, spread/chunked together, until
	// every probe has narrowed low+1 >= high.
	for {
		var active []*probeState
		for _, s := range states {
			if !s.done {
				active = append(active, s)
			}
		}
		if len(active) == 0 {
			break
		}

		jobs := make([]fetchJob, len(active))
		mids := make([]int, len(active))
		for i, s := range active {
			mid := (s.low + s.high) / 2
			mids[i] = mid
			jobs[i] = fetchJob{
				URL:      riot.DivisionedListURL(s.key.shard, s.key.queue, s.key.bracket.Tier, s.key.bracket.Division, mid),
				Location: string(s.key.shard),
			}
		}

		spreadJobs := spread.Spread(indexed(jobs), func(p indexedJob) riot.Shard { return active[p.Index].key.shard })

		for _, chunk := range spread.Chunk(spreadJobs, maxInFlight) {
			plain := make([]fetchJob, len(chunk))
			for i, ij := range chunk {
				plain[i] = ij.Job
			}
			results := fetchBatch(ctx, fetcher, plain)

			for i, res := range results {
				idx := chunk[i].Index
				s := active[idx]
				mid := mids[idx]

				switch {
				case res.Outcome == httpfetch.HTTPNonRetryable && res.Status == 404:
					s.high = s.low
					s.done = s.low+1 >= s.high
					s.lastPage = s.low
				case res.Outcome != httpfetch.OK:
					logger.Info().
						Str("shard", string(s.key.shard)).
						Str("outcome", string(res.Outcome)).
						Msg("page-bound probe failed")
					s.done = true
					s.lastPage = s.low
				default:
					var page []json.RawMessage
					_ = json.Unmarshal(res.Data, &page)
					if len(page) > 0 {
						s.low = mid
					} else {
						s.high = mid
					}
					if s.low+1 >= s.high {
						s.done = true
						s.lastPage = s.low
					}
				}
			}
		}
	}

	out := make(map[bracketKey]int, len(states))
	for _, s := range states {
		out[s.key] = s.lastPage
	}
	return out
}

type indexedJob struct {
	Job   fetchJob
	Index int
}

func indexed(jobs []fetchJob) []indexedJob {
	out := make([]indexedJob, len(jobs))
	for i, j := range jobs {
		out[i] = indexedJob{Job: j, Index: i}
	}
	return out
}

// StreamSubElite discovers page bounds then streams every divisioned page
// for every discovered bracket, spread by shard and chunked by
// maxInFlight, yielding flattened Entries (spec.md §4.4 "Page streaming").
func StreamSubElite(ctx context.Context, fetcher *httpfetch.Fetcher, bounds map[riot.Queue]riot.SubEliteBounds, logger zerolog.Logger) []Entry {
	pageBounds := DiscoverPageBounds(ctx, fetcher, bounds, logger)

	type pageJob struct {
		fetchJob
		shard riot.Shard
		queue riot.Queue
	}

	var jobs []pageJob
	for key, lastPage := range pageBounds {
		for page := 1; page <= lastPage; page++ {
			jobs = append(jobs, pageJob{
				fetchJob: fetchJob{
					URL:      riot.DivisionedListURL(key.shard, key.queue, key.bracket.Tier, key.bracket.Division, page),
					Location: string(key.shard),
				},
				shard: key.shard,
				queue: key.queue,
			})
		}
	}

	spreadJobs := spread.Spread(jobs, func(j pageJob) riot.Shard { return j.shard })

	var out []Entry
	for _, batch := range spread.Chunk(spreadJobs, maxInFlight) {
		plain := make([]fetchJob, len(batch))
		for i, j := range batch {
			plain[i] = j.fetchJob
		}
		results := fetchBatch(ctx, fetcher, plain)

		for i, res := range results {
			j := batch[i]
			if res.Outcome != httpfetch.OK {
				continue
			}

			var entries []leagueEntry
			if err := json.Unmarshal(res.Data, &entries); err != nil {
				logger.Info().
					Str("shard", string(j.shard)).
					Str("error", err.Error()).
					Str("preview", preview(res.Data)).
					Msg("sub-elite entry validation failed")
				continue
			}

			for _, e := range entries {
				out = append(out, Entry{
					PUUID:     e.PUUID,
					QueueType: e.QueueType,
					Tier:      e.Tier,
					Rank:      e.Rank,
					Wins:      e.Wins,
					Losses:    e.Losses,
					Shard:     j.shard,
				})
			}
		}
	}
	return out
}
