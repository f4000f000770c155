package ladder

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/riftlabs/ladder-pipeline/httpfetch"
	"github.com/riftlabs/ladder-pipeline/riot"
	"github.com/riftlabs/ladder-pipeline/spread"
)

const maxInFlight = 128

type eliteJob struct {
	fetchJob
	shard riot.Shard
	queue riot.Queue
}

// StreamElite enumerates the elite-tier ladder (CHALLENGER/GRANDMASTER/
// MASTER) for every queue named in bounds, spread by super-shard and
// fetched `maxInFlight` at a time, returning a flattened Entry per ladder
// participant (spec.md §4.4 "Elite stream").
func StreamElite(ctx context.Context, fetcher *httpfetch.Fetcher, bounds map[riot.Queue]riot.EliteBounds, logger zerolog.Logger) []Entry {
	var jobs []eliteJob
	for queue, b := range bounds {
		for _, tier := range riot.BoundedEliteTiers(b) {
			for _, shard := range riot.AllShards {
				jobs = append(jobs, eliteJob{
					fetchJob: fetchJob{URL: riot.EliteListURL(shard, tier, queue), Location: string(shard)},
					shard:    shard,
					queue:    queue,
				})
			}
		}
	}

	spreadJobs := spread.Spread(jobs, func(j eliteJob) riot.SuperShard { return riot.SuperShardOf(j.shard) })

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
				logger.Info().
					Str("shard", string(j.shard)).
					Str("outcome", string(res.Outcome)).
					Msg("elite list fetch failed")
				continue
			}

			var list leagueList
			if err := json.Unmarshal(res.Data, &list); err != nil {
				logger.Info().
					Str("shard", string(j.shard)).
					Str("error", err.Error()).
					Str("preview", preview(res.Data)).
					Msg("elite list validation failed")
				continue
			}

			for _, item := range list.Entries {
				out = append(out, Entry{
					PUUID:     item.PUUID,
					QueueType: string(j.queue),
					Tier:      list.Tier,
					Rank:      item.Rank,
					Wins:      item.Wins,
					Losses:    item.Losses,
					Shard:     j.shard,
				})
			}
		}
	}
	return out
}

func preview(data json.RawMessage) string {
	const max = 200
	s := string(data)
	if len(s) > max {
		s = s[:max]
	}
	return s
}
