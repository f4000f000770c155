package store

import (
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/riftlabs/ladder-pipeline/ladder"
)

const ladderEntriesTable = "ladder_entries"

const ladderEntriesInsertSQL = `INSERT INTO ladder_entries (
	run_id, puuid, shard, queue_type, tier, rank, wins, losses
)`

func appendLadderEntry(batch driver.Batch, runID string, e ladder.Entry) error {
	return batch.Append(
		runID,
		e.PUUID,
		string(e.Shard),
		e.QueueType,
		e.Tier,
		e.Rank,
		e.Wins,
		e.Losses,
	)
}
