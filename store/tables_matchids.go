package store

import "github.com/ClickHouse/clickhouse-go/v2/lib/driver"

const matchIDsTable = "match_ids"

const matchIDsInsertSQL = `INSERT INTO match_ids (
	run_id, puuid, queue, match_id
)`

// MatchIDRow is one discovered match id, tagged with the puuid and queue
// it was discovered under.
type MatchIDRow struct {
	PUUID   string
	Queue   string
	MatchID string
}

func appendMatchID(batch driver.Batch, runID string, row MatchIDRow) error {
	return batch.Append(runID, row.PUUID, row.Queue, row.MatchID)
}
