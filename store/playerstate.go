package store

import "context"

const knownPlayerPUUIDsTable = "known_player_puuids"
const lastCollectedAtTable = "last_collected_at"

const knownPlayerPUUIDsInsertSQL = `INSERT INTO known_player_puuids (
	run_id, puuid
)`

const lastCollectedAtInsertSQL = `INSERT INTO last_collected_at (
	run_id, collected_at
)`

// SavePlayerPUUIDs upserts the current run's player PUUID universe, tagged
// with runID, ahead of the "last collected at" timestamp row (spec.md
// §4.11). Unlike the batched per-row tables, this is one small synchronous
// insert per match-id stage run, not routed through a tableSink.
func (s *Store) SavePlayerPUUIDs(ctx context.Context, runID string, puuids []string) error {
	batch, err := s.conn.PrepareBatch(ctx, knownPlayerPUUIDsInsertSQL)
	if err != nil {
		return err
	}
	for _, puuid := range puuids {
		if err := batch.Append(runID, puuid); err != nil {
			return err
		}
	}
	return batch.Send()
}

// SaveLastCollectedAt upserts a new "last collected at" row for runID and,
// on success, deletes every older row so only the latest remains (spec.md
// §4.11 "on success, it deletes older timestamp rows so only the latest
// remains").
func (s *Store) SaveLastCollectedAt(ctx context.Context, runID string, ts int64) error {
	batch, err := s.conn.PrepareBatch(ctx, lastCollectedAtInsertSQL)
	if err != nil {
		return err
	}
	if err := batch.Append(runID, ts); err != nil {
		return err
	}
	if err := batch.Send(); err != nil {
		return err
	}
	return s.conn.Exec(ctx, "ALTER TABLE "+lastCollectedAtTable+" DELETE WHERE run_id != ?", runID)
}
