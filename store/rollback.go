package store

import (
	"context"
	"time"
)

const (
	rollbackMinBackoff = 5 * time.Second
	rollbackMaxBackoff = 5 * time.Minute
)

// Rollback deletes every row written under runID across every table,
// retrying each table indefinitely with a doubling backoff capped at 5
// minutes until ctx is canceled (spec.md §4.10 "run id rollback").
func (s *Store) Rollback(ctx context.Context, runID string) error {
	for _, table := range allTables {
		if err := s.rollbackTable(ctx, table, runID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) rollbackTable(ctx context.Context, table, runID string) error {
	backoff := rollbackMinBackoff
	for {
		err := s.conn.Exec(ctx, "ALTER TABLE "+table+" DELETE WHERE run_id = ?", runID)
		if err == nil {
			s.recordRollback(table, "ok")
			return nil
		}

		s.recordRollback(table, "retry")
		s.logger.Warn().Err(err).Str("table", table).Str("run_id", runID).
			Dur("backoff", backoff).Msg("rollback delete failed, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > rollbackMaxBackoff {
			backoff = rollbackMaxBackoff
		}
	}
}

func (s *Store) recordRollback(table, outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.Rollback(table, outcome)
}
