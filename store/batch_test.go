package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/rs/zerolog"

	"github.com/riftlabs/ladder-pipeline/ladder"
	"github.com/riftlabs/ladder-pipeline/riot"
)

// failingConn's PrepareBatch always errors, simulating a ClickHouse insert
// that never succeeds no matter how many times flush retries it.
type failingConn struct {
	driver.Conn
	err error
}

func (c failingConn) PrepareBatch(ctx context.Context, query string, opts ...driver.PrepareBatchOption) (driver.Batch, error) {
	return nil, c.err
}

func TestTableSinkFlushSurfacesErrAfterRetriesExhausted(t *testing.T) {
	boom := errors.New("connection refused")
	sink := newTableSink(failingConn{err: boom}, ladderEntriesTable, ladderEntriesInsertSQL, appendLadderEntry, 10, nil, zerolog.Nop())

	sink.flush([]job[ladder.Entry]{{row: ladder.Entry{PUUID: "p1", Shard: riot.ShardNA1}, runID: "run-1"}})

	err := sink.Err()
	if err == nil {
		t.Fatal("Err() = nil, want the terminal flush error")
	}
	if !strings.Contains(err.Error(), ladderEntriesTable) || !strings.Contains(err.Error(), boom.Error()) {
		t.Fatalf("Err() = %v, want it to name the table and wrap %v", err, boom)
	}

	if err := sink.Err(); err != nil {
		t.Fatalf("Err() after being read = %v, want nil (cleared)", err)
	}
}

func TestTableSinkFlushClearsNothingOnSuccessOfUnreadError(t *testing.T) {
	boom := errors.New("connection refused")
	sink := newTableSink(failingConn{err: boom}, ladderEntriesTable, ladderEntriesInsertSQL, appendLadderEntry, 10, nil, zerolog.Nop())

	sink.flush([]job[ladder.Entry]{{row: ladder.Entry{PUUID: "p1", Shard: riot.ShardNA1}, runID: "run-1"}})

	// A later successful flush must not silently erase an unread failure —
	// the dropped batch is gone either way, and the caller still needs to
	// know the run can't be trusted.
	sink.conn = noopConn{}
	sink.flush([]job[ladder.Entry]{{row: ladder.Entry{PUUID: "p2", Shard: riot.ShardNA1}, runID: "run-1"}})

	if err := sink.Err(); err == nil {
		t.Fatal("Err() = nil after a later successful flush, want the earlier drop still reported")
	}
}

type noopConn struct {
	driver.Conn
}

func (noopConn) PrepareBatch(ctx context.Context, query string, opts ...driver.PrepareBatchOption) (driver.Batch, error) {
	return noopBatch{}, nil
}

type noopBatch struct {
	driver.Batch
}

func (noopBatch) Append(v ...any) error { return nil }
func (noopBatch) Send() error           { return nil }

func TestStoreErrJoinsEveryDirtySink(t *testing.T) {
	s := New(noopConn{}, nil, zerolog.Nop())

	ladderBoom := errors.New("ladder insert failed")
	matchIDsBoom := errors.New("match id insert failed")
	s.ladderEntries.setErr(ladderBoom)
	s.matchIDs.setErr(matchIDsBoom)

	err := s.Err()
	if err == nil {
		t.Fatal("Err() = nil, want a joined error naming both failing tables")
	}
	if !errors.Is(err, ladderBoom) || !errors.Is(err, matchIDsBoom) {
		t.Fatalf("Err() = %v, want it to wrap both %v and %v", err, ladderBoom, matchIDsBoom)
	}

	if err := s.Err(); err != nil {
		t.Fatalf("Err() on the second call = %v, want nil (every sink cleared)", err)
	}
}
