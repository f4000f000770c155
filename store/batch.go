package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/rs/zerolog"

	"github.com/riftlabs/ladder-pipeline/observability"
)

const (
	defaultBufferSize    = 100000
	defaultFlushInterval = 5 * time.Second
	maxFlushRetries      = 3
	flushRetryBaseDelay  = 500 * time.Millisecond
)

type job[T any] struct {
	row   T
	runID string
}

// appendFunc appends one row (plus the run id it was ingested under) onto
// an in-flight ClickHouse batch insert.
type appendFunc[T any] func(batch driver.Batch, runID string, row T) error

// tableSink batches rows of one type and flushes them to ClickHouse on a
// size or time trigger, draining on Stop. Grounded on the teacher's
// analytics.Pipeline per-event-type worker/ticker/retry loop, generalized
// over row type and reused once per persisted table.
type tableSink[T any] struct {
	table     string
	insertSQL string
	conn      driver.Conn
	appendRow appendFunc[T]

	batchSize     int
	flushInterval time.Duration

	metrics *observability.StoreMetrics
	logger  zerolog.Logger

	ch     chan job[T]
	wg     sync.WaitGroup
	cancel context.CancelFunc

	errMu   sync.Mutex
	lastErr error
}

func newTableSink[T any](conn driver.Conn, table, insertSQL string, appendRow appendFunc[T], batchSize int, metrics *observability.StoreMetrics, logger zerolog.Logger) *tableSink[T] {
	return &tableSink[T]{
		table:         table,
		insertSQL:     insertSQL,
		conn:          conn,
		appendRow:     appendRow,
		batchSize:     batchSize,
		flushInterval: defaultFlushInterval,
		metrics:       metrics,
		logger:        logger.With().Str("table", table).Logger(),
		ch:            make(chan job[T], defaultBufferSize),
	}
}

// withFlushInterval overrides the default ticker period; chainable off
// newTableSink before start.
func (s *tableSink[T]) withFlushInterval(d time.Duration) *tableSink[T] {
	s.flushInterval = d
	return s
}

func (s *tableSink[T]) start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.run(ctx)
}

func (s *tableSink[T]) submit(row T, runID string) {
	select {
	case s.ch <- job[T]{row: row, runID: runID}:
	default:
		s.logger.Warn().Msg("row dropped: buffer full")
	}
}

func (s *tableSink[T]) stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.drain()
}

func (s *tableSink[T]) run(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	batch := make([]job[T], 0, s.batchSize)
	for {
		select {
		case <-ctx.Done():
			if len(batch) > 0 {
				s.flush(batch)
			}
			return
		case j := <-s.ch:
			batch = append(batch, j)
			if len(batch) >= s.batchSize {
				s.flush(batch)
				batch = make([]job[T], 0, s.batchSize)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.flush(batch)
				batch = make([]job[T], 0, s.batchSize)
			}
		}
	}
}

func (s *tableSink[T]) drain() {
	batch := make([]job[T], 0, s.batchSize)
	for {
		select {
		case j := <-s.ch:
			batch = append(batch, j)
			if len(batch) >= s.batchSize {
				s.flush(batch)
				batch = batch[:0]
			}
		default:
			if len(batch) > 0 {
				s.flush(batch)
			}
			return
		}
	}
}

func (s *tableSink[T]) flush(batch []job[T]) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	start := time.Now()
	var err error
	for attempt := 0; attempt <= maxFlushRetries; attempt++ {
		err = s.insertBatch(ctx, batch)
		if err == nil {
			if s.metrics != nil {
				s.metrics.ObserveBatch(s.table, len(batch), time.Since(start).Seconds())
			}
			return
		}
		s.logger.Warn().Err(err).Int("attempt", attempt+1).Int("batch_size", len(batch)).Msg("batch insert failed")
		if attempt < maxFlushRetries {
			time.Sleep(flushRetryBaseDelay * time.Duration(1<<uint(attempt)))
		}
	}
	s.logger.Error().Err(err).Int("batch_size", len(batch)).Msg("batch dropped after retries")
	s.setErr(fmt.Errorf("%s: batch of %d rows dropped after retries: %w", s.table, len(batch), err))
}

// setErr records a terminal flush failure so Err can surface it to the
// stage Saver driving this sink. A later successful flush does not clear
// it — an unread drop must not go unreported just because the next batch
// happened to land.
func (s *tableSink[T]) setErr(err error) {
	s.errMu.Lock()
	s.lastErr = err
	s.errMu.Unlock()
}

// Err returns and clears the most recent terminal flush failure, if any.
func (s *tableSink[T]) Err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	err := s.lastErr
	s.lastErr = nil
	return err
}

func (s *tableSink[T]) insertBatch(ctx context.Context, batch []job[T]) error {
	chBatch, err := s.conn.PrepareBatch(ctx, s.insertSQL)
	if err != nil {
		return err
	}
	for _, j := range batch {
		if err := s.appendRow(chBatch, j.runID, j.row); err != nil {
			return err
		}
	}
	return chBatch.Send()
}
