package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RateCallback receives the observed permit rate for one shard's timeline.
type RateCallback func(shard string, ratePerSecond float64)

// Telemetry wraps a Limiter with a bounded deque of recent permit
// timestamps, trimmed to the limiter's period on every acquire, exporting
// an observed rate through a pluggable callback (spec.md §4.1 "Telemetry
// wrapper"). It never affects scheduling — only observes it.
type Telemetry struct {
	shard   string
	period  time.Duration
	wrapped *Limiter
	onRate  RateCallback

	mu    sync.Mutex
	times []time.Time
}

// NewTelemetry wraps limiter with permit-rate tracking for shard, reporting
// through onRate after every acquire. onRate may be nil.
func NewTelemetry(shard string, limiter *Limiter, period time.Duration, onRate RateCallback) *Telemetry {
	return &Telemetry{shard: shard, period: period, wrapped: limiter, onRate: onRate}
}

// Acquire delegates to the wrapped limiter, then records and exports the
// observed rate.
func (t *Telemetry) Acquire() time.Time {
	scheduled := t.wrapped.Acquire()
	t.record(scheduled)
	return scheduled
}

func (t *Telemetry) record(now time.Time) {
	t.mu.Lock()
	t.times = append(t.times, now)
	cutoff := now.Add(-t.period)
	i := 0
	for i < len(t.times) && t.times[i].Before(cutoff) {
		i++
	}
	t.times = t.times[i:]
	rate := float64(len(t.times)) / t.period.Seconds()
	t.mu.Unlock()

	if t.onRate != nil {
		t.onRate(t.shard, rate)
	}
}

// RedisPublisher publishes permit-rate telemetry to a Redis pub/sub channel
// so an external dashboard or a second pipeline instance can observe load
// without sharing process memory. It is an optional observability sink —
// the limiter's correctness never depends on Redis being reachable, and a
// publish failure is logged and swallowed, never surfaced to the caller
// acquiring a permit.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	logger  zerolog.Logger
}

// NewRedisPublisher builds a publisher writing to channel on client.
func NewRedisPublisher(client *redis.Client, channel string, logger zerolog.Logger) *RedisPublisher {
	return &RedisPublisher{
		client:  client,
		channel: channel,
		logger:  logger.With().Str("component", "ratelimit-telemetry").Logger(),
	}
}

// Callback adapts the publisher to a RateCallback.
func (p *RedisPublisher) Callback() RateCallback {
	return func(shard string, rate float64) {
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()
		msg := shard + ":" + formatRate(rate)
		if err := p.client.Publish(ctx, p.channel, msg).Err(); err != nil {
			p.logger.Debug().Err(err).Str("shard", shard).Msg("telemetry publish failed")
		}
	}
}

func formatRate(r float64) string {
	// Fixed 3-decimal formatting without importing strconv/fmt twice over
	// in the hot path; rate telemetry is best-effort so this need not be
	// exact.
	scaled := int64(r * 1000)
	whole := scaled / 1000
	frac := scaled % 1000
	if frac < 0 {
		frac = -frac
	}
	return itoa(whole) + "." + pad3(frac)
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func pad3(n int64) string {
	s := itoa(n)
	for len(s) < 3 {
		s = "0" + s
	}
	return s
}
