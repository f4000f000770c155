// Command pipeline wires configuration, logging, the HTTP fetch layer,
// the ClickHouse store, and the recurring players→match-ids→match-data
// cycle behind a small trigger/metrics HTTP server (spec.md §6).
package main

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/riftlabs/ladder-pipeline/config"
	"github.com/riftlabs/ladder-pipeline/httpfetch"
	"github.com/riftlabs/ladder-pipeline/ladder"
	"github.com/riftlabs/ladder-pipeline/logger"
	"github.com/riftlabs/ladder-pipeline/matchids"
	"github.com/riftlabs/ladder-pipeline/matchpayload"
	"github.com/riftlabs/ladder-pipeline/observability"
	"github.com/riftlabs/ladder-pipeline/orchestrator"
	"github.com/riftlabs/ladder-pipeline/orchestrator/stage"
	"github.com/riftlabs/ladder-pipeline/ratelimit"
	"github.com/riftlabs/ladder-pipeline/redisclient"
	"github.com/riftlabs/ladder-pipeline/riot"
	"github.com/riftlabs/ladder-pipeline/router"
	"github.com/riftlabs/ladder-pipeline/runner"
	"github.com/riftlabs/ladder-pipeline/store"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg)

	log.Info().Str("env", cfg.Env).Msg("ladder pipeline starting")

	registerer := prometheus.DefaultRegisterer
	fetchMetrics := observability.NewFetchMetrics(registerer)
	storeMetrics := observability.NewStoreMetrics(registerer)
	runnerMetrics := observability.NewRunnerMetrics(registerer)
	limiterMetrics := observability.NewLimiterMetrics(registerer)

	onRate := limiterMetrics.Callback()
	if rc, err := redisclient.New(cfg); err != nil {
		log.Warn().Err(err).Msg("redis init failed — continuing without telemetry publish")
	} else if err := rc.Ping(); err != nil {
		log.Warn().Err(err).Msg("redis ping failed — continuing without telemetry publish")
	} else {
		log.Info().Msg("redis connected")
		publisher := ratelimit.NewRedisPublisher(rc.Raw(), cfg.TelemetryChannel, log)
		prevOnRate := onRate
		onRate = func(shard string, rate float64) {
			prevOnRate(shard, rate)
			publisher.Callback()(shard, rate)
		}
	}

	limiters := ratelimit.NewRegistryWithTelemetry(onRate)

	fetcher := httpfetch.New(limiters, cfg.RiotAPIKey, cfg.RateLimitCalls, cfg.RateLimitPeriod, fetchMetrics, log)

	conn, err := store.Open(store.ConnConfig{
		Host:     cfg.ClickHouseHost,
		Port:     cfg.ClickHousePort,
		Database: cfg.ClickHouseDatabase,
		User:     cfg.ClickHouseUser,
		Password: cfg.ClickHousePassword,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("clickhouse connection failed")
	}

	persist := store.New(conn, storeMetrics, log)

	ctx, stop := runner.WithStopSignal(context.Background())
	defer stop()

	if err := persist.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("clickhouse schema migration failed")
	}
	persist.Start(ctx)
	defer persist.Close()

	bounds := defaultQueueBounds()

	triggers := make(chan struct{}, 1)
	rn := &runner.Runner{
		Cycle: func(ctx context.Context) error {
			select {
			case <-triggers:
			default:
			}
			return runPipelineCycle(ctx, fetcher, persist, bounds, log)
		},
		Interval:   time.Duration(cfg.CycleIntervalSeconds) * time.Second,
		MinBackoff: time.Duration(cfg.MinBackoffSeconds) * time.Second,
		MaxBackoff: time.Duration(cfg.MaxBackoffSeconds) * time.Second,
		Metrics:    runnerMetrics,
		Logger:     log,
	}
	go rn.Run(ctx)

	trig := &manualTrigger{triggers: triggers}
	r := router.NewRouter(log, trig)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("pipeline trigger/metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	} else {
		log.Info().Msg("pipeline stopped gracefully")
	}
}

// manualTrigger satisfies router.Trigger. TriggerPlayersRun mints a fresh
// id for the response and leaves at most one pending signal on triggers.
// The runner does not watch that channel: its sleep is not cut short and
// no extra cycle is started. The next scheduled cycle discards the pending
// signal before it runs, and the returned id is not the run id of any
// stage run.
type manualTrigger struct {
	triggers chan struct{}
}

func (t *manualTrigger) TriggerPlayersRun() string {
	taskID := orchestrator.NewContext("players").RunID
	select {
	case t.triggers <- struct{}{}:
	default:
	}
	return taskID
}

func defaultQueueBounds() map[riot.Queue]riot.QueueBounds {
	return map[riot.Queue]riot.QueueBounds{
		riot.QueueSolo: {Elite: riot.EliteBounds{Collect: true}, SubElite: riot.SubEliteBounds{Collect: true}},
		riot.QueueFlex: {Elite: riot.EliteBounds{Collect: true}, SubElite: riot.SubEliteBounds{Collect: true}},
	}
}

// runPipelineCycle runs the players, match-id, and match-data stages in
// order within one process, threading each stage's output into the next
// (spec.md §4.11, §4.12).
func runPipelineCycle(ctx context.Context, fetcher *httpfetch.Fetcher, persist *store.Store, bounds map[riot.Queue]riot.QueueBounds, log zerolog.Logger) error {
	endTime := time.Now().Unix()

	players, err := runPlayersStage(ctx, fetcher, persist, bounds, log)
	if err != nil {
		return err
	}

	cursors := make([]matchids.State, 0, len(players))
	for _, e := range players {
		cursors = append(cursors, matchids.State{
			PUUID:      e.PUUID,
			Queue:      riot.Queue(e.QueueType),
			SuperShard: riot.SuperShardOf(e.Shard),
			StartTime:  0,
		})
	}

	matchIDs, err := runMatchIDsStage(ctx, fetcher, persist, cursors, endTime, log)
	if err != nil {
		return err
	}

	return runMatchDataStage(ctx, fetcher, persist, matchIDs, log)
}

func runPlayersStage(ctx context.Context, fetcher *httpfetch.Fetcher, persist *store.Store, bounds map[riot.Queue]riot.QueueBounds, log zerolog.Logger) ([]ladder.Entry, error) {
	var collected []ladder.Entry
	o := &orchestrator.Orchestrator[stage.PlayersState, ladder.Entry]{
		Pipeline:  "players",
		Loader:    stage.PlayersLoader{Bounds: bounds},
		Collector: stage.PlayersCollector{Fetcher: fetcher, Logger: log},
		Saver:     stage.PlayersSaver{Store: persist, Collected: &collected},
	}
	if err := o.Run(ctx); err != nil {
		return nil, err
	}
	return collected, nil
}

func runMatchIDsStage(ctx context.Context, fetcher *httpfetch.Fetcher, persist *store.Store, cursors []matchids.State, endTime int64, log zerolog.Logger) ([]string, error) {
	var collected []string
	o := &orchestrator.Orchestrator[stage.MatchIDsState, matchids.Page]{
		Pipeline:  "match-ids",
		Loader:    stage.MatchIDsLoader{Players: cursors, EndTime: endTime},
		Collector: stage.MatchIDsCollector{Fetcher: fetcher, Logger: log},
		Saver:     stage.MatchIDsSaver{Store: persist, Collected: &collected},
	}
	if err := o.Run(ctx); err != nil {
		return nil, err
	}
	return collected, nil
}

func runMatchDataStage(ctx context.Context, fetcher *httpfetch.Fetcher, persist *store.Store, matchIDs []string, log zerolog.Logger) error {
	o := &orchestrator.Orchestrator[stage.MatchDataState, matchpayload.Item]{
		Pipeline:  "match-data",
		Loader:    stage.MatchDataLoader{MatchIDs: matchIDs},
		Collector: stage.MatchDataCollector{Fetcher: fetcher, Logger: log},
		Saver:     stage.MatchDataSaver{Store: persist, Logger: log},
	}
	return o.Run(ctx)
}
