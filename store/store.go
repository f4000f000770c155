package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/rs/zerolog"

	"github.com/riftlabs/ladder-pipeline/ladder"
	"github.com/riftlabs/ladder-pipeline/observability"
	"github.com/riftlabs/ladder-pipeline/parse/nontimeline"
	"github.com/riftlabs/ladder-pipeline/parse/timeline"
)

// allTables names every table store writes to and can roll back, in no
// particular order.
var allTables = []string{
	ladderEntriesTable, matchIDsTable, knownPlayerPUUIDsTable, lastCollectedAtTable,
	metadataTable, gameInfoTable, bansTable, featsTable, objectivesTable,
	participantStatsTable, participantChallengesTable, participantPerkValuesTable, participantPerkIdsTable,
	timelineParticipantStatsTable, buildingKillTable, championKillTable, championSpecialKillTable,
	dragonSoulGivenTable, eliteMonsterKillTable, rareEventsTable, turretPlateDestroyedTable,
	championKillDamageDealtTable, championKillDamageReceivedTable,
}

// Store batches and persists every row type this pipeline produces, and
// can delete everything written under one run id (spec.md §4.10).
type Store struct {
	conn    driver.Conn
	metrics *observability.StoreMetrics
	logger  zerolog.Logger

	ladderEntries *tableSink[ladder.Entry]
	matchIDs      *tableSink[MatchIDRow]

	metadata              *tableSink[nontimeline.Metadata]
	gameInfo              *tableSink[nontimeline.GameInfo]
	bans                  *tableSink[nontimeline.Ban]
	feats                 *tableSink[nontimeline.Feat]
	objectives            *tableSink[nontimeline.Objective]
	participantStats      *tableSink[nontimeline.ParticipantStats]
	participantChallenges *tableSink[nontimeline.ParticipantChallenges]
	participantPerkValues *tableSink[nontimeline.ParticipantPerkValues]
	participantPerkIds    *tableSink[nontimeline.ParticipantPerkIds]

	timelineParticipantStats *tableSink[timeline.ParticipantStats]
	buildingKill             *tableSink[timeline.BuildingKillRow]
	championKill             *tableSink[timeline.ChampionKillRow]
	championSpecialKill      *tableSink[timeline.ChampionSpecialKillRow]
	dragonSoulGiven          *tableSink[timeline.DragonSoulGivenRow]
	eliteMonsterKill         *tableSink[timeline.EliteMonsterKillRow]
	rareEvents               *tableSink[timeline.RareEventRow]
	turretPlateDestroyed     *tableSink[timeline.TurretPlateDestroyedRow]
	damageDealt              *tableSink[timeline.ChampionKillDamageInstanceRow]
	damageReceived           *tableSink[timeline.ChampionKillDamageInstanceRow]

	sinks []sink
}

// sink is the subset of tableSink[T]'s methods Store needs independent of
// row type.
type sink interface {
	start(ctx context.Context)
	stop()
	Err() error
}

const (
	defaultBatchSize = 5000

	// playersBatchSize and matchIDsBatchSize match the per-stage buffer
	// sizes named in spec.md §4.11 ("Saver inserts in fixed-size batches
	// (20 000)...", "...buffer 200 000 rows, or 1s timeout...").
	playersBatchSize  = 20000
	matchIDsBatchSize = 200000
	matchIDsFlush     = time.Second
)

// New constructs a Store with one buffered sink per table, not yet
// started — call Start to launch the flush workers.
func New(conn driver.Conn, metrics *observability.StoreMetrics, logger zerolog.Logger) *Store {
	s := &Store{conn: conn, metrics: metrics, logger: logger.With().Str("component", "store").Logger()}

	s.ladderEntries = newTableSink(conn, ladderEntriesTable, ladderEntriesInsertSQL, appendLadderEntry, playersBatchSize, metrics, logger)
	s.matchIDs = newTableSink(conn, matchIDsTable, matchIDsInsertSQL, appendMatchID, matchIDsBatchSize, metrics, logger).withFlushInterval(matchIDsFlush)

	s.metadata = newTableSink(conn, metadataTable, metadataInsertSQL, appendMetadata, defaultBatchSize, metrics, logger)
	s.gameInfo = newTableSink(conn, gameInfoTable, gameInfoInsertSQL, appendGameInfo, defaultBatchSize, metrics, logger)
	s.bans = newTableSink(conn, bansTable, bansInsertSQL, appendBan, defaultBatchSize, metrics, logger)
	s.feats = newTableSink(conn, featsTable, featsInsertSQL, appendFeat, defaultBatchSize, metrics, logger)
	s.objectives = newTableSink(conn, objectivesTable, objectivesInsertSQL, appendObjective, defaultBatchSize, metrics, logger)
	s.participantStats = newTableSink(conn, participantStatsTable, participantStatsInsertSQL, appendParticipantStats, defaultBatchSize, metrics, logger)
	s.participantChallenges = newTableSink(conn, participantChallengesTable, participantChallengesInsertSQL, appendParticipantChallenges, defaultBatchSize, metrics, logger)
	s.participantPerkValues = newTableSink(conn, participantPerkValuesTable, participantPerkValuesInsertSQL, appendParticipantPerkValues, defaultBatchSize, metrics, logger)
	s.participantPerkIds = newTableSink(conn, participantPerkIdsTable, participantPerkIdsInsertSQL, appendParticipantPerkIds, defaultBatchSize, metrics, logger)

	s.timelineParticipantStats = newTableSink(conn, timelineParticipantStatsTable, timelineParticipantStatsInsertSQL, appendTimelineParticipantStats, defaultBatchSize, metrics, logger)
	s.buildingKill = newTableSink(conn, buildingKillTable, buildingKillInsertSQL, appendBuildingKill, defaultBatchSize, metrics, logger)
	s.championKill = newTableSink(conn, championKillTable, championKillInsertSQL, appendChampionKill, defaultBatchSize, metrics, logger)
	s.championSpecialKill = newTableSink(conn, championSpecialKillTable, championSpecialKillInsertSQL, appendChampionSpecialKill, defaultBatchSize, metrics, logger)
	s.dragonSoulGiven = newTableSink(conn, dragonSoulGivenTable, dragonSoulGivenInsertSQL, appendDragonSoulGiven, defaultBatchSize, metrics, logger)
	s.eliteMonsterKill = newTableSink(conn, eliteMonsterKillTable, eliteMonsterKillInsertSQL, appendEliteMonsterKill, defaultBatchSize, metrics, logger)
	s.rareEvents = newTableSink(conn, rareEventsTable, rareEventsInsertSQL, appendRareEvent, defaultBatchSize, metrics, logger)
	s.turretPlateDestroyed = newTableSink(conn, turretPlateDestroyedTable, turretPlateDestroyedInsertSQL, appendTurretPlateDestroyed, defaultBatchSize, metrics, logger)

	dealtSQL := fmt.Sprintf(championKillDamageInstanceInsertSQL, championKillDamageDealtTable)
	receivedSQL := fmt.Sprintf(championKillDamageInstanceInsertSQL, championKillDamageReceivedTable)
	s.damageDealt = newTableSink(conn, championKillDamageDealtTable, dealtSQL, appendChampionKillDamageInstance, defaultBatchSize, metrics, logger)
	s.damageReceived = newTableSink(conn, championKillDamageReceivedTable, receivedSQL, appendChampionKillDamageInstance, defaultBatchSize, metrics, logger)

	s.sinks = []sink{
		s.ladderEntries, s.matchIDs,
		s.metadata, s.gameInfo, s.bans, s.feats, s.objectives,
		s.participantStats, s.participantChallenges, s.participantPerkValues, s.participantPerkIds,
		s.timelineParticipantStats, s.buildingKill, s.championKill, s.championSpecialKill,
		s.dragonSoulGiven, s.eliteMonsterKill, s.rareEvents, s.turretPlateDestroyed,
		s.damageDealt, s.damageReceived,
	}
	return s
}

// Start launches every table's flush worker.
func (s *Store) Start(ctx context.Context) {
	for _, sink := range s.sinks {
		sink.start(ctx)
	}
}

// Close stops every worker, flushing whatever remains buffered.
func (s *Store) Close() {
	for _, sink := range s.sinks {
		sink.stop()
	}
}

// Err reports and clears every table's terminal flush failure since the
// last call, joined into one error. A Saver should poll this while
// draining its item channel so a batch dropped after retries surfaces as
// a stage failure and triggers rollback (spec.md §4.10) instead of being
// silently lost.
func (s *Store) Err() error {
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Err(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SaveLadderEntry submits one ladder entry row.
func (s *Store) SaveLadderEntry(runID string, e ladder.Entry) { s.ladderEntries.submit(e, runID) }

// SaveMatchID submits one discovered match id.
func (s *Store) SaveMatchID(runID string, row MatchIDRow) { s.matchIDs.submit(row, runID) }

// SaveNonTimeline submits every row of one match's non-timeline tables.
func (s *Store) SaveNonTimeline(runID string, t nontimeline.Tables) {
	for _, r := range t.Metadata {
		s.metadata.submit(r, runID)
	}
	for _, r := range t.GameInfo {
		s.gameInfo.submit(r, runID)
	}
	for _, r := range t.Bans {
		s.bans.submit(r, runID)
	}
	for _, r := range t.Feats {
		s.feats.submit(r, runID)
	}
	for _, r := range t.Objectives {
		s.objectives.submit(r, runID)
	}
	for _, r := range t.ParticipantStats {
		s.participantStats.submit(r, runID)
	}
	for _, r := range t.ParticipantChallenges {
		s.participantChallenges.submit(r, runID)
	}
	for _, r := range t.ParticipantPerkValues {
		s.participantPerkValues.submit(r, runID)
	}
	for _, r := range t.ParticipantPerkIds {
		s.participantPerkIds.submit(r, runID)
	}
}

// SaveTimeline submits every row of one match's timeline tables.
func (s *Store) SaveTimeline(runID string, t timeline.Tables) {
	for _, r := range t.ParticipantStats {
		s.timelineParticipantStats.submit(r, runID)
	}
	for _, r := range t.BuildingKill {
		s.buildingKill.submit(r, runID)
	}
	for _, r := range t.ChampionKill {
		s.championKill.submit(r, runID)
	}
	for _, r := range t.ChampionSpecialKill {
		s.championSpecialKill.submit(r, runID)
	}
	for _, r := range t.DragonSoulGiven {
		s.dragonSoulGiven.submit(r, runID)
	}
	for _, r := range t.EliteMonsterKill {
		s.eliteMonsterKill.submit(r, runID)
	}
	for _, r := range t.RareEvents {
		s.rareEvents.submit(r, runID)
	}
	for _, r := range t.TurretPlateDestroyed {
		s.turretPlateDestroyed.submit(r, runID)
	}
	for _, r := range t.ChampionKillVictimDamageDealt {
		s.damageDealt.submit(r, runID)
	}
	for _, r := range t.ChampionKillVictimDamageReceived {
		s.damageReceived.submit(r, runID)
	}
}
