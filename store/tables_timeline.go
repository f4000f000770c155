package store

import (
	"encoding/json"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/riftlabs/ladder-pipeline/parse/timeline"
)

const (
	timelineParticipantStatsTable       = "tl_participant_stats"
	buildingKillTable                   = "tl_building_kill"
	championKillTable                   = "tl_champion_kill"
	championSpecialKillTable            = "tl_champion_special_kill"
	dragonSoulGivenTable                = "tl_dragon_soul_given"
	eliteMonsterKillTable               = "tl_elite_monster_kill"
	rareEventsTable                     = "tl_rare_events"
	turretPlateDestroyedTable           = "tl_turret_plate_destroyed"
	championKillDamageDealtTable        = "tl_champion_kill_damage_dealt"
	championKillDamageReceivedTable     = "tl_champion_kill_damage_received"
)

const timelineParticipantStatsInsertSQL = `INSERT INTO tl_participant_stats (
	run_id, match_id, frame_timestamp, participant_id,
	ability_haste, ability_power, armor, attack_damage, attack_speed,
	cc_reduction, cooldown_reduction, health, health_max, health_regen,
	magic_resist, movement_speed, power, power_max, power_regen, payload,
	current_gold,
	magic_damage_done, magic_damage_done_to_champions, magic_damage_taken,
	physical_damage_done, physical_damage_done_to_champions, physical_damage_taken,
	total_damage_done, total_damage_done_to_champions, total_damage_taken,
	true_damage_done, true_damage_done_to_champions, true_damage_taken,
	gold_per_second, jungle_minions_killed, level, minions_killed,
	position_x, position_y, time_enemy_spent_controlled, total_gold, xp
)`

func appendTimelineParticipantStats(batch driver.Batch, runID string, row timeline.ParticipantStats) error {
	payload, err := json.Marshal(row.Payload)
	if err != nil {
		return err
	}
	return batch.Append(
		runID, row.MatchID, row.FrameTimestamp, row.ParticipantID,
		row.AbilityHaste, row.AbilityPower, row.Armor, row.AttackDamage, row.AttackSpeed,
		row.CCReduction, row.CooldownReduction, row.Health, row.HealthMax, row.HealthRegen,
		row.MagicResist, row.MovementSpeed, row.Power, row.PowerMax, row.PowerRegen, string(payload),
		row.CurrentGold,
		row.MagicDamageDone, row.MagicDamageDoneToChampions, row.MagicDamageTaken,
		row.PhysicalDamageDone, row.PhysicalDamageDoneToChampions, row.PhysicalDamageTaken,
		row.TotalDamageDone, row.TotalDamageDoneToChampions, row.TotalDamageTaken,
		row.TrueDamageDone, row.TrueDamageDoneToChampions, row.TrueDamageTaken,
		row.GoldPerSecond, row.JungleMinionsKilled, row.Level, row.MinionsKilled,
		row.PositionX, row.PositionY, row.TimeEnemySpentControlled, row.TotalGold, row.XP,
	)
}

const buildingKillInsertSQL = `INSERT INTO tl_building_kill (
	run_id, match_id, frame_timestamp, timestamp,
	bounty, building_type, killer_id, lane_type, position_x, position_y, team_id, tower_type
)`

func appendBuildingKill(batch driver.Batch, runID string, row timeline.BuildingKillRow) error {
	return batch.Append(
		runID, row.MatchID, row.FrameTimestamp, row.Timestamp,
		row.Bounty, row.BuildingType, row.KillerID, row.LaneType, row.PositionX, row.PositionY, row.TeamID, row.TowerType,
	)
}

const championKillInsertSQL = `INSERT INTO tl_champion_kill (
	run_id, match_id, frame_timestamp, timestamp,
	champion_kill_event_id, killer_id, victim_id, bounty, kill_streak_length,
	shutdown_bounty, position_x, position_y
)`

func appendChampionKill(batch driver.Batch, runID string, row timeline.ChampionKillRow) error {
	return batch.Append(
		runID, row.MatchID, row.FrameTimestamp, row.Timestamp,
		row.ChampionKillEventID, row.KillerID, row.VictimID, row.Bounty, row.KillStreakLength,
		row.ShutdownBounty, row.PositionX, row.PositionY,
	)
}

const championSpecialKillInsertSQL = `INSERT INTO tl_champion_special_kill (
	run_id, match_id, frame_timestamp, timestamp,
	kill_type, killer_id, position_x, position_y, multi_kill_length
)`

func appendChampionSpecialKill(batch driver.Batch, runID string, row timeline.ChampionSpecialKillRow) error {
	return batch.Append(
		runID, row.MatchID, row.FrameTimestamp, row.Timestamp,
		row.KillType, row.KillerID, row.PositionX, row.PositionY, row.MultiKillLength,
	)
}

const dragonSoulGivenInsertSQL = `INSERT INTO tl_dragon_soul_given (run_id, match_id, frame_timestamp, timestamp, name, team_id)`

func appendDragonSoulGiven(batch driver.Batch, runID string, row timeline.DragonSoulGivenRow) error {
	return batch.Append(runID, row.MatchID, row.FrameTimestamp, row.Timestamp, row.Name, row.TeamID)
}

const eliteMonsterKillInsertSQL = `INSERT INTO tl_elite_monster_kill (
	run_id, match_id, frame_timestamp, timestamp,
	assisting_participant_ids, bounty, killer_id, killer_team_id,
	monster_sub_type, monster_type, position_x, position_y
)`

func appendEliteMonsterKill(batch driver.Batch, runID string, row timeline.EliteMonsterKillRow) error {
	return batch.Append(
		runID, row.MatchID, row.FrameTimestamp, row.Timestamp,
		row.AssistingParticipantIDs, row.Bounty, row.KillerID, row.KillerTeamID,
		row.MonsterSubType, row.MonsterType, row.PositionX, row.PositionY,
	)
}

const rareEventsInsertSQL = `INSERT INTO tl_rare_events (run_id, match_id, frame_timestamp, timestamp, type, payload)`

func appendRareEvent(batch driver.Batch, runID string, row timeline.RareEventRow) error {
	payload, err := json.Marshal(row.Payload)
	if err != nil {
		return err
	}
	return batch.Append(runID, row.MatchID, row.FrameTimestamp, row.Timestamp, row.Type, string(payload))
}

const turretPlateDestroyedInsertSQL = `INSERT INTO tl_turret_plate_destroyed (
	run_id, match_id, frame_timestamp, timestamp, killer_id, lane_type, position_x, position_y, team_id
)`

func appendTurretPlateDestroyed(batch driver.Batch, runID string, row timeline.TurretPlateDestroyedRow) error {
	return batch.Append(
		runID, row.MatchID, row.FrameTimestamp, row.Timestamp,
		row.KillerID, row.LaneType, row.PositionX, row.PositionY, row.TeamID,
	)
}

const championKillDamageInstanceInsertSQL = `INSERT INTO %s (
	run_id, match_id, frame_timestamp, timestamp, champion_kill_event_id, direction, idx,
	basic, magic_damage, name, participant_id, physical_damage, spell_name, spell_slot, true_damage, type
)`

func appendChampionKillDamageInstance(batch driver.Batch, runID string, row timeline.ChampionKillDamageInstanceRow) error {
	return batch.Append(
		runID, row.MatchID, row.FrameTimestamp, row.Timestamp, row.ChampionKillEventID, row.Direction, row.Idx,
		row.Basic, row.MagicDamage, row.Name, row.ParticipantID, row.PhysicalDamage, row.SpellName, row.SpellSlot, row.TrueDamage, row.Type,
	)
}
