package store

import "context"

// ─── ClickHouse Schema SQL ──────────────────────────────────
//
// Every table carries a run_id column so Rollback can delete one run's
// rows without touching any other run's data (spec.md §4.10).

const ladderEntriesSchema = `
CREATE TABLE IF NOT EXISTS ladder_entries (
	run_id      String,
	puuid       String,
	shard       String,
	queue_type  String,
	tier        String,
	rank        String,
	wins        UInt32,
	losses      UInt32,
	ingested_at DateTime64(3) DEFAULT now64(3)
)
ENGINE = MergeTree()
ORDER BY (shard, puuid, run_id);
`

const matchIDsSchema = `
CREATE TABLE IF NOT EXISTS match_ids (
	run_id      String,
	puuid       String,
	queue       String,
	match_id    String,
	ingested_at DateTime64(3) DEFAULT now64(3)
)
ENGINE = MergeTree()
ORDER BY (match_id, run_id);
`

// knownPlayerPUUIDsSchema holds the current run's player PUUID universe,
// tagged with run_id. The match-id stage Saver writes it after its match-id
// stream is exhausted, not before; nothing in the pipeline reads it back to
// seed crawl cursors.
const knownPlayerPUUIDsSchema = `
CREATE TABLE IF NOT EXISTS known_player_puuids (
	run_id      String,
	puuid       String,
	ingested_at DateTime64(3) DEFAULT now64(3)
)
ENGINE = MergeTree()
ORDER BY (puuid, run_id);
`

// lastCollectedAtSchema holds one "last collected at" row, pruned down to
// the latest run on every successful match-id stage save.
const lastCollectedAtSchema = `
CREATE TABLE IF NOT EXISTS last_collected_at (
	run_id       String,
	collected_at Int64,
	ingested_at  DateTime64(3) DEFAULT now64(3)
)
ENGINE = MergeTree()
ORDER BY (run_id);
`

const metadataSchema = `
CREATE TABLE IF NOT EXISTS nt_metadata (
	run_id       String,
	match_id     String,
	data_version String,
	participants Array(String),
	ingested_at  DateTime64(3) DEFAULT now64(3)
)
ENGINE = MergeTree()
ORDER BY (match_id, run_id);
`

const gameInfoSchema = `
CREATE TABLE IF NOT EXISTS nt_game_info (
	run_id                String,
	match_id               Int64,
	end_of_game_result     String,
	game_creation          Int64,
	game_duration          Int64,
	game_end_timestamp     Int64,
	game_start_timestamp   Int64,
	game_type              String,
	game_version           String,
	season                 String,
	patch                  String,
	sub_version            String,
	map_id                 UInt16,
	platform_id            String,
	queue_id               UInt16,
	ingested_at            DateTime64(3) DEFAULT now64(3)
)
ENGINE = MergeTree()
ORDER BY (match_id, run_id);
`

const bansSchema = `
CREATE TABLE IF NOT EXISTS nt_bans (
	run_id      String,
	match_id    Int64,
	team_id     UInt16,
	pick_turn   UInt8,
	champion_id Int32,
	ingested_at DateTime64(3) DEFAULT now64(3)
)
ENGINE = MergeTree()
ORDER BY (match_id, team_id, run_id);
`

const featsSchema = `
CREATE TABLE IF NOT EXISTS nt_feats (
	run_id      String,
	match_id    Int64,
	team_id     UInt16,
	feat_type   String,
	feat_state  Int32,
	ingested_at DateTime64(3) DEFAULT now64(3)
)
ENGINE = MergeTree()
ORDER BY (match_id, team_id, run_id);
`

const objectivesSchema = `
CREATE TABLE IF NOT EXISTS nt_objectives (
	run_id         String,
	match_id       Int64,
	team_id        UInt16,
	objective_type String,
	first          UInt8,
	kills          UInt16,
	ingested_at    DateTime64(3) DEFAULT now64(3)
)
ENGINE = MergeTree()
ORDER BY (match_id, team_id, run_id);
`

const participantStatsSchema = `
CREATE TABLE IF NOT EXISTS nt_participant_stats (
	run_id                             String,
	match_id                           Int64,
	participant_id                     UInt8,
	puuid                              String,
	team_id                            UInt16,
	summoner_id                        String,
	summoner_level                     UInt32,
	summoner_name                      String,
	riot_id_game_name                  String,
	riot_id_tagline                    String,
	profile_icon                       Int32,
	champion_id                        Int32,
	champ_level                        UInt8,
	champ_experience                   Int32,
	team_position                      String,
	win                                UInt8,
	game_ended_in_early_surrender      UInt8,
	game_ended_in_surrender            UInt8,
	kills                              UInt16,
	deaths                             UInt16,
	assists                            UInt16,
	gold_earned                        Int32,
	gold_spent                         Int32,
	total_damage_dealt_to_champions    Int32,
	total_damage_taken                 Int32,
	total_heal                         Int32,
	total_minions_killed               UInt16,
	neutral_minions_killed             UInt16,
	vision_score                       UInt8,
	wards_placed                       UInt8,
	wards_killed                       UInt8,
	all_in_pings                       UInt8,
	assist_me_pings                    UInt8,
	basic_pings                        UInt8,
	command_pings                      UInt8,
	danger_pings                       UInt8,
	enemy_missing_pings                UInt8,
	enemy_vision_pings                 UInt8,
	get_back_pings                     UInt8,
	hold_pings                         UInt8,
	need_vision_pings                  UInt8,
	on_my_way_pings                    UInt8,
	push_pings                         UInt8,
	retreat_pings                      UInt8,
	unreal_kills                       UInt8,
	time_played                        Int32,
	ingested_at                        DateTime64(3) DEFAULT now64(3)
)
ENGINE = MergeTree()
ORDER BY (match_id, puuid, run_id);
`

const participantChallengesSchema = `
CREATE TABLE IF NOT EXISTS nt_participant_challenges (
	run_id      String,
	match_id    Int64,
	team_id     UInt16,
	puuid       String,
	payload     String,
	ingested_at DateTime64(3) DEFAULT now64(3)
)
ENGINE = MergeTree()
ORDER BY (match_id, puuid, run_id);
`

const participantPerkValuesSchema = `
CREATE TABLE IF NOT EXISTS nt_participant_perk_values (
	run_id          String,
	match_id        Int64,
	team_id         UInt16,
	puuid           String,
	primary_var1_1  Int32, primary_var2_1 Int32, primary_var3_1 Int32,
	primary_var1_2  Int32, primary_var2_2 Int32, primary_var3_2 Int32,
	primary_var1_3  Int32, primary_var2_3 Int32, primary_var3_3 Int32,
	primary_var1_4  Int32, primary_var2_4 Int32, primary_var3_4 Int32,
	sub_var1_1      Int32, sub_var2_1 Int32, sub_var3_1 Int32,
	sub_var1_2      Int32, sub_var2_2 Int32, sub_var3_2 Int32,
	ingested_at     DateTime64(3) DEFAULT now64(3)
)
ENGINE = MergeTree()
ORDER BY (match_id, puuid, run_id);
`

const participantPerkIdsSchema = `
CREATE TABLE IF NOT EXISTS nt_participant_perk_ids (
	run_id          String,
	match_id        Int64,
	team_id         UInt16,
	puuid           String,
	stat_defense    Int32,
	stat_flex       Int32,
	stat_offense    Int32,
	primary_style   Int32,
	sub_style       Int32,
	primary_perk_1  Int32, primary_perk_2 Int32, primary_perk_3 Int32, primary_perk_4 Int32,
	sub_perk_1      Int32, sub_perk_2 Int32,
	perk_combo_key  Int64,
	ingested_at     DateTime64(3) DEFAULT now64(3)
)
ENGINE = MergeTree()
ORDER BY (match_id, puuid, run_id);
`

const timelineParticipantStatsSchema = `
CREATE TABLE IF NOT EXISTS tl_participant_stats (
	run_id                              String,
	match_id                            Int64,
	frame_timestamp                     Int64,
	participant_id                      UInt8,
	ability_haste                       Int32,
	ability_power                       Int32,
	armor                               Int32,
	attack_damage                       Int32,
	attack_speed                        Int32,
	cc_reduction                        Int32,
	cooldown_reduction                  Int32,
	health                              Int32,
	health_max                          Int32,
	health_regen                        Int32,
	magic_resist                        Int32,
	movement_speed                      Int32,
	power                               Int32,
	power_max                           Int32,
	power_regen                         Int32,
	payload                             String,
	current_gold                        Int32,
	magic_damage_done                   Int32,
	magic_damage_done_to_champions      Int32,
	magic_damage_taken                  Int32,
	physical_damage_done                Int32,
	physical_damage_done_to_champions   Int32,
	physical_damage_taken               Int32,
	total_damage_done                   Int32,
	total_damage_done_to_champions      Int32,
	total_damage_taken                  Int32,
	true_damage_done                    Int32,
	true_damage_done_to_champions       Int32,
	true_damage_taken                   Int32,
	gold_per_second                     Int32,
	jungle_minions_killed               Int32,
	level                               Int32,
	minions_killed                      Int32,
	position_x                          Int32,
	position_y                          Int32,
	time_enemy_spent_controlled         Int32,
	total_gold                          Int32,
	xp                                  Int32,
	ingested_at                         DateTime64(3) DEFAULT now64(3)
)
ENGINE = MergeTree()
ORDER BY (match_id, participant_id, frame_timestamp, run_id);
`

const eventRowColumns = `
	run_id          String,
	match_id        Int64,
	frame_timestamp Int64,
	timestamp       Int64,
`

const buildingKillSchema = `
CREATE TABLE IF NOT EXISTS tl_building_kill (` + eventRowColumns + `
	bounty        UInt32,
	building_type String,
	killer_id     Int32,
	lane_type     String,
	position_x    Int32,
	position_y    Int32,
	team_id       UInt16,
	tower_type    Nullable(String),
	ingested_at   DateTime64(3) DEFAULT now64(3)
)
ENGINE = MergeTree()
ORDER BY (match_id, timestamp, run_id);
`

const championKillSchema = `
CREATE TABLE IF NOT EXISTS tl_champion_kill (` + eventRowColumns + `
	champion_kill_event_id String,
	killer_id               Int32,
	victim_id               Int32,
	bounty                  Int32,
	kill_streak_length      Int32,
	shutdown_bounty         Int32,
	position_x              Int32,
	position_y              Int32,
	ingested_at             DateTime64(3) DEFAULT now64(3)
)
ENGINE = MergeTree()
ORDER BY (champion_kill_event_id, run_id);
`

const championSpecialKillSchema = `
CREATE TABLE IF NOT EXISTS tl_champion_special_kill (` + eventRowColumns + `
	kill_type         String,
	killer_id         Int32,
	position_x        Int32,
	position_y        Int32,
	multi_kill_length Nullable(Int32),
	ingested_at       DateTime64(3) DEFAULT now64(3)
)
ENGINE = MergeTree()
ORDER BY (match_id, timestamp, run_id);
`

const dragonSoulGivenSchema = `
CREATE TABLE IF NOT EXISTS tl_dragon_soul_given (` + eventRowColumns + `
	name        String,
	team_id     Int32,
	ingested_at DateTime64(3) DEFAULT now64(3)
)
ENGINE = MergeTree()
ORDER BY (match_id, timestamp, run_id);
`

const eliteMonsterKillSchema = `
CREATE TABLE IF NOT EXISTS tl_elite_monster_kill (` + eventRowColumns + `
	assisting_participant_ids Array(Int32),
	bounty                    Int32,
	killer_id                 Int32,
	killer_team_id            Int32,
	monster_sub_type          Nullable(String),
	monster_type              String,
	position_x                Int32,
	position_y                Int32,
	ingested_at               DateTime64(3) DEFAULT now64(3)
)
ENGINE = MergeTree()
ORDER BY (match_id, timestamp, run_id);
`

const rareEventsSchema = `
CREATE TABLE IF NOT EXISTS tl_rare_events (` + eventRowColumns + `
	type        String,
	payload     String,
	ingested_at DateTime64(3) DEFAULT now64(3)
)
ENGINE = MergeTree()
ORDER BY (match_id, type, timestamp, run_id);
`

const turretPlateDestroyedSchema = `
CREATE TABLE IF NOT EXISTS tl_turret_plate_destroyed (` + eventRowColumns + `
	killer_id   Int32,
	lane_type   String,
	position_x  Int32,
	position_y  Int32,
	team_id     Int32,
	ingested_at DateTime64(3) DEFAULT now64(3)
)
ENGINE = MergeTree()
ORDER BY (match_id, timestamp, run_id);
`

const championKillDamageInstanceColumns = `
	run_id                  String,
	match_id                Int64,
	frame_timestamp         Int64,
	timestamp               Int64,
	champion_kill_event_id  String,
	direction               String,
	idx                     UInt16,
	basic                   UInt8,
	magic_damage            Int32,
	name                    String,
	participant_id          Int32,
	physical_damage         Int32,
	spell_name              String,
	spell_slot              Int32,
	true_damage             Int32,
	type                    String,
	ingested_at             DateTime64(3) DEFAULT now64(3)
`

const championKillDamageDealtSchema = `
CREATE TABLE IF NOT EXISTS tl_champion_kill_damage_dealt (
` + championKillDamageInstanceColumns + `
)
ENGINE = MergeTree()
ORDER BY (champion_kill_event_id, idx, run_id);
`

const championKillDamageReceivedSchema = `
CREATE TABLE IF NOT EXISTS tl_champion_kill_damage_received (
` + championKillDamageInstanceColumns + `
)
ENGINE = MergeTree()
ORDER BY (champion_kill_event_id, idx, run_id);
`

// AllSchemas returns every table's DDL in creation order.
func AllSchemas() []string {
	return []string{
		ladderEntriesSchema, matchIDsSchema, knownPlayerPUUIDsSchema, lastCollectedAtSchema,
		metadataSchema, gameInfoSchema, bansSchema, featsSchema, objectivesSchema,
		participantStatsSchema, participantChallengesSchema, participantPerkValuesSchema, participantPerkIdsSchema,
		timelineParticipantStatsSchema, buildingKillSchema, championKillSchema, championSpecialKillSchema,
		dragonSoulGivenSchema, eliteMonsterKillSchema, rareEventsSchema, turretPlateDestroyedSchema,
		championKillDamageDealtSchema, championKillDamageReceivedSchema,
	}
}

// Migrate creates every table that doesn't already exist.
func (s *Store) Migrate(ctx context.Context) error {
	for _, ddl := range AllSchemas() {
		if err := s.conn.Exec(ctx, ddl); err != nil {
			return err
		}
	}
	return nil
}
