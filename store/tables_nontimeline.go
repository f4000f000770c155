package store

import (
	"encoding/json"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/riftlabs/ladder-pipeline/parse/nontimeline"
)

const (
	metadataTable              = "nt_metadata"
	gameInfoTable               = "nt_game_info"
	bansTable                   = "nt_bans"
	featsTable                  = "nt_feats"
	objectivesTable             = "nt_objectives"
	participantStatsTable       = "nt_participant_stats"
	participantChallengesTable  = "nt_participant_challenges"
	participantPerkValuesTable  = "nt_participant_perk_values"
	participantPerkIdsTable     = "nt_participant_perk_ids"
)

const metadataInsertSQL = `INSERT INTO nt_metadata (run_id, match_id, data_version, participants)`

func appendMetadata(batch driver.Batch, runID string, row nontimeline.Metadata) error {
	return batch.Append(runID, row.MatchID, row.DataVersion, row.Participants)
}

const gameInfoInsertSQL = `INSERT INTO nt_game_info (
	run_id, match_id, end_of_game_result, game_creation, game_duration,
	game_end_timestamp, game_start_timestamp, game_type, game_version,
	season, patch, sub_version, map_id, platform_id, queue_id
)`

func appendGameInfo(batch driver.Batch, runID string, row nontimeline.GameInfo) error {
	return batch.Append(
		runID, row.MatchID, row.EndOfGameResult, row.GameCreation, row.GameDuration,
		row.GameEndTimestamp, row.GameStartTimestamp, row.GameType, row.GameVersion,
		row.Season, row.Patch, row.SubVersion, row.MapID, row.PlatformID, row.QueueID,
	)
}

const bansInsertSQL = `INSERT INTO nt_bans (run_id, match_id, team_id, pick_turn, champion_id)`

func appendBan(batch driver.Batch, runID string, row nontimeline.Ban) error {
	return batch.Append(runID, row.MatchID, row.TeamID, row.PickTurn, row.ChampionID)
}

const featsInsertSQL = `INSERT INTO nt_feats (run_id, match_id, team_id, feat_type, feat_state)`

func appendFeat(batch driver.Batch, runID string, row nontimeline.Feat) error {
	return batch.Append(runID, row.MatchID, row.TeamID, row.FeatType, row.FeatState)
}

const objectivesInsertSQL = `INSERT INTO nt_objectives (run_id, match_id, team_id, objective_type, first, kills)`

func appendObjective(batch driver.Batch, runID string, row nontimeline.Objective) error {
	return batch.Append(runID, row.MatchID, row.TeamID, row.ObjectiveType, row.First, row.Kills)
}

const participantStatsInsertSQL = `INSERT INTO nt_participant_stats (
	run_id, match_id, participant_id, puuid, team_id,
	summoner_id, summoner_level, summoner_name, riot_id_game_name, riot_id_tagline,
	profile_icon, champion_id, champ_level, champ_experience, team_position,
	win, game_ended_in_early_surrender, game_ended_in_surrender,
	kills, deaths, assists, gold_earned, gold_spent,
	total_damage_dealt_to_champions, total_damage_taken, total_heal,
	total_minions_killed, neutral_minions_killed,
	vision_score, wards_placed, wards_killed, all_in_pings, assist_me_pings,
	basic_pings, command_pings, danger_pings, enemy_missing_pings, enemy_vision_pings,
	get_back_pings, hold_pings, need_vision_pings, on_my_way_pings, push_pings,
	retreat_pings, unreal_kills, time_played
)`

func appendParticipantStats(batch driver.Batch, runID string, row nontimeline.ParticipantStats) error {
	return batch.Append(
		runID, row.MatchID, row.ParticipantID, row.PUUID, row.TeamID,
		row.SummonerID, row.SummonerLevel, row.SummonerName, row.RiotIDGameName, row.RiotIDTagline,
		row.ProfileIcon, row.ChampionID, row.ChampLevel, row.ChampExperience, row.TeamPosition,
		row.Win, row.GameEndedInEarlySurrender, row.GameEndedInSurrender,
		row.Kills, row.Deaths, row.Assists, row.GoldEarned, row.GoldSpent,
		row.TotalDamageDealtToChampions, row.TotalDamageTaken, row.TotalHeal,
		row.TotalMinionsKilled, row.NeutralMinionsKilled,
		row.VisionScore, row.WardsPlaced, row.WardsKilled, row.AllInPings, row.AssistMePings,
		row.BasicPings, row.CommandPings, row.DangerPings, row.EnemyMissingPings, row.EnemyVisionPings,
		row.GetBackPings, row.HoldPings, row.NeedVisionPings, row.OnMyWayPings, row.PushPings,
		row.RetreatPings, row.UnrealKills, row.TimePlayed,
	)
}

const participantChallengesInsertSQL = `INSERT INTO nt_participant_challenges (run_id, match_id, team_id, puuid, payload)`

func appendParticipantChallenges(batch driver.Batch, runID string, row nontimeline.ParticipantChallenges) error {
	payload, err := json.Marshal(row.Payload)
	if err != nil {
		return err
	}
	return batch.Append(runID, row.MatchID, row.TeamID, row.PUUID, string(payload))
}

const participantPerkValuesInsertSQL = `INSERT INTO nt_participant_perk_values (
	run_id, match_id, team_id, puuid,
	primary_var1_1, primary_var2_1, primary_var3_1,
	primary_var1_2, primary_var2_2, primary_var3_2,
	primary_var1_3, primary_var2_3, primary_var3_3,
	primary_var1_4, primary_var2_4, primary_var3_4,
	sub_var1_1, sub_var2_1, sub_var3_1,
	sub_var1_2, sub_var2_2, sub_var3_2
)`

func appendParticipantPerkValues(batch driver.Batch, runID string, row nontimeline.ParticipantPerkValues) error {
	return batch.Append(
		runID, row.MatchID, row.TeamID, row.PUUID,
		row.PrimaryVar1_1, row.PrimaryVar2_1, row.PrimaryVar3_1,
		row.PrimaryVar1_2, row.PrimaryVar2_2, row.PrimaryVar3_2,
		row.PrimaryVar1_3, row.PrimaryVar2_3, row.PrimaryVar3_3,
		row.PrimaryVar1_4, row.PrimaryVar2_4, row.PrimaryVar3_4,
		row.SubVar1_1, row.SubVar2_1, row.SubVar3_1,
		row.SubVar1_2, row.SubVar2_2, row.SubVar3_2,
	)
}

const participantPerkIdsInsertSQL = `INSERT INTO nt_participant_perk_ids (
	run_id, match_id, team_id, puuid,
	stat_defense, stat_flex, stat_offense,
	primary_style, sub_style,
	primary_perk_1, primary_perk_2, primary_perk_3, primary_perk_4,
	sub_perk_1, sub_perk_2, perk_combo_key
)`

func appendParticipantPerkIds(batch driver.Batch, runID string, row nontimeline.ParticipantPerkIds) error {
	return batch.Append(
		runID, row.MatchID, row.TeamID, row.PUUID,
		row.StatDefense, row.StatFlex, row.StatOffense,
		row.PrimaryStyle, row.SubStyle,
		row.PrimaryPerk1, row.PrimaryPerk2, row.PrimaryPerk3, row.PrimaryPerk4,
		row.SubPerk1, row.SubPerk2, row.PerkComboKey,
	)
}
