package nontimeline

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/riftlabs/ladder-pipeline/schemadrift"
)

var objectiveTypes = []string{"atakhan", "baron", "champion", "dragon", "horde", "inhibitor", "riftHerald", "tower"}

// Run validates and projects one raw match-detail payload into Tables.
// Schema drift is logged but never rejects the payload. A payload that
// fails to decode at all is logged and yields empty Tables rather than
// an error, mirroring the "initial tuning" soft-fail behavior of the
// upstream orchestrator this was translated from. There is no setting
// that turns a decode or validation failure into an error.
func Run(raw json.RawMessage, logger zerolog.Logger) Tables {
	decoded, err := schemadrift.Decode(raw)
	if err != nil {
		logger.Warn().Err(err).Msg("non-timeline payload is not valid JSON, skipping")
		return Tables{}
	}
	schemadrift.LogIfAny(logger, matchIDHint(decoded), schemadrift.Scan(driftRegistry(), decoded))

	var m rawMatch
	if err := json.Unmarshal(raw, &m); err != nil {
		logger.Warn().Err(err).Msg("non-timeline payload failed to validate, returning empty tables")
		return Tables{}
	}

	matchID := m.Metadata.MatchID
	numericMatchID := numericSuffix(matchID)

	season, patch, subVersion := decomposeVersion(m.Info.GameVersion, logger)

	tables := Tables{
		Metadata: []Metadata{{
			MatchID:      matchID,
			DataVersion:  m.Metadata.DataVersion,
			Participants: m.Metadata.Participants,
		}},
		GameInfo: []GameInfo{{
			EndOfGameResult:    m.Info.EndOfGameResult,
			GameCreation:       m.Info.GameCreation,
			GameDuration:       m.Info.GameDuration,
			GameEndTimestamp:   m.Info.GameEndTimestamp,
			MatchID:            numericMatchID,
			GameStartTimestamp: m.Info.GameStartTimestamp,
			GameType:           m.Info.GameType,
			GameVersion:        m.Info.GameVersion,
			Season:             season,
			Patch:              patch,
			SubVersion:         subVersion,
			MapID:              m.Info.MapID,
			PlatformID:         m.Info.PlatformID,
			QueueID:            m.Info.QueueID,
		}},
	}

	for _, team := range m.Info.Teams {
		for _, ban := range team.Bans {
			tables.Bans = append(tables.Bans, Ban{
				MatchID:    numericMatchID,
				TeamID:     team.TeamID,
				PickTurn:   ban.PickTurn,
				ChampionID: ban.ChampionID,
			})
		}

		tables.Feats = append(tables.Feats, parseFeats(numericMatchID, team)...)

		if team.Objectives != nil {
			for _, objType := range objectiveTypes {
				obj := objectiveByType(team.Objectives, objType)
				if obj == nil {
					continue
				}
				tables.Objectives = append(tables.Objectives, Objective{
					MatchID:       numericMatchID,
					TeamID:        team.TeamID,
					ObjectiveType: objType,
					First:         obj.First,
					Kills:         obj.Kills,
				})
			}
		}
	}

	for _, p := range m.Info.Participants {
		tables.ParticipantStats = append(tables.ParticipantStats, parseParticipantStats(numericMatchID, p))
		tables.ParticipantChallenges = append(tables.ParticipantChallenges, parseChallenges(numericMatchID, p))
		tables.ParticipantPerkValues = append(tables.ParticipantPerkValues, parsePerkValues(numericMatchID, p))
		tables.ParticipantPerkIds = append(tables.ParticipantPerkIds, parsePerkIds(numericMatchID, p))
	}

	return tables
}

// decomposeVersion splits "14.3.567.1234"-shaped version strings into
// season/patch/sub-version, falling back to "unknown" for any component
// missing after a split on fewer than 3 parts.
func decomposeVersion(gameVersion string, logger zerolog.Logger) (season, patch, subVersion string) {
	parts := strings.Split(gameVersion, ".")
	if len(parts) < 3 {
		logger.Warn().Str("game_version", gameVersion).Msg("game version has fewer than 3 components")
		season, patch, subVersion = "unknown", "unknown", "unknown"
		if len(parts) > 0 {
			season = parts[0]
		}
		if len(parts) > 1 {
			patch = parts[1]
		}
		return season, patch, subVersion
	}
	return parts[0], parts[1], strings.Join(parts[2:], ".")
}

func numericSuffix(matchID string) int64 {
	idx := strings.LastIndexByte(matchID, '_')
	if idx < 0 {
		n, _ := strconv.ParseInt(matchID, 10, 64)
		return n
	}
	n, _ := strconv.ParseInt(matchID[idx+1:], 10, 64)
	return n
}

func objectiveByType(o *rawObjectives, objType string) *rawObjective {
	switch objType {
	case "atakhan":
		return o.Atakhan
	case "baron":
		return o.Baron
	case "champion":
		return o.Champion
	case "dragon":
		return o.Dragon
	case "horde":
		return o.Horde
	case "inhibitor":
		return o.Inhibitor
	case "riftHerald":
		return o.RiftHerald
	case "tower":
		return o.Tower
	}
	return nil
}

func parseFeats(matchID int64, team rawTeam) []Feat {
	if len(team.Feats) == 0 {
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(team.Feats, &raw); err != nil {
		return nil
	}
	var feats []Feat
	for featType, val := range raw {
		var body struct {
			FeatState int `json:"featState"`
		}
		if err := json.Unmarshal(val, &body); err != nil {
			continue
		}
		feats = append(feats, Feat{
			MatchID:   matchID,
			TeamID:    team.TeamID,
			FeatType:  featType,
			FeatState: body.FeatState,
		})
	}
	return feats
}

func parseParticipantStats(matchID int64, p rawParticipant) ParticipantStats {
	return ParticipantStats{
		MatchID:       matchID,
		ParticipantID: p.ParticipantID,
		PUUID:         p.PUUID,
		TeamID:        p.TeamID,

		SummonerID:      p.SummonerID,
		SummonerLevel:   p.SummonerLevel,
		SummonerName:    p.SummonerName,
		RiotIDGameName:  p.RiotIDGameName,
		RiotIDTagline:   p.RiotIDTagline,
		ProfileIcon:     p.ProfileIcon,
		ChampionID:      p.ChampionID,
		ChampLevel:      p.ChampLevel,
		ChampExperience: p.ChampExperience,
		TeamPosition:    p.TeamPosition,

		Win:                       p.Win,
		GameEndedInEarlySurrender: p.GameEndedInEarlySurrender,
		GameEndedInSurrender:      p.GameEndedInSurrender,

		Kills:   p.Kills,
		Deaths:  p.Deaths,
		Assists: p.Assists,

		GoldEarned: p.GoldEarned,
		GoldSpent:  p.GoldSpent,

		TotalDamageDealtToChampions: p.TotalDamageDealtToChampions,
		TotalDamageTaken:            p.TotalDamageTaken,
		TotalHeal:                   p.TotalHeal,

		TotalMinionsKilled:   p.TotalMinionsKilled,
		NeutralMinionsKilled: p.NeutralMinionsKilled,

		VisionScore:       clampField("visionScore", p.VisionScore),
		WardsPlaced:       clampField("wardsPlaced", p.WardsPlaced),
		WardsKilled:       clampField("wardsKilled", p.WardsKilled),
		AllInPings:        clampField("allInPings", p.AllInPings),
		AssistMePings:     clampField("assistMePings", p.AssistMePings),
		BasicPings:        clampField("basicPings", p.BasicPings),
		CommandPings:      clampField("commandPings", p.CommandPings),
		DangerPings:       clampField("dangerPings", p.DangerPings),
		EnemyMissingPings: clampField("enemyMissingPings", p.EnemyMissingPings),
		EnemyVisionPings:  clampField("enemyVisionPings", p.EnemyVisionPings),
		GetBackPings:      clampField("getBackPings", p.GetBackPings),
		HoldPings:         clampField("holdPings", p.HoldPings),
		NeedVisionPings:   clampField("needVisionPings", p.NeedVisionPings),
		OnMyWayPings:      clampField("onMyWayPings", p.OnMyWayPings),
		PushPings:         clampField("pushPings", p.PushPings),
		RetreatPings:      clampField("retreatPings", p.RetreatPings),
		UnrealKills:       clampField("unrealKills", p.UnrealKills),

		TimePlayed: p.TimePlayed,
	}
}

func clampField(field string, v int) int {
	if uint8ClampFields[field] {
		return clamp255(v)
	}
	return v
}

const swarmPrefix = "SWARM"

func parseChallenges(matchID int64, p rawParticipant) ParticipantChallenges {
	payload := make(map[string]any, len(p.Challenges))
	for key, raw := range p.Challenges {
		if strings.HasPrefix(key, swarmPrefix) {
			continue
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			continue
		}
		payload[key] = v
	}
	return ParticipantChallenges{
		MatchID: matchID,
		TeamID:  p.TeamID,
		PUUID:   p.PUUID,
		Payload: payload,
	}
}

// primaryAndSub picks the two perk styles by their description: the entry
// described "primaryStyle" is primary, the one described "subStyle" is the
// sub (flex) tree. Array order is ignored; a missing style stays zero.
func primaryAndSub(perks rawPerks) (primary, sub rawPerkStyle) {
	for _, style := range perks.Styles {
		switch style.Description {
		case "primaryStyle":
			primary = style
		case "subStyle":
			sub = style
		}
	}
	return primary, sub
}

func selectionAt(style rawPerkStyle, idx int) rawPerkSelection {
	if idx < len(style.Selections) {
		return style.Selections[idx]
	}
	return rawPerkSelection{}
}

func parsePerkValues(matchID int64, p rawParticipant) ParticipantPerkValues {
	primary, sub := primaryAndSub(p.Perks)
	p1, p2, p3, p4 := selectionAt(primary, 0), selectionAt(primary, 1), selectionAt(primary, 2), selectionAt(primary, 3)
	s1, s2 := selectionAt(sub, 0), selectionAt(sub, 1)

	return ParticipantPerkValues{
		MatchID: matchID,
		TeamID:  p.TeamID,
		PUUID:   p.PUUID,

		PrimaryVar1_1: p1.Var1, PrimaryVar2_1: p1.Var2, PrimaryVar3_1: p1.Var3,
		PrimaryVar1_2: p2.Var1, PrimaryVar2_2: p2.Var2, PrimaryVar3_2: p2.Var3,
		PrimaryVar1_3: p3.Var1, PrimaryVar2_3: p3.Var2, PrimaryVar3_3: p3.Var3,
		PrimaryVar1_4: p4.Var1, PrimaryVar2_4: p4.Var2, PrimaryVar3_4: p4.Var3,

		SubVar1_1: s1.Var1, SubVar2_1: s1.Var2, SubVar3_1: s1.Var3,
		SubVar1_2: s2.Var1, SubVar2_2: s2.Var2, SubVar3_2: s2.Var3,
	}
}

// perkComboKeyBitWidth is the number of bits reserved per perk slot when
// packing the 6 selected perk ids into one combo key.
const perkComboKeyBitWidth = 14

func perkComboKey(perkIDs []int) int64 {
	var key int64
	for i, id := range perkIDs {
		key += int64(id) << uint(perkComboKeyBitWidth*i)
	}
	return key
}

func parsePerkIds(matchID int64, p rawParticipant) ParticipantPerkIds {
	primary, sub := primaryAndSub(p.Perks)
	p1, p2, p3, p4 := selectionAt(primary, 0), selectionAt(primary, 1), selectionAt(primary, 2), selectionAt(primary, 3)
	s1, s2 := selectionAt(sub, 0), selectionAt(sub, 1)

	comboKey := perkComboKey([]int{p1.Perk, p2.Perk, p3.Perk, p4.Perk, s1.Perk, s2.Perk})

	return ParticipantPerkIds{
		MatchID: matchID,
		TeamID:  p.TeamID,
		PUUID:   p.PUUID,

		StatDefense: p.Perks.StatPerks.Defense,
		StatFlex:    p.Perks.StatPerks.Flex,
		StatOffense: p.Perks.StatPerks.Offense,

		PrimaryStyle: primary.Style,
		SubStyle:     sub.Style,

		PrimaryPerk1: p1.Perk, PrimaryPerk2: p2.Perk, PrimaryPerk3: p3.Perk, PrimaryPerk4: p4.Perk,
		SubPerk1: s1.Perk, SubPerk2: s2.Perk,

		PerkComboKey: comboKey,
	}
}

func matchIDHint(decoded any) string {
	obj, ok := decoded.(map[string]any)
	if !ok {
		return "unknown"
	}
	meta, ok := obj["metadata"].(map[string]any)
	if !ok {
		return "unknown"
	}
	id, ok := meta["matchId"].(string)
	if !ok {
		return "unknown"
	}
	return id
}
