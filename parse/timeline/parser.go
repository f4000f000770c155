package timeline

import (
	"encoding/json"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/riftlabs/ladder-pipeline/schemadrift"
)

const frameBucket = 10_000

func bucketTimestamp(ts int64) int64 {
	return (ts / frameBucket) * frameBucket
}

// ChampionKillEventID derives the deterministic identifier a CHAMPION_KILL
// event and its damage instances are correlated by (spec.md §4.8).
func ChampionKillEventID(matchID int64, timestamp int64, killerID, victimID int) string {
	return strconv.FormatInt(matchID, 10) + ":" + strconv.FormatInt(timestamp, 10) + ":" +
		strconv.Itoa(killerID) + ":" + strconv.Itoa(victimID)
}

// Run validates and projects one raw match-timeline payload into Tables.
// Like the non-timeline parser, drift is logged but schema-validation
// failure is soft: an undecodable payload yields empty Tables rather than
// an error (mirrors the "initial tuning" behavior of the upstream
// orchestrator this was translated from).
func Run(raw json.RawMessage, logger zerolog.Logger) Tables {
	decoded, err := schemadrift.Decode(raw)
	if err != nil {
		logger.Warn().Err(err).Msg("timeline payload is not valid JSON, skipping")
		return Tables{}
	}
	schemadrift.LogIfAny(logger, matchIDHint(decoded), scanDrift(decoded))

	var tl rawTimeline
	if err := json.Unmarshal(raw, &tl); err != nil {
		logger.Warn().Err(err).Msg("timeline payload failed to validate, returning empty tables")
		return Tables{}
	}

	matchID := tl.Info.GameID
	frames := tl.Info.Frames

	tables := Tables{
		ParticipantStats: parseParticipantStats(frames, matchID),

		BuildingKill:         parseBuildingKill(frames, matchID),
		ChampionKill:         parseChampionKill(frames, matchID),
		ChampionSpecialKill:  parseChampionSpecialKill(frames, matchID),
		DragonSoulGiven:      parseSimpleEvents(frames, matchID, "DRAGON_SOUL_GIVEN"),
		EliteMonsterKill:     parseEliteMonsterKill(frames, matchID),
		RareEvents:           parseRareEvents(frames, matchID),
		TurretPlateDestroyed: parseTurretPlateDestroyed(frames, matchID),

		ChampionKillVictimDamageDealt:     parseDamageInstances(frames, matchID, "victimDamageDealt", "victimTeamfightDamageDealt", "DEALT"),
		ChampionKillVictimDamageReceived: parseDamageInstances(frames, matchID, "victimDamageReceived", "victimTeamfightDamageReceived", "RECEIVED"),
	}
	return tables
}

func parseParticipantStats(frames []rawFrame, matchID int64) []ParticipantStats {
	var rows []ParticipantStats
	for _, frame := range frames {
		ts := bucketTimestamp(frame.Timestamp)
		for _, pf := range frame.ParticipantFrames {
			cs := pf.ChampionStats
			ds := pf.DamageStats
			row := ParticipantStats{
				MatchID:        matchID,
				FrameTimestamp: ts,
				ParticipantID:  pf.ParticipantID,

				AbilityHaste:      cs.AbilityHaste,
				AbilityPower:      cs.AbilityPower,
				Armor:             cs.Armor,
				AttackDamage:      cs.AttackDamage,
				AttackSpeed:       cs.AttackSpeed,
				CCReduction:       cs.CCReduction,
				CooldownReduction: cs.CooldownReduction,
				Health:            cs.Health,
				HealthMax:         cs.HealthMax,
				HealthRegen:       cs.HealthRegen,
				MagicResist:       cs.MagicResist,
				MovementSpeed:     cs.MovementSpeed,
				Power:             cs.Power,
				PowerMax:          cs.PowerMax,
				PowerRegen:        cs.PowerRegen,

				Payload: map[string]float64{
					"armorPen":             cs.ArmorPen,
					"armorPenPercent":      cs.ArmorPenPercent,
					"bonusArmorPenPercent": cs.BonusArmorPenPercent,
					"bonusMagicPenPercent": cs.BonusMagicPenPercent,
					"magicPen":             cs.MagicPen,
					"magicPenPercent":      cs.MagicPenPercent,
					"lifesteal":            cs.Lifesteal,
					"omnivamp":             cs.Omnivamp,
					"physicalVamp":         cs.PhysicalVamp,
					"spellVamp":            cs.SpellVamp,
				},

				CurrentGold: pf.CurrentGold,

				MagicDamageDone:               ds.MagicDamageDone,
				MagicDamageDoneToChampions:    ds.MagicDamageDoneToChampions,
				MagicDamageTaken:              ds.MagicDamageTaken,
				PhysicalDamageDone:            ds.PhysicalDamageDone,
				PhysicalDamageDoneToChampions: ds.PhysicalDamageDoneToChampions,
				PhysicalDamageTaken:           ds.PhysicalDamageTaken,
				TotalDamageDone:               ds.TotalDamageDone,
				TotalDamageDoneToChampions:    ds.TotalDamageDoneToChampions,
				TotalDamageTaken:              ds.TotalDamageTaken,
				TrueDamageDone:                ds.TrueDamageDone,
				TrueDamageDoneToChampions:     ds.TrueDamageDoneToChampions,
				TrueDamageTaken:               ds.TrueDamageTaken,

				GoldPerSecond:            pf.GoldPerSecond,
				JungleMinionsKilled:      pf.JungleMinionsKilled,
				Level:                    pf.Level,
				MinionsKilled:            pf.MinionsKilled,
				TimeEnemySpentControlled: pf.TimeEnemySpentControlled,
				TotalGold:                pf.TotalGold,
				XP:                       pf.XP,
			}
			if pf.Position != nil {
				row.PositionX = pf.Position.X
				row.PositionY = pf.Position.Y
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func eventType(e map[string]json.RawMessage) string {
	return str(e, "type")
}

func str(e map[string]json.RawMessage, key string) string {
	raw, ok := e[key]
	if !ok {
		return ""
	}
	var v string
	_ = json.Unmarshal(raw, &v)
	return v
}

func strPtr(e map[string]json.RawMessage, key string) *string {
	raw, ok := e[key]
	if !ok {
		return nil
	}
	var v *string
	_ = json.Unmarshal(raw, &v)
	return v
}

func num(e map[string]json.RawMessage, key string) int {
	raw, ok := e[key]
	if !ok {
		return 0
	}
	var v float64
	_ = json.Unmarshal(raw, &v)
	return int(v)
}

func numPtr(e map[string]json.RawMessage, key string) *int {
	raw, ok := e[key]
	if !ok {
		return nil
	}
	var v *float64
	_ = json.Unmarshal(raw, &v)
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}

func num64(e map[string]json.RawMessage, key string) int64 {
	raw, ok := e[key]
	if !ok {
		return 0
	}
	var v float64
	_ = json.Unmarshal(raw, &v)
	return int64(v)
}

func intSlice(e map[string]json.RawMessage, key string) []int {
	raw, ok := e[key]
	if !ok {
		return nil
	}
	var v []int
	_ = json.Unmarshal(raw, &v)
	return v
}

func position(e map[string]json.RawMessage) (x, y int) {
	raw, ok := e["position"]
	if !ok {
		return 0, 0
	}
	var p rawPosition
	if err := json.Unmarshal(raw, &p); err != nil {
		return 0, 0
	}
	return p.X, p.Y
}

func parseBuildingKill(frames []rawFrame, matchID int64) []BuildingKillRow {
	var rows []BuildingKillRow
	for _, frame := range frames {
		ts := bucketTimestamp(frame.Timestamp)
		for _, e := range frame.Events {
			if eventType(e) != "BUILDING_KILL" {
				continue
			}
			x, y := position(e)
			rows = append(rows, BuildingKillRow{
				eventRowBase: eventRowBase{MatchID: matchID, FrameTimestamp: ts, Timestamp: num64(e, "timestamp")},
				Bounty:       num(e, "bounty"),
				BuildingType: str(e, "buildingType"),
				KillerID:     num(e, "killerId"),
				LaneType:     str(e, "laneType"),
				PositionX:    x,
				PositionY:    y,
				TeamID:       num(e, "teamId"),
				TowerType:    strPtr(e, "towerType"),
			})
		}
	}
	return rows
}

func parseChampionKill(frames []rawFrame, matchID int64) []ChampionKillRow {
	var rows []ChampionKillRow
	for _, frame := range frames {
		ts := bucketTimestamp(frame.Timestamp)
		for _, e := range frame.Events {
			if eventType(e) != "CHAMPION_KILL" {
				continue
			}
			x, y := position(e)
			eventTS := num64(e, "timestamp")
			killerID, victimID := num(e, "killerId"), num(e, "victimId")
			rows = append(rows, ChampionKillRow{
				eventRowBase:        eventRowBase{MatchID: matchID, FrameTimestamp: ts, Timestamp: eventTS},
				ChampionKillEventID: ChampionKillEventID(matchID, eventTS, killerID, victimID),
				KillerID:            killerID,
				VictimID:            victimID,
				Bounty:              num(e, "bounty"),
				KillStreakLength:    num(e, "killStreakLength"),
				ShutdownBounty:      num(e, "shutdownBounty"),
				PositionX:           x,
				PositionY:           y,
			})
		}
	}
	return rows
}

func parseDamageInstances(frames []rawFrame, matchID int64, key, aliasKey, direction string) []ChampionKillDamageInstanceRow {
	var rows []ChampionKillDamageInstanceRow
	for _, frame := range frames {
		ts := bucketTimestamp(frame.Timestamp)
		for _, e := range frame.Events {
			if eventType(e) != "CHAMPION_KILL" {
				continue
			}
			eventTS := num64(e, "timestamp")
			cid := ChampionKillEventID(matchID, eventTS, num(e, "killerId"), num(e, "victimId"))

			raw, ok := e[key]
			if !ok {
				raw, ok = e[aliasKey]
			}
			if !ok {
				continue
			}
			var instances []rawDamageInstance
			if err := json.Unmarshal(raw, &instances); err != nil {
				continue
			}
			for idx, d := range instances {
				rows = append(rows, ChampionKillDamageInstanceRow{
					MatchID:             matchID,
					FrameTimestamp:      ts,
					Timestamp:           eventTS,
					ChampionKillEventID: cid,
					Direction:           direction,
					Idx:                 idx,

					Basic:          d.Basic,
					MagicDamage:    d.MagicDamage,
					Name:           d.Name,
					ParticipantID:  d.ParticipantID,
					PhysicalDamage: d.PhysicalDamage,
					SpellName:      d.SpellName,
					SpellSlot:      d.SpellSlot,
					TrueDamage:     d.TrueDamage,
					Type:           d.Type,
				})
			}
		}
	}
	return rows
}

func parseChampionSpecialKill(frames []rawFrame, matchID int64) []ChampionSpecialKillRow {
	var rows []ChampionSpecialKillRow
	for _, frame := range frames {
		ts := bucketTimestamp(frame.Timestamp)
		for _, e := range frame.Events {
			if eventType(e) != "CHAMPION_SPECIAL_KILL" {
				continue
			}
			x, y := position(e)
			rows = append(rows, ChampionSpecialKillRow{
				eventRowBase:    eventRowBase{MatchID: matchID, FrameTimestamp: ts, Timestamp: num64(e, "timestamp")},
				KillType:        str(e, "killType"),
				KillerID:        num(e, "killerId"),
				PositionX:       x,
				PositionY:       y,
				MultiKillLength: numPtr(e, "multiKillLength"),
			})
		}
	}
	return rows
}

func parseSimpleEvents(frames []rawFrame, matchID int64, eventTypeName string) []DragonSoulGivenRow {
	var rows []DragonSoulGivenRow
	for _, frame := range frames {
		ts := bucketTimestamp(frame.Timestamp)
		for _, e := range frame.Events {
			if eventType(e) != eventTypeName {
				continue
			}
			rows = append(rows, DragonSoulGivenRow{
				eventRowBase: eventRowBase{MatchID: matchID, FrameTimestamp: ts, Timestamp: num64(e, "timestamp")},
				Name:         str(e, "name"),
				TeamID:       num(e, "teamId"),
			})
		}
	}
	return rows
}

func parseEliteMonsterKill(frames []rawFrame, matchID int64) []EliteMonsterKillRow {
	var rows []EliteMonsterKillRow
	for _, frame := range frames {
		ts := bucketTimestamp(frame.Timestamp)
		for _, e := range frame.Events {
			if eventType(e) != "ELITE_MONSTER_KILL" {
				continue
			}
			x, y := position(e)
			rows = append(rows, EliteMonsterKillRow{
				eventRowBase:            eventRowBase{MatchID: matchID, FrameTimestamp: ts, Timestamp: num64(e, "timestamp")},
				AssistingParticipantIDs: intSlice(e, "assistingParticipantIds"),
				Bounty:                  num(e, "bounty"),
				KillerID:                num(e, "killerId"),
				KillerTeamID:            num(e, "killerTeamId"),
				MonsterSubType:          strPtr(e, "monsterSubType"),
				MonsterType:             str(e, "monsterType"),
				PositionX:               x,
				PositionY:               y,
			})
		}
	}
	return rows
}

func parseTurretPlateDestroyed(frames []rawFrame, matchID int64) []TurretPlateDestroyedRow {
	var rows []TurretPlateDestroyedRow
	for _, frame := range frames {
		ts := bucketTimestamp(frame.Timestamp)
		for _, e := range frame.Events {
			if eventType(e) != "TURRET_PLATE_DESTROYED" {
				continue
			}
			x, y := position(e)
			rows = append(rows, TurretPlateDestroyedRow{
				eventRowBase: eventRowBase{MatchID: matchID, FrameTimestamp: ts, Timestamp: num64(e, "timestamp")},
				KillerID:     num(e, "killerId"),
				LaneType:     str(e, "laneType"),
				PositionX:    x,
				PositionY:    y,
				TeamID:       num(e, "teamId"),
			})
		}
	}
	return rows
}

var rareEventExcludedKeys = map[string]bool{"type": true, "timestamp": true, "matchId": true, "gameId": true}

func parseRareEvents(frames []rawFrame, matchID int64) []RareEventRow {
	var rows []RareEventRow
	for _, frame := range frames {
		ts := bucketTimestamp(frame.Timestamp)
		for _, e := range frame.Events {
			t := eventType(e)
			if !rareEventTypes[t] {
				continue
			}
			payload := make(map[string]any, len(e))
			for key, raw := range e {
				if rareEventExcludedKeys[key] {
					continue
				}
				var v any
				if err := json.Unmarshal(raw, &v); err != nil {
					continue
				}
				payload[key] = v
			}
			rows = append(rows, RareEventRow{
				eventRowBase: eventRowBase{MatchID: matchID, FrameTimestamp: ts, Timestamp: num64(e, "timestamp")},
				Type:         t,
				Payload:      payload,
			})
		}
	}
	return rows
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
