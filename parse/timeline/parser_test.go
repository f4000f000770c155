package timeline

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/rs/zerolog"
)

func sampleTimeline() string {
	return `{
		"metadata": {"matchId": "NA1_123"},
		"info": {
			"gameId": 123,
			"frames": [
				{
					"timestamp": 64321,
					"participantFrames": {
						"1": {
							"participantId": 1,
							"championStats": {
								"abilityHaste": 10, "abilityPower": 0, "armor": 50,
								"armorPen": 0.1, "armorPenPercent": 0.2,
								"attackDamage": 60, "attackSpeed": 100,
								"bonusArmorPenPercent": 0, "bonusMagicPenPercent": 0,
								"ccReduction": 0, "cooldownReduction": 0,
								"health": 1000, "healthMax": 1000, "healthRegen": 5,
								"lifesteal": 0, "magicPen": 0, "magicPenPercent": 0,
								"magicResist": 30, "movementSpeed": 340,
								"omnivamp": 0, "physicalVamp": 0,
								"power": 300, "powerMax": 300, "powerRegen": 2, "spellVamp": 0
							},
							"damageStats": {
								"magicDamageDone": 1, "magicDamageDoneToChampions": 2, "magicDamageTaken": 3,
								"physicalDamageDone": 4, "physicalDamageDoneToChampions": 5, "physicalDamageTaken": 6,
								"totalDamageDone": 7, "totalDamageDoneToChampions": 8, "totalDamageTaken": 9,
								"trueDamageDone": 0, "trueDamageDoneToChampions": 0, "trueDamageTaken": 0
							},
							"currentGold": 500, "goldPerSecond": 2, "jungleMinionsKilled": 1,
							"level": 5, "minionsKilled": 20, "position": {"x": 100, "y": 200},
							"timeEnemySpentControlled": 0, "totalGold": 5000, "xp": 3000
						}
					},
					"events": [
						{
							"type": "CHAMPION_KILL", "timestamp": 64000,
							"bounty": 300, "killStreakLength": 1, "killerId": 1, "victimId": 2,
							"shutdownBounty": 0, "position": {"x": 10, "y": 20},
							"victimDamageDealt": [
								{"basic": true, "magicDamage": 0, "name": "sword", "participantId": 1,
								 "physicalDamage": 100, "spellName": "", "spellSlot": -1, "trueDamage": 0, "type": "OTHER"}
							]
						},
						{"type": "WARD_PLACED", "timestamp": 64100, "wardType": "YELLOW_TRINKET", "creatorId": 1}
					]
				}
			]
		}
	}`
}

func TestRunBucketsFrameTimestamps(t *testing.T) {
	tables := Run(json.RawMessage(sampleTimeline()), zerolog.New(io.Discard))

	if len(tables.ParticipantStats) != 1 {
		t.Fatalf("expected 1 participant stats row, got %d", len(tables.ParticipantStats))
	}
	if tables.ParticipantStats[0].FrameTimestamp != 60000 {
		t.Fatalf("expected frame timestamp bucketed to 60000, got %d", tables.ParticipantStats[0].FrameTimestamp)
	}
	if tables.ParticipantStats[0].PositionX != 100 || tables.ParticipantStats[0].PositionY != 200 {
		t.Fatalf("unexpected participant position: %+v", tables.ParticipantStats[0])
	}
}

func TestRunProjectsChampionKillAndDamageInstances(t *testing.T) {
	tables := Run(json.RawMessage(sampleTimeline()), zerolog.New(io.Discard))

	if len(tables.ChampionKill) != 1 {
		t.Fatalf("expected 1 champion kill row, got %d", len(tables.ChampionKill))
	}
	ck := tables.ChampionKill[0]
	want := ChampionKillEventID(123, 64000, 1, 2)
	if ck.ChampionKillEventID != want {
		t.Fatalf("unexpected champion_kill_event_id: got %q want %q", ck.ChampionKillEventID, want)
	}

	if len(tables.ChampionKillVictimDamageDealt) != 1 {
		t.Fatalf("expected 1 damage-dealt instance, got %d", len(tables.ChampionKillVictimDamageDealt))
	}
	if tables.ChampionKillVictimDamageDealt[0].Direction != "DEALT" {
		t.Fatalf("expected DEALT direction, got %q", tables.ChampionKillVictimDamageDealt[0].Direction)
	}
	if tables.ChampionKillVictimDamageDealt[0].ChampionKillEventID != want {
		t.Fatalf("damage instance should carry the same champion_kill_event_id")
	}
	if len(tables.ChampionKillVictimDamageReceived) != 0 {
		t.Fatalf("expected no damage-received instances, got %d", len(tables.ChampionKillVictimDamageReceived))
	}
}

func TestRunProjectsRareEventAsPayload(t *testing.T) {
	tables := Run(json.RawMessage(sampleTimeline()), zerolog.New(io.Discard))

	if len(tables.RareEvents) != 1 {
		t.Fatalf("expected 1 rare event row, got %d", len(tables.RareEvents))
	}
	row := tables.RareEvents[0]
	if row.Type != "WARD_PLACED" {
		t.Fatalf("unexpected rare event type: %q", row.Type)
	}
	if _, present := row.Payload["type"]; present {
		t.Fatalf("payload should exclude the type key: %+v", row.Payload)
	}
	if row.Payload["wardType"] != "YELLOW_TRINKET" {
		t.Fatalf("unexpected rare event payload: %+v", row.Payload)
	}
}

func TestRunReturnsEmptyTablesOnInvalidJSON(t *testing.T) {
	tables := Run(json.RawMessage(`not json`), zerolog.New(io.Discard))
	if len(tables.ParticipantStats) != 0 {
		t.Fatalf("expected empty tables for invalid JSON, got %+v", tables)
	}
}

func TestChampionKillEventIDIsDeterministic(t *testing.T) {
	a := ChampionKillEventID(1, 2, 3, 4)
	b := ChampionKillEventID(1, 2, 3, 4)
	if a != b {
		t.Fatalf("expected deterministic id, got %q and %q", a, b)
	}
	if a == ChampionKillEventID(1, 2, 4, 3) {
		t.Fatalf("expected killer/victim order to matter")
	}
}
