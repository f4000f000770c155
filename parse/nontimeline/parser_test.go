package nontimeline

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/rs/zerolog"
)

func sampleMatch() string {
	return `{
		"metadata": {"matchId": "NA1_4567890123", "dataVersion": "2", "participants": ["p1"]},
		"info": {
			"endOfGameResult": "GameComplete",
			"gameCreation": 1, "gameDuration": 2, "gameEndTimestamp": 3,
			"gameId": 4567890123, "gameStartTimestamp": 5,
			"gameType": "MATCHED_GAME", "gameVersion": "14.3.567.1234",
			"mapId": 11, "platformId": "NA1", "queueId": 420,
			"teams": [
				{
					"teamId": 100,
					"bans": [{"pickTurn": 1, "championId": 99}],
					"feats": {"FIRST_BLOOD": {"featState": 2}},
					"objectives": {"baron": {"first": true, "kills": 1}, "champion": {"first": false, "kills": 5}}
				}
			],
			"participants": [
				{
					"puuid": "p1", "participantId": 1, "teamId": 100,
					"summonerId": "s1", "summonerLevel": 30, "summonerName": "name",
					"riotIdGameName": "name", "riotIdTagline": "NA1", "profileIcon": 1,
					"championId": 1, "champLevel": 18, "champExperience": 100, "teamPosition": "TOP",
					"win": true, "gameEndedInEarlySurrender": false, "gameEndedInSurrender": false,
					"kills": 10, "deaths": 1, "assists": 5,
					"goldEarned": 15000, "goldSpent": 14000,
					"totalDamageDealtToChampions": 20000, "totalDamageTaken": 10000, "totalHeal": 5000,
					"totalMinionsKilled": 200, "neutralMinionsKilled": 10,
					"visionScore": 999, "wardsPlaced": 300, "wardsKilled": 5,
					"allInPings": 0, "assistMePings": 0, "basicPings": 0, "commandPings": 0,
					"dangerPings": 0, "enemyMissingPings": 0, "enemyVisionPings": 0, "getBackPings": 0,
					"holdPings": 0, "needVisionPings": 0, "onMyWayPings": 0, "pushPings": 0,
					"retreatPings": 0, "unrealKills": 0, "timePlayed": 1800,
					"challenges": {"killParticipation": 0.5, "SWARM_something": 1},
					"perks": {
						"statPerks": {"defense": 5001, "flex": 5008, "offense": 5005},
						"styles": [
							{"description": "primaryStyle", "style": 8000, "selections": [
								{"perk": 8005, "var1": 1, "var2": 2, "var3": 3},
								{"perk": 8009, "var1": 1, "var2": 2, "var3": 3},
								{"perk": 9104, "var1": 1, "var2": 2, "var3": 3},
								{"perk": 8014, "var1": 1, "var2": 2, "var3": 3}
							]},
							{"description": "subStyle", "style": 8100, "selections": [
								{"perk": 8126, "var1": 1, "var2": 2, "var3": 3},
								{"perk": 8139, "var1": 1, "var2": 2, "var3": 3}
							]}
						]
					}
				}
			]
		}
	}`
}

func TestRunProjectsAllTables(t *testing.T) {
	tables := Run(json.RawMessage(sampleMatch()), zerolog.New(io.Discard))

	if len(tables.Metadata) != 1 || tables.Metadata[0].MatchID != "NA1_4567890123" {
		t.Fatalf("unexpected metadata: %+v", tables.Metadata)
	}
	if len(tables.GameInfo) != 1 {
		t.Fatalf("expected 1 game info row, got %d", len(tables.GameInfo))
	}
	gi := tables.GameInfo[0]
	if gi.Season != "14" || gi.Patch != "3" || gi.SubVersion != "567.1234" {
		t.Fatalf("unexpected version decomposition: %+v", gi)
	}
	if len(tables.Bans) != 1 || tables.Bans[0].ChampionID != 99 {
		t.Fatalf("unexpected bans: %+v", tables.Bans)
	}
	if len(tables.Feats) != 1 || tables.Feats[0].FeatType != "FIRST_BLOOD" || tables.Feats[0].FeatState != 2 {
		t.Fatalf("unexpected feats: %+v", tables.Feats)
	}
	if len(tables.Objectives) != 2 {
		t.Fatalf("expected 2 objectives, got %d", len(tables.Objectives))
	}
	if len(tables.ParticipantStats) != 1 {
		t.Fatalf("expected 1 participant stats row, got %d", len(tables.ParticipantStats))
	}
	if tables.ParticipantStats[0].VisionScore != 255 {
		t.Fatalf("expected visionScore clamped to 255, got %d", tables.ParticipantStats[0].VisionScore)
	}
	if tables.ParticipantStats[0].GoldEarned != 15000 {
		t.Fatalf("goldEarned must not be clamped, got %d", tables.ParticipantStats[0].GoldEarned)
	}

	challenges := tables.ParticipantChallenges[0]
	if _, present := challenges.Payload["SWARM_something"]; present {
		t.Fatalf("SWARM-prefixed challenge key should be excluded: %+v", challenges.Payload)
	}
	if _, present := challenges.Payload["killParticipation"]; !present {
		t.Fatalf("expected killParticipation to survive: %+v", challenges.Payload)
	}

	perkIDs := tables.ParticipantPerkIds[0]
	want := perkComboKey([]int{8005, 8009, 9104, 8014, 8126, 8139})
	if perkIDs.PerkComboKey != want {
		t.Fatalf("perk combo key mismatch: got %d want %d", perkIDs.PerkComboKey, want)
	}
}

func TestDecomposeVersionFallsBackOnShortVersion(t *testing.T) {
	season, patch, sub := decomposeVersion("14", zerolog.New(io.Discard))
	if season != "14" || patch != "unknown" || sub != "unknown" {
		t.Fatalf("unexpected fallback decomposition: %q %q %q", season, patch, sub)
	}
}

func TestPerkComboKeyIsDeterministic(t *testing.T) {
	a := perkComboKey([]int{1, 2, 3, 4, 5, 6})
	b := perkComboKey([]int{1, 2, 3, 4, 5, 6})
	if a != b {
		t.Fatalf("expected deterministic combo key, got %d and %d", a, b)
	}
	if a == perkComboKey([]int{6, 5, 4, 3, 2, 1}) {
		t.Fatalf("expected order to matter in combo key")
	}
}

func TestRunReturnsEmptyTablesOnInvalidJSON(t *testing.T) {
	tables := Run(json.RawMessage(`not json`), zerolog.New(io.Discard))
	if len(tables.Metadata) != 0 {
		t.Fatalf("expected empty tables for invalid JSON, got %+v", tables)
	}
}
