package nontimeline

import "github.com/riftlabs/ladder-pipeline/schemadrift"

func keySet(keys ...string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}

// driftRegistry mirrors NON_TIMELINE_SCHEMA: one entry per modeled shape,
// naming the path to walk and the keys expected at every resolved node.
// Unknown keys are logged, never rejected.
func driftRegistry() schemadrift.Registry {
	return schemadrift.Registry{
		"metadata": {
			Path:         []string{"metadata"},
			ExpectedKeys: keySet("matchId", "dataVersion", "participants"),
		},
		"info": {
			Path: []string{"info"},
			ExpectedKeys: keySet(
				"endOfGameResult", "gameCreation", "gameDuration", "gameEndTimestamp",
				"gameId", "gameStartTimestamp", "gameType", "gameVersion", "mapId",
				"platformId", "queueId", "teams", "participants",
			),
		},
		"bans": {
			Path:         []string{"info", "teams", "*", "bans", "*"},
			ExpectedKeys: keySet("pickTurn", "championId"),
		},
		"feats": {
			Path:         []string{"info", "teams", "*", "feats"},
			ExpectedKeys: keySet("EPIC_MONSTER_KILL", "FIRST_BLOOD", "FIRST_TURRET"),
			OptionalPath: true,
		},
		"objectives": {
			Path:         []string{"info", "teams", "*", "objectives"},
			ExpectedKeys: keySet("atakhan", "baron", "champion", "dragon", "horde", "inhibitor", "riftHerald", "tower"),
		},
		"participants": {
			Path: []string{"info", "participants", "*"},
			ExpectedKeys: keySet(
				"puuid", "participantId", "teamId", "summonerId", "summonerLevel",
				"summonerName", "riotIdGameName", "riotIdTagline", "profileIcon",
				"championId", "champLevel", "champExperience", "teamPosition",
				"win", "gameEndedInEarlySurrender", "gameEndedInSurrender",
				"kills", "deaths", "assists", "goldEarned", "goldSpent",
				"totalDamageDealtToChampions", "totalDamageTaken", "totalHeal",
				"totalMinionsKilled", "neutralMinionsKilled",
				"visionScore", "wardsPlaced", "wardsKilled", "allInPings",
				"assistMePings", "basicPings", "commandPings", "dangerPings",
				"enemyMissingPings", "enemyVisionPings", "getBackPings", "holdPings",
				"needVisionPings", "onMyWayPings", "pushPings", "retreatPings",
				"unrealKills", "timePlayed", "challenges", "perks",
			),
		},
		"perks": {
			Path:         []string{"info", "participants", "*", "perks"},
			ExpectedKeys: keySet("statPerks", "styles"),
		},
	}
}
