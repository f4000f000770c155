// Package riot holds the shard/super-shard routing table, ranked-ladder
// enumerations, and upstream endpoint templates shared by every stage of
// the ingestion pipeline.
package riot

import "strings"

// Shard is a fine-grained upstream routing key (a platform/region).
type Shard string

// SuperShard is a coarse upstream routing key (a continental group).
type SuperShard string

const (
	ShardNA1  Shard = "na1"
	ShardBR1  Shard = "br1"
	ShardLA1  Shard = "la1"
	ShardLA2  Shard = "la2"
	ShardOC1  Shard = "oc1"
	ShardEUW1 Shard = "euw1"
	ShardEUN1 Shard = "eun1"
	ShardTR1  Shard = "tr1"
	ShardRU   Shard = "ru"
	ShardKR   Shard = "kr"
	ShardJP1  Shard = "jp1"
	ShardPH2  Shard = "ph2"
	ShardSG2  Shard = "sg2"
	ShardTH2  Shard = "th2"
	ShardTW2  Shard = "tw2"
	ShardVN2  Shard = "vn2"
)

const (
	SuperShardAmericas SuperShard = "americas"
	SuperShardEurope   SuperShard = "europe"
	SuperShardAsia     SuperShard = "asia"
	SuperShardSEA      SuperShard = "sea"
)

// AllShards lists every fine-grained shard the ladder is crawled on.
var AllShards = []Shard{
	ShardNA1, ShardBR1, ShardLA1, ShardLA2, ShardOC1,
	ShardEUW1, ShardEUN1, ShardTR1, ShardRU,
	ShardKR, ShardJP1,
	ShardPH2, ShardSG2, ShardTH2, ShardTW2, ShardVN2,
}

// shardToSuperShard is the fixed table every shard maps through to derive
// its super-shard (spec.md §3: "Every shard maps to exactly one super-shard
// via a fixed table").
var shardToSuperShard = map[Shard]SuperShard{
	ShardNA1: SuperShardAmericas,
	ShardBR1: SuperShardAmericas,
	ShardLA1: SuperShardAmericas,
	ShardLA2: SuperShardAmericas,
	ShardOC1: SuperShardSEA,

	ShardEUW1: SuperShardEurope,
	ShardEUN1: SuperShardEurope,
	ShardTR1:  SuperShardEurope,
	ShardRU:   SuperShardEurope,

	ShardKR:  SuperShardAsia,
	ShardJP1: SuperShardAsia,

	ShardPH2: SuperShardSEA,
	ShardSG2: SuperShardSEA,
	ShardTH2: SuperShardSEA,
	ShardTW2: SuperShardSEA,
	ShardVN2: SuperShardSEA,
}

// SuperShardOf returns the super-shard a shard routes through. Unknown
// shards return the empty SuperShard.
func SuperShardOf(s Shard) SuperShard {
	return shardToSuperShard[s]
}

// ShardOfMatchID derives a shard from a match id's prefix — the characters
// before the first `_` name the shard (spec.md §3).
func ShardOfMatchID(matchID string) Shard {
	if idx := strings.IndexByte(matchID, '_'); idx >= 0 {
		return Shard(strings.ToLower(matchID[:idx]))
	}
	return Shard(strings.ToLower(matchID))
}

// SuperShardOfMatchID derives a match id's super-shard via its shard.
func SuperShardOfMatchID(matchID string) SuperShard {
	return SuperShardOf(ShardOfMatchID(matchID))
}
