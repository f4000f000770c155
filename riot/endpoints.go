package riot

import "fmt"

// Endpoint URL templates for the upstream game-data API, matching
// spec.md §6. `%s`/`%d` placeholders are filled by the caller; the
// `api_key` query parameter is appended by httpfetch, not embedded here,
// so it can be masked uniformly on every outbound request.

// EliteListURL formats the elite-tier list endpoint for one (shard, tier, queue).
func EliteListURL(shard Shard, tier EliteTier, queue Queue) string {
	return fmt.Sprintf("https://%s.api.riotgames.com/lol/league/v4/%sleagues/by-queue/%s",
		shard, eliteTierPathSegment(tier), queueName(queue))
}

// DivisionedListURL formats one page of the divisioned sub-elite endpoint.
func DivisionedListURL(shard Shard, queue Queue, tier Tier, division Division, page int) string {
	return fmt.Sprintf("https://%s.api.riotgames.com/lol/league/v4/entries/%s/%s/%s?page=%d",
		shard, queueName(queue), tier, division, page)
}

// MatchIDsURL formats the by-puuid match-id listing endpoint. `start` is
// left as a literal placeholder the match-id crawler substitutes per
// request, since one URL template is reused across a player's whole crawl.
func MatchIDsURL(superShard SuperShard, puuid string, startTime, endTime int64, queue Queue) string {
	return fmt.Sprintf("https://%s.api.riotgames.com/lol/match/v5/matches/by-puuid/%s/ids"+
		"?startTime=%d&endTime=%d&type=ranked&queue=%d&start=%s&count=100",
		superShard, puuid, startTime, endTime, queueCode(queue), "%d")
}

// MatchByIDURL formats the single-match payload endpoint.
func MatchByIDURL(superShard SuperShard, matchID string) string {
	return fmt.Sprintf("https://%s.api.riotgames.com/lol/match/v5/matches/%s", superShard, matchID)
}

// TimelineByIDURL formats the single-match timeline endpoint.
func TimelineByIDURL(superShard SuperShard, matchID string) string {
	return fmt.Sprintf("https://%s.api.riotgames.com/lol/match/v5/matches/%s/timeline", superShard, matchID)
}

func eliteTierPathSegment(t EliteTier) string {
	switch t {
	case TierChallenger:
		return "challenger"
	case TierGrandmaster:
		return "grandmaster"
	case TierMaster:
		return "master"
	default:
		return string(t)
	}
}

func queueCode(q Queue) int {
	return QueueCode[q]
}

// queueName is the upstream ranked-queue name the league list endpoints
// take as a path segment.
func queueName(q Queue) string {
	switch q {
	case QueueSolo:
		return "RANKED_SOLO_5x5"
	case QueueFlex:
		return "RANKED_FLEX_SR"
	}
	return string(q)
}
