package nontimeline

// Metadata is one row of the metadata table.
type Metadata struct {
	MatchID      string
	DataVersion  string
	Participants []string
}

// GameInfo is one row of the game_info table, with the version string
// decomposed per spec.md §4.7.
type GameInfo struct {
	EndOfGameResult    string
	GameCreation       int64
	GameDuration       int64
	GameEndTimestamp   int64
	MatchID            int64
	GameStartTimestamp int64
	GameType           string
	GameVersion        string
	Season             string
	Patch              string
	SubVersion         string
	MapID              int
	PlatformID         string
	QueueID            int
}

// Ban is one row of the bans table.
type Ban struct {
	MatchID    int64
	TeamID     int
	PickTurn   int
	ChampionID int
}

// Feat is one row of the feats table.
type Feat struct {
	MatchID   int64
	TeamID    int
	FeatType  string
	FeatState int
}

// Objective is one row of the objectives table.
type Objective struct {
	MatchID       int64
	TeamID        int
	ObjectiveType string
	First         bool
	Kills         int
}

// ParticipantStats is one row of the participant_stats table: the
// representative, explicitly-bounded field set this pipeline persists,
// with uint8ClampFields capped to 255 to accommodate store constraints.
type ParticipantStats struct {
	MatchID       int64
	ParticipantID int
	PUUID         string
	TeamID        int

	SummonerID      string
	SummonerLevel   int
	SummonerName    string
	RiotIDGameName  string
	RiotIDTagline   string
	ProfileIcon     int
	ChampionID      int
	ChampLevel      int
	ChampExperience int
	TeamPosition    string

	Win                       bool
	GameEndedInEarlySurrender bool
	GameEndedInSurrender      bool

	Kills   int
	Deaths  int
	Assists int

	GoldEarned int
	GoldSpent  int

	TotalDamageDealtToChampions int
	TotalDamageTaken            int
	TotalHeal                   int

	TotalMinionsKilled   int
	NeutralMinionsKilled int

	VisionScore       int
	WardsPlaced       int
	WardsKilled       int
	AllInPings        int
	AssistMePings     int
	BasicPings        int
	CommandPings      int
	DangerPings       int
	EnemyMissingPings int
	EnemyVisionPings  int
	GetBackPings      int
	HoldPings         int
	NeedVisionPings   int
	OnMyWayPings      int
	PushPings         int
	RetreatPings      int
	UnrealKills       int

	TimePlayed int
}

// uint8ClampFields names the fields clamped to [0,255] (spec.md §4.7
// "clamp a fixed set of fields to ≤255" / §3 "some capped to [0,255] to
// accommodate store constraints").
var uint8ClampFields = map[string]bool{
	"visionScore": true, "wardsPlaced": true, "wardsKilled": true,
	"allInPings": true, "assistMePings": true, "basicPings": true,
	"commandPings": true, "dangerPings": true, "enemyMissingPings": true,
	"enemyVisionPings": true, "getBackPings": true, "holdPings": true,
	"needVisionPings": true, "onMyWayPings": true, "pushPings": true,
	"retreatPings": true, "unrealKills": true,
}

func clamp255(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// ParticipantChallenges is one row of the participant_challenges table: an
// open-ended payload map excluding any key beginning with "SWARM".
type ParticipantChallenges struct {
	MatchID int64
	TeamID  int
	PUUID   string
	Payload map[string]any
}

// ParticipantPerkValues is one row of the participant_perk_values table:
// the 18 numeric variables across the 4 primary + 2 sub rune selections.
type ParticipantPerkValues struct {
	MatchID int64
	TeamID  int
	PUUID   string

	PrimaryVar1_1, PrimaryVar2_1, PrimaryVar3_1 int
	PrimaryVar1_2, PrimaryVar2_2, PrimaryVar3_2 int
	PrimaryVar1_3, PrimaryVar2_3, PrimaryVar3_3 int
	PrimaryVar1_4, PrimaryVar2_4, PrimaryVar3_4 int

	SubVar1_1, SubVar2_1, SubVar3_1 int
	SubVar1_2, SubVar2_2, SubVar3_2 int
}

// ParticipantPerkIds is one row of the participant_perk_ids table: the
// selected rune ids and the derived perk combo key.
type ParticipantPerkIds struct {
	MatchID int64
	TeamID  int
	PUUID   string

	StatDefense int
	StatFlex    int
	StatOffense int

	PrimaryStyle int
	SubStyle     int

	PrimaryPerk1, PrimaryPerk2, PrimaryPerk3, PrimaryPerk4 int
	SubPerk1, SubPerk2                                     int

	PerkComboKey int64
}

// Tables bundles the nine related row tables one match's payload projects
// into (spec.md §4.7 "NonTimelineTables").
type Tables struct {
	Metadata               []Metadata
	GameInfo               []GameInfo
	Bans                   []Ban
	Feats                  []Feat
	Objectives             []Objective
	ParticipantStats       []ParticipantStats
	ParticipantChallenges  []ParticipantChallenges
	ParticipantPerkValues  []ParticipantPerkValues
	ParticipantPerkIds     []ParticipantPerkIds
}
