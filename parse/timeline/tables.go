package timeline

// ParticipantStats is one per-frame, per-participant snapshot row.
type ParticipantStats struct {
	MatchID        int64
	FrameTimestamp int64
	ParticipantID  int

	AbilityHaste      int
	AbilityPower      int
	Armor             int
	AttackDamage      int
	AttackSpeed       int
	CCReduction       int
	CooldownReduction int
	Health            int
	HealthMax         int
	HealthRegen       int
	MagicResist       int
	MovementSpeed     int
	Power             int
	PowerMax          int
	PowerRegen        int

	// Payload carries the penetration/vamp fields the upstream champion
	// stats object reports as floats, kept generic rather than promoted
	// to first-class columns.
	Payload map[string]float64

	CurrentGold int

	MagicDamageDone               int
	MagicDamageDoneToChampions    int
	MagicDamageTaken              int
	PhysicalDamageDone            int
	PhysicalDamageDoneToChampions int
	PhysicalDamageTaken           int
	TotalDamageDone               int
	TotalDamageDoneToChampions    int
	TotalDamageTaken              int
	TrueDamageDone                int
	TrueDamageDoneToChampions     int
	TrueDamageTaken               int

	GoldPerSecond            int
	JungleMinionsKilled      int
	Level                    int
	MinionsKilled            int
	PositionX                int
	PositionY                int
	TimeEnemySpentControlled int
	TotalGold                int
	XP                       int
}

type eventRowBase struct {
	MatchID        int64
	FrameTimestamp int64
	Timestamp      int64
}

// BuildingKillRow is one BUILDING_KILL event.
type BuildingKillRow struct {
	eventRowBase
	Bounty       int
	BuildingType string
	KillerID     int
	LaneType     string
	PositionX    int
	PositionY    int
	TeamID       int
	TowerType    *string
}

// ChampionKillRow is one CHAMPION_KILL event, stripped of its inline
// damage-instance lists (those are projected separately, see
// ChampionKillDamageInstanceRow).
type ChampionKillRow struct {
	eventRowBase
	ChampionKillEventID string
	KillerID            int
	VictimID            int
	Bounty              int
	KillStreakLength    int
	ShutdownBounty      int
	PositionX           int
	PositionY           int
}

// ChampionKillDamageInstanceRow is one damage instance out of a
// CHAMPION_KILL event's victimDamageDealt/victimDamageReceived list,
// tagged with which direction it came from.
type ChampionKillDamageInstanceRow struct {
	MatchID             int64
	FrameTimestamp      int64
	Timestamp           int64
	ChampionKillEventID string
	Direction           string
	Idx                 int

	Basic          bool
	MagicDamage    int
	Name           string
	ParticipantID  int
	PhysicalDamage int
	SpellName      string
	SpellSlot      int
	TrueDamage     int
	Type           string
}

// ChampionSpecialKillRow is one CHAMPION_SPECIAL_KILL event (e.g. a
// double/triple kill, first blood).
type ChampionSpecialKillRow struct {
	eventRowBase
	KillType         string
	KillerID         int
	PositionX        int
	PositionY        int
	MultiKillLength  *int
}

// DragonSoulGivenRow is one DRAGON_SOUL_GIVEN event.
type DragonSoulGivenRow struct {
	eventRowBase
	Name   string
	TeamID int
}

// EliteMonsterKillRow is one ELITE_MONSTER_KILL event.
type EliteMonsterKillRow struct {
	eventRowBase
	AssistingParticipantIDs []int
	Bounty                  int
	KillerID                int
	KillerTeamID            int
	MonsterSubType          *string
	MonsterType             string
	PositionX               int
	PositionY               int
}

// RareEventRow is a catch-all row for the remaining, lower-frequency
// event types that don't warrant a dedicated table, keeping their body
// as an opaque payload minus the type, timestamp, matchId and gameId keys.
type RareEventRow struct {
	eventRowBase
	Type    string
	Payload map[string]any
}

// TurretPlateDestroyedRow is one TURRET_PLATE_DESTROYED event.
type TurretPlateDestroyedRow struct {
	eventRowBase
	KillerID  int
	LaneType  string
	PositionX int
	PositionY int
	TeamID    int
}

// rareEventTypes names every event type RareEventRow absorbs.
var rareEventTypes = map[string]bool{
	"WARD_KILL": true, "WARD_PLACED": true, "GAME_END": true,
	"OBJECTIVE_BOUNTY_PRESTART": true, "OBJECTIVE_BOUNTY_FINISH": true,
	"FEAT_UPDATE": true, "CHAMPION_TRANSFORM": true, "ITEM_DESTROYED": true,
	"ITEM_PURCHASED": true, "ITEM_SOLD": true, "ITEM_UNDO": true,
	"LEVEL_UP": true, "PAUSE_END": true, "SKILL_LEVEL_UP": true, "UNKNOWN": true,
}

// Tables bundles every row table one match's timeline projects into.
type Tables struct {
	ParticipantStats []ParticipantStats

	BuildingKill        []BuildingKillRow
	ChampionKill        []ChampionKillRow
	ChampionSpecialKill []ChampionSpecialKillRow
	DragonSoulGiven     []DragonSoulGivenRow
	EliteMonsterKill    []EliteMonsterKillRow
	RareEvents          []RareEventRow
	TurretPlateDestroyed []TurretPlateDestroyedRow

	ChampionKillVictimDamageDealt    []ChampionKillDamageInstanceRow
	ChampionKillVictimDamageReceived []ChampionKillDamageInstanceRow
}
