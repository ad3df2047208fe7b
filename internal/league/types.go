package league

// Tier is a league-wide grouping restricting which courts a player may be
// assigned to. Players are unassigned until the seeding session ends.
type Tier string

const (
	TierNone   Tier = "NONE"
	TierTop    Tier = "TOP"
	TierBottom Tier = "BOTTOM"
)

// Mode selects the league format.
type Mode string

const (
	ModeFlat   Mode = "FLAT"
	ModeTiered Mode = "TIERED"
)

// Player is a roster member. IDs are assigned once at creation and stay
// stable across sessions.
type Player struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Tier Tier   `json:"tier"`
}

// Court is one court in a round: two teams of two.
type Court struct {
	ID    int    `json:"court"`
	TeamA [2]int `json:"team_a"`
	TeamB [2]int `json:"team_b"`
}

// Round is one scheduled time slot. Courts and sitters are fixed once the
// round is generated; only scores attach afterwards.
type Round struct {
	Number  int     `json:"round_number"`
	Courts  []Court `json:"courts"`
	Sitters []int   `json:"sitting_players"`
}

// GameScore is the recorded result for one court in one round. One entry
// per court per round; re-entry overwrites.
type GameScore struct {
	RoundNumber int `json:"round_number"`
	CourtID     int `json:"court"`
	TeamAScore  int `json:"team_a_score"`
	TeamBScore  int `json:"team_b_score"`
}

// HistoryCounters tracks per-player participation used by the scheduler.
// Mutated only when a round is generated, never by score entry.
type HistoryCounters struct {
	GamesPlayed        int         `json:"games_played"`
	ConsecutiveSitOuts int         `json:"consecutive_sit_outs"`
	RoundsSatOut       int         `json:"rounds_sat_out"`
	LastSatOutRound    int         `json:"last_sat_out_round"`
	CourtUsage         map[int]int `json:"court_usage"`
	OpponentCounts     map[int]int `json:"opponent_counts"`
	PartnerCounts      map[int]int `json:"partner_counts"`
}

// NewHistoryCounters returns zeroed counters. LastSatOutRound starts at -2
// so a player is sit-eligible from round 1.
func NewHistoryCounters() *HistoryCounters {
	return &HistoryCounters{
		LastSatOutRound: -2,
		CourtUsage:      make(map[int]int),
		OpponentCounts:  make(map[int]int),
		PartnerCounts:   make(map[int]int),
	}
}

// SatOutLastRound reports whether the player sat in the most recent round.
func (h *HistoryCounters) SatOutLastRound() bool {
	return h.ConsecutiveSitOuts > 0
}

// RankingRow is one line of the standings. Derived on demand, never stored.
type RankingRow struct {
	Player        Player `json:"player"`
	GamesPlayed   int    `json:"games_played"`
	CountedGames  int    `json:"counted_games"`
	TotalPoints   int    `json:"points"`
	PointsAgainst int    `json:"points_against"`
	Differential  int    `json:"differential"`
}

// SessionArchive is the immutable record of an ended session.
type SessionArchive struct {
	ID        string       `json:"id"`
	Number    int          `json:"session_number"`
	EndedAt   int64        `json:"ended_at"`
	Rounds    []Round      `json:"rounds"`
	Scores    []GameScore  `json:"scores"`
	Rankings  []RankingRow `json:"rankings"`
	Seeded    []int        `json:"seeded_top,omitempty"`
	Promoted  []int        `json:"promoted,omitempty"`
	Relegated []int        `json:"relegated,omitempty"`
}
