package store

import "github.com/roccity/rally/internal/league"

// LeagueStore defines the persistence operations for the league: the
// roster, per-player history counters, the current session's rounds and
// scores, and the archive of past sessions. Every mutating method commits
// fully or not at all.
type LeagueStore interface {
	AddPlayer(name string) (league.Player, error)
	RemovePlayer(id int) error
	GetAllPlayers() ([]league.Player, error)
	SetTiers(tiers map[int]league.Tier) error

	GetHistory() (map[int]*league.HistoryCounters, error)
	SaveRound(round *league.Round, history map[int]*league.HistoryCounters) error
	GetRounds() ([]league.Round, error)

	SaveScore(score league.GameScore) error
	GetScores() ([]league.GameScore, error)

	CurrentSession() (int, error)
	SeedingDone() (bool, error)
	// StartNewSession archives the ended session and resets all
	// per-session state (rounds, scores, history counters) in one
	// transaction, applying any tier changes and bumping the session
	// number.
	StartNewSession(archive league.SessionArchive, tiers map[int]league.Tier, seedingDone bool) error
	GetSessionArchives() ([]league.SessionArchive, error)

	// ResetHistory zeroes the fairness counters (court usage, encounter
	// counts, sit-out tracking) without touching games played, scores or
	// the session number.
	ResetHistory() error
}
