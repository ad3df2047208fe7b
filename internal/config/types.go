package config

import "github.com/roccity/rally/internal/league"

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	League        LeagueConfig
	Slack         SlackConfig
	Turso         TursoConfig
}

// LeagueConfig parametrizes the scheduling and session rules. Thresholds
// are configuration rather than constants because the supported variants
// differ on minimums (8 vs 12 players) and court counts.
type LeagueConfig struct {
	Mode      league.Mode
	CourtSize int
	// CourtThresholds maps a minimum roster size to a court count, checked
	// in descending threshold order. The smallest entry defines the minimum
	// roster for generating a round.
	CourtThresholds map[int]int
	PromotionCount  int
	RelegationCount int
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// MinPlayers is the smallest roster that can fill one supported court
// configuration.
func (l LeagueConfig) MinPlayers() int {
	min := 0
	for players := range l.CourtThresholds {
		if min == 0 || players < min {
			min = players
		}
	}
	return min
}

// CourtsFor returns the court count for a roster size, or 0 when the roster
// is below the smallest supported configuration.
func (l LeagueConfig) CourtsFor(players int) int {
	best := 0
	bestThreshold := -1
	for threshold, courts := range l.CourtThresholds {
		if players >= threshold && threshold > bestThreshold {
			bestThreshold = threshold
			best = courts
		}
	}
	return best
}
