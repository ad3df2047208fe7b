package engine

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/roccity/rally/internal/config"
	"github.com/roccity/rally/internal/league"
	"github.com/roccity/rally/internal/metrics"
	"github.com/roccity/rally/internal/notifier"
	"github.com/roccity/rally/internal/ranking"
	"github.com/roccity/rally/internal/scheduler"
	"github.com/roccity/rally/internal/store"
)

// New creates a new Engine.
func New(st store.LeagueStore, notifier notifier.Notifier, m metrics.Metrics, ops metrics.MetricsStore, cfg config.LeagueConfig) *Engine {
	return &Engine{
		store:    st,
		notifier: notifier,
		metrics:  m,
		ops:      ops,
		cfg:      cfg,
	}
}

// AddPlayer adds a roster member and returns it.
func (e *Engine) AddPlayer(name string) (league.Player, error) {
	player, err := e.store.AddPlayer(name)
	if err != nil {
		return league.Player{}, err
	}
	e.ops.Increment("players_added")
	return player, nil
}

// RemovePlayer removes a roster member.
func (e *Engine) RemovePlayer(id int) error {
	return e.store.RemovePlayer(id)
}

// Players returns the roster in insertion order.
func (e *Engine) Players() ([]league.Player, error) {
	return e.store.GetAllPlayers()
}

// Rounds returns the current session's rounds.
func (e *Engine) Rounds() ([]league.Round, error) {
	return e.store.GetRounds()
}

// GenerateRound produces and persists the next round. Nothing is written
// when generation fails, and nothing is written in dry-run mode.
func (e *Engine) GenerateRound(dryRun bool) (*league.Round, error) {
	startTime := time.Now()

	players, err := e.store.GetAllPlayers()
	if err != nil {
		return nil, err
	}
	history, err := e.store.GetHistory()
	if err != nil {
		return nil, err
	}
	rounds, err := e.store.GetRounds()
	if err != nil {
		return nil, err
	}
	tiered, err := e.tieredActive()
	if err != nil {
		return nil, err
	}

	round, err := scheduler.Generate(e.cfg, players, history, len(rounds)+1, tiered)
	if err != nil {
		e.metrics.IncGenerationFailed()
		return nil, err
	}

	if dryRun {
		log.Info("Dry run mode: round not persisted", "round", round.Number)
		return round, nil
	}

	scheduler.UpdateHistory(history, round)
	if err := e.store.SaveRound(round, history); err != nil {
		return nil, fmt.Errorf("failed to save round %d: %w", round.Number, err)
	}
	e.metrics.IncRoundsGenerated()
	e.metrics.ObserveGenerationDuration(time.Since(startTime).Seconds())
	e.ops.Increment("rounds_generated")

	if err := e.notifier.SendRoundAnnouncement(round, namesByID(players), dryRun); err != nil {
		log.Error("Failed to announce round", "round", round.Number, "error", err)
	}

	log.Info("Round generated", "round", round.Number, "courts", len(round.Courts), "sitters", len(round.Sitters))
	return round, nil
}

// EnterScore records the result for one court in one round. The reference
// must name a generated game; scores must be non-negative. Re-entry
// overwrites the previous score.
func (e *Engine) EnterScore(roundNumber, courtID, teamAScore, teamBScore int) error {
	if teamAScore < 0 || teamBScore < 0 {
		return fmt.Errorf("%w: got %d - %d", league.ErrInvalidScore, teamAScore, teamBScore)
	}

	rounds, err := e.store.GetRounds()
	if err != nil {
		return err
	}
	if !gameExists(rounds, roundNumber, courtID) {
		return fmt.Errorf("%w: round %d court %d", league.ErrInvalidGameRef, roundNumber, courtID)
	}

	score := league.GameScore{
		RoundNumber: roundNumber,
		CourtID:     courtID,
		TeamAScore:  teamAScore,
		TeamBScore:  teamBScore,
	}
	if err := e.store.SaveScore(score); err != nil {
		return fmt.Errorf("failed to save score: %w", err)
	}
	e.metrics.IncScoresRecorded()
	e.ops.Increment("scores_recorded")
	log.Info("Score recorded", "round", roundNumber, "court", courtID, "score", fmt.Sprintf("%d-%d", teamAScore, teamBScore))
	return nil
}

// Rankings computes the current session's standings.
func (e *Engine) Rankings() ([]league.RankingRow, error) {
	players, err := e.store.GetAllPlayers()
	if err != nil {
		return nil, err
	}
	history, err := e.store.GetHistory()
	if err != nil {
		return nil, err
	}
	rounds, err := e.store.GetRounds()
	if err != nil {
		return nil, err
	}
	scores, err := e.store.GetScores()
	if err != nil {
		return nil, err
	}
	return ranking.Compute(players, history, rounds, scores), nil
}

// StartNewSession archives the current session and starts a fresh one. In
// tiered mode the ending session drives tier assignment: the seeding
// session seeds Top/Bottom from final standings, later sessions promote
// and relegate between them.
func (e *Engine) StartNewSession(dryRun bool) error {
	rows, err := e.Rankings()
	if err != nil {
		return err
	}
	rounds, err := e.store.GetRounds()
	if err != nil {
		return err
	}
	scores, err := e.store.GetScores()
	if err != nil {
		return err
	}
	number, err := e.store.CurrentSession()
	if err != nil {
		return err
	}
	seedingDone, err := e.store.SeedingDone()
	if err != nil {
		return err
	}

	archive := league.SessionArchive{
		Number:   number,
		Rounds:   rounds,
		Scores:   scores,
		Rankings: rows,
	}

	// Tier reassignment is driven by the ending session's standings; a
	// session without rounds has none, so rolling it over must not assign
	// arbitrary tiers or consume the seeding session.
	tiers := map[int]league.Tier{}
	if e.cfg.Mode == league.ModeTiered && len(rounds) > 0 {
		if !seedingDone {
			tiers, archive.Seeded = seedTiers(rows)
		} else {
			var promoted, relegated []int
			tiers, promoted, relegated = promoteRelegate(rows, e.cfg)
			archive.Promoted = promoted
			archive.Relegated = relegated
		}
		seedingDone = true
	}

	if dryRun {
		log.Info("Dry run mode: session not rolled over", "ending", number)
		return nil
	}

	if err := e.store.StartNewSession(archive, tiers, seedingDone); err != nil {
		return fmt.Errorf("failed to start new session: %w", err)
	}
	e.metrics.IncSessionsStarted()
	e.ops.Increment("sessions_started")

	if len(rows) > 0 {
		if err := e.notifier.SendStandings(rows, number, false); err != nil {
			log.Error("Failed to send final standings", "session", number, "error", err)
		}
	}

	log.Info("New session started", "number", number+1, "mode", e.cfg.Mode)
	return nil
}

// ResetHistory zeroes the fairness counters so sit-out and matchup
// tracking starts fresh. Games played and recorded scores are untouched:
// the current session's rankings are unaffected.
func (e *Engine) ResetHistory() error {
	if err := e.store.ResetHistory(); err != nil {
		return err
	}
	e.ops.Increment("history_resets")
	return nil
}

// SessionArchives returns past sessions, oldest first.
func (e *Engine) SessionArchives() ([]league.SessionArchive, error) {
	return e.store.GetSessionArchives()
}

// CurrentSession returns the active session number.
func (e *Engine) CurrentSession() (int, error) {
	return e.store.CurrentSession()
}

// tieredActive reports whether the tier partition applies to generation:
// tiered mode with the seeding session already behind us.
func (e *Engine) tieredActive() (bool, error) {
	if e.cfg.Mode != league.ModeTiered {
		return false, nil
	}
	return e.store.SeedingDone()
}

// seedTiers assigns the top half of the final standings (rounded down) to
// the top tier and the rest to the bottom tier.
func seedTiers(rows []league.RankingRow) (map[int]league.Tier, []int) {
	tiers := make(map[int]league.Tier, len(rows))
	var seeded []int
	topCount := len(rows) / 2
	for i, row := range rows {
		if i < topCount {
			tiers[row.Player.ID] = league.TierTop
			seeded = append(seeded, row.Player.ID)
		} else {
			tiers[row.Player.ID] = league.TierBottom
		}
	}
	return tiers, seeded
}

// promoteRelegate swaps players between tiers based on the ending
// session's standings: the best of the bottom tier move up, the worst of
// the top tier move down, as many as each tier can supply.
func promoteRelegate(rows []league.RankingRow, cfg config.LeagueConfig) (map[int]league.Tier, []int, []int) {
	var top, bottom []league.RankingRow
	for _, row := range rows {
		if row.Player.Tier == league.TierTop {
			top = append(top, row)
		} else {
			bottom = append(bottom, row)
		}
	}

	promoteCount := minInt(cfg.PromotionCount, len(bottom))
	relegateCount := minInt(cfg.RelegationCount, len(top))

	tiers := make(map[int]league.Tier)
	var promoted, relegated []int
	for _, row := range bottom[:promoteCount] {
		tiers[row.Player.ID] = league.TierTop
		promoted = append(promoted, row.Player.ID)
	}
	for _, row := range top[len(top)-relegateCount:] {
		tiers[row.Player.ID] = league.TierBottom
		relegated = append(relegated, row.Player.ID)
	}
	// Players added mid-session start unassigned; they join the bottom
	// tier once tiers are in play.
	for _, row := range rows {
		if row.Player.Tier == league.TierNone {
			if _, swapped := tiers[row.Player.ID]; !swapped {
				tiers[row.Player.ID] = league.TierBottom
			}
		}
	}
	return tiers, promoted, relegated
}

func gameExists(rounds []league.Round, roundNumber, courtID int) bool {
	for _, round := range rounds {
		if round.Number != roundNumber {
			continue
		}
		for _, court := range round.Courts {
			if court.ID == courtID {
				return true
			}
		}
	}
	return false
}

func namesByID(players []league.Player) map[int]string {
	names := make(map[int]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
	}
	return names
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
