package scheduler_test

import (
	"fmt"
	"testing"

	"github.com/roccity/rally/internal/config"
	"github.com/roccity/rally/internal/league"
	"github.com/roccity/rally/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.LeagueConfig {
	return config.LeagueConfig{
		CourtSize:       4,
		CourtThresholds: map[int]int{8: 2, 12: 3, 16: 4},
	}
}

func makeRoster(n int) ([]league.Player, map[int]*league.HistoryCounters) {
	players := make([]league.Player, 0, n)
	history := make(map[int]*league.HistoryCounters, n)
	for i := 1; i <= n; i++ {
		players = append(players, league.Player{ID: i, Name: fmt.Sprintf("Player %d", i)})
		history[i] = league.NewHistoryCounters()
	}
	return players, history
}

// assertValidRound checks the structural invariants every generated round
// must hold: four distinct players per court, nobody on two courts, and
// courts plus sitters covering the whole roster exactly once.
func assertValidRound(t *testing.T, round *league.Round, players []league.Player, courtSize int) {
	t.Helper()

	seen := make(map[int]bool)
	for _, court := range round.Courts {
		ids := []int{court.TeamA[0], court.TeamA[1], court.TeamB[0], court.TeamB[1]}
		assert.Len(t, ids, courtSize)
		for _, id := range ids {
			assert.False(t, seen[id], "player %d appears twice in round %d", id, round.Number)
			seen[id] = true
		}
	}
	for _, id := range round.Sitters {
		assert.False(t, seen[id], "sitter %d is also playing in round %d", id, round.Number)
		seen[id] = true
	}
	assert.Len(t, seen, len(players), "round %d does not cover the roster", round.Number)
}

func TestGenerate_Flat(t *testing.T) {
	cfg := testConfig()

	t.Run("rejects a short roster", func(t *testing.T) {
		players, history := makeRoster(7)
		_, err := scheduler.Generate(cfg, players, history, 1, false)
		assert.ErrorIs(t, err, league.ErrInsufficientPlayers)
	})

	t.Run("eight players fill two courts with no sitters", func(t *testing.T) {
		players, history := makeRoster(8)
		round, err := scheduler.Generate(cfg, players, history, 1, false)
		require.NoError(t, err)

		assert.Equal(t, 1, round.Number)
		assert.Len(t, round.Courts, 2)
		assert.Empty(t, round.Sitters)
		assertValidRound(t, round, players, cfg.CourtSize)
	})

	t.Run("court count scales with the roster", func(t *testing.T) {
		for roster, courts := range map[int]int{8: 2, 11: 2, 12: 3, 15: 3, 16: 4, 20: 4} {
			players, history := makeRoster(roster)
			round, err := scheduler.Generate(cfg, players, history, 1, false)
			require.NoError(t, err)
			assert.Lenf(t, round.Courts, courts, "roster of %d", roster)
			assert.Lenf(t, round.Sitters, roster-courts*cfg.CourtSize, "roster of %d", roster)
			assertValidRound(t, round, players, cfg.CourtSize)
		}
	})

	t.Run("is deterministic", func(t *testing.T) {
		players, historyA := makeRoster(10)
		_, historyB := makeRoster(10)

		roundA, err := scheduler.Generate(cfg, players, historyA, 1, false)
		require.NoError(t, err)
		roundB, err := scheduler.Generate(cfg, players, historyB, 1, false)
		require.NoError(t, err)

		assert.Equal(t, roundA, roundB)
	})
}

func TestGenerate_NoConsecutiveSitOuts(t *testing.T) {
	cfg := testConfig()
	players, history := makeRoster(10)

	var prevSitters map[int]bool
	for roundNumber := 1; roundNumber <= 10; roundNumber++ {
		round, err := scheduler.Generate(cfg, players, history, roundNumber, false)
		require.NoError(t, err)
		assertValidRound(t, round, players, cfg.CourtSize)

		for _, id := range round.Sitters {
			assert.False(t, prevSitters[id], "player %d sat out rounds %d and %d", id, roundNumber-1, roundNumber)
		}

		scheduler.UpdateHistory(history, round)
		prevSitters = make(map[int]bool)
		for _, id := range round.Sitters {
			prevSitters[id] = true
		}
	}
}

func TestGenerate_SitOutsFavorPlayersBehindOnGames(t *testing.T) {
	cfg := testConfig()
	players, history := makeRoster(10)

	// Two sit per round. After ten rounds everyone should have sat exactly
	// twice and played exactly eight games.
	for roundNumber := 1; roundNumber <= 10; roundNumber++ {
		round, err := scheduler.Generate(cfg, players, history, roundNumber, false)
		require.NoError(t, err)
		scheduler.UpdateHistory(history, round)
	}

	for _, p := range players {
		assert.Equalf(t, 8, history[p.ID].GamesPlayed, "player %d games", p.ID)
		assert.Equalf(t, 2, history[p.ID].RoundsSatOut, "player %d sit-outs", p.ID)
	}
}

func TestGenerate_ForcedConsecutiveSitOut(t *testing.T) {
	// One court for nine players: five sit per round, so four previous-round
	// sitters cannot cover the quota and one player is forced back out.
	cfg := config.LeagueConfig{CourtSize: 4, CourtThresholds: map[int]int{4: 1}}
	players, history := makeRoster(9)

	round1, err := scheduler.Generate(cfg, players, history, 1, false)
	require.NoError(t, err)
	require.Len(t, round1.Sitters, 5)
	scheduler.UpdateHistory(history, round1)

	round2, err := scheduler.Generate(cfg, players, history, 2, false)
	require.NoError(t, err)
	require.Len(t, round2.Sitters, 5)

	forced := 0
	for _, id := range round2.Sitters {
		if history[id].SatOutLastRound() {
			forced++
		}
	}
	assert.Equal(t, 1, forced, "exactly one sitter should repeat")
}

func TestGenerate_Tiered(t *testing.T) {
	cfg := testConfig()

	t.Run("tiers play disjoint court ranges", func(t *testing.T) {
		players, history := makeRoster(16)
		for i := range players {
			if i < 8 {
				players[i].Tier = league.TierTop
			} else {
				players[i].Tier = league.TierBottom
			}
		}

		round, err := scheduler.Generate(cfg, players, history, 1, true)
		require.NoError(t, err)
		require.Len(t, round.Courts, 4)
		assert.Empty(t, round.Sitters)
		assertValidRound(t, round, players, cfg.CourtSize)

		tierOf := make(map[int]league.Tier)
		for _, p := range players {
			tierOf[p.ID] = p.Tier
		}
		for _, court := range round.Courts {
			want := league.TierBottom
			if court.ID >= 3 {
				want = league.TierTop
			}
			for _, id := range []int{court.TeamA[0], court.TeamA[1], court.TeamB[0], court.TeamB[1]} {
				assert.Equalf(t, want, tierOf[id], "court %d player %d", court.ID, id)
			}
		}
	})

	t.Run("a tier too small for a court sits entirely", func(t *testing.T) {
		players, history := makeRoster(12)
		for i := range players {
			if i < 3 {
				players[i].Tier = league.TierTop
			} else {
				players[i].Tier = league.TierBottom
			}
		}

		round, err := scheduler.Generate(cfg, players, history, 1, true)
		require.NoError(t, err)
		assertValidRound(t, round, players, cfg.CourtSize)

		// Top tier has three players, below the court size.
		for _, p := range players[:3] {
			assert.Contains(t, round.Sitters, p.ID)
		}
	})

	t.Run("unassigned players schedule with the bottom tier", func(t *testing.T) {
		players, history := makeRoster(8)
		for i := range players[:4] {
			players[i].Tier = league.TierTop
		}

		round, err := scheduler.Generate(cfg, players, history, 1, true)
		require.NoError(t, err)
		assert.Len(t, round.Courts, 2)
		assertValidRound(t, round, players, cfg.CourtSize)
	})
}

func TestUpdateHistory(t *testing.T) {
	_, history := makeRoster(5)
	round := &league.Round{
		Number:  3,
		Courts:  []league.Court{{ID: 2, TeamA: [2]int{1, 2}, TeamB: [2]int{3, 4}}},
		Sitters: []int{5},
	}

	scheduler.UpdateHistory(history, round)

	assert.Equal(t, 1, history[1].GamesPlayed)
	assert.Equal(t, 1, history[1].CourtUsage[2])
	assert.Equal(t, 1, history[1].PartnerCounts[2])
	assert.Equal(t, 1, history[2].PartnerCounts[1])
	assert.Equal(t, 1, history[1].OpponentCounts[3])
	assert.Equal(t, 1, history[1].OpponentCounts[4])
	assert.Equal(t, 1, history[4].OpponentCounts[1])
	assert.Zero(t, history[1].PartnerCounts[3])

	assert.Zero(t, history[5].GamesPlayed)
	assert.Equal(t, 1, history[5].ConsecutiveSitOuts)
	assert.Equal(t, 1, history[5].RoundsSatOut)
	assert.Equal(t, 3, history[5].LastSatOutRound)

	// Playing clears the consecutive counter.
	scheduler.UpdateHistory(history, &league.Round{
		Number: 4,
		Courts: []league.Court{{ID: 1, TeamA: [2]int{5, 1}, TeamB: [2]int{2, 3}}},
	})
	assert.Zero(t, history[5].ConsecutiveSitOuts)
	assert.Equal(t, 3, history[5].LastSatOutRound)
}

func TestGenerate_SpreadsPartnersAndCourts(t *testing.T) {
	cfg := testConfig()
	players, history := makeRoster(8)

	for roundNumber := 1; roundNumber <= 6; roundNumber++ {
		round, err := scheduler.Generate(cfg, players, history, roundNumber, false)
		require.NoError(t, err)
		scheduler.UpdateHistory(history, round)
	}

	// With eight players over six rounds nobody should be locked to one
	// court or one partner the whole way through.
	for _, p := range players {
		h := history[p.ID]
		assert.Lessf(t, h.CourtUsage[1], 6, "player %d never rotated off court 1", p.ID)
		for partner, count := range h.PartnerCounts {
			assert.Lessf(t, count, 6, "player %d always partnered %d", p.ID, partner)
		}
	}
}
