// Package scheduler produces court assignments for one round from the
// roster and participation history. Generation is pure: it reads but never
// mutates history, so it can be tested without a store. Callers apply the
// result with UpdateHistory.
package scheduler

import (
	"fmt"
	"sort"

	"github.com/roccity/rally/internal/config"
	"github.com/roccity/rally/internal/league"
)

// Generate builds the next round. When tiered is true the roster is
// partitioned into top/bottom pools playing disjoint court sets; otherwise
// everyone competes for every court. Returns ErrInsufficientPlayers when
// the roster cannot fill the smallest supported configuration.
func Generate(cfg config.LeagueConfig, players []league.Player, history map[int]*league.HistoryCounters, roundNumber int, tiered bool) (*league.Round, error) {
	if tiered {
		return generateTiered(cfg, players, history, roundNumber)
	}
	return generateFlat(cfg, players, history, roundNumber)
}

func generateFlat(cfg config.LeagueConfig, players []league.Player, history map[int]*league.HistoryCounters, roundNumber int) (*league.Round, error) {
	numCourts := cfg.CourtsFor(len(players))
	if numCourts == 0 {
		return nil, fmt.Errorf("%w: have %d, need at least %d", league.ErrInsufficientPlayers, len(players), cfg.MinPlayers())
	}

	courtIDs := make([]int, numCourts)
	for i := range courtIDs {
		courtIDs[i] = i + 1
	}

	sitters := selectSitters(players, numCourts*cfg.CourtSize, roundNumber, history)
	playing := withoutSitters(players, sitters)
	courts := assignCourts(playing, courtIDs, cfg.CourtSize, history)

	return &league.Round{Number: roundNumber, Courts: courts, Sitters: sitters}, nil
}

// generateTiered splits the active courts between the two tiers, bottom
// tier on the low-numbered courts and top tier on the high-numbered ones.
// Sit-out and conflict rules apply independently within each pool. A tier
// that cannot fill a single court sits out entirely.
func generateTiered(cfg config.LeagueConfig, players []league.Player, history map[int]*league.HistoryCounters, roundNumber int) (*league.Round, error) {
	numCourts := cfg.CourtsFor(len(players))
	if numCourts == 0 {
		return nil, fmt.Errorf("%w: have %d, need at least %d", league.ErrInsufficientPlayers, len(players), cfg.MinPlayers())
	}

	var top, bottom []league.Player
	for _, p := range players {
		if p.Tier == league.TierTop {
			top = append(top, p)
		} else {
			bottom = append(bottom, p)
		}
	}

	bottomShare := numCourts / 2
	topShare := numCourts - bottomShare

	bottomUse := minInt(bottomShare, len(bottom)/cfg.CourtSize)
	topUse := minInt(topShare, len(top)/cfg.CourtSize)
	if bottomUse+topUse == 0 {
		return nil, fmt.Errorf("%w: no tier can fill a court of %d", league.ErrInsufficientPlayers, cfg.CourtSize)
	}

	bottomCourts := make([]int, bottomUse)
	for i := range bottomCourts {
		bottomCourts[i] = i + 1
	}
	topCourts := make([]int, topUse)
	for i := range topCourts {
		topCourts[i] = numCourts - topUse + i + 1
	}

	round := &league.Round{Number: roundNumber}
	for _, pool := range []struct {
		players []league.Player
		courts  []int
	}{
		{bottom, bottomCourts},
		{top, topCourts},
	} {
		if len(pool.courts) == 0 {
			// Whole pool sits this round.
			for _, p := range pool.players {
				round.Sitters = append(round.Sitters, p.ID)
			}
			continue
		}
		sitters := selectSitters(pool.players, len(pool.courts)*cfg.CourtSize, roundNumber, history)
		playing := withoutSitters(pool.players, sitters)
		round.Courts = append(round.Courts, assignCourts(playing, pool.courts, cfg.CourtSize, history)...)
		round.Sitters = append(round.Sitters, sitters...)
	}

	sort.Slice(round.Courts, func(i, j int) bool { return round.Courts[i].ID < round.Courts[j].ID })
	sort.Ints(round.Sitters)
	return round, nil
}

// assignCourts seats playing players greedily. Players behind on games are
// placed first; each seat takes the candidate with the lowest usage of that
// court, then the fewest prior encounters with the players already seated,
// then the lowest ID. Seats 1-2 form team A, seats 3-4 team B.
func assignCourts(playing []league.Player, courtIDs []int, courtSize int, history map[int]*league.HistoryCounters) []league.Court {
	pool := make([]league.Player, len(playing))
	copy(pool, playing)
	sort.Slice(pool, func(i, j int) bool {
		hi, hj := counters(history, pool[i].ID), counters(history, pool[j].ID)
		if hi.GamesPlayed != hj.GamesPlayed {
			return hi.GamesPlayed < hj.GamesPlayed
		}
		return pool[i].ID < pool[j].ID
	})

	var courts []league.Court
	for _, courtID := range courtIDs {
		if len(pool) < courtSize {
			break
		}
		seated := make([]int, 0, courtSize)
		for seat := 0; seat < courtSize; seat++ {
			bestIdx := -1
			var bestUsage, bestConflict int
			for i, candidate := range pool {
				h := counters(history, candidate.ID)
				usage := h.CourtUsage[courtID]
				conflict := 0
				for j, other := range seated {
					if sameTeam(seat, j) {
						conflict += h.PartnerCounts[other]
					} else {
						conflict += h.OpponentCounts[other]
					}
				}
				if bestIdx == -1 || usage < bestUsage || (usage == bestUsage && conflict < bestConflict) ||
					(usage == bestUsage && conflict == bestConflict && candidate.ID < pool[bestIdx].ID) {
					bestIdx, bestUsage, bestConflict = i, usage, conflict
				}
			}
			seated = append(seated, pool[bestIdx].ID)
			pool = append(pool[:bestIdx], pool[bestIdx+1:]...)
		}
		courts = append(courts, league.Court{
			ID:    courtID,
			TeamA: [2]int{seated[0], seated[1]},
			TeamB: [2]int{seated[2], seated[3]},
		})
	}
	return courts
}

// sameTeam reports whether two seats on a court belong to the same team.
func sameTeam(a, b int) bool {
	return (a < 2) == (b < 2)
}

// UpdateHistory applies a generated round's side effects to the counters:
// games played, sit-out tracking, court usage and encounter counts. The
// store persists the result in the same transaction that saves the round.
func UpdateHistory(history map[int]*league.HistoryCounters, round *league.Round) {
	for _, court := range round.Courts {
		all := []int{court.TeamA[0], court.TeamA[1], court.TeamB[0], court.TeamB[1]}
		for _, id := range all {
			h := counters(history, id)
			h.GamesPlayed++
			h.ConsecutiveSitOuts = 0
			h.CourtUsage[court.ID]++
		}
		for _, pair := range [][2]int{
			{court.TeamA[0], court.TeamA[1]},
			{court.TeamB[0], court.TeamB[1]},
		} {
			counters(history, pair[0]).PartnerCounts[pair[1]]++
			counters(history, pair[1]).PartnerCounts[pair[0]]++
		}
		for _, a := range []int{court.TeamA[0], court.TeamA[1]} {
			for _, b := range []int{court.TeamB[0], court.TeamB[1]} {
				counters(history, a).OpponentCounts[b]++
				counters(history, b).OpponentCounts[a]++
			}
		}
	}
	for _, id := range round.Sitters {
		h := counters(history, id)
		h.ConsecutiveSitOuts++
		h.RoundsSatOut++
		h.LastSatOutRound = round.Number
	}
}

// counters returns the player's history, materializing zeroed counters for
// players generated before any history existed.
func counters(history map[int]*league.HistoryCounters, id int) *league.HistoryCounters {
	if h, ok := history[id]; ok {
		return h
	}
	h := league.NewHistoryCounters()
	history[id] = h
	return h
}

func withoutSitters(players []league.Player, sitters []int) []league.Player {
	sitting := make(map[int]bool, len(sitters))
	for _, id := range sitters {
		sitting[id] = true
	}
	var playing []league.Player
	for _, p := range players {
		if !sitting[p.ID] {
			playing = append(playing, p)
		}
	}
	return playing
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
