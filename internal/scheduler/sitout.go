package scheduler

import (
	"sort"

	"github.com/roccity/rally/internal/league"
)

// selectSitters picks which players sit this round. Players who sat the
// previous round are exempt; among the rest, those with the most games sit
// first so players behind on games keep playing, with ties going to whoever
// sat out longest ago, then to the lower ID. Only when the sit-out quota
// exceeds the exempt-respecting candidates are previous-round sitters
// forced back out, most games first.
func selectSitters(pool []league.Player, slots int, roundNumber int, history map[int]*league.HistoryCounters) []int {
	numSitting := len(pool) - slots
	if numSitting <= 0 {
		return nil
	}

	var eligible, exempt []league.Player
	for _, p := range pool {
		if counters(history, p.ID).SatOutLastRound() {
			exempt = append(exempt, p)
		} else {
			eligible = append(eligible, p)
		}
	}

	sort.Slice(eligible, func(i, j int) bool {
		hi, hj := counters(history, eligible[i].ID), counters(history, eligible[j].ID)
		if hi.GamesPlayed != hj.GamesPlayed {
			return hi.GamesPlayed > hj.GamesPlayed
		}
		if hi.LastSatOutRound != hj.LastSatOutRound {
			return hi.LastSatOutRound < hj.LastSatOutRound
		}
		return eligible[i].ID < eligible[j].ID
	})

	sitters := make([]int, 0, numSitting)
	for _, p := range eligible {
		if len(sitters) == numSitting {
			break
		}
		sitters = append(sitters, p.ID)
	}

	// Consecutive sit-outs are unavoidable here: the quota exceeds the
	// players who played last round.
	if len(sitters) < numSitting {
		sort.Slice(exempt, func(i, j int) bool {
			hi, hj := counters(history, exempt[i].ID), counters(history, exempt[j].ID)
			if hi.GamesPlayed != hj.GamesPlayed {
				return hi.GamesPlayed > hj.GamesPlayed
			}
			return exempt[i].ID < exempt[j].ID
		})
		for _, p := range exempt {
			if len(sitters) == numSitting {
				break
			}
			sitters = append(sitters, p.ID)
		}
	}

	sort.Ints(sitters)
	return sitters
}
