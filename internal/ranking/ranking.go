// Package ranking computes standings from the score ledger. Unequal game
// counts are normalized to a common window: only each player's first
// min_games games, in round order, count toward points and differential.
package ranking

import (
	"sort"

	"github.com/roccity/rally/internal/league"
)

// Compute produces the standings. Players who have not played at all are
// excluded from the min_games computation and appended after the ranked
// players with zero values, so they cannot distort anyone's window.
func Compute(players []league.Player, history map[int]*league.HistoryCounters, rounds []league.Round, scores []league.GameScore) []league.RankingRow {
	if len(players) == 0 {
		return nil
	}

	gamesPlayed := func(id int) int {
		if h, ok := history[id]; ok {
			return h.GamesPlayed
		}
		return 0
	}

	minGames := 0
	for _, p := range players {
		gp := gamesPlayed(p.ID)
		if gp == 0 {
			continue
		}
		if minGames == 0 || gp < minGames {
			minGames = gp
		}
	}

	scoreByGame := make(map[[2]int]league.GameScore, len(scores))
	for _, s := range scores {
		scoreByGame[[2]int{s.RoundNumber, s.CourtID}] = s
	}

	var ranked, unranked []league.RankingRow
	for _, p := range players {
		gp := gamesPlayed(p.ID)
		if gp == 0 {
			unranked = append(unranked, league.RankingRow{Player: p})
			continue
		}

		counted := minGames
		if gp < counted {
			counted = gp
		}

		row := league.RankingRow{Player: p, GamesPlayed: gp, CountedGames: counted}
		seen := 0
		for _, round := range rounds {
			if seen == counted {
				break
			}
			for _, court := range round.Courts {
				if seen == counted {
					break
				}
				onA := court.TeamA[0] == p.ID || court.TeamA[1] == p.ID
				onB := court.TeamB[0] == p.ID || court.TeamB[1] == p.ID
				if !onA && !onB {
					continue
				}
				seen++
				// An unscored game occupies its window position but
				// contributes zero until a score is entered.
				s, ok := scoreByGame[[2]int{round.Number, court.ID}]
				if !ok {
					continue
				}
				if onA {
					row.TotalPoints += s.TeamAScore
					row.PointsAgainst += s.TeamBScore
				} else {
					row.TotalPoints += s.TeamBScore
					row.PointsAgainst += s.TeamAScore
				}
			}
		}
		row.Differential = row.TotalPoints - row.PointsAgainst
		ranked = append(ranked, row)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalPoints != ranked[j].TotalPoints {
			return ranked[i].TotalPoints > ranked[j].TotalPoints
		}
		if ranked[i].Differential != ranked[j].Differential {
			return ranked[i].Differential > ranked[j].Differential
		}
		return ranked[i].Player.ID < ranked[j].Player.ID
	})

	sort.Slice(unranked, func(i, j int) bool {
		return unranked[i].Player.ID < unranked[j].Player.ID
	})
	return append(ranked, unranked...)
}
