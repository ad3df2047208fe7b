package slack

import (
	"fmt"
	"strings"

	"github.com/roccity/rally/internal/league"
	"github.com/slack-go/slack"
)

// FormatRoundAnnouncement creates the Slack message for a generated round using Block Kit.
func (s *SlackNotifier) FormatRoundAnnouncement(round *league.Round, names map[int]string) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏓 Round %d is up! 🏓", round.Number), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	name := func(id int) string {
		if n, ok := names[id]; ok {
			return n
		}
		return fmt.Sprintf("Player %d", id)
	}

	var lines []string
	for _, court := range round.Courts {
		lines = append(lines, fmt.Sprintf("Court %d: %s & %s vs %s & %s",
			court.ID,
			name(court.TeamA[0]), name(court.TeamA[1]),
			name(court.TeamB[0]), name(court.TeamB[1])))
	}
	if len(lines) > 0 {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject("plain_text", strings.Join(lines, "\n"), true, false), nil, nil))
	}

	if len(round.Sitters) > 0 {
		var sitters []string
		for _, id := range round.Sitters {
			sitters = append(sitters, name(id))
		}
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject("plain_text", "Sitting out: "+strings.Join(sitters, ", "), true, false)))
	}

	return slack.NewBlockMessage(blocks...)
}

// FormatStandings creates the Slack message for the standings using Block Kit.
func (s *SlackNotifier) FormatStandings(rows []league.RankingRow, sessionNumber int) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏆 Session %d standings 🏆", sessionNumber), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	var lines []string
	for i, row := range rows {
		medal := ""
		switch i {
		case 0:
			medal = "🥇 "
		case 1:
			medal = "🥈 "
		case 2:
			medal = "🥉 "
		}
		lines = append(lines, fmt.Sprintf("%d. %s%s — %d pts (%+d) over %d games",
			i+1, medal, row.Player.Name, row.TotalPoints, row.Differential, row.CountedGames))
	}
	if len(lines) > 0 {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject("plain_text", strings.Join(lines, "\n"), true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}
