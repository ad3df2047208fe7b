package slack

import (
	"errors"

	"github.com/charmbracelet/log"
	"github.com/roccity/rally/internal/league"
	"github.com/roccity/rally/internal/metrics"
	"github.com/roccity/rally/internal/notifier"
	"github.com/slack-go/slack"
)

// slackAPI is the part of the slack.Client that we use.
type slackAPI interface {
	PostMessage(channelID string, options ...slack.MsgOption) (string, string, error)
}

// SlackNotifier posts league announcements to a channel via the official
// slack-go client.
type SlackNotifier struct {
	api       slackAPI
	channelID string
	metrics   metrics.Metrics
}

var _ notifier.Notifier = (*SlackNotifier)(nil)

// NewNotifier creates a new Slack notifier. With an empty token the
// notifier is left unconfigured and every send becomes a logged no-op, so
// the engine can be wired identically with or without Slack.
func NewNotifier(token, channelID string, m metrics.Metrics) *SlackNotifier {
	var api slackAPI
	if token != "" {
		api = slack.New(token)
	}
	return &SlackNotifier{
		api:       api,
		channelID: channelID,
		metrics:   m,
	}
}

// NewNotifierWithAPI creates a notifier with a custom API client. Used for testing.
func NewNotifierWithAPI(api slackAPI, channelID string, m metrics.Metrics) *SlackNotifier {
	return &SlackNotifier{
		api:       api,
		channelID: channelID,
		metrics:   m,
	}
}

func (s *SlackNotifier) SendRoundAnnouncement(round *league.Round, names map[int]string, dryRun bool) error {
	msg := s.FormatRoundAnnouncement(round, names)
	return s.send(msg, dryRun)
}

func (s *SlackNotifier) SendStandings(rows []league.RankingRow, sessionNumber int, dryRun bool) error {
	msg := s.FormatStandings(rows, sessionNumber)
	return s.send(msg, dryRun)
}

func (s *SlackNotifier) send(msg slack.Message, dryRun bool) error {
	if s.api == nil || s.channelID == "" {
		log.Debug("Slack not configured, skipping notification")
		return nil
	}
	if dryRun {
		log.Info("Dry run mode: Slack notification not sent.", "msg", msg)
		return nil
	}

	_, _, err := s.api.PostMessage(s.channelID, slack.MsgOptionBlocks(msg.Blocks.BlockSet...))
	if err != nil {
		log.Error("Failed to send Slack message", "error", err)
		if s.metrics != nil {
			s.metrics.IncNotifFailed()
		}
		return errors.Join(errors.New("failed to post slack message"), err)
	}
	if s.metrics != nil {
		s.metrics.IncNotifSent()
	}
	return nil
}
