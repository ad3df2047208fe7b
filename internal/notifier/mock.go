package notifier

import (
	"sync"

	"github.com/roccity/rally/internal/league"
)

// MockNotifier is a mock implementation of the Notifier interface for testing.
type MockNotifier struct {
	mu sync.Mutex

	SendRoundAnnouncementFunc func(round *league.Round, names map[int]string, dryRun bool) error
	SendStandingsFunc         func(rows []league.RankingRow, sessionNumber int, dryRun bool) error

	RoundAnnouncements []*league.Round
	StandingsSent      [][]league.RankingRow
}

var _ Notifier = (*MockNotifier)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) SendRoundAnnouncement(round *league.Round, names map[int]string, dryRun bool) error {
	m.mu.Lock()
	m.RoundAnnouncements = append(m.RoundAnnouncements, round)
	m.mu.Unlock()
	if m.SendRoundAnnouncementFunc != nil {
		return m.SendRoundAnnouncementFunc(round, names, dryRun)
	}
	return nil
}

func (m *MockNotifier) SendStandings(rows []league.RankingRow, sessionNumber int, dryRun bool) error {
	m.mu.Lock()
	m.StandingsSent = append(m.StandingsSent, rows)
	m.mu.Unlock()
	if m.SendStandingsFunc != nil {
		return m.SendStandingsFunc(rows, sessionNumber, dryRun)
	}
	return nil
}
