package store

import (
	"sync"

	"github.com/roccity/rally/internal/league"
)

// MockStore is a mock implementation of the LeagueStore interface for
// testing. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	AddPlayerFunc          func(name string) (league.Player, error)
	RemovePlayerFunc       func(id int) error
	GetAllPlayersFunc      func() ([]league.Player, error)
	SetTiersFunc           func(tiers map[int]league.Tier) error
	GetHistoryFunc         func() (map[int]*league.HistoryCounters, error)
	SaveRoundFunc          func(round *league.Round, history map[int]*league.HistoryCounters) error
	GetRoundsFunc          func() ([]league.Round, error)
	SaveScoreFunc          func(score league.GameScore) error
	GetScoresFunc          func() ([]league.GameScore, error)
	CurrentSessionFunc     func() (int, error)
	SeedingDoneFunc        func() (bool, error)
	StartNewSessionFunc    func(archive league.SessionArchive, tiers map[int]league.Tier, seedingDone bool) error
	GetSessionArchivesFunc func() ([]league.SessionArchive, error)
	ResetHistoryFunc       func() error

	// Call records
	AddPlayerCalls       []string
	RemovePlayerCalls    []int
	SaveRoundCalls       []*league.Round
	SaveScoreCalls       []league.GameScore
	StartNewSessionCalls []league.SessionArchive
	ResetHistoryCalls    int
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) AddPlayer(name string) (league.Player, error) {
	m.mu.Lock()
	m.AddPlayerCalls = append(m.AddPlayerCalls, name)
	m.mu.Unlock()
	if m.AddPlayerFunc != nil {
		return m.AddPlayerFunc(name)
	}
	return league.Player{ID: 1, Name: name, Tier: league.TierNone}, nil
}

func (m *MockStore) RemovePlayer(id int) error {
	m.mu.Lock()
	m.RemovePlayerCalls = append(m.RemovePlayerCalls, id)
	m.mu.Unlock()
	if m.RemovePlayerFunc != nil {
		return m.RemovePlayerFunc(id)
	}
	return nil
}

func (m *MockStore) GetAllPlayers() ([]league.Player, error) {
	if m.GetAllPlayersFunc != nil {
		return m.GetAllPlayersFunc()
	}
	return []league.Player{}, nil
}

func (m *MockStore) SetTiers(tiers map[int]league.Tier) error {
	if m.SetTiersFunc != nil {
		return m.SetTiersFunc(tiers)
	}
	return nil
}

func (m *MockStore) GetHistory() (map[int]*league.HistoryCounters, error) {
	if m.GetHistoryFunc != nil {
		return m.GetHistoryFunc()
	}
	return map[int]*league.HistoryCounters{}, nil
}

func (m *MockStore) SaveRound(round *league.Round, history map[int]*league.HistoryCounters) error {
	m.mu.Lock()
	m.SaveRoundCalls = append(m.SaveRoundCalls, round)
	m.mu.Unlock()
	if m.SaveRoundFunc != nil {
		return m.SaveRoundFunc(round, history)
	}
	return nil
}

func (m *MockStore) GetRounds() ([]league.Round, error) {
	if m.GetRoundsFunc != nil {
		return m.GetRoundsFunc()
	}
	return []league.Round{}, nil
}

func (m *MockStore) SaveScore(score league.GameScore) error {
	m.mu.Lock()
	m.SaveScoreCalls = append(m.SaveScoreCalls, score)
	m.mu.Unlock()
	if m.SaveScoreFunc != nil {
		return m.SaveScoreFunc(score)
	}
	return nil
}

func (m *MockStore) GetScores() ([]league.GameScore, error) {
	if m.GetScoresFunc != nil {
		return m.GetScoresFunc()
	}
	return []league.GameScore{}, nil
}

func (m *MockStore) CurrentSession() (int, error) {
	if m.CurrentSessionFunc != nil {
		return m.CurrentSessionFunc()
	}
	return 1, nil
}

func (m *MockStore) SeedingDone() (bool, error) {
	if m.SeedingDoneFunc != nil {
		return m.SeedingDoneFunc()
	}
	return false, nil
}

func (m *MockStore) StartNewSession(archive league.SessionArchive, tiers map[int]league.Tier, seedingDone bool) error {
	m.mu.Lock()
	m.StartNewSessionCalls = append(m.StartNewSessionCalls, archive)
	m.mu.Unlock()
	if m.StartNewSessionFunc != nil {
		return m.StartNewSessionFunc(archive, tiers, seedingDone)
	}
	return nil
}

func (m *MockStore) GetSessionArchives() ([]league.SessionArchive, error) {
	if m.GetSessionArchivesFunc != nil {
		return m.GetSessionArchivesFunc()
	}
	return []league.SessionArchive{}, nil
}

func (m *MockStore) ResetHistory() error {
	m.mu.Lock()
	m.ResetHistoryCalls++
	m.mu.Unlock()
	if m.ResetHistoryFunc != nil {
		return m.ResetHistoryFunc()
	}
	return nil
}
