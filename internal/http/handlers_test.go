package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/roccity/rally/internal/config"
	"github.com/roccity/rally/internal/engine"
	server "github.com/roccity/rally/internal/http"
	"github.com/roccity/rally/internal/league"
	"github.com/roccity/rally/internal/metrics"
	"github.com/roccity/rally/internal/notifier"
	"github.com/roccity/rally/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*server.Server, *store.MockStore) {
	t.Helper()

	mockStore := store.NewMock()
	eng := engine.New(mockStore, notifier.NewMock(), metrics.NewMock(), metrics.NewMockStore(), config.LeagueConfig{
		Mode:            league.ModeFlat,
		CourtSize:       4,
		CourtThresholds: map[int]int{8: 2},
	})
	s := server.NewServer(eng, metrics.NewMock(), nethttp.NotFoundHandler(), metrics.NewMockStore(), config.Config{})
	return s, mockStore
}

func TestHealthCheckHandler(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(nethttp.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)

	assert.Equal(t, nethttp.StatusOK, rr.Code)
	assert.Equal(t, "OK!", rr.Body.String())
}

func TestPlayersHandler(t *testing.T) {
	t.Run("GET lists the roster", func(t *testing.T) {
		s, mockStore := newTestServer(t)
		mockStore.GetAllPlayersFunc = func() ([]league.Player, error) {
			return []league.Player{{ID: 1, Name: "Alice", Tier: league.TierNone}}, nil
		}

		req := httptest.NewRequest(nethttp.MethodGet, "/players", nil)
		rr := httptest.NewRecorder()
		s.ServeHTTP(rr, req)

		require.Equal(t, nethttp.StatusOK, rr.Code)
		var players []league.Player
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &players))
		require.Len(t, players, 1)
		assert.Equal(t, "Alice", players[0].Name)
	})

	t.Run("POST adds a player", func(t *testing.T) {
		s, mockStore := newTestServer(t)

		body := bytes.NewBufferString(`{"name": "Alice"}`)
		req := httptest.NewRequest(nethttp.MethodPost, "/players", body)
		rr := httptest.NewRecorder()
		s.ServeHTTP(rr, req)

		assert.Equal(t, nethttp.StatusCreated, rr.Code)
		assert.Equal(t, []string{"Alice"}, mockStore.AddPlayerCalls)
	})

	t.Run("POST with a duplicate name conflicts", func(t *testing.T) {
		s, mockStore := newTestServer(t)
		mockStore.AddPlayerFunc = func(name string) (league.Player, error) {
			return league.Player{}, fmt.Errorf("%w: %q", league.ErrDuplicateName, name)
		}

		req := httptest.NewRequest(nethttp.MethodPost, "/players", bytes.NewBufferString(`{"name": "Alice"}`))
		rr := httptest.NewRecorder()
		s.ServeHTTP(rr, req)

		assert.Equal(t, nethttp.StatusConflict, rr.Code)
	})

	t.Run("POST with a blank name is a bad request", func(t *testing.T) {
		s, mockStore := newTestServer(t)
		mockStore.AddPlayerFunc = func(name string) (league.Player, error) {
			return league.Player{}, league.ErrEmptyName
		}

		req := httptest.NewRequest(nethttp.MethodPost, "/players", bytes.NewBufferString(`{"name": ""}`))
		rr := httptest.NewRecorder()
		s.ServeHTTP(rr, req)

		assert.Equal(t, nethttp.StatusBadRequest, rr.Code)
	})

	t.Run("DELETE removes a player", func(t *testing.T) {
		s, mockStore := newTestServer(t)

		req := httptest.NewRequest(nethttp.MethodDelete, "/players?id=7", nil)
		rr := httptest.NewRecorder()
		s.ServeHTTP(rr, req)

		assert.Equal(t, nethttp.StatusOK, rr.Code)
		assert.Equal(t, []int{7}, mockStore.RemovePlayerCalls)
	})

	t.Run("DELETE of an unknown player is a 404", func(t *testing.T) {
		s, mockStore := newTestServer(t)
		mockStore.RemovePlayerFunc = func(id int) error {
			return fmt.Errorf("%w: id %d", league.ErrPlayerNotFound, id)
		}

		req := httptest.NewRequest(nethttp.MethodDelete, "/players?id=99", nil)
		rr := httptest.NewRecorder()
		s.ServeHTTP(rr, req)

		assert.Equal(t, nethttp.StatusNotFound, rr.Code)
	})

	t.Run("DELETE without an id is a bad request", func(t *testing.T) {
		s, _ := newTestServer(t)

		req := httptest.NewRequest(nethttp.MethodDelete, "/players", nil)
		rr := httptest.NewRecorder()
		s.ServeHTTP(rr, req)

		assert.Equal(t, nethttp.StatusBadRequest, rr.Code)
	})
}

func TestGenerateRoundHandler(t *testing.T) {
	eightPlayers := func(mockStore *store.MockStore) {
		players := make([]league.Player, 0, 8)
		for i := 1; i <= 8; i++ {
			players = append(players, league.Player{ID: i, Name: fmt.Sprintf("Player %d", i)})
		}
		mockStore.GetAllPlayersFunc = func() ([]league.Player, error) { return players, nil }
	}

	t.Run("generates and persists a round", func(t *testing.T) {
		s, mockStore := newTestServer(t)
		eightPlayers(mockStore)

		req := httptest.NewRequest(nethttp.MethodPost, "/rounds/generate", nil)
		rr := httptest.NewRecorder()
		s.ServeHTTP(rr, req)

		require.Equal(t, nethttp.StatusCreated, rr.Code)
		var round league.Round
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &round))
		assert.Equal(t, 1, round.Number)
		assert.Len(t, round.Courts, 2)
		assert.Len(t, mockStore.SaveRoundCalls, 1)
	})

	t.Run("dry_run skips persistence", func(t *testing.T) {
		s, mockStore := newTestServer(t)
		eightPlayers(mockStore)

		req := httptest.NewRequest(nethttp.MethodPost, "/rounds/generate?dry_run=true", nil)
		rr := httptest.NewRecorder()
		s.ServeHTTP(rr, req)

		assert.Equal(t, nethttp.StatusCreated, rr.Code)
		assert.Empty(t, mockStore.SaveRoundCalls)
	})

	t.Run("too few players is unprocessable", func(t *testing.T) {
		s, mockStore := newTestServer(t)
		mockStore.GetAllPlayersFunc = func() ([]league.Player, error) {
			return []league.Player{{ID: 1, Name: "Alice"}}, nil
		}

		req := httptest.NewRequest(nethttp.MethodPost, "/rounds/generate", nil)
		rr := httptest.NewRecorder()
		s.ServeHTTP(rr, req)

		assert.Equal(t, nethttp.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("GET is not allowed", func(t *testing.T) {
		s, _ := newTestServer(t)

		req := httptest.NewRequest(nethttp.MethodGet, "/rounds/generate", nil)
		rr := httptest.NewRecorder()
		s.ServeHTTP(rr, req)

		assert.Equal(t, nethttp.StatusMethodNotAllowed, rr.Code)
	})
}

func TestEnterScoreHandler(t *testing.T) {
	withRound := func(mockStore *store.MockStore) {
		mockStore.GetRoundsFunc = func() ([]league.Round, error) {
			return []league.Round{
				{Number: 1, Courts: []league.Court{{ID: 1, TeamA: [2]int{1, 2}, TeamB: [2]int{3, 4}}}},
			}, nil
		}
	}

	t.Run("records a score", func(t *testing.T) {
		s, mockStore := newTestServer(t)
		withRound(mockStore)

		body := bytes.NewBufferString(`{"round_number": 1, "court": 1, "team_a_score": 11, "team_b_score": 5}`)
		req := httptest.NewRequest(nethttp.MethodPost, "/scores", body)
		rr := httptest.NewRecorder()
		s.ServeHTTP(rr, req)

		require.Equal(t, nethttp.StatusOK, rr.Code)
		require.Len(t, mockStore.SaveScoreCalls, 1)
		assert.Equal(t, 11, mockStore.SaveScoreCalls[0].TeamAScore)
	})

	t.Run("unknown game is a 404", func(t *testing.T) {
		s, mockStore := newTestServer(t)
		withRound(mockStore)

		body := bytes.NewBufferString(`{"round_number": 5, "court": 1, "team_a_score": 11, "team_b_score": 5}`)
		req := httptest.NewRequest(nethttp.MethodPost, "/scores", body)
		rr := httptest.NewRecorder()
		s.ServeHTTP(rr, req)

		assert.Equal(t, nethttp.StatusNotFound, rr.Code)
	})

	t.Run("negative score is a bad request", func(t *testing.T) {
		s, mockStore := newTestServer(t)
		withRound(mockStore)

		body := bytes.NewBufferString(`{"round_number": 1, "court": 1, "team_a_score": -1, "team_b_score": 5}`)
		req := httptest.NewRequest(nethttp.MethodPost, "/scores", body)
		rr := httptest.NewRecorder()
		s.ServeHTTP(rr, req)

		assert.Equal(t, nethttp.StatusBadRequest, rr.Code)
	})
}

func TestRankingsHandler(t *testing.T) {
	s, mockStore := newTestServer(t)
	mockStore.GetAllPlayersFunc = func() ([]league.Player, error) {
		return []league.Player{{ID: 1, Name: "Alice"}, {ID: 2, Name: "Bob"}}, nil
	}

	req := httptest.NewRequest(nethttp.MethodGet, "/rankings", nil)
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)

	require.Equal(t, nethttp.StatusOK, rr.Code)
	var rows []league.RankingRow
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rows))
	assert.Len(t, rows, 2)
}

func TestSessionHandlers(t *testing.T) {
	t.Run("GET /session returns the number", func(t *testing.T) {
		s, mockStore := newTestServer(t)
		mockStore.CurrentSessionFunc = func() (int, error) { return 4, nil }

		req := httptest.NewRequest(nethttp.MethodGet, "/session", nil)
		rr := httptest.NewRecorder()
		s.ServeHTTP(rr, req)

		require.Equal(t, nethttp.StatusOK, rr.Code)
		var payload map[string]int
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
		assert.Equal(t, 4, payload["session_number"])
	})

	t.Run("POST /session/new rolls the session", func(t *testing.T) {
		s, mockStore := newTestServer(t)

		req := httptest.NewRequest(nethttp.MethodPost, "/session/new", nil)
		rr := httptest.NewRecorder()
		s.ServeHTTP(rr, req)

		assert.Equal(t, nethttp.StatusOK, rr.Code)
		assert.Len(t, mockStore.StartNewSessionCalls, 1)
	})

	t.Run("GET /sessions lists archives", func(t *testing.T) {
		s, mockStore := newTestServer(t)
		mockStore.GetSessionArchivesFunc = func() ([]league.SessionArchive, error) {
			return []league.SessionArchive{{ID: "abc", Number: 1}}, nil
		}

		req := httptest.NewRequest(nethttp.MethodGet, "/sessions", nil)
		rr := httptest.NewRecorder()
		s.ServeHTTP(rr, req)

		require.Equal(t, nethttp.StatusOK, rr.Code)
		var archives []league.SessionArchive
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &archives))
		require.Len(t, archives, 1)
		assert.Equal(t, 1, archives[0].Number)
	})
}

func TestResetHistoryHandler(t *testing.T) {
	s, mockStore := newTestServer(t)

	req := httptest.NewRequest(nethttp.MethodPost, "/history/reset", nil)
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)

	assert.Equal(t, nethttp.StatusOK, rr.Code)
	assert.Equal(t, 1, mockStore.ResetHistoryCalls)
}

func TestOpsHandler(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(nethttp.MethodGet, "/ops", nil)
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)

	require.Equal(t, nethttp.StatusOK, rr.Code)
	var counters map[string]int
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &counters))
	assert.Empty(t, counters)
}
