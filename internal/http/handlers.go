package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/roccity/rally/internal/league"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// PlayersHandler serves the roster: GET lists, POST adds, DELETE removes.
func (s *Server) PlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			players, err := s.Engine.Players()
			if err != nil {
				log.Error("Failed to list players", "error", err)
				http.Error(w, "Failed to list players", http.StatusInternalServerError)
				return
			}
			writeJSON(w, http.StatusOK, players)

		case http.MethodPost:
			var req struct {
				Name string `json:"name"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request body", http.StatusBadRequest)
				return
			}
			player, err := s.Engine.AddPlayer(req.Name)
			if err != nil {
				writeLeagueError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, player)

		case http.MethodDelete:
			id, err := strconv.Atoi(r.URL.Query().Get("id"))
			if err != nil {
				http.Error(w, "Missing or invalid 'id' parameter", http.StatusBadRequest)
				return
			}
			if err := s.Engine.RemovePlayer(id); err != nil {
				writeLeagueError(w, err)
				return
			}
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, "Removed player %d", id)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) ListRoundsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rounds, err := s.Engine.Rounds()
		if err != nil {
			log.Error("Failed to list rounds", "error", err)
			http.Error(w, "Failed to list rounds", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, rounds)
	}
}

func (s *Server) GenerateRoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		round, err := s.Engine.GenerateRound(isDryRunFromContext(r))
		if err != nil {
			writeLeagueError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, round)
	}
}

func (s *Server) EnterScoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			RoundNumber int `json:"round_number"`
			CourtID     int `json:"court"`
			TeamAScore  int `json:"team_a_score"`
			TeamBScore  int `json:"team_b_score"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := s.Engine.EnterScore(req.RoundNumber, req.CourtID, req.TeamAScore, req.TeamBScore); err != nil {
			writeLeagueError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Score recorded for round %d, court %d", req.RoundNumber, req.CourtID)
	}
}

func (s *Server) RankingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := s.Engine.Rankings()
		if err != nil {
			log.Error("Failed to compute rankings", "error", err)
			http.Error(w, "Failed to compute rankings", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, rows)
	}
}

func (s *Server) SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		number, err := s.Engine.CurrentSession()
		if err != nil {
			log.Error("Failed to read session number", "error", err)
			http.Error(w, "Failed to read session number", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"session_number": number})
	}
}

func (s *Server) NewSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := s.Engine.StartNewSession(isDryRunFromContext(r)); err != nil {
			log.Error("Failed to start new session", "error", err)
			http.Error(w, "Failed to start new session", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "New session started")
	}
}

func (s *Server) SessionArchivesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		archives, err := s.Engine.SessionArchives()
		if err != nil {
			log.Error("Failed to list session archives", "error", err)
			http.Error(w, "Failed to list session archives", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, archives)
	}
}

func (s *Server) ResetHistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := s.Engine.ResetHistory(); err != nil {
			log.Error("Failed to reset history", "error", err)
			http.Error(w, "Failed to reset history", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Match history reset")
	}
}

func (s *Server) OpsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counters, err := s.Ops.GetAll()
		if err != nil {
			log.Error("Failed to read op counters", "error", err)
			http.Error(w, "Failed to read op counters", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, counters)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

// writeLeagueError maps the domain's sentinel errors to client statuses;
// anything else is a server error.
func writeLeagueError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, league.ErrEmptyName),
		errors.Is(err, league.ErrInvalidScore):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, league.ErrDuplicateName):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, league.ErrPlayerNotFound),
		errors.Is(err, league.ErrInvalidGameRef):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, league.ErrInsufficientPlayers):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		log.Error("Unexpected error", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
