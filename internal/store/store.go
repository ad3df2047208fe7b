package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/roccity/rally/internal/league"
	"github.com/vmihailenco/msgpack/v5"
)

// store handles all database operations for the league.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new LeagueStore.
func New(db *sql.DB) LeagueStore {
	return &store{db: db}
}

// AddPlayer creates a roster member with a stable numeric ID and zeroed
// history counters. Blank and duplicate names are rejected without
// touching the roster.
func (s *store) AddPlayer(name string) (league.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return league.Player{}, league.ErrEmptyName
	}

	tx, err := s.db.Begin()
	if err != nil {
		return league.Player{}, err
	}
	defer tx.Rollback()

	var existing int
	err = tx.QueryRow("SELECT COUNT(1) FROM players WHERE name = ?", name).Scan(&existing)
	if err != nil {
		return league.Player{}, err
	}
	if existing > 0 {
		return league.Player{}, fmt.Errorf("%w: %q", league.ErrDuplicateName, name)
	}

	res, err := tx.Exec("INSERT INTO players (name, tier, created_at) VALUES (?, ?, ?)",
		name, league.TierNone, time.Now().Unix())
	if err != nil {
		return league.Player{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return league.Player{}, err
	}
	_, err = tx.Exec("INSERT INTO player_history (player_id) VALUES (?)", id)
	if err != nil {
		return league.Player{}, err
	}
	if err := tx.Commit(); err != nil {
		return league.Player{}, err
	}

	log.Info("Added player", "id", id, "name", name)
	return league.Player{ID: int(id), Name: name, Tier: league.TierNone}, nil
}

// RemovePlayer deletes a roster member; history rows cascade.
func (s *store) RemovePlayer(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM players WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", league.ErrPlayerNotFound, id)
	}
	log.Info("Removed player", "id", id)
	return nil
}

// GetAllPlayers returns the roster in insertion order.
func (s *store) GetAllPlayers() ([]league.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, name, tier FROM players ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := []league.Player{}
	for rows.Next() {
		var p league.Player
		if err := rows.Scan(&p.ID, &p.Name, &p.Tier); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *store) SetTiers(tiers map[int]league.Tier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := setTiersTx(tx, tiers); err != nil {
		return err
	}
	return tx.Commit()
}

func setTiersTx(tx *sql.Tx, tiers map[int]league.Tier) error {
	for id, tier := range tiers {
		if _, err := tx.Exec("UPDATE players SET tier = ? WHERE id = ?", tier, id); err != nil {
			return err
		}
	}
	return nil
}

// GetHistory loads every player's counters keyed by player ID.
func (s *store) GetHistory() (map[int]*league.HistoryCounters, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT player_id, games_played, consecutive_sit_outs, rounds_sat_out, last_sat_out_round,
		       court_usage_json, opponent_counts_json, partner_counts_json
		FROM player_history`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make(map[int]*league.HistoryCounters)
	for rows.Next() {
		var id int
		var courtJSON, opponentJSON, partnerJSON string
		h := league.NewHistoryCounters()
		err := rows.Scan(&id, &h.GamesPlayed, &h.ConsecutiveSitOuts, &h.RoundsSatOut,
			&h.LastSatOutRound, &courtJSON, &opponentJSON, &partnerJSON)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(courtJSON), &h.CourtUsage); err != nil {
			return nil, fmt.Errorf("bad court_usage_json for player %d: %w", id, err)
		}
		if err := json.Unmarshal([]byte(opponentJSON), &h.OpponentCounts); err != nil {
			return nil, fmt.Errorf("bad opponent_counts_json for player %d: %w", id, err)
		}
		if err := json.Unmarshal([]byte(partnerJSON), &h.PartnerCounts); err != nil {
			return nil, fmt.Errorf("bad partner_counts_json for player %d: %w", id, err)
		}
		history[id] = h
	}
	return history, rows.Err()
}

// SaveRound persists a generated round together with the updated counters.
// Both land in one transaction so a failed write cannot leave history ahead
// of the round list.
func (s *store) SaveRound(round *league.Round, history map[int]*league.HistoryCounters) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	courtsJSON, err := json.Marshal(round.Courts)
	if err != nil {
		return err
	}
	sittersJSON, err := json.Marshal(round.Sitters)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec("INSERT INTO rounds (round_number, courts_json, sitters_json, created_at) VALUES (?, ?, ?, ?)",
		round.Number, courtsJSON, sittersJSON, time.Now().Unix())
	if err != nil {
		return err
	}
	if err := saveHistoryTx(tx, history); err != nil {
		return err
	}
	return tx.Commit()
}

func saveHistoryTx(tx *sql.Tx, history map[int]*league.HistoryCounters) error {
	stmt, err := tx.Prepare(`
		UPDATE player_history
		SET games_played = ?, consecutive_sit_outs = ?, rounds_sat_out = ?, last_sat_out_round = ?,
		    court_usage_json = ?, opponent_counts_json = ?, partner_counts_json = ?
		WHERE player_id = ?`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for id, h := range history {
		courtJSON, err := json.Marshal(h.CourtUsage)
		if err != nil {
			return err
		}
		opponentJSON, err := json.Marshal(h.OpponentCounts)
		if err != nil {
			return err
		}
		partnerJSON, err := json.Marshal(h.PartnerCounts)
		if err != nil {
			return err
		}
		_, err = stmt.Exec(h.GamesPlayed, h.ConsecutiveSitOuts, h.RoundsSatOut, h.LastSatOutRound,
			courtJSON, opponentJSON, partnerJSON, id)
		if err != nil {
			return err
		}
	}
	return nil
}

// GetRounds returns the current session's rounds in round order.
func (s *store) GetRounds() ([]league.Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT round_number, courts_json, sitters_json FROM rounds ORDER BY round_number")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rounds := []league.Round{}
	for rows.Next() {
		var r league.Round
		var courtsJSON, sittersJSON string
		if err := rows.Scan(&r.Number, &courtsJSON, &sittersJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(courtsJSON), &r.Courts); err != nil {
			return nil, fmt.Errorf("bad courts_json for round %d: %w", r.Number, err)
		}
		if err := json.Unmarshal([]byte(sittersJSON), &r.Sitters); err != nil {
			return nil, fmt.Errorf("bad sitters_json for round %d: %w", r.Number, err)
		}
		rounds = append(rounds, r)
	}
	return rounds, rows.Err()
}

// SaveScore upserts the result for one court in one round. Re-entry
// overwrites; there is never more than one score per court per round.
func (s *store) SaveScore(score league.GameScore) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO scores (round_number, court_id, team_a_score, team_b_score)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(round_number, court_id) DO UPDATE SET
			team_a_score = excluded.team_a_score,
			team_b_score = excluded.team_b_score`,
		score.RoundNumber, score.CourtID, score.TeamAScore, score.TeamBScore)
	return err
}

func (s *store) GetScores() ([]league.GameScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT round_number, court_id, team_a_score, team_b_score FROM scores ORDER BY round_number, court_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scores := []league.GameScore{}
	for rows.Next() {
		var sc league.GameScore
		if err := rows.Scan(&sc.RoundNumber, &sc.CourtID, &sc.TeamAScore, &sc.TeamBScore); err != nil {
			return nil, err
		}
		scores = append(scores, sc)
	}
	return scores, rows.Err()
}

func (s *store) CurrentSession() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, err := s.getMeta("current_session", "1")
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(raw)
}

func (s *store) SeedingDone() (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, err := s.getMeta("seeding_done", "0")
	if err != nil {
		return false, err
	}
	return raw == "1", nil
}

func (s *store) getMeta(key, fallback string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM league_meta WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return fallback, nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// StartNewSession archives the ended session as an immutable msgpack
// snapshot, clears rounds and scores, zeroes all per-session counters,
// applies tier changes and bumps the session number — all in one
// transaction.
func (s *store) StartNewSession(archive league.SessionArchive, tiers map[int]league.Tier, seedingDone bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if archive.ID == "" {
		archive.ID = uuid.New().String()
	}
	if archive.EndedAt == 0 {
		archive.EndedAt = time.Now().Unix()
	}
	snapshot, err := msgpack.Marshal(archive)
	if err != nil {
		return fmt.Errorf("failed to encode session snapshot: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if len(archive.Rounds) > 0 {
		_, err = tx.Exec("INSERT INTO session_archive (id, session_number, ended_at, snapshot) VALUES (?, ?, ?, ?)",
			archive.ID, archive.Number, archive.EndedAt, snapshot)
		if err != nil {
			return err
		}
	}
	if _, err := tx.Exec("DELETE FROM scores"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM rounds"); err != nil {
		return err
	}
	_, err = tx.Exec(`
		UPDATE player_history
		SET games_played = 0, consecutive_sit_outs = 0, rounds_sat_out = 0, last_sat_out_round = -2,
		    court_usage_json = '{}', opponent_counts_json = '{}', partner_counts_json = '{}'`)
	if err != nil {
		return err
	}
	if err := setTiersTx(tx, tiers); err != nil {
		return err
	}
	_, err = tx.Exec("INSERT INTO league_meta (key, value) VALUES ('current_session', ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		strconv.Itoa(archive.Number+1))
	if err != nil {
		return err
	}
	seedingValue := "0"
	if seedingDone {
		seedingValue = "1"
	}
	_, err = tx.Exec("INSERT INTO league_meta (key, value) VALUES ('seeding_done', ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		seedingValue)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	log.Info("Started new session", "number", archive.Number+1, "archived_rounds", len(archive.Rounds))
	return nil
}

// GetSessionArchives returns past sessions, oldest first.
func (s *store) GetSessionArchives() ([]league.SessionArchive, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT snapshot FROM session_archive ORDER BY session_number")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	archives := []league.SessionArchive{}
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, err
		}
		var archive league.SessionArchive
		if err := msgpack.Unmarshal(blob, &archive); err != nil {
			return nil, fmt.Errorf("failed to decode session snapshot: %w", err)
		}
		archives = append(archives, archive)
	}
	return archives, rows.Err()
}

// ResetHistory zeroes the fairness counters only. Games played stays put so
// the current session's counted-games window is unaffected.
func (s *store) ResetHistory() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		UPDATE player_history
		SET consecutive_sit_outs = 0, rounds_sat_out = 0, last_sat_out_round = -2,
		    court_usage_json = '{}', opponent_counts_json = '{}', partner_counts_json = '{}'`)
	if err != nil {
		return err
	}
	log.Info("Match history reset")
	return nil
}
