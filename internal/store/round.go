package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// DefaultListLimit caps List when no positive limit is given.
const DefaultListLimit = 50

// Round is a resolved round as stored in the database.
type Round struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Player    string    `json:"player"`
	Computer  string    `json:"computer"`
	Outcome   string    `json:"outcome"`
	PlayedAt  time.Time `json:"played_at"`
}

// Tally counts outcomes.
type Tally struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Ties   int `json:"ties"`
	Total  int `json:"total"`
}

// RoundRepository provides operations on rounds.
type RoundRepository struct {
	db *sql.DB
}

// Rounds returns the round repository for this store.
func (s *Store) Rounds() *RoundRepository {
	return &RoundRepository{db: s.db}
}

// Create inserts a round, assigning an ID and timestamp when missing.
func (r *RoundRepository) Create(round *Round) error {
	if round.ID == "" {
		round.ID = uuid.NewString()
	}
	if round.PlayedAt.IsZero() {
		round.PlayedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO rounds (id, session_id, player, computer, outcome, played_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		round.ID, round.SessionID, round.Player, round.Computer, round.Outcome, round.PlayedAt,
	)
	return err
}

// List returns the most recent rounds first. A sessionID of "" lists all sessions.
func (r *RoundRepository) List(sessionID string, limit int) ([]*Round, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `SELECT id, session_id, player, computer, outcome, played_at FROM rounds`
	args := []any{}
	if sessionID != "" {
		query += ` WHERE session_id = ?`
		args = append(args, sessionID)
	}
	query += ` ORDER BY played_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rounds []*Round
	for rows.Next() {
		rd := &Round{}
		if err := rows.Scan(&rd.ID, &rd.SessionID, &rd.Player, &rd.Computer, &rd.Outcome, &rd.PlayedAt); err != nil {
			return nil, err
		}
		rounds = append(rounds, rd)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rounds, nil
}

// Tally counts outcomes. A sessionID of "" counts every session.
func (r *RoundRepository) Tally(sessionID string) (Tally, error) {
	query := `SELECT outcome, COUNT(*) FROM rounds`
	args := []any{}
	if sessionID != "" {
		query += ` WHERE session_id = ?`
		args = append(args, sessionID)
	}
	query += ` GROUP BY outcome`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return Tally{}, err
	}
	defer rows.Close()

	var t Tally
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return Tally{}, err
		}
		switch outcome {
		case "player":
			t.Wins = n
		case "computer":
			t.Losses = n
		case "tie":
			t.Ties = n
		}
		t.Total += n
	}

	return t, rows.Err()
}
