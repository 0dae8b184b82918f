package store

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_ReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	sess, err := s.Sessions().Start()
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := s.Rounds().Create(&Round{SessionID: sess.ID, Player: "Paper", Computer: "Rock", Outcome: "player"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Migrations run again on an existing file.
	s, err = New(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()

	tally, err := s.Rounds().Tally(sess.ID)
	if err != nil {
		t.Fatalf("Tally() error = %v", err)
	}
	if tally != (Tally{Wins: 1, Total: 1}) {
		t.Errorf("tally after reopen = %+v", tally)
	}
}

func TestNew_MissingDirectory(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "no", "such", "dir", "history.db")); err == nil {
		t.Error("expected an error for a database in a missing directory")
	}
}

func TestStore_ClosedRejectsWrites(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if _, err := s.Sessions().Start(); err == nil {
		t.Error("Start() should fail on a closed store")
	}
}

func TestRoundConstraints(t *testing.T) {
	s := setupTestStore(t)
	sess, err := s.Sessions().Start()
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	tests := []struct {
		name  string
		round Round
		ok    bool
	}{
		{"valid", Round{Player: "Scissors", Computer: "Paper", Outcome: "player"}, true},
		{"unrecognized player move", Round{Player: "None", Computer: "Paper", Outcome: "tie"}, false},
		{"lowercase computer move", Round{Player: "Rock", Computer: "rock", Outcome: "tie"}, false},
		{"unknown outcome", Round{Player: "Rock", Computer: "Rock", Outcome: "draw"}, false},
		{"empty outcome", Round{Player: "Rock", Computer: "Rock"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.round
			r.SessionID = sess.ID
			err := s.Rounds().Create(&r)
			if tt.ok && err != nil {
				t.Errorf("Create() error = %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("Create() accepted a round the schema should reject")
			}
		})
	}
}

// queryPlan returns the planner's detail lines for query.
func queryPlan(t *testing.T, s *Store, query string, args ...any) string {
	t.Helper()

	rows, err := s.DB().Query("EXPLAIN QUERY PLAN "+query, args...)
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	defer rows.Close()

	var details []string
	for rows.Next() {
		var id, parent, unused int
		var detail string
		if err := rows.Scan(&id, &parent, &unused, &detail); err != nil {
			t.Fatalf("scan plan: %v", err)
		}
		details = append(details, detail)
	}
	return strings.Join(details, "\n")
}

func TestHistoryQueriesUseIndexes(t *testing.T) {
	s := setupTestStore(t)

	plan := queryPlan(t, s, `SELECT outcome, COUNT(*) FROM rounds WHERE session_id = ? GROUP BY outcome`, "x")
	if !strings.Contains(plan, "idx_rounds_session_id") {
		t.Errorf("session tally does not use idx_rounds_session_id:\n%s", plan)
	}

	plan = queryPlan(t, s, `SELECT id FROM rounds ORDER BY played_at DESC LIMIT ?`, 10)
	if !strings.Contains(plan, "idx_rounds_played_at") {
		t.Errorf("recent rounds do not use idx_rounds_played_at:\n%s", plan)
	}
}
