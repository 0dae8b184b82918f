package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSessionRepository(t *testing.T) {
	s := setupTestStore(t)

	sess, err := s.Sessions().Start()
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if sess.ID == "" {
		t.Fatal("expected session ID to be assigned")
	}

	got, err := s.Sessions().GetByID(sess.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.EndedAt != nil {
		t.Error("new session should not have an end time")
	}

	if err := s.Sessions().End(sess.ID); err != nil {
		t.Fatalf("End() error = %v", err)
	}

	got, err = s.Sessions().GetByID(sess.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.EndedAt == nil {
		t.Error("ended session should have an end time")
	}

	if err := s.Sessions().End("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("End(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := s.Sessions().GetByID("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID(missing) error = %v, want ErrNotFound", err)
	}
}

func TestRoundRepository_CreateAndList(t *testing.T) {
	s := setupTestStore(t)

	sess, err := s.Sessions().Start()
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	base := time.Now().Add(-time.Hour)
	rounds := []*Round{
		{SessionID: sess.ID, Player: "Rock", Computer: "Scissors", Outcome: "player", PlayedAt: base},
		{SessionID: sess.ID, Player: "Rock", Computer: "Paper", Outcome: "computer", PlayedAt: base.Add(time.Minute)},
		{SessionID: sess.ID, Player: "Paper", Computer: "Paper", Outcome: "tie", PlayedAt: base.Add(2 * time.Minute)},
	}
	for _, r := range rounds {
		if err := s.Rounds().Create(r); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if r.ID == "" {
			t.Error("expected round ID to be assigned")
		}
	}

	got, err := s.Rounds().List(sess.ID, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("List() returned %d rounds, want 3", len(got))
	}
	if got[0].Outcome != "tie" || got[2].Outcome != "player" {
		t.Errorf("rounds not newest first: %s, %s", got[0].Outcome, got[2].Outcome)
	}

	limited, err := s.Rounds().List("", 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("List(limit=2) returned %d rounds", len(limited))
	}
}

func TestRoundRepository_Tally(t *testing.T) {
	s := setupTestStore(t)

	a, _ := s.Sessions().Start()
	b, _ := s.Sessions().Start()

	for _, r := range []*Round{
		{SessionID: a.ID, Player: "Rock", Computer: "Scissors", Outcome: "player"},
		{SessionID: a.ID, Player: "Paper", Computer: "Rock", Outcome: "player"},
		{SessionID: a.ID, Player: "Rock", Computer: "Paper", Outcome: "computer"},
		{SessionID: b.ID, Player: "Scissors", Computer: "Scissors", Outcome: "tie"},
	} {
		if err := s.Rounds().Create(r); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	tally, err := s.Rounds().Tally(a.ID)
	if err != nil {
		t.Fatalf("Tally() error = %v", err)
	}
	if tally != (Tally{Wins: 2, Losses: 1, Ties: 0, Total: 3}) {
		t.Errorf("session tally = %+v", tally)
	}

	all, err := s.Rounds().Tally("")
	if err != nil {
		t.Fatalf("Tally() error = %v", err)
	}
	if all.Total != 4 || all.Ties != 1 {
		t.Errorf("overall tally = %+v", all)
	}
}

func TestRoundRepository_UnknownSession(t *testing.T) {
	s := setupTestStore(t)

	err := s.Rounds().Create(&Round{SessionID: "nope", Player: "Rock", Computer: "Rock", Outcome: "tie"})
	if err == nil {
		t.Error("expected foreign key violation")
	}
}

func TestSessionDeleteCascades(t *testing.T) {
	s := setupTestStore(t)

	sess, _ := s.Sessions().Start()
	s.Rounds().Create(&Round{SessionID: sess.ID, Player: "Rock", Computer: "Rock", Outcome: "tie"})

	if _, err := s.DB().Exec(`DELETE FROM sessions WHERE id = ?`, sess.ID); err != nil {
		t.Fatalf("delete session: %v", err)
	}

	rounds, err := s.Rounds().List(sess.ID, 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(rounds) != 0 {
		t.Errorf("expected rounds to be deleted with their session, got %d", len(rounds))
	}
}
