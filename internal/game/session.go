package game

// Command is a player instruction to the main loop.
type Command int

const (
	CommandNone Command = iota
	CommandRestart
	CommandQuit
)

func (c Command) String() string {
	switch c {
	case CommandRestart:
		return "restart"
	case CommandQuit:
		return "quit"
	default:
		return "none"
	}
}

// Score tallies finished rounds for the current session.
type Score struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Ties   int `json:"ties"`
}

// Add counts one outcome.
func (s *Score) Add(o Outcome) {
	switch o {
	case PlayerWins:
		s.Wins++
	case ComputerWins:
		s.Losses++
	default:
		s.Ties++
	}
}

// Rounds returns the number of finished rounds.
func (s Score) Rounds() int {
	return s.Wins + s.Losses + s.Ties
}

// Snapshot is a read-only view of the game for outer surfaces.
type Snapshot struct {
	Phase    string `json:"phase"`
	Player   string `json:"player,omitempty"`
	Computer string `json:"computer,omitempty"`
	Outcome  string `json:"outcome,omitempty"`
	Message  string `json:"message,omitempty"`
	Score    Score  `json:"score"`
	Rounds   int    `json:"rounds"`
}

// NewSnapshot builds a Snapshot from the round state and session score.
func NewSnapshot(s State, score Score) Snapshot {
	snap := Snapshot{
		Phase:  s.Phase.String(),
		Score:  score,
		Rounds: score.Rounds(),
	}
	if s.Phase == Resolved {
		snap.Player = s.Result.Player.String()
		snap.Computer = s.Result.Computer.String()
		snap.Outcome = s.Result.Outcome.String()
		snap.Message = s.Result.Outcome.Message()
	}
	return snap
}
