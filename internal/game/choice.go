// Package game holds the rock/paper/scissors rules and the per-frame round state machine.
package game

// Choice is a move in a round. None marks an unrecognized gesture.
type Choice int

const (
	None Choice = iota
	Rock
	Paper
	Scissors
)

// Choices lists the playable moves.
var Choices = []Choice{Rock, Paper, Scissors}

// Valid reports whether c is a playable move.
func (c Choice) Valid() bool {
	return c == Rock || c == Paper || c == Scissors
}

func (c Choice) String() string {
	switch c {
	case Rock:
		return "Rock"
	case Paper:
		return "Paper"
	case Scissors:
		return "Scissors"
	default:
		return "None"
	}
}

// Outcome is the result of a round from the player's point of view.
type Outcome int

const (
	Tie Outcome = iota
	PlayerWins
	ComputerWins
)

func (o Outcome) String() string {
	switch o {
	case PlayerWins:
		return "player"
	case ComputerWins:
		return "computer"
	default:
		return "tie"
	}
}

// Message is the banner text shown for the outcome.
func (o Outcome) Message() string {
	switch o {
	case PlayerWins:
		return "You win!"
	case ComputerWins:
		return "Computer wins!"
	default:
		return "It's a tie!"
	}
}

// beats maps each move to the move it defeats.
var beats = map[Choice]Choice{
	Rock:     Scissors,
	Scissors: Paper,
	Paper:    Rock,
}

// Resolve decides a round. Both choices must be valid.
func Resolve(player, computer Choice) Outcome {
	if player == computer {
		return Tie
	}
	if beats[player] == computer {
		return PlayerWins
	}
	return ComputerWins
}
