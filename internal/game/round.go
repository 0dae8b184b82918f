package game

import (
	"time"

	"github.com/ayusman/handgame/internal/detector"
)

// DefaultHoldDuration is how long a gesture must be held before it is classified.
const DefaultHoldDuration = time.Second

// Phase is the stage a round is in.
type Phase int

const (
	// AwaitingGesture waits for a hand to appear.
	AwaitingGesture Phase = iota
	// Holding runs the hold timer before classification.
	Holding
	// Resolved shows the result until a restart.
	Resolved
)

func (p Phase) String() string {
	switch p {
	case Holding:
		return "holding"
	case Resolved:
		return "resolved"
	default:
		return "awaiting"
	}
}

// Result records a finished round.
type Result struct {
	Player   Choice
	Computer Choice
	Outcome  Outcome
	At       time.Time
}

// Summary is the "You: X | Computer: Y" line shown after a round.
func (r Result) Summary() string {
	return "You: " + r.Player.String() + " | Computer: " + r.Computer.String()
}

// State is the whole round state. The zero value is AwaitingGesture.
type State struct {
	Phase     Phase
	HoldStart time.Time
	Result    Result
}

// NewState returns a fresh round.
func NewState() State {
	return State{Phase: AwaitingGesture}
}

// Input is what one frame contributes to the round.
type Input struct {
	// Hand is the hand driving the round, nil when none was detected.
	Hand *detector.HandLandmarks
	Now  time.Time
}

// Event describes the transition a Step took.
type Event int

const (
	EventNone Event = iota
	EventHoldStarted
	EventUnrecognized
	EventResolved
)

func (e Event) String() string {
	switch e {
	case EventHoldStarted:
		return "hold_started"
	case EventUnrecognized:
		return "unrecognized"
	case EventResolved:
		return "resolved"
	default:
		return "none"
	}
}

// Classifier maps a hand to a move, or None when the pose is not recognized.
type Classifier interface {
	Classify(hand *detector.HandLandmarks) Choice
}

// ClassifierFunc adapts a function to Classifier.
type ClassifierFunc func(hand *detector.HandLandmarks) Choice

// Classify calls f(hand).
func (f ClassifierFunc) Classify(hand *detector.HandLandmarks) Choice {
	return f(hand)
}

// Engine advances round state one frame at a time.
type Engine struct {
	hold       time.Duration
	classifier Classifier
	chooser    Chooser
}

// NewEngine creates an Engine. A non-positive hold uses DefaultHoldDuration.
func NewEngine(classifier Classifier, chooser Chooser, hold time.Duration) *Engine {
	if hold <= 0 {
		hold = DefaultHoldDuration
	}
	return &Engine{
		hold:       hold,
		classifier: classifier,
		chooser:    chooser,
	}
}

// HoldDuration returns the configured hold window.
func (e *Engine) HoldDuration() time.Duration {
	return e.hold
}

// Step applies one frame to s and returns the next state.
//
// The classifier runs at most once per hold, on the first frame with a hand
// after the hold window has fully elapsed. Resolved ignores frames.
func (e *Engine) Step(s State, in Input) (State, Event) {
	switch s.Phase {
	case AwaitingGesture:
		if in.Hand == nil {
			return s, EventNone
		}
		return State{Phase: Holding, HoldStart: in.Now}, EventHoldStarted

	case Holding:
		if in.Hand == nil || in.Now.Sub(s.HoldStart) <= e.hold {
			return s, EventNone
		}

		player := e.classifier.Classify(in.Hand)
		if !player.Valid() {
			return NewState(), EventUnrecognized
		}

		computer := e.chooser.Choose()
		return State{
			Phase: Resolved,
			Result: Result{
				Player:   player,
				Computer: computer,
				Outcome:  Resolve(player, computer),
				At:       in.Now,
			},
		}, EventResolved

	default:
		return s, EventNone
	}
}

// Restart discards the current round, whatever its phase.
func (e *Engine) Restart(State) State {
	return NewState()
}
