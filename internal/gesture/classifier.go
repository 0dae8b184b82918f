// Package gesture classifies hand poses into rock/paper/scissors moves.
package gesture

import (
	"github.com/ayusman/handgame/internal/detector"
	"github.com/ayusman/handgame/internal/game"
)

// Finger indexes the five fingers in Extended's result.
type Finger int

const (
	Thumb Finger = iota
	Index
	Middle
	Ring
	Pinky
)

// fingerJoints pairs each fingertip with the joint it must rise above.
var fingerJoints = [5]struct{ tip, base int }{
	Thumb:  {detector.ThumbTip, detector.ThumbIP},
	Index:  {detector.IndexTip, detector.IndexPIP},
	Middle: {detector.MiddleTip, detector.MiddlePIP},
	Ring:   {detector.RingTip, detector.RingPIP},
	Pinky:  {detector.PinkyTip, detector.PinkyPIP},
}

// Extended reports, per finger, whether the tip is above its base joint in
// image space. This assumes an upright hand facing the camera.
func Extended(hand *detector.HandLandmarks) [5]bool {
	var out [5]bool
	for f, j := range fingerJoints {
		out[f] = hand.Points[j.tip].Y < hand.Points[j.base].Y
	}
	return out
}

var (
	rockPose     = [5]bool{}
	paperPose    = [5]bool{true, true, true, true, true}
	scissorsPose = [5]bool{Index: true, Middle: true}
)

// Classify maps a hand to a move. Any pose other than a fist, an open palm
// or a V sign is game.None.
func Classify(hand *detector.HandLandmarks) game.Choice {
	if hand == nil {
		return game.None
	}

	switch Extended(hand) {
	case rockPose:
		return game.Rock
	case paperPose:
		return game.Paper
	case scissorsPose:
		return game.Scissors
	default:
		return game.None
	}
}

// Classifier is the game.Classifier backed by Classify.
type Classifier struct{}

// Classify implements game.Classifier.
func (Classifier) Classify(hand *detector.HandLandmarks) game.Choice {
	return Classify(hand)
}
