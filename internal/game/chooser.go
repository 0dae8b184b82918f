package game

import "math/rand/v2"

// Chooser picks the computer's move.
type Chooser interface {
	Choose() Choice
}

// RandomChooser picks uniformly from Choices.
type RandomChooser struct {
	rng *rand.Rand
}

// NewRandomChooser returns a chooser seeded from seed, or from the runtime
// source when seed is zero.
func NewRandomChooser(seed uint64) *RandomChooser {
	if seed == 0 {
		return &RandomChooser{}
	}
	return &RandomChooser{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Choose returns Rock, Paper or Scissors with equal probability.
func (c *RandomChooser) Choose() Choice {
	if c.rng == nil {
		return Choices[rand.IntN(len(Choices))]
	}
	return Choices[c.rng.IntN(len(Choices))]
}

// FixedChooser always plays the same move.
type FixedChooser Choice

// Choose returns the fixed move.
func (c FixedChooser) Choose() Choice {
	return Choice(c)
}
