package ai

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/songowen/duelboard/internal/dice"
	"github.com/songowen/duelboard/internal/game"
)

// Difficulty selects the heuristic tier an opponent plays with.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Normal Difficulty = "normal"
)

func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(strings.ToLower(strings.TrimSpace(s))) {
	case Easy:
		return Easy, nil
	case Normal, "":
		return Normal, nil
	default:
		return "", fmt.Errorf("unknown difficulty: %q", s)
	}
}

// RandomSource supplies the uniform draws used by the easy tier. *rand.Rand
// satisfies it.
type RandomSource interface {
	Float64() float64
}

// Policy picks the next move for one seat. It is a game.Decider, so it can
// drive both a local match and an online seat.
type Policy interface {
	Decide(d dice.Dice, rollsUsed int, card dice.ScoreCard) game.Move
}

// NewPolicy creates a policy for the difficulty. A nil rng is replaced with a
// time-seeded one.
func NewPolicy(level Difficulty, rng RandomSource) (Policy, error) {
	if rng == nil {
		seed, err := dice.NewSeed()
		if err != nil {
			return nil, err
		}
		rng = rand.New(rand.NewSource(seed))
	}
	switch level {
	case Easy:
		return &EasyBot{rng: rng, tuning: DefaultTuning.Easy}, nil
	case Normal:
		return &NormalBot{tuning: DefaultTuning.Normal}, nil
	default:
		return nil, fmt.Errorf("unknown bot level: %q", level)
	}
}

// Decide is the stateless form of the policy.
func Decide(d dice.Dice, rollsUsed int, card dice.ScoreCard, level Difficulty, rng RandomSource) (game.Move, error) {
	p, err := NewPolicy(level, rng)
	if err != nil {
		return game.Move{}, err
	}
	return p.Decide(d, rollsUsed, card), nil
}
