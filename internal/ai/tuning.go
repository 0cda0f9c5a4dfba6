package ai

import "github.com/songowen/duelboard/internal/dice"

// TierTuning holds the knobs one difficulty tier plays with.
type TierTuning struct {
	// TieBreak orders categories with equal scores, earlier wins.
	TieBreak []dice.Category
	// LockAt is the best score that ends the turn after the second roll.
	LockAt int
	// SettleAt also ends the turn after the second roll, unless the best
	// score is 0. Zero disables it.
	SettleAt int
	// EarlyLockDraw ends the turn after the second roll when a uniform draw
	// exceeds it. Values >= 1 disable it.
	EarlyLockDraw float64
	// MinStraightHolds is the least number of run dice worth keeping.
	MinStraightHolds int
	// MinSetHolds is the least number of matching dice worth keeping.
	MinSetHolds int
	// ChoiceHoldFrom keeps dice at or above this face when only Choice is left.
	ChoiceHoldFrom int
}

type Tuning struct {
	Easy   TierTuning
	Normal TierTuning
}

var DefaultTuning = Tuning{
	Easy: TierTuning{
		TieBreak: []dice.Category{
			dice.Choice,
			dice.Sixes,
			dice.Fives,
			dice.Fours,
			dice.Threes,
			dice.Twos,
			dice.Ones,
			dice.SmallStraight,
			dice.FullHouse,
			dice.FourOfAKind,
			dice.LargeStraight,
			dice.Yacht,
		},
		LockAt:        18,
		EarlyLockDraw: 0.45,
	},
	Normal: TierTuning{
		TieBreak: []dice.Category{
			dice.Yacht,
			dice.LargeStraight,
			dice.FourOfAKind,
			dice.FullHouse,
			dice.SmallStraight,
			dice.Choice,
			dice.Sixes,
			dice.Fives,
			dice.Fours,
			dice.Threes,
			dice.Twos,
			dice.Ones,
		},
		LockAt:           20,
		SettleAt:         15,
		EarlyLockDraw:    1,
		MinStraightHolds: 3,
		MinSetHolds:      2,
		ChoiceHoldFrom:   4,
	},
}
