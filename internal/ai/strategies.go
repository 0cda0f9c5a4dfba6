package ai

import (
	"github.com/songowen/duelboard/internal/dice"
	"github.com/songowen/duelboard/internal/game"
)

// EasyBot scores whatever is best by its simple tie-break order and keeps
// the most common face when it rerolls.
type EasyBot struct {
	rng    RandomSource
	tuning TierTuning
}

func (b *EasyBot) Decide(d dice.Dice, rollsUsed int, card dice.ScoreCard) game.Move {
	if rollsUsed == 0 {
		return game.RollMove(dice.HoldMask{})
	}
	best, score, ok := dice.BestCategory(d, card, b.tuning.TieBreak)
	if !ok {
		return game.RollMove(dice.HoldMask{})
	}
	if rollsUsed >= game.MaxRolls {
		return game.ScoreMove(best)
	}
	if rollsUsed == game.MaxRolls-1 && (score >= b.tuning.LockAt || b.rng.Float64() > b.tuning.EarlyLockDraw) {
		return game.ScoreMove(best)
	}
	return game.RollMove(setHolds(d))
}

// NormalBot chases straights and sets and will not settle for a zero before
// its last roll.
type NormalBot struct {
	tuning TierTuning
}

func (b *NormalBot) Decide(d dice.Dice, rollsUsed int, card dice.ScoreCard) game.Move {
	if rollsUsed == 0 {
		return game.RollMove(dice.HoldMask{})
	}
	best, score, ok := dice.BestCategory(d, card, b.tuning.TieBreak)
	if !ok {
		return game.RollMove(dice.HoldMask{})
	}
	if b.scoreNow(score, rollsUsed) {
		return game.ScoreMove(best)
	}
	return game.RollMove(normalHolds(d, card, b.tuning))
}

func (b *NormalBot) scoreNow(best, rollsUsed int) bool {
	if rollsUsed >= game.MaxRolls {
		return true
	}
	if rollsUsed != game.MaxRolls-1 {
		return false
	}
	if best >= b.tuning.LockAt {
		return true
	}
	if best == 0 {
		return false
	}
	return b.tuning.SettleAt > 0 && best >= b.tuning.SettleAt
}
