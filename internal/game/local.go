package game

import (
	"github.com/songowen/duelboard/internal/dice"
)

// Decider chooses the next move for a seat from what is visible on the table.
type Decider interface {
	Decide(d dice.Dice, rollsUsed int, card dice.ScoreCard) Move
}

// maxOpponentSteps bounds one opponent turn: three rolls and a score.
const maxOpponentSteps = MaxRolls + 1

// Local is a match against a computer opponent with no network involved.
// The in-process state is authoritative, so illegal actions are ignored
// instead of reported.
type Local struct {
	State    *State
	Human    Seat
	opponent Decider
	roller   dice.Roller
}

// NewLocal starts a match where the human takes seat 1.
func NewLocal(opponent Decider, roller dice.Roller) *Local {
	return &Local{
		State:    NewState(),
		Human:    Seat1,
		opponent: opponent,
		roller:   roller,
	}
}

func (l *Local) Opponent() Seat {
	return l.Human.Other()
}

func (l *Local) HumanTurn() bool {
	return !l.State.Finished() && l.State.TurnSeat == l.Human
}

// Roll reports whether the roll was applied.
func (l *Local) Roll() bool {
	return l.State.Roll(l.Human, l.roller) == nil
}

func (l *Local) ToggleHold(index int) bool {
	return l.State.ToggleHold(l.Human, index) == nil
}

func (l *Local) Score(category dice.Category) bool {
	_, err := l.State.Lock(l.Human, category)
	return err == nil
}

// PlayOpponentTurn lets the opponent act until the turn passes back or the
// match ends, and returns the moves it made. A move the state rejects ends
// the turn with the first open category so the match cannot stall.
func (l *Local) PlayOpponentTurn() []Move {
	seat := l.Opponent()
	var played []Move
	for step := 0; step < maxOpponentSteps; step++ {
		if l.State.Finished() || l.State.TurnSeat != seat {
			return played
		}
		m := l.opponent.Decide(l.State.Dice, l.State.RollsUsed, l.State.Card(seat))
		if err := l.State.Apply(seat, m, l.roller); err != nil {
			break
		}
		played = append(played, m)
	}
	if l.State.Finished() || l.State.TurnSeat != seat {
		return played
	}
	if l.State.RollsUsed == 0 {
		if l.State.Roll(seat, l.roller) != nil {
			return played
		}
		played = append(played, RollMove(dice.HoldMask{}))
	}
	if available := l.State.Available(); len(available) > 0 {
		if _, err := l.State.Lock(seat, available[0]); err == nil {
			played = append(played, ScoreMove(available[0]))
		}
	}
	return played
}
