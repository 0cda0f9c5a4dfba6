package game

import (
	"encoding/json"
	"fmt"

	"github.com/songowen/duelboard/internal/dice"
)

// Action names the kind of move carried in a move payload.
type Action string

const (
	ActionRoll  Action = "roll"
	ActionHold  Action = "hold"
	ActionScore Action = "score"
)

// Move is the payload submitted through make_move. Roll and hold carry the
// hold mask to apply; score carries the category to lock. Dice faces are
// never part of a move, the service rolls them.
type Move struct {
	Action   Action         `json:"action"`
	Holds    *dice.HoldMask `json:"holds,omitempty"`
	Category dice.Category  `json:"category,omitempty"`
}

func RollMove(holds dice.HoldMask) Move {
	return Move{Action: ActionRoll, Holds: &holds}
}

func HoldMove(holds dice.HoldMask) Move {
	return Move{Action: ActionHold, Holds: &holds}
}

func ScoreMove(category dice.Category) Move {
	return Move{Action: ActionScore, Category: category}
}

// ParseMove decodes and shape-checks a move payload.
func ParseMove(data []byte) (Move, error) {
	var m Move
	if err := json.Unmarshal(data, &m); err != nil {
		return Move{}, fmt.Errorf("decode move: %w", err)
	}
	if err := m.Validate(); err != nil {
		return Move{}, err
	}
	return m, nil
}

func (m Move) Validate() error {
	switch m.Action {
	case ActionRoll:
		return nil
	case ActionHold:
		if m.Holds == nil {
			return fmt.Errorf("%w: hold move without holds", ErrInvalidHold)
		}
		return nil
	case ActionScore:
		if !m.Category.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownCategory, m.Category)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, m.Action)
	}
}

// Apply runs the move for seat against the state. The state is left
// untouched when an error is returned.
func (s *State) Apply(seat Seat, m Move, r dice.Roller) error {
	if err := m.Validate(); err != nil {
		return err
	}
	next := s.Clone()
	switch m.Action {
	case ActionRoll:
		if m.Holds != nil {
			if err := next.SetHolds(seat, *m.Holds); err != nil {
				return err
			}
		}
		if err := next.Roll(seat, r); err != nil {
			return err
		}
	case ActionHold:
		// A hold move only makes sense on rolled dice, even an all-clear one.
		if err := next.checkActor(seat); err != nil {
			return err
		}
		if next.RollsUsed == 0 {
			return ErrNotRolled
		}
		if err := next.SetHolds(seat, *m.Holds); err != nil {
			return err
		}
	case ActionScore:
		if _, err := next.Lock(seat, m.Category); err != nil {
			return err
		}
	}
	*s = *next
	return nil
}
