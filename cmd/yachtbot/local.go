package main

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/songowen/duelboard/internal/ai"
	"github.com/songowen/duelboard/internal/dice"
	"github.com/songowen/duelboard/internal/game"
)

// playLocal runs a full match in-process. Seat 1 stands in for the human
// and is driven by a second policy of the same difficulty.
func playLocal(out io.Writer, level ai.Difficulty, seed int64) error {
	if seed == 0 {
		var err error
		if seed, err = dice.NewSeed(); err != nil {
			return err
		}
	}
	rng := rand.New(rand.NewSource(seed))
	opponent, err := ai.NewPolicy(level, rng)
	if err != nil {
		return err
	}
	stand, err := ai.NewPolicy(level, rng)
	if err != nil {
		return err
	}
	match := game.NewLocal(opponent, dice.NewRoller(seed))

	for !match.State.Finished() {
		if !match.HumanTurn() {
			for _, m := range match.PlayOpponentTurn() {
				report(out, match.Opponent(), m, match.State)
			}
			continue
		}
		s := match.State
		m := stand.Decide(s.Dice, s.RollsUsed, s.Card(match.Human))
		if !playHuman(match, m) {
			// The policy asked for something illegal; lock the first open box.
			if s.RollsUsed == 0 {
				match.Roll()
			}
			m = game.ScoreMove(s.Available()[0])
			match.Score(m.Category)
		}
		report(out, match.Human, m, match.State)
	}

	s := match.State
	fmt.Fprintf(out, "final: seat 1 %d, seat 2 %d\n", s.Total(game.Seat1), s.Total(game.Seat2))
	if winner, draw, _ := s.Winner(); draw {
		fmt.Fprintln(out, "draw")
	} else {
		fmt.Fprintf(out, "seat %d wins\n", winner)
	}
	return nil
}

func playHuman(match *game.Local, m game.Move) bool {
	switch m.Action {
	case game.ActionRoll:
		if m.Holds != nil && match.State.RollsUsed > 0 {
			if err := match.State.SetHolds(match.Human, *m.Holds); err != nil {
				return false
			}
		}
		return match.Roll()
	case game.ActionScore:
		return match.Score(m.Category)
	}
	return false
}

func report(out io.Writer, seat game.Seat, m game.Move, s *game.State) {
	switch m.Action {
	case game.ActionScore:
		fmt.Fprintf(out, "seat %d scores %-15s total %d\n", seat, m.Category.Label(), s.Total(seat))
	default:
		fmt.Fprintf(out, "seat %d rolls   %v\n", seat, s.Dice)
	}
}
