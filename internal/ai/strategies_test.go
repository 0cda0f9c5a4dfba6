package ai

import (
	"math/rand"
	"testing"

	"github.com/songowen/duelboard/internal/dice"
	"github.com/songowen/duelboard/internal/game"
)

type fixedDraw float64

func (f fixedDraw) Float64() float64 { return float64(f) }

func mustPolicy(t *testing.T, level Difficulty, rng RandomSource) Policy {
	t.Helper()
	p, err := NewPolicy(level, rng)
	if err != nil {
		t.Fatalf("NewPolicy(%q) failed: %v", level, err)
	}
	return p
}

func TestFirstRollIsForced(t *testing.T) {
	for _, level := range []Difficulty{Easy, Normal} {
		move := mustPolicy(t, level, fixedDraw(0.9)).Decide(dice.Dice{6, 6, 6, 6, 6}, 0, dice.NewScoreCard())
		if move.Action != game.ActionRoll || move.Holds == nil || move.Holds.Count() != 0 {
			t.Errorf("%s: expected empty-hold roll, got %+v", level, move)
		}
	}
}

func TestLastRollAlwaysScores(t *testing.T) {
	card := dice.ScoreCard{dice.Ones: 1}
	for _, level := range []Difficulty{Easy, Normal} {
		move := mustPolicy(t, level, fixedDraw(0)).Decide(dice.Dice{1, 2, 4, 4, 6}, game.MaxRolls, card)
		if move.Action != game.ActionScore {
			t.Errorf("%s: expected score on last roll, got %+v", level, move)
		}
	}
}

func TestTieBreakDiffersByDifficulty(t *testing.T) {
	// Every category scores 30 except the upper ones: Choice vs Four of a Kind.
	d := dice.Dice{6, 6, 6, 6, 6}
	card := dice.ScoreCard{dice.Yacht: 50, dice.Sixes: 30}

	normal := mustPolicy(t, Normal, nil).Decide(d, game.MaxRolls, card)
	if normal.Category != dice.FourOfAKind {
		t.Errorf("normal should prefer Four of a Kind, got %s", normal.Category)
	}
	easy := mustPolicy(t, Easy, fixedDraw(0)).Decide(d, game.MaxRolls, card)
	if easy.Category != dice.Choice {
		t.Errorf("easy should prefer Choice, got %s", easy.Category)
	}
}

func TestNormalLockThresholds(t *testing.T) {
	bot := mustPolicy(t, Normal, nil)
	tests := []struct {
		name      string
		dice      dice.Dice
		card      dice.ScoreCard
		rollsUsed int
		wantScore bool
	}{
		{"large straight on second roll", dice.Dice{1, 2, 3, 4, 5}, dice.NewScoreCard(), 2, true},
		{"settles for 15 on second roll", dice.Dice{1, 2, 3, 4, 6}, dice.ScoreCard{dice.Choice: 10}, 2, true},
		{"rerolls a weak hand on first roll", dice.Dice{6, 6, 6, 6, 1}, dice.NewScoreCard(), 1, false},
		{"never locks a zero early", dice.Dice{1, 1, 2, 2, 3}, onlyOpen(dice.Yacht, dice.LargeStraight), 2, false},
		{"locks a zero on the last roll", dice.Dice{1, 1, 2, 2, 3}, onlyOpen(dice.Yacht, dice.LargeStraight), 3, true},
		{"rerolls below the settle score", dice.Dice{1, 1, 2, 2, 3}, onlyOpen(dice.Ones, dice.Twos), 2, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			move := bot.Decide(tc.dice, tc.rollsUsed, tc.card)
			if got := move.Action == game.ActionScore; got != tc.wantScore {
				t.Errorf("expected score=%v, got %+v", tc.wantScore, move)
			}
		})
	}
}

func TestEasyLockDecision(t *testing.T) {
	d := dice.Dice{1, 1, 2, 3, 5}
	card := dice.NewScoreCard()

	if move := mustPolicy(t, Easy, fixedDraw(0.2)).Decide(d, 2, card); move.Action != game.ActionRoll {
		t.Errorf("low draw should reroll, got %+v", move)
	}
	if move := mustPolicy(t, Easy, fixedDraw(0.5)).Decide(d, 2, card); move.Action != game.ActionScore {
		t.Errorf("high draw should score, got %+v", move)
	}
	if move := mustPolicy(t, Easy, fixedDraw(0.9)).Decide(d, 1, card); move.Action != game.ActionRoll {
		t.Errorf("easy never scores after one roll, got %+v", move)
	}
	strong := dice.Dice{6, 6, 6, 5, 5}
	if move := mustPolicy(t, Easy, fixedDraw(0)).Decide(strong, 2, card); move.Action != game.ActionScore {
		t.Errorf("28 points should lock, got %+v", move)
	}
}

func TestEasyHoldsMostFrequentHigherFace(t *testing.T) {
	move := mustPolicy(t, Easy, fixedDraw(0)).Decide(dice.Dice{2, 2, 5, 5, 1}, 1, dice.NewScoreCard())
	want := dice.HoldMask{false, false, true, true, false}
	if move.Holds == nil || *move.Holds != want {
		t.Errorf("expected holds %v, got %+v", want, move)
	}
}

func TestNormalHoldSelection(t *testing.T) {
	tests := []struct {
		name string
		dice dice.Dice
		card dice.ScoreCard
		want dice.HoldMask
	}{
		{
			"straight run",
			dice.Dice{2, 3, 4, 6, 6},
			dice.NewScoreCard(),
			dice.HoldMask{true, true, true, false, false},
		},
		{
			"set when no run",
			dice.Dice{1, 1, 4, 6, 6},
			onlyOpen(dice.Yacht, dice.Choice),
			dice.HoldMask{false, false, false, true, true},
		},
		{
			"best upper face",
			dice.Dice{1, 3, 3, 5, 6},
			onlyOpen(dice.Threes, dice.Fives, dice.Choice),
			dice.HoldMask{false, true, true, false, false},
		},
		{
			"choice keeps high dice",
			dice.Dice{1, 4, 3, 5, 6},
			onlyOpen(dice.Choice),
			dice.HoldMask{false, true, false, true, true},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := normalHolds(tc.dice, tc.card, DefaultTuning.Normal)
			if got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestPoliciesFinishLocalMatches(t *testing.T) {
	for _, level := range []Difficulty{Easy, Normal} {
		rng := rand.New(rand.NewSource(5))
		human := mustPolicy(t, Normal, rng)
		l := game.NewLocal(mustPolicy(t, level, rng), rng)
		for turn := 0; turn < 100 && !l.State.Finished(); turn++ {
			if l.HumanTurn() {
				for l.HumanTurn() {
					m := human.Decide(l.State.Dice, l.State.RollsUsed, l.State.Card(l.Human))
					if err := l.State.Apply(l.Human, m, rng); err != nil {
						t.Fatalf("%s: human move %+v rejected: %v", level, m, err)
					}
				}
				continue
			}
			l.PlayOpponentTurn()
		}
		if !l.State.Finished() {
			t.Fatalf("%s: match did not finish", level)
		}
	}
}

func TestParseDifficulty(t *testing.T) {
	if d, err := ParseDifficulty(" EASY "); err != nil || d != Easy {
		t.Errorf("expected easy, got %q (%v)", d, err)
	}
	if d, err := ParseDifficulty(""); err != nil || d != Normal {
		t.Errorf("expected normal default, got %q (%v)", d, err)
	}
	if _, err := ParseDifficulty("god"); err == nil {
		t.Error("expected error for unknown difficulty")
	}
}

// onlyOpen returns a card where every category except open is filled.
func onlyOpen(open ...dice.Category) dice.ScoreCard {
	card := dice.NewScoreCard()
	for _, c := range dice.Categories {
		card[c] = 0
	}
	for _, c := range open {
		delete(card, c)
	}
	return card
}
