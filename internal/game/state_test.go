package game

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/songowen/duelboard/internal/dice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRoller returns faces from a fixed list, cycling when exhausted.
type scriptedRoller struct {
	faces []int
	next  int
}

func (s *scriptedRoller) Intn(n int) int {
	face := s.faces[s.next%len(s.faces)]
	s.next++
	return face - 1
}

func roller(faces ...int) *scriptedRoller {
	return &scriptedRoller{faces: faces}
}

func TestNewState(t *testing.T) {
	s := NewState()
	assert.Equal(t, PhaseRolling, s.Phase)
	assert.Equal(t, Seat1, s.TurnSeat)
	assert.Equal(t, 1, s.TurnNo)
	assert.Equal(t, dice.InitialDice(), s.Dice)
	assert.Equal(t, 0, s.RollsUsed)
	assert.Len(t, s.Available(), 12)
	assert.NoError(t, s.Validate())
}

func TestRollRules(t *testing.T) {
	s := NewState()
	assert.ErrorIs(t, s.Roll(Seat2, roller(6)), ErrNotYourTurn)

	for i := 0; i < MaxRolls; i++ {
		require.NoError(t, s.Roll(Seat1, roller(2, 3, 4, 5, 6)))
	}
	assert.Equal(t, PhaseScoring, s.Phase)
	assert.Equal(t, MaxRolls, s.RollsUsed)
	assert.ErrorIs(t, s.Roll(Seat1, roller(1)), ErrNoRollsLeft)
}

func TestHoldRequiresRoll(t *testing.T) {
	s := NewState()
	assert.ErrorIs(t, s.ToggleHold(Seat1, 0), ErrNotRolled)
	assert.ErrorIs(t, s.SetHolds(Seat1, dice.HoldMask{true}), ErrNotRolled)
	assert.NoError(t, s.SetHolds(Seat1, dice.HoldMask{}))

	require.NoError(t, s.Roll(Seat1, roller(6, 6, 1, 2, 3)))
	require.NoError(t, s.ToggleHold(Seat1, 0))
	require.NoError(t, s.ToggleHold(Seat1, 1))
	assert.ErrorIs(t, s.ToggleHold(Seat1, 5), ErrInvalidHold)
	assert.ErrorIs(t, s.ToggleHold(Seat2, 0), ErrNotYourTurn)

	require.NoError(t, s.Roll(Seat1, roller(4)))
	assert.Equal(t, dice.Dice{6, 6, 4, 4, 4}, s.Dice)
}

func TestLockRules(t *testing.T) {
	s := NewState()
	_, err := s.Lock(Seat1, dice.Choice)
	assert.ErrorIs(t, err, ErrNotRolled)

	require.NoError(t, s.Roll(Seat1, roller(2, 2, 3, 3, 3)))
	_, err = s.Lock(Seat1, dice.Category("bonus"))
	assert.ErrorIs(t, err, ErrUnknownCategory)

	score, err := s.Lock(Seat1, dice.FullHouse)
	require.NoError(t, err)
	assert.Equal(t, 13, score)

	assert.Equal(t, Seat2, s.TurnSeat)
	assert.Equal(t, 2, s.TurnNo)
	assert.Equal(t, 0, s.RollsUsed)
	assert.Equal(t, PhaseRolling, s.Phase)
	assert.Equal(t, dice.HoldMask{}, s.Holds)
	assert.Equal(t, dice.InitialDice(), s.Dice)
	assert.Equal(t, []dice.Category{dice.FullHouse}, s.Scored[Seat1])

	require.NoError(t, s.Roll(Seat2, roller(1)))
	_, err = s.Lock(Seat2, dice.Ones)
	require.NoError(t, err)

	require.NoError(t, s.Roll(Seat1, roller(2, 2, 3, 3, 3)))
	_, err = s.Lock(Seat1, dice.FullHouse)
	assert.ErrorIs(t, err, ErrCategoryFilled)
}

func playFullMatch(t *testing.T, s *State, r dice.Roller) {
	t.Helper()
	for turn := 0; turn < 24; turn++ {
		seat := s.TurnSeat
		require.NoError(t, s.Roll(seat, r))
		available := s.Available()
		require.NotEmpty(t, available)
		_, err := s.Lock(seat, available[0])
		require.NoError(t, err)
	}
}

func TestFullMatchFinishes(t *testing.T) {
	s := NewState()
	playFullMatch(t, s, rand.New(rand.NewSource(3)))

	assert.True(t, s.Finished())
	for _, seat := range []Seat{Seat1, Seat2} {
		card := s.Card(seat)
		assert.True(t, card.Complete())
		sum := 0
		for _, c := range dice.Categories {
			v, ok := card.Locked(c)
			require.True(t, ok)
			sum += v
		}
		assert.Equal(t, sum, s.Total(seat))
		assert.Len(t, s.Scored[seat], 12)
	}

	winner, draw, ok := s.Winner()
	require.True(t, ok)
	if s.Total(Seat1) == s.Total(Seat2) {
		assert.True(t, draw)
	} else {
		assert.False(t, draw)
		assert.Equal(t, s.Total(winner), max(s.Total(Seat1), s.Total(Seat2)))
	}

	assert.ErrorIs(t, s.Roll(s.TurnSeat, roller(1)), ErrFinished)
	_, err := s.Lock(s.TurnSeat, dice.Ones)
	assert.ErrorIs(t, err, ErrFinished)
}

func TestDrawOnEqualTotals(t *testing.T) {
	s := NewState()
	// Both seats roll the same faces every turn and fill categories in the
	// same order, so totals match.
	playFullMatch(t, s, roller(3, 3, 3, 4, 4))
	winner, draw, ok := s.Winner()
	require.True(t, ok)
	assert.True(t, draw)
	assert.Equal(t, Seat(0), winner)
	assert.Equal(t, s.Total(Seat1), s.Total(Seat2))
}

func TestWinnerBeforeFinish(t *testing.T) {
	_, _, ok := NewState().Winner()
	assert.False(t, ok)
}

func TestApplyLeavesStateOnError(t *testing.T) {
	s := NewState()
	before := s.Clone()

	err := s.Apply(Seat1, ScoreMove(dice.Yacht), roller(5))
	assert.ErrorIs(t, err, ErrNotRolled)
	assert.Equal(t, before, s)

	err = s.Apply(Seat1, Move{Action: "fold"}, roller(5))
	assert.ErrorIs(t, err, ErrUnknownAction)
	assert.Equal(t, before, s)
}

func TestApplyHoldBeforeRoll(t *testing.T) {
	s := NewState()
	before := s.Clone()

	assert.ErrorIs(t, s.Apply(Seat1, HoldMove(dice.HoldMask{}), roller(5)), ErrNotRolled)
	assert.ErrorIs(t, s.Apply(Seat1, HoldMove(dice.HoldMask{true}), roller(5)), ErrNotRolled)
	assert.ErrorIs(t, s.Apply(Seat2, HoldMove(dice.HoldMask{}), roller(5)), ErrNotYourTurn)
	assert.Equal(t, before, s)

	// Rolling with an empty mask is still the way to open a turn.
	require.NoError(t, s.Apply(Seat1, RollMove(dice.HoldMask{}), roller(2)))
	require.NoError(t, s.Apply(Seat1, HoldMove(dice.HoldMask{}), roller(2)))
}

func TestApplyMoves(t *testing.T) {
	s := NewState()
	require.NoError(t, s.Apply(Seat1, RollMove(dice.HoldMask{}), roller(5, 5, 5, 1, 2)))
	require.NoError(t, s.Apply(Seat1, HoldMove(dice.HoldMask{true, true, true}), roller(1)))
	require.NoError(t, s.Apply(Seat1, RollMove(dice.HoldMask{true, true, true}), roller(5)))
	assert.Equal(t, dice.Dice{5, 5, 5, 5, 5}, s.Dice)
	assert.Equal(t, 2, s.RollsUsed)

	require.NoError(t, s.Apply(Seat1, ScoreMove(dice.Yacht), roller(1)))
	v, ok := s.Card(Seat1).Locked(dice.Yacht)
	require.True(t, ok)
	assert.Equal(t, 50, v)
	assert.Equal(t, Seat2, s.TurnSeat)
}

func TestStateWireShape(t *testing.T) {
	s := NewState()
	require.NoError(t, s.Roll(Seat1, roller(1, 2, 3, 4, 5)))
	_, err := s.Lock(Seat1, dice.LargeStraight)
	require.NoError(t, err)

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "rolling", raw["phase"])
	assert.EqualValues(t, 2, raw["turnSeat"])
	cards := raw["scoreCard"].(map[string]any)
	assert.EqualValues(t, 30, cards["1"].(map[string]any)["large_straight"])
	assert.Nil(t, cards["2"].(map[string]any)["large_straight"])
	assert.Equal(t, []any{"large_straight"}, raw["scored"].(map[string]any)["1"])

	var decoded State
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.NoError(t, decoded.Validate())
	assert.Equal(t, s.Total(Seat1), decoded.Total(Seat1))
	assert.Equal(t, s.TurnSeat, decoded.TurnSeat)
}

func TestValidateRejectsBadPayload(t *testing.T) {
	var s State
	require.NoError(t, json.Unmarshal([]byte(`{"phase":"rolling","turnNo":1,"turnSeat":3,"dice":[1,1,1,1,1]}`), &s))
	assert.ErrorIs(t, s.Validate(), ErrInvalidState)

	require.NoError(t, json.Unmarshal([]byte(`{"phase":"rolling","turnNo":1,"turnSeat":1,"dice":[0,1,1,1,1]}`), &s))
	assert.ErrorIs(t, s.Validate(), ErrInvalidState)
}
