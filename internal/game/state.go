package game

import (
	"errors"
	"fmt"

	"github.com/songowen/duelboard/internal/dice"
)

// Phase represents where the acting seat is within its turn.
type Phase string

const (
	// PhaseRolling is the start of a turn, before the first roll.
	PhaseRolling Phase = "rolling"
	// PhaseScoring is after at least one roll; a category may be locked.
	PhaseScoring Phase = "scoring"
	// PhaseFinished is reached once both score cards are complete.
	PhaseFinished Phase = "finished"
)

// MaxRolls is the number of rolls allowed per turn.
const MaxRolls = 3

// Seat is one of the two fixed player slots.
type Seat int

const (
	Seat1 Seat = 1
	Seat2 Seat = 2
)

func (s Seat) Valid() bool {
	return s == Seat1 || s == Seat2
}

func (s Seat) Other() Seat {
	if s == Seat1 {
		return Seat2
	}
	return Seat1
}

var (
	ErrFinished        = errors.New("match already finished")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrNoRollsLeft     = errors.New("no rolls left this turn")
	ErrNotRolled       = errors.New("dice not rolled this turn")
	ErrCategoryFilled  = errors.New("category already scored")
	ErrUnknownCategory = errors.New("unknown category")
	ErrInvalidHold     = errors.New("invalid hold index")
	ErrUnknownAction   = errors.New("unknown move action")
	ErrInvalidSeat     = errors.New("invalid seat")
	ErrInvalidState    = errors.New("invalid game state")
)

// State is the canonical record of one match. It is stored as the opaque
// state payload of a room and rebuilt from it on every client.
type State struct {
	Phase     Phase                    `json:"phase"`
	TurnNo    int                      `json:"turnNo"`
	TurnSeat  Seat                     `json:"turnSeat"`
	Dice      dice.Dice                `json:"dice"`
	Holds     dice.HoldMask            `json:"holds"`
	RollsUsed int                      `json:"rollsUsed"`
	ScoreCard map[Seat]dice.ScoreCard  `json:"scoreCard"`
	Scored    map[Seat][]dice.Category `json:"scored"`
}

// NewState returns the state of a match before its first roll. Seat 1 moves
// first.
func NewState() *State {
	return &State{
		Phase:     PhaseRolling,
		TurnNo:    1,
		TurnSeat:  Seat1,
		Dice:      dice.InitialDice(),
		RollsUsed: 0,
		ScoreCard: map[Seat]dice.ScoreCard{Seat1: dice.NewScoreCard(), Seat2: dice.NewScoreCard()},
		Scored:    map[Seat][]dice.Category{Seat1: {}, Seat2: {}},
	}
}

func (s *State) Clone() *State {
	out := *s
	out.ScoreCard = make(map[Seat]dice.ScoreCard, 2)
	out.Scored = make(map[Seat][]dice.Category, 2)
	for _, seat := range []Seat{Seat1, Seat2} {
		out.ScoreCard[seat] = s.Card(seat).Clone()
		out.Scored[seat] = append([]dice.Category{}, s.Scored[seat]...)
	}
	return &out
}

// Card returns the score card for seat, never nil.
func (s *State) Card(seat Seat) dice.ScoreCard {
	if s.ScoreCard == nil {
		s.ScoreCard = map[Seat]dice.ScoreCard{}
	}
	card, ok := s.ScoreCard[seat]
	if !ok || card == nil {
		card = dice.NewScoreCard()
		s.ScoreCard[seat] = card
	}
	return card
}

func (s *State) Finished() bool {
	return s.Phase == PhaseFinished
}

func (s *State) Total(seat Seat) int {
	return dice.Total(s.Card(seat))
}

// Winner reports the seat with the higher total once the match is finished.
// draw is true on equal totals; ok is false while the match is still running.
func (s *State) Winner() (winner Seat, draw bool, ok bool) {
	if !s.Finished() {
		return 0, false, false
	}
	t1, t2 := s.Total(Seat1), s.Total(Seat2)
	switch {
	case t1 == t2:
		return 0, true, true
	case t1 > t2:
		return Seat1, false, true
	default:
		return Seat2, false, true
	}
}

// Available returns the unfilled categories of the acting seat.
func (s *State) Available() []dice.Category {
	return dice.AvailableCategories(s.Card(s.TurnSeat))
}

// Validate checks a state decoded from an untrusted payload.
func (s *State) Validate() error {
	switch s.Phase {
	case PhaseRolling, PhaseScoring, PhaseFinished:
	default:
		return fmt.Errorf("%w: phase %q", ErrInvalidState, s.Phase)
	}
	if !s.TurnSeat.Valid() {
		return fmt.Errorf("%w: turn seat %d", ErrInvalidState, s.TurnSeat)
	}
	if !s.Dice.Valid() {
		return fmt.Errorf("%w: dice %v", ErrInvalidState, s.Dice)
	}
	if s.RollsUsed < 0 || s.RollsUsed > MaxRolls {
		return fmt.Errorf("%w: rolls used %d", ErrInvalidState, s.RollsUsed)
	}
	if s.TurnNo < 1 {
		return fmt.Errorf("%w: turn number %d", ErrInvalidState, s.TurnNo)
	}
	for seat := range s.ScoreCard {
		if !seat.Valid() {
			return fmt.Errorf("%w: score card seat %d", ErrInvalidState, seat)
		}
	}
	return nil
}

func (s *State) checkActor(seat Seat) error {
	if !seat.Valid() {
		return ErrInvalidSeat
	}
	if s.Finished() {
		return ErrFinished
	}
	if seat != s.TurnSeat {
		return ErrNotYourTurn
	}
	return nil
}

// Roll rerolls the unheld dice of the acting seat.
func (s *State) Roll(seat Seat, r dice.Roller) error {
	if err := s.checkActor(seat); err != nil {
		return err
	}
	if s.RollsUsed >= MaxRolls {
		return ErrNoRollsLeft
	}
	s.Dice = dice.Roll(s.Dice, s.Holds, r)
	s.RollsUsed++
	s.Phase = PhaseScoring
	return nil
}

// ToggleHold flips the hold flag of one die.
func (s *State) ToggleHold(seat Seat, index int) error {
	if err := s.checkActor(seat); err != nil {
		return err
	}
	if s.RollsUsed == 0 {
		return ErrNotRolled
	}
	if index < 0 || index >= len(s.Holds) {
		return ErrInvalidHold
	}
	s.Holds[index] = !s.Holds[index]
	return nil
}

// SetHolds replaces the whole hold mask. Clearing holds is always allowed;
// holding a die requires a roll this turn.
func (s *State) SetHolds(seat Seat, holds dice.HoldMask) error {
	if err := s.checkActor(seat); err != nil {
		return err
	}
	if s.RollsUsed == 0 && holds.Count() > 0 {
		return ErrNotRolled
	}
	s.Holds = holds
	return nil
}

// Lock scores the current dice in category for the acting seat and passes
// the turn. It returns the locked score.
func (s *State) Lock(seat Seat, category dice.Category) (int, error) {
	if err := s.checkActor(seat); err != nil {
		return 0, err
	}
	if !category.Valid() {
		return 0, ErrUnknownCategory
	}
	if s.RollsUsed < 1 {
		return 0, ErrNotRolled
	}
	card := s.Card(seat)
	if _, filled := card.Locked(category); filled {
		return 0, ErrCategoryFilled
	}

	score := dice.Score(s.Dice, category)
	card[category] = score
	if s.Scored == nil {
		s.Scored = map[Seat][]dice.Category{}
	}
	s.Scored[seat] = append(s.Scored[seat], category)
	s.advance()
	return score, nil
}

func (s *State) advance() {
	s.RollsUsed = 0
	s.Holds = dice.HoldMask{}
	if s.Card(Seat1).Complete() && s.Card(Seat2).Complete() {
		s.Phase = PhaseFinished
		return
	}
	s.TurnSeat = s.TurnSeat.Other()
	s.TurnNo++
	s.Dice = dice.InitialDice()
	s.Phase = PhaseRolling
}
