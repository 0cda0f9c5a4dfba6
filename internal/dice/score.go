package dice

import (
	"encoding/json"
	"slices"
)

const (
	SmallStraightScore = 15
	LargeStraightScore = 30
	YachtScore         = 50
)

// Dice holds the five faces of a roll, each in [1,6].
type Dice [5]int

// HoldMask marks the dice kept across a reroll, parallel to Dice.
type HoldMask [5]bool

// InitialDice is the unrolled state every turn starts from.
func InitialDice() Dice {
	return Dice{1, 1, 1, 1, 1}
}

func (d Dice) Valid() bool {
	for _, face := range d {
		if face < 1 || face > 6 {
			return false
		}
	}
	return true
}

func (d Dice) Sum() int {
	total := 0
	for _, face := range d {
		total += face
	}
	return total
}

// Counts returns the number of dice showing each face, indexed by face value.
func (d Dice) Counts() [7]int {
	var counts [7]int
	for _, face := range d {
		if face >= 1 && face <= 6 {
			counts[face]++
		}
	}
	return counts
}

func (h HoldMask) Count() int {
	n := 0
	for _, held := range h {
		if held {
			n++
		}
	}
	return n
}

var smallRuns = [][]int{
	{1, 2, 3, 4},
	{2, 3, 4, 5},
	{3, 4, 5, 6},
}

func isSmallStraight(counts [7]int) bool {
	for _, run := range smallRuns {
		matched := true
		for _, face := range run {
			if counts[face] == 0 {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}

func isLargeStraight(counts [7]int) bool {
	distinct := 0
	for face := 1; face <= 6; face++ {
		if counts[face] > 1 {
			return false
		}
		distinct += counts[face]
	}
	if distinct != 5 {
		return false
	}
	// five distinct faces out of six: a run unless the gap is in the middle
	return counts[1] == 0 || counts[6] == 0
}

// Score computes what the dice are worth in the given category. Unknown
// categories score 0.
func Score(d Dice, c Category) int {
	counts := d.Counts()
	if face, ok := c.Face(); ok {
		return counts[face] * face
	}

	maxCount := slices.Max(counts[1:])
	switch c {
	case Choice:
		return d.Sum()
	case FourOfAKind:
		if maxCount >= 4 {
			return d.Sum()
		}
	case FullHouse:
		nonzero := make([]int, 0, 2)
		for _, n := range counts[1:] {
			if n > 0 {
				nonzero = append(nonzero, n)
			}
		}
		slices.Sort(nonzero)
		if slices.Equal(nonzero, []int{2, 3}) {
			return d.Sum()
		}
	case SmallStraight:
		if isSmallStraight(counts) {
			return SmallStraightScore
		}
	case LargeStraight:
		if isLargeStraight(counts) {
			return LargeStraightScore
		}
	case Yacht:
		if maxCount == 5 {
			return YachtScore
		}
	}
	return 0
}

// ScoreCard maps each locked category to its score. A category absent from
// the map is unfilled.
type ScoreCard map[Category]int

func NewScoreCard() ScoreCard {
	return ScoreCard{}
}

func (c ScoreCard) Locked(cat Category) (int, bool) {
	score, ok := c[cat]
	return score, ok
}

func (c ScoreCard) Complete() bool {
	for _, cat := range Categories {
		if _, ok := c[cat]; !ok {
			return false
		}
	}
	return true
}

func (c ScoreCard) Clone() ScoreCard {
	out := make(ScoreCard, len(c))
	for cat, score := range c {
		out[cat] = score
	}
	return out
}

// MarshalJSON writes all twelve categories, unfilled ones as null.
func (c ScoreCard) MarshalJSON() ([]byte, error) {
	out := make(map[Category]*int, len(Categories))
	for _, cat := range Categories {
		if score, ok := c[cat]; ok {
			out[cat] = &score
		} else {
			out[cat] = nil
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON drops null values and unknown category keys.
func (c *ScoreCard) UnmarshalJSON(data []byte) error {
	var raw map[Category]*int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	card := make(ScoreCard, len(raw))
	for cat, score := range raw {
		if score == nil || !cat.Valid() {
			continue
		}
		card[cat] = *score
	}
	*c = card
	return nil
}

// Total sums the locked scores; unfilled categories count as 0.
func Total(card ScoreCard) int {
	total := 0
	for _, cat := range Categories {
		total += card[cat]
	}
	return total
}

// AvailableCategories returns the unfilled categories in canonical order.
func AvailableCategories(card ScoreCard) []Category {
	available := make([]Category, 0, len(Categories))
	for _, cat := range Categories {
		if _, ok := card[cat]; !ok {
			available = append(available, cat)
		}
	}
	return available
}

// LockedCategories returns the filled categories in canonical order.
func LockedCategories(card ScoreCard) []Category {
	locked := make([]Category, 0, len(card))
	for _, cat := range Categories {
		if _, ok := card[cat]; ok {
			locked = append(locked, cat)
		}
	}
	return locked
}

// BestCategory picks the available category with the highest score for the
// dice. Equal scores are resolved by the position in tieBreak, earlier wins;
// categories missing from tieBreak lose ties. ok is false when the card is
// complete.
func BestCategory(d Dice, card ScoreCard, tieBreak []Category) (best Category, score int, ok bool) {
	score = -1
	rank := func(c Category) int {
		if i := slices.Index(tieBreak, c); i >= 0 {
			return i
		}
		return len(tieBreak)
	}
	for _, cat := range AvailableCategories(card) {
		s := Score(d, cat)
		if s > score || (s == score && rank(cat) < rank(best)) {
			best, score, ok = cat, s, true
		}
	}
	if !ok {
		return "", 0, false
	}
	return best, score, true
}

// Preview returns the score each unfilled category would receive for the
// dice, as shown next to the score card before a category is chosen.
func Preview(d Dice, card ScoreCard) map[Category]int {
	out := make(map[Category]int)
	for _, cat := range AvailableCategories(card) {
		out[cat] = Score(d, cat)
	}
	return out
}
