package dice

import "fmt"

// Category is one of the twelve score card rows. The string value is the
// wire name stored in the game state payload.
type Category string

const (
	Ones          Category = "ones"
	Twos          Category = "twos"
	Threes        Category = "threes"
	Fours         Category = "fours"
	Fives         Category = "fives"
	Sixes         Category = "sixes"
	Choice        Category = "choice"
	FourOfAKind   Category = "four_kind"
	FullHouse     Category = "full_house"
	SmallStraight Category = "small_straight"
	LargeStraight Category = "large_straight"
	Yacht         Category = "yacht"
)

// Categories lists every category in canonical order.
var Categories = []Category{
	Ones,
	Twos,
	Threes,
	Fours,
	Fives,
	Sixes,
	Choice,
	FourOfAKind,
	FullHouse,
	SmallStraight,
	LargeStraight,
	Yacht,
}

var upperFaces = map[Category]int{
	Ones:   1,
	Twos:   2,
	Threes: 3,
	Fours:  4,
	Fives:  5,
	Sixes:  6,
}

var labels = map[Category]string{
	Ones:          "Ones",
	Twos:          "Twos",
	Threes:        "Threes",
	Fours:         "Fours",
	Fives:         "Fives",
	Sixes:         "Sixes",
	Choice:        "Choice",
	FourOfAKind:   "Four of a Kind",
	FullHouse:     "Full House",
	SmallStraight: "Small Straight",
	LargeStraight: "Large Straight",
	Yacht:         "Yacht",
}

func (c Category) Valid() bool {
	_, ok := labels[c]
	return ok
}

// Face returns the die face counted by an upper-section category.
func (c Category) Face() (int, bool) {
	face, ok := upperFaces[c]
	return face, ok
}

// Label returns the display name, e.g. "Four of a Kind".
func (c Category) Label() string {
	if label, ok := labels[c]; ok {
		return label
	}
	return string(c)
}

// ParseCategory accepts either the wire name ("four_kind") or the display
// name ("Four of a Kind").
func ParseCategory(s string) (Category, error) {
	if c := Category(s); c.Valid() {
		return c, nil
	}
	for c, label := range labels {
		if label == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// UpperCategory returns the upper-section category scoring the given face.
func UpperCategory(face int) (Category, bool) {
	if face < 1 || face > 6 {
		return "", false
	}
	return Categories[face-1], true
}
