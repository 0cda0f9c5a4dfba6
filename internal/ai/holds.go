package ai

import (
	"slices"

	"github.com/songowen/duelboard/internal/dice"
)

var straightRuns = [][]int{
	{1, 2, 3, 4},
	{2, 3, 4, 5},
	{3, 4, 5, 6},
}

// mostFrequentFace returns the face shown most often, higher face on ties.
func mostFrequentFace(d dice.Dice) int {
	counts := d.Counts()
	best := 6
	for face := 5; face >= 1; face-- {
		if counts[face] > counts[best] {
			best = face
		}
	}
	return best
}

func holdFaces(d dice.Dice, keep func(face int) bool) dice.HoldMask {
	var holds dice.HoldMask
	for i, face := range d {
		holds[i] = keep(face)
	}
	return holds
}

// setHolds keeps every die matching the most frequent face.
func setHolds(d dice.Dice) dice.HoldMask {
	face := mostFrequentFace(d)
	return holdFaces(d, func(f int) bool { return f == face })
}

// straightHolds keeps the dice belonging to the 4-run that the roll covers
// best. Duplicates of a run face are kept too.
func straightHolds(d dice.Dice) dice.HoldMask {
	counts := d.Counts()
	best, bestCovered := straightRuns[0], 0
	for _, run := range straightRuns {
		covered := 0
		for _, face := range run {
			if counts[face] > 0 {
				covered++
			}
		}
		if covered > bestCovered {
			best, bestCovered = run, covered
		}
	}
	return holdFaces(d, func(f int) bool { return slices.Contains(best, f) })
}

func hasAny(available []dice.Category, wanted ...dice.Category) bool {
	for _, c := range wanted {
		if slices.Contains(available, c) {
			return true
		}
	}
	return false
}

// normalHolds chooses what to keep for the next roll, chasing straights
// first, then sets, then the best open upper-section face.
func normalHolds(d dice.Dice, card dice.ScoreCard, tuning TierTuning) dice.HoldMask {
	available := dice.AvailableCategories(card)

	if hasAny(available, dice.SmallStraight, dice.LargeStraight) {
		holds := straightHolds(d)
		if holds.Count() >= tuning.MinStraightHolds {
			return holds
		}
	}

	if hasAny(available, dice.Yacht, dice.FourOfAKind, dice.FullHouse) {
		holds := setHolds(d)
		if holds.Count() >= tuning.MinSetHolds {
			return holds
		}
	}

	bestFace, bestScore := 0, -1
	for face := 1; face <= 6; face++ {
		c, _ := dice.UpperCategory(face)
		if !slices.Contains(available, c) {
			continue
		}
		if score := dice.Score(d, c); score > bestScore {
			bestFace, bestScore = face, score
		}
	}
	if bestFace > 0 {
		return holdFaces(d, func(f int) bool { return f == bestFace })
	}

	if slices.Contains(available, dice.Choice) {
		return holdFaces(d, func(f int) bool { return f >= tuning.ChoiceHoldFrom })
	}
	return dice.HoldMask{}
}
