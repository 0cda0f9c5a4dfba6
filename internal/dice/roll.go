package dice

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sync"
)

// Roller draws uniform integers in [0,n). *rand.Rand satisfies it.
type Roller interface {
	Intn(n int) int
}

// Roll rerolls every die whose hold flag is false. Held dice keep their face.
func Roll(current Dice, holds HoldMask, r Roller) Dice {
	next := current
	for i := range next {
		if holds[i] {
			continue
		}
		next[i] = r.Intn(6) + 1
	}
	return next
}

type lockedRoller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (l *lockedRoller) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Intn(n)
}

// NewRoller returns a Roller seeded with seed that is safe for concurrent use.
func NewRoller(seed int64) Roller {
	return &lockedRoller{rng: rand.New(rand.NewSource(seed))}
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
