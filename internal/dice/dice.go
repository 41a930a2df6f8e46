package dice

import (
	"math/rand"
	"time"
)

const (
	// Faces is the number of sides on a combat die.
	Faces = 6
	// SuccessThreshold is the minimum face value that counts as a success.
	SuccessThreshold = 4
	// CriticalThreshold marks a roll as critical for presentation once the
	// success total reaches it. It never changes the damage arithmetic.
	CriticalThreshold = 5
	// explosionCap bounds runaway chains from repeated maximum faces.
	explosionCap = 64
)

// intner is satisfied by *rand.Rand and by scripted test sources.
type intner interface {
	Intn(n int) int
}

// Roller produces dice pools from a single random source so a battle's
// rolls are reproducible under a fixed seed.
type Roller struct {
	rng intner
}

func NewRoller(seed int64) *Roller {
	return &Roller{rng: rand.New(rand.NewSource(seed))}
}

// NewRollerFrom wraps an existing source; tests inject scripted faces.
func NewRollerFrom(rng intner) *Roller {
	return &Roller{rng: rng}
}

// NewTimeSeededRoller seeds from the wall clock for live battles.
func NewTimeSeededRoller() *Roller {
	return NewRoller(time.Now().UnixNano())
}

// Roll is the transient outcome of one dice pool. It is produced and
// consumed within a single combat resolution and never persisted.
type Roll struct {
	Count      int    `json:"count"`
	Faces      []int  `json:"faces"`
	SuccessFor []bool `json:"success_for"`
	Explosions int    `json:"explosions"`
	Successes  int    `json:"successes"`
}

// Critical reports whether the pool reached the critical success total.
func (r Roll) Critical() bool {
	return r.Successes >= CriticalThreshold
}

// Pool rolls n dice with the standard success threshold.
func (r *Roller) Pool(n int) Roll {
	return r.PoolThreshold(n, SuccessThreshold)
}

// PoolThreshold rolls n dice counting faces at or above threshold as
// successes. A maximum face grants one extra die, recursively, in place
// of its own success; all extra dice score into the same pool.
func (r *Roller) PoolThreshold(n, threshold int) Roll {
	if n < 0 {
		n = 0
	}
	if threshold > Faces+1 {
		threshold = Faces + 1
	}
	roll := Roll{Count: n}
	pending := n
	for pending > 0 {
		pending--
		face := 1 + r.rng.Intn(Faces)
		exploded := face == Faces && roll.Explosions < explosionCap
		success := face >= threshold && !exploded
		roll.Faces = append(roll.Faces, face)
		roll.SuccessFor = append(roll.SuccessFor, success)
		if success {
			roll.Successes++
		}
		if exploded {
			roll.Explosions++
			pending++
		}
	}
	return roll
}
