// Package dice supplies the randomness consumed by level generation.
//
// Every random decision flows through a Source so that a seeded Source
// reproduces a level exactly.
package dice

import (
	"crypto/rand"
	"fmt"
	"math/big"
	mrand "math/rand"
)

// Source abstracts a stream of random integers.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// seededSource is a deterministic Source over math/rand.
//
// Invariant: two seededSources built from the same seed yield identical
// sequences for identical call sequences.
type seededSource struct {
	rng *mrand.Rand
}

// NewSeededSource returns a deterministic Source for seed.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewSeededSource(seed int64) Source {
	return &seededSource{rng: mrand.New(mrand.NewSource(seed))}
}

// Intn returns a pseudo-random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	return s.rng.Intn(n)
}

// cryptoSource implements Source using crypto/rand.
type cryptoSource struct{}

// NewCryptoSource returns a non-reproducible Source backed by crypto/rand.
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
//
// Precondition: n > 0. Panics if n <= 0 or if crypto/rand fails.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// RandomSeed draws a seed from crypto/rand for callers that were not given one.
func RandomSeed() int64 {
	val, err := rand.Int(rand.Reader, big.NewInt(1<<62))
	if err != nil {
		panic(fmt.Sprintf("dice: crypto/rand failure: %v", err))
	}
	return val.Int64() + 1
}

// Range returns a uniformly distributed int in the half-open interval [lo, hi).
//
// Precondition: hi > lo. Panics naming the empty interval otherwise.
// Postcondition: lo <= result < hi.
func Range(src Source, lo, hi int) int {
	if hi <= lo {
		panic(fmt.Sprintf("dice: Range called with empty interval [%d, %d)", lo, hi))
	}
	return lo + src.Intn(hi-lo)
}
