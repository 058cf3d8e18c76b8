package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// cryptoSource implements Source using crypto/rand.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
//
// Postcondition: Every value returned by Float64 is in [0, 1).
func NewCryptoSource() Source {
	return cryptoSource{}
}

// Float64 returns a cryptographically random float in [0, 1).
//
// Panics with "random: crypto/rand failure: <err>" if crypto/rand fails.
func (cryptoSource) Float64() float64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		panic("random: crypto/rand failure: " + err.Error())
	}
	return float64(binary.LittleEndian.Uint64(b[:])>>11) / (1 << 53)
}

// seededSource implements Source with a deterministic PCG generator.
type seededSource struct {
	r *rand.Rand
}

// NewSeededSource returns a deterministic Source; equal seeds yield equal sequences.
func NewSeededSource(seed uint64) Source {
	return &seededSource{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Float64 returns the next value in [0, 1).
func (s *seededSource) Float64() float64 {
	return s.r.Float64()
}
