package dice

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/big"
	"math/rand/v2"
)

type cryptoSource struct{}

// NewCryptoSource returns a non-reproducible Source backed by crypto/rand.
func NewCryptoSource() Source {
	return cryptoSource{}
}

func (cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := crand.Int(crand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// seededSource is a deterministic PCG stream. Two sources built from the same
// seed produce the same sequence.
type seededSource struct {
	seed uint64
	rng  *rand.Rand
}

// NewSeededSource returns a deterministic Source for seed.
//
// Postcondition: the sequence of Intn results depends only on seed and the
// sequence of n arguments.
func NewSeededSource(seed uint64) Source {
	return &seededSource{seed: seed, rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	return s.rng.IntN(n)
}

// Seed returns the seed a source was built with, or false for non-seeded sources.
func Seed(src Source) (uint64, bool) {
	if s, ok := src.(*seededSource); ok {
		return s.seed, true
	}
	return 0, false
}

// NewSeed draws a fresh seed from crypto/rand for a battle whose seed was not
// configured, so the battle can still be replayed from the logged value.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("reading random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}
