// Package entropy constructs the random sources the engine runs on.
// All analysis and placement randomness is injected from here, never pulled
// from ambient global state, so a fixed seed replays identical results.
package entropy

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
)

// NewSource returns a deterministic random source for the given seed.
// Sources are not safe for concurrent use; give each call chain its own.
func NewSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// RandomSeed draws a fresh seed from crypto/rand. Used when the caller
// passes seed 0, meaning "surprise me".
func RandomSeed() int64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		// crypto/rand read failure is effectively unreachable; fall back to
		// a fixed seed rather than panicking inside a library.
		return 1
	}
	seed := int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
	if seed == 0 {
		seed = 1
	}
	return seed
}
