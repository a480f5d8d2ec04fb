package types

import (
	"math"
	"math/bits"

	"lukechampine.com/uint128"

	"git.gammaspectra.live/P2Pool/consensuscore/crypto"
)

// DifficultyFromPoW converts a proof-of-work hash into the difficulty it
// satisfies: max_uint128 / high_128_bits(hash). A zero hash maps to zero
// difficulty rather than dividing by zero.
func DifficultyFromPoW(pow crypto.Hash) Difficulty {
	if pow == crypto.ZeroHash {
		return ZeroDifficulty
	}
	return Difficulty(uint128.Max.Div(uint128.FromBytes(pow[16:])))
}

func (d Difficulty) CheckPoW(pow crypto.Hash) bool {
	return DifficultyFromPoW(pow).Cmp(d) >= 0
}

// Target returns the 64-bit mining target (2^64 / difficulty), rounded up.
// A full check against a hash should still go through CheckPoW; Target is
// an approximation useful for reporting.
func (d Difficulty) Target() uint64 {
	if d.Hi > 0 {
		return 1
	}
	if d.Lo <= 1 {
		return math.MaxUint64
	}
	q, rem := bits.Div64(1, 0, d.Lo)
	if rem > 0 {
		return q + 1
	}
	return q
}
