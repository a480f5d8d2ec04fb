package types

import (
	"errors"
	"io"
	"math"
	"math/big"
	"math/bits"
	"strconv"
	"strings"

	fasthex "github.com/tmthrgd/go-hex"
	"lukechampine.com/uint128"

	"git.gammaspectra.live/P2Pool/consensuscore/internal/numx"
)

const DifficultySize = 16

var ZeroDifficulty = Difficulty(uint128.Zero)
var MaxDifficulty = Difficulty(uint128.Max)

// Difficulty is a 128-bit unsigned accumulator, used both for per-block
// difficulty targets and for cumulative chain work.
type Difficulty uint128.Uint128

func NewDifficulty(lo, hi uint64) Difficulty {
	return Difficulty{Lo: lo, Hi: hi}
}

func DifficultyFrom64(v uint64) Difficulty {
	return NewDifficulty(v, 0)
}

func DifficultyFromBytes(buf []byte) Difficulty {
	return Difficulty(uint128.FromBytesBE(buf))
}

func (d Difficulty) IsZero() bool { return uint128.Uint128(d).IsZero() }

func (d Difficulty) Equals(v Difficulty) bool {
	return uint128.Uint128(d).Equals(uint128.Uint128(v))
}

func (d Difficulty) Cmp(v Difficulty) int {
	if d == v {
		return 0
	} else if d.Hi < v.Hi || (d.Hi == v.Hi && d.Lo < v.Lo) {
		return -1
	}
	return 1
}

func (d Difficulty) Cmp64(v uint64) int {
	return uint128.Uint128(d).Cmp64(v)
}

// Add wraps on overflow, matching how the teacher's cumulative difficulty
// accumulator behaves: a 128-bit rollover is not a code path any real chain
// will ever exercise.
func (d Difficulty) Add(v Difficulty) Difficulty {
	lo, carry := bits.Add64(d.Lo, v.Lo, 0)
	hi, _ := bits.Add64(d.Hi, v.Hi, carry)
	return Difficulty{Lo: lo, Hi: hi}
}

func (d Difficulty) Sub(v Difficulty) Difficulty {
	return Difficulty(uint128.Uint128(d).SubWrap(uint128.Uint128(v)))
}

func (d Difficulty) Mul64(v uint64) Difficulty {
	hi, lo := bits.Mul64(d.Lo, v)
	hi += d.Hi * v
	return Difficulty{Lo: lo, Hi: hi}
}

func (d Difficulty) Div(v Difficulty) Difficulty {
	return Difficulty(uint128.Uint128(d).Div(uint128.Uint128(v)))
}

func (d Difficulty) Div64(v uint64) Difficulty {
	return Difficulty(uint128.Uint128(d).Div64(v))
}

// MulDiv64Ceil computes ceil(d * mul / div) using a 128-bit intermediate
// product, returning ok=false when that product does not fit in 64 bits or
// when the ceiling addition itself overflows 64 bits. This mirrors the overflow-checked
// mul128/ceiling-division step of the legacy (v1) difficulty retarget.
func (d Difficulty) MulDiv64Ceil(mul, div uint64) (result Difficulty, ok bool) {
	hi, lo := bits.Mul64(d.Lo, mul)
	if d.Hi != 0 {
		// d doesn't fit in 64 bits; the only caller of this method passes a
		// a total-work value accumulated from per-block Differences, which
		// fits in 64 bits for any practical chain height. Treat as overflow.
		extraHi, extraLo := bits.Mul64(d.Hi, mul)
		if extraHi != 0 {
			return ZeroDifficulty, false
		}
		var carry uint64
		hi, carry = bits.Add64(hi, extraLo, 0)
		if carry != 0 {
			return ZeroDifficulty, false
		}
	}
	if hi != 0 {
		return ZeroDifficulty, false
	}
	sum, carry := bits.Add64(lo, div-1, 0)
	if carry != 0 {
		return ZeroDifficulty, false
	}
	q, _ := bits.Div64(0, sum, div)
	return DifficultyFrom64(q), true
}

func (d Difficulty) Lsh(n uint) Difficulty {
	return Difficulty(uint128.Uint128(d).Lsh(n))
}

func (d Difficulty) Rsh(n uint) Difficulty {
	return Difficulty(uint128.Uint128(d).Rsh(n))
}

func (d Difficulty) Big() *big.Int {
	return uint128.Uint128(d).Big()
}

func (d Difficulty) Float64() float64 {
	return float64(d.Lo) + float64(d.Hi)*(float64(math.MaxUint64)+1)
}

func (d Difficulty) Bytes() []byte {
	var buf [DifficultySize]byte
	uint128.Uint128(d).PutBytesBE(buf[:])
	return buf[:]
}

func (d Difficulty) String() string {
	return fasthex.EncodeToString(d.Bytes())
}

func (d Difficulty) StringNumeric() string {
	return uint128.Uint128(d).String()
}

func (d Difficulty) MarshalJSON() ([]byte, error) {
	if d.Hi == 0 {
		return []byte(strconv.FormatUint(d.Lo, 10)), nil
	}

	var encodeBuf [DifficultySize]byte
	uint128.Uint128(d).PutBytesBE(encodeBuf[:])

	var buf [DifficultySize*2 + 2]byte
	buf[0] = '"'
	buf[DifficultySize*2+1] = '"'
	fasthex.Encode(buf[1:], encodeBuf[:])
	return buf[:], nil
}

func DifficultyFromString(s string) (Difficulty, error) {
	if strings.HasPrefix(s, "0x") {
		strIn := s[2:]
		if len(strIn)%2 != 0 {
			strIn = "0" + strIn
		}
		buf, err := fasthex.DecodeString(strIn)
		if err != nil {
			return ZeroDifficulty, err
		}
		var d [DifficultySize]byte
		copy(d[DifficultySize-len(buf):], buf)
		return DifficultyFromBytes(d[:]), nil
	}

	buf, err := fasthex.DecodeString(s)
	if err != nil {
		return ZeroDifficulty, err
	}
	if len(buf) != DifficultySize {
		return ZeroDifficulty, errors.New("wrong difficulty size")
	}
	return DifficultyFromBytes(buf), nil
}

func MustDifficultyFromString(s string) Difficulty {
	d, err := DifficultyFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Difficulty) UnmarshalJSON(b []byte) (err error) {
	if len(b) == 0 {
		return io.ErrUnexpectedEOF
	}

	if b[0] == '"' {
		if len(b) < 2 || b[len(b)-1] != '"' {
			return errors.New("invalid bytes")
		}
		if len(b) == DifficultySize*2+2 {
			var buf [DifficultySize]byte
			if _, err = fasthex.Decode(buf[:], b[1:len(b)-1]); err != nil {
				return err
			}
			*d = DifficultyFromBytes(buf[:])
			return nil
		}
		diff, err := DifficultyFromString(string(b[1 : len(b)-1]))
		if err != nil {
			return err
		}
		*d = diff
		return nil
	}

	if d.Lo, err = numx.ParseUint64(b); err != nil {
		if errors.Is(err, strconv.ErrRange) {
			var bInt big.Int
			if err = bInt.UnmarshalText(b); err != nil {
				return err
			}
			if bInt.Sign() < 0 {
				return errors.New("value cannot be negative")
			} else if bInt.BitLen() > 128 {
				return errors.New("value overflows Uint128")
			}
			*d = Difficulty(uint128.FromBig(&bInt))
			return nil
		}
		return err
	}
	d.Hi = 0
	return nil
}
