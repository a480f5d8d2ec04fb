// Package amount implements AmountCodec: formatting, parsing and canonical
// decomposition of integer coin amounts, grounded on the teacher's
// consensus/utils/units.go (XMRUnits) and consensus/utils/number.go
// (ParseUint64) for the string-handling style, and on
// original_source/lib/CryptoNoteCore/Currency.cpp's formatAmount/parseAmount/
// decompose_amount_into_digits for the exact algorithms.
package amount

import (
	"sort"
	"strings"

	"github.com/dolthub/swiss"
	"github.com/valyala/bytebufferpool"

	"git.gammaspectra.live/P2Pool/consensuscore/cryptonote/params"
)

// Codec formats and parses decimal amounts against a fixed
// NumberOfDecimalPlaces, and holds a swiss-table index of PrettyAmounts for
// O(1) fusion-eligibility membership tests.
type Codec struct {
	decimals uint8
	pretty   []uint64
	prettySet *swiss.Map[uint64, int] // amount -> index in pretty, for is_applicable_input
}

func New(p *params.ConsensusParameters) *Codec {
	c := &Codec{
		decimals: p.NumberOfDecimalPlaces,
		pretty:   p.PrettyAmounts,
	}
	c.prettySet = swiss.NewMap[uint64, int](uint32(len(p.PrettyAmounts)))
	for i, v := range p.PrettyAmounts {
		c.prettySet.Put(v, i)
	}
	return c
}

// Format renders amount as "<integer>.<fraction>" with exactly
// c.decimals fractional digits, zero-padding the integer side so the
// decimal point is never leading. Negative amounts (signed callers) get a
// leading '-'.
func (c *Codec) Format(amount int64) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	u := uint64(amount)
	if amount < 0 {
		buf.WriteByte('-')
		u = uint64(-amount)
	}
	return buf.String() + c.FormatUnsigned(u)
}

// FormatUnsigned is the unsigned-only fast path used by every consensus
// call site (reward outputs are never negative).
func (c *Codec) FormatUnsigned(amount uint64) string {
	s := itoa(amount)
	if c.decimals == 0 {
		return s
	}

	for len(s) < int(c.decimals)+1 {
		s = "0" + s
	}

	split := len(s) - int(c.decimals)
	return s[:split] + "." + s[split:]
}

func itoa(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// Parse reverses Format: whitespace is trimmed, a single '.' is allowed
// with at least one digit on each side of it, trailing fractional zeros beyond the configured precision are trimmed
// before the length check (so "1.500000000" parses against 6 decimals),
// and any other non-digit fails.
func (c *Codec) Parse(s string) (amount uint64, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	dotIdx := strings.IndexByte(s, '.')
	var integerPart, fractionPart string
	if dotIdx < 0 {
		integerPart = s
	} else {
		integerPart = s[:dotIdx]
		fractionPart = s[dotIdx+1:]
		if fractionPart == "" {
			return 0, false
		}
		for len(fractionPart) > int(c.decimals) && strings.HasSuffix(fractionPart, "0") {
			fractionPart = fractionPart[:len(fractionPart)-1]
		}
		if len(fractionPart) > int(c.decimals) {
			return 0, false
		}
	}

	if integerPart == "" {
		return 0, false
	}
	if !allDigits(integerPart) || !allDigits(fractionPart) {
		return 0, false
	}

	for len(fractionPart) < int(c.decimals) {
		fractionPart += "0"
	}

	digits := integerPart + fractionPart
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return 0, true
	}

	var v uint64
	for i := 0; i < len(digits); i++ {
		d := uint64(digits[i] - '0')
		next := v*10 + d
		if next < v {
			return 0, false // overflow
		}
		v = next
	}
	return v, true
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// DecomposeIntoDigits breaks amount into its decimal-digit chunks from
// least to most significant, in that ascending-digit order. A digit chunk
// is folded into a running dust accumulator as long as doing so would not
// push the accumulator past dustThreshold; once a chunk would, that chunk
// is emitted directly via chunkFn instead (the accumulator is left as-is,
// not reset), and the accumulator itself is emitted once, last, via dustFn
// if nonzero. This is decompose_amount_into_digits — the order-preserving
// variant used for coinbase output layout.
func DecomposeIntoDigits(amount, dustThreshold uint64, chunkFn func(chunk uint64), dustFn func(dust uint64)) {
	var dust uint64
	order := uint64(1)
	for amount > 0 {
		digit := amount % 10
		amount /= 10
		chunk := digit * order
		if dust+chunk <= dustThreshold {
			dust += chunk
		} else if chunk != 0 {
			chunkFn(chunk)
		}
		order *= 10
	}
	if dust != 0 {
		dustFn(dust)
	}
}

// Decompose is decomposeAmount — the sorted variant used by fusion
// checking: same digit walk as DecomposeIntoDigits, but the result is
// returned sorted ascending for set-equality comparison against a
// transaction's output amounts.
func Decompose(amount, dustThreshold uint64) []uint64 {
	var out []uint64
	DecomposeIntoDigits(amount, dustThreshold,
		func(chunk uint64) { out = append(out, chunk) },
		func(dust uint64) { out = append(out, dust) },
	)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// IsApplicableInput is is_applicable_input: false if amount is not strictly
// below threshold, below the default dust floor, or not an exact pretty
// amount; otherwise true with the pretty-amount's decade index
// (index / 9).
func (c *Codec) IsApplicableInput(amount, threshold, defaultDustThreshold uint64) (ok bool, powerOfTen int) {
	if amount >= threshold {
		return false, 0
	}
	if amount < defaultDustThreshold {
		return false, 0
	}
	idx, found := c.prettySet.Get(amount)
	if !found {
		return false, 0
	}
	return true, idx / 9
}

// RoundUpMinFee rounds fee up to two significant decimal digits (e.g.
// 123456 -> 130000), matching the rounding Currency.cpp's getMinimalFee
// callers apply before quoting a fee. It leaves amounts with one or zero
// significant digits untouched.
func (c *Codec) RoundUpMinFee(fee uint64) uint64 {
	if fee == 0 {
		return 0
	}
	magnitude := uint64(1)
	v := fee
	for v >= 100 {
		v /= 10
		magnitude *= 10
	}
	if magnitude == 1 {
		return fee
	}
	rounded := v * magnitude
	if rounded < fee {
		rounded += magnitude
	}
	return rounded
}
