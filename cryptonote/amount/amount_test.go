package amount

import (
	"reflect"
	"testing"

	"git.gammaspectra.live/P2Pool/consensuscore/cryptonote/params"
)

func testParams(t *testing.T, decimals uint8) *params.ConsensusParameters {
	t.Helper()
	p, err := params.NewBuilder().
		MoneySupply(^uint64(0)).
		NumberOfDecimalPlaces(decimals).
		Build()
	if err != nil {
		t.Fatalf("build params: %v", err)
	}
	return p
}

func TestFormatParseRoundTrip(t *testing.T) {
	c := New(testParams(t, 6))

	if got := c.FormatUnsigned(1_500_000); got != "1.500000" {
		t.Fatalf("format: got %q", got)
	}

	v, ok := c.Parse("1.5")
	if !ok || v != 1_500_000 {
		t.Fatalf("parse 1.5: got %d ok=%v", v, ok)
	}

	if _, ok := c.Parse("0.0000001"); ok {
		t.Fatalf("parse 0.0000001 should fail (too many fractional digits)")
	}

	v, ok = c.Parse(c.FormatUnsigned(1_500_000))
	if !ok || v != 1_500_000 {
		t.Fatalf("round trip: got %d ok=%v", v, ok)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	c := New(testParams(t, 6))
	for _, s := range []string{"", " ", "abc", "1.2.3", ".", "1.", "-1"} {
		if _, ok := c.Parse(s); ok {
			t.Fatalf("parse %q should fail", s)
		}
	}
}

func TestDecomposeIntoDigitsSum(t *testing.T) {
	const amount = 123456789
	var sum uint64
	var chunks []uint64
	DecomposeIntoDigits(amount, 0, func(chunk uint64) {
		chunks = append(chunks, chunk)
		sum += chunk
	}, func(dust uint64) {
		chunks = append(chunks, dust)
		sum += dust
	})
	if sum != amount {
		t.Fatalf("sum = %d, want %d", sum, amount)
	}
	// ascending-magnitude emission order (dust last, but here dust==0)
	want := []uint64{9, 80, 700, 6000, 50000, 400000, 3000000, 20000000, 100000000}
	if !reflect.DeepEqual(chunks, want) {
		t.Fatalf("chunks = %v, want %v", chunks, want)
	}
}

func TestDecomposeIsSorted(t *testing.T) {
	got := Decompose(123456789, 0)
	for i := 1; i < len(got); i++ {
		if got[i-1] > got[i] {
			t.Fatalf("not sorted: %v", got)
		}
	}
}

func TestIsApplicableInput(t *testing.T) {
	c := New(testParams(t, 6))

	ok, power := c.IsApplicableInput(700, 1000, 0)
	if !ok || power != 2 {
		t.Fatalf("expected applicable at decade 2, got ok=%v power=%d", ok, power)
	}

	if ok, _ := c.IsApplicableInput(700, 500, 0); ok {
		t.Fatalf("amount >= threshold should be rejected")
	}

	if ok, _ := c.IsApplicableInput(123, 1000, 0); ok {
		t.Fatalf("non-pretty amount should be rejected")
	}
}
