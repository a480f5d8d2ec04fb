package fusion

import (
	"testing"

	"git.gammaspectra.live/P2Pool/consensuscore/cryptonote/amount"
	"git.gammaspectra.live/P2Pool/consensuscore/cryptonote/params"
)

func mustBuild(t *testing.T, b *params.Builder) *params.ConsensusParameters {
	t.Helper()
	p, err := b.Build()
	if err != nil {
		t.Fatalf("build params: %v", err)
	}
	return p
}

func testParams(t *testing.T) *params.ConsensusParameters {
	return mustBuild(t, params.NewBuilder().
		MoneySupply(1_000_000_000_000).
		EmissionSpeedFactor(20).
		TailEmissionReward(1).
		BlockGrantedFullRewardZone(100000).
		DifficultyTarget(120).
		UpgradeHeightV2(1000).
		FusionTxMinInputCount(12).
		FusionTxMinInOutRatio(4).
		DefaultDustThreshold(1000000))
}

func TestIsFusionAcceptsExactDecomposition(t *testing.T) {
	p := testParams(t)
	c := New(p)

	inputs := make([]uint64, 12)
	var sum uint64
	for i := range inputs {
		inputs[i] = 2000000
		sum += inputs[i]
	}

	outputs := amount.Decompose(sum, p.DefaultDustThreshold)

	if !c.IsFusion(inputs, outputs, 1000, 500) {
		t.Fatalf("expected valid fusion transaction to be accepted")
	}
}

func TestIsFusionRejectsTooFewInputs(t *testing.T) {
	p := testParams(t)
	c := New(p)

	inputs := []uint64{2000000, 2000000, 2000000}
	outputs := amount.Decompose(6000000, p.DefaultDustThreshold)

	if c.IsFusion(inputs, outputs, 1000, 500) {
		t.Fatalf("expected fusion rejection for too few inputs")
	}
}

func TestIsFusionRejectsWrongOutputs(t *testing.T) {
	p := testParams(t)
	c := New(p)

	inputs := make([]uint64, 12)
	var sum uint64
	for i := range inputs {
		inputs[i] = 2000000
		sum += inputs[i]
	}

	if c.IsFusion(inputs, []uint64{sum}, 1000, 500) {
		t.Fatalf("expected fusion rejection when outputs are not the canonical decomposition")
	}
}

func TestIsFusionRejectsOversizedTx(t *testing.T) {
	p := testParams(t)
	c := New(p)

	inputs := make([]uint64, 12)
	var sum uint64
	for i := range inputs {
		inputs[i] = 2000000
		sum += inputs[i]
	}
	outputs := amount.Decompose(sum, p.DefaultDustThreshold)

	if c.IsFusion(inputs, outputs, p.FusionTxMaxSize+1, 500) {
		t.Fatalf("expected fusion rejection for oversized transaction")
	}
}

func TestApproximateMaxInputCount(t *testing.T) {
	p := testParams(t)
	c := New(p)

	got := c.ApproximateMaxInputCount(10000, 2, 10)
	if got == 0 {
		t.Fatalf("expected a nonzero input count estimate")
	}
}
