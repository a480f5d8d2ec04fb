package difficulty

import (
	"testing"

	"git.gammaspectra.live/P2Pool/consensuscore/cryptonote/params"
	"git.gammaspectra.live/P2Pool/consensuscore/cryptonote/types"
)

func mustBuild(t *testing.T, b *params.Builder) *params.ConsensusParameters {
	t.Helper()
	p, err := b.Build()
	if err != nil {
		t.Fatalf("build params: %v", err)
	}
	return p
}

type zeroStats struct{}

func (zeroStats) Mean(StatPeriod, uint64) uint64 { return 0 }

func TestCLIFHalvesToExpectedResult(t *testing.T) {
	p := mustBuild(t, params.NewBuilder().
		DifficultyTarget(120).
		ClifThreshold(600).
		DefaultDifficulty(1).
		DifficultyWindow(2, 0, 0))

	e := New(p)
	got := e.clif(1_000_000, 900, 0, zeroStats{})
	if got != 125_000 {
		t.Fatalf("clif: got %d, want 125000", got)
	}
}

func TestCLIFNoOpBelowDefault(t *testing.T) {
	p := mustBuild(t, params.NewBuilder().
		DifficultyTarget(120).
		ClifThreshold(600).
		DefaultDifficulty(1_000_000).
		DifficultyWindow(2, 0, 0))

	e := New(p)
	got := e.clif(1_000_000, 900, 0, zeroStats{})
	if got != 1_000_000 {
		t.Fatalf("clif should be a no-op at/below default difficulty, got %d", got)
	}
}

func TestV2StableWindowReturnsPreviousDifficulty(t *testing.T) {
	p := mustBuild(t, params.NewBuilder().
		DifficultyTarget(120).
		DefaultDifficulty(1000).
		UpgradeHeightV2(0).
		DifficultyWindow(2, 0, 0))

	e := New(p)

	const window = 10
	timestamps := make([]uint64, window+1)
	cumulative := make([]types.Difficulty, window+1)
	prevDifficulty := uint64(500_000)
	for i := 0; i <= window; i++ {
		timestamps[i] = uint64(i) * 120
		cumulative[i] = types.DifficultyFrom64(uint64(i) * prevDifficulty)
	}

	got := e.v2(uint64(window), timestamps, cumulative)
	want := prevDifficulty
	if got != want {
		t.Fatalf("v2 stable window: got %d, want max(%d, default)", got, want)
	}
}

func TestV1ReturnsOneWithFewSamples(t *testing.T) {
	p := mustBuild(t, params.NewBuilder().
		DifficultyTarget(120).
		DefaultDifficulty(1).
		DifficultyWindow(5, 0, 0))
	e := New(p)

	got := e.v1([]uint64{100}, []types.Difficulty{types.DifficultyFrom64(0)})
	if got != 1 {
		t.Fatalf("v1 with <2 samples should return 1, got %d", got)
	}
}
