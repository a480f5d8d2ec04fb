package reward

import (
	"testing"

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

func TestBlockRewardTailEmissionFloor(t *testing.T) {
	p := mustBuild(t, params.NewBuilder().
		MoneySupply(^uint64(0)).
		EmissionSpeedFactor(64).
		TailEmissionReward(1000).
		BlockGrantedFullRewardZone(100000).
		DifficultyTarget(120).
		UpgradeHeightV2(0))

	e := New(p)
	alreadyGenerated := p.MoneySupply - 1

	res, err := e.BlockReward(2, 0, 0, alreadyGenerated, 50, 1000, 120)
	if err != nil {
		t.Fatalf("BlockReward: %v", err)
	}
	if res.Reward != 1000+50 {
		t.Fatalf("reward = %d, want %d (tail emission floor + fee)", res.Reward, 1000+50)
	}
}

func TestBlockRewardTooLarge(t *testing.T) {
	p := mustBuild(t, params.NewBuilder().
		MoneySupply(1_000_000).
		EmissionSpeedFactor(20).
		TailEmissionReward(1).
		BlockGrantedFullRewardZone(1000).
		DifficultyTarget(120).
		UpgradeHeightV2(0))

	e := New(p)
	_, err := e.BlockReward(2, 1000, 3000, 0, 0, 1, 120)
	if err == nil {
		t.Fatalf("expected BlockTooLarge error")
	}
}

func TestBlockRewardSizePenaltyReducesReward(t *testing.T) {
	p := mustBuild(t, params.NewBuilder().
		MoneySupply(1_000_000_000).
		EmissionSpeedFactor(20).
		TailEmissionReward(1).
		BlockGrantedFullRewardZone(1000).
		DifficultyTarget(120).
		UpgradeHeightV2(0))

	e := New(p)

	full, err := e.BlockReward(2, 1000, 1000, 0, 0, 1, 120)
	if err != nil {
		t.Fatalf("BlockReward full: %v", err)
	}

	penalized, err := e.BlockReward(2, 1000, 1500, 0, 0, 1, 120)
	if err != nil {
		t.Fatalf("BlockReward penalized: %v", err)
	}

	if penalized.Reward >= full.Reward {
		t.Fatalf("penalized reward %d should be less than full reward %d", penalized.Reward, full.Reward)
	}
}

func TestConsistencyFactorNeutralBeforeV2(t *testing.T) {
	p := mustBuild(t, params.NewBuilder().
		MoneySupply(1_000_000_000).
		EmissionSpeedFactor(20).
		TailEmissionReward(1).
		BlockGrantedFullRewardZone(1000).
		DifficultyTarget(120).
		UpgradeHeightV2(1000))

	e := New(p)
	if c := e.consistencyFactor(0, 240); c != 1.0 {
		t.Fatalf("consistency factor before v2 should be neutral, got %f", c)
	}
}

func TestGovernanceRewardZeroOnGenesis(t *testing.T) {
	p := mustBuild(t, params.NewBuilder().
		MoneySupply(1_000_000_000).
		EmissionSpeedFactor(20).
		TailEmissionReward(1).
		BlockGrantedFullRewardZone(1000).
		DifficultyTarget(120).
		UpgradeHeightV2(0).
		GovernancePercent(10).
		GovernanceWindow(0, 1000))

	e := New(p)
	if got := e.GovernanceReward(0, 0, 5000); got != 0 {
		t.Fatalf("governance reward at genesis should be zero, got %d", got)
	}
	if got := e.GovernanceReward(1, 100, 5000); got != 500 {
		t.Fatalf("governance reward = %d, want 500", got)
	}
}
