package params

import "testing"

func TestBuilderValidatesEmissionSpeedFactor(t *testing.T) {
	_, err := NewBuilder().EmissionSpeedFactor(0).Build()
	if err == nil {
		t.Fatalf("expected validation error for emission speed factor 0")
	}
}

func TestBuilderValidatesDifficultyWindow(t *testing.T) {
	_, err := NewBuilder().DifficultyWindow(5, 3, 0).Build()
	if err == nil {
		t.Fatalf("expected validation error for cut too large relative to window")
	}
}

func TestBuildDerivesFusionMaxSizeAndPrettyAmounts(t *testing.T) {
	p, err := NewBuilder().
		BlockGrantedFullRewardZone(100000).
		MoneySupply(1000).
		NumberOfDecimalPlaces(2).
		UpgradeVotingThreshold(60).
		UpgradeWindow(100).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if want := uint64(100000) * 30 / 100; p.FusionTxMaxSize != want {
		t.Fatalf("FusionTxMaxSize = %d, want %d", p.FusionTxMaxSize, want)
	}
	if p.Coin != 100 {
		t.Fatalf("Coin = %d, want 100", p.Coin)
	}
	if len(p.PrettyAmounts) == 0 {
		t.Fatalf("expected nonempty PrettyAmounts")
	}
	last := p.PrettyAmounts[len(p.PrettyAmounts)-1]
	if last > p.MoneySupply {
		t.Fatalf("largest pretty amount %d exceeds money supply %d", last, p.MoneySupply)
	}
}

func TestTestnetOverridesApply(t *testing.T) {
	p, err := NewBuilder().
		BlockGrantedFullRewardZone(1000).
		MoneySupply(1000).
		NumberOfDecimalPlaces(0).
		UpgradeVotingThreshold(60).
		UpgradeWindow(100).
		Testnet(true).
		Filenames(Filenames{Blocks: "blocks.dat"}).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if p.UpgradeHeightV2 != 100 {
		t.Fatalf("testnet UpgradeHeightV2 = %d, want 100", p.UpgradeHeightV2)
	}
	if p.Filenames.Blocks != "testnet_blocks.dat" {
		t.Fatalf("testnet filename = %q, want prefixed", p.Filenames.Blocks)
	}
}

func TestGovernanceEnabledWindow(t *testing.T) {
	p, err := NewBuilder().
		BlockGrantedFullRewardZone(1000).
		MoneySupply(1000).
		NumberOfDecimalPlaces(0).
		UpgradeVotingThreshold(60).
		UpgradeWindow(100).
		GovernanceWindow(10, 20).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if p.GovernanceEnabled(5) || p.GovernanceEnabled(25) {
		t.Fatalf("governance window should exclude heights outside [10,20]")
	}
	if !p.GovernanceEnabled(15) {
		t.Fatalf("governance window should include height 15")
	}
}
