package coinbase

import (
	"testing"

	"git.gammaspectra.live/P2Pool/consensuscore/crypto"
	"git.gammaspectra.live/P2Pool/consensuscore/cryptonote/params"
	"git.gammaspectra.live/P2Pool/consensuscore/cryptonote/reward"
)

// fakeDeriver is a deterministic, non-cryptographic stand-in for the real
// scalar/point arithmetic behind crypto.StealthDeriver: it derives an output
// key by XOR-folding the derivation, output index and spend key together, so
// two calls with the same inputs always agree and different inputs (almost)
// never collide, without needing an actual elliptic-curve implementation in
// tests.
type fakeDeriver struct {
	nextSecret byte
}

func (f *fakeDeriver) GenerateKeyDerivation(txPublicKey crypto.PublicKey, viewSecretKey crypto.SecretKey) (crypto.KeyDerivation, bool) {
	var d crypto.KeyDerivation
	for i := range d {
		d[i] = txPublicKey[i] ^ viewSecretKey[i]
	}
	return d, true
}

func (f *fakeDeriver) DerivePublicKey(derivation crypto.KeyDerivation, outputIndex uint64, spendPublicKey crypto.PublicKey) (crypto.PublicKey, bool) {
	var k crypto.PublicKey
	for i := range k {
		k[i] = derivation[i] ^ spendPublicKey[i] ^ byte(outputIndex)
	}
	return k, true
}

func (f *fakeDeriver) GenerateKeyPair() (crypto.KeyPair, error) {
	f.nextSecret++
	var kp crypto.KeyPair
	kp.SecretKey[0] = f.nextSecret
	kp.PublicKey[0] = f.nextSecret ^ 0xFF
	return kp, nil
}

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
		UpgradeHeightV2(0).
		MinedMoneyUnlockWindow(60))
}

func TestConstructMinerTxSumsMatchReward(t *testing.T) {
	p := testParams(t)
	b := New(p, &fakeDeriver{})

	miner := crypto.AccountAddress{SpendPublicKey: crypto.PublicKey{1}, ViewPublicKey: crypto.PublicKey{2}}

	tx, err := b.ConstructMinerTx(Request{
		MajorVersion: 2,
		Height:       100,
		MinerAddress: miner,
		MaxOuts:      8,
		Fee:          500,
		BlockTarget:  120,
	})
	if err != nil {
		t.Fatalf("ConstructMinerTx: %v", err)
	}
	if len(tx.Outputs) == 0 {
		t.Fatalf("expected at least one output")
	}
	if tx.SumOutputs() == 0 {
		t.Fatalf("expected nonzero output sum")
	}
	want, err := reward.New(p).BlockReward(2, 0, 0, 0, 500, 100, 120)
	if err != nil {
		t.Fatalf("BlockReward: %v", err)
	}
	if tx.SumOutputs() != want.Reward {
		t.Fatalf("output sum = %d, want reward %d", tx.SumOutputs(), want.Reward)
	}
	if tx.UnlockTime != 100+uint64(p.MinedMoneyUnlockWindow) {
		t.Fatalf("unlock time = %d, want %d", tx.UnlockTime, 100+uint64(p.MinedMoneyUnlockWindow))
	}
}

func TestConstructMinerTxRejectsZeroMaxOuts(t *testing.T) {
	p := testParams(t)
	b := New(p, &fakeDeriver{})
	miner := crypto.AccountAddress{SpendPublicKey: crypto.PublicKey{1}, ViewPublicKey: crypto.PublicKey{2}}

	_, err := b.ConstructMinerTx(Request{MinerAddress: miner, MaxOuts: 0})
	if err == nil {
		t.Fatalf("expected error for max_outs < 1")
	}
}

func TestConstructMinerTxWithGovernanceSplitsReward(t *testing.T) {
	p := mustBuild(t, params.NewBuilder().
		MoneySupply(1_000_000_000_000).
		EmissionSpeedFactor(20).
		TailEmissionReward(1).
		BlockGrantedFullRewardZone(100000).
		DifficultyTarget(120).
		UpgradeHeightV2(0).
		MinedMoneyUnlockWindow(60).
		GovernancePercent(10).
		GovernanceWindow(1, 1000))

	b := New(p, &fakeDeriver{})
	miner := crypto.AccountAddress{SpendPublicKey: crypto.PublicKey{1}, ViewPublicKey: crypto.PublicKey{2}}
	gov := crypto.AccountAddress{SpendPublicKey: crypto.PublicKey{3}, ViewPublicKey: crypto.PublicKey{4}}
	b.SetGovernanceAddress(gov, crypto.SecretKey{9})

	tx, err := b.ConstructMinerTx(Request{
		MajorVersion:          2,
		Height:                10,
		AlreadyGeneratedCoins: 1,
		MinerAddress:          miner,
		MaxOuts:               8,
		BlockTarget:           120,
	})
	if err != nil {
		t.Fatalf("ConstructMinerTx: %v", err)
	}
	if tx.SumOutputs() == 0 {
		t.Fatalf("expected nonzero reward")
	}
	govAmount := tx.Outputs[len(tx.Outputs)-1].Amount
	if want := p.GovernanceReward(tx.SumOutputs()); len(tx.Outputs) < 2 || govAmount != want {
		t.Fatalf("governance output = %d (of %d outputs), want %d", govAmount, len(tx.Outputs), want)
	}
}
