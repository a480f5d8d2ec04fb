package params

import (
	"git.gammaspectra.live/P2Pool/consensuscore/cryptonote"
)

// Builder assembles a ConsensusParameters value, validating each setter
// eagerly so a misconfiguration fails at the call site that caused it
// rather than silently propagating into block validation. Mirrors
// CurrencyBuilder's per-setter validation style, generalized past a single
// hard-coded network's constant table.
type Builder struct {
	params ConsensusParameters
	err    *cryptonote.Error
}

// NewBuilder starts from zero values; every field meaningful to validation
// must be set explicitly before Build.
func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) fail(format string, args ...any) *Builder {
	if b.err == nil {
		b.err = cryptonote.NewError(cryptonote.InvalidParameter, format, args...)
	}
	return b
}

func (b *Builder) MoneySupply(v uint64) *Builder {
	b.params.MoneySupply = v
	return b
}

// EmissionSpeedFactor must lie in [1, 64]; base reward is derived from a
// right shift by this amount.
func (b *Builder) EmissionSpeedFactor(v uint32) *Builder {
	if v < 1 || v > 64 {
		return b.fail("emission speed factor %d out of range [1, 64]", v)
	}
	b.params.EmissionSpeedFactor = v
	return b
}

func (b *Builder) TailEmissionReward(v uint64) *Builder {
	b.params.TailEmissionReward = v
	return b
}

func (b *Builder) CoinVersion(v uint8) *Builder {
	b.params.CoinVersion = v
	return b
}

func (b *Builder) RewardBlocksWindow(v uint32) *Builder {
	b.params.RewardBlocksWindow = v
	return b
}

func (b *Builder) BlockGrantedFullRewardZone(v uint32) *Builder {
	b.params.BlockGrantedFullRewardZone = v
	return b
}

func (b *Builder) MaxBlockSizeGrowth(initial, num, den uint64) *Builder {
	if den == 0 {
		return b.fail("max block size growth denominator cannot be zero")
	}
	b.params.MaxBlockSizeInitial = initial
	b.params.MaxBlockSizeGrowthNum = num
	b.params.MaxBlockSizeGrowthDen = den
	return b
}

func (b *Builder) MinedMoneyUnlockWindow(v uint32) *Builder {
	b.params.MinedMoneyUnlockWindow = v
	return b
}

func (b *Builder) DifficultyTarget(v uint64) *Builder {
	b.params.DifficultyTarget = v
	return b
}

// DifficultyWindow must be at least 2, and the trimmed region (2*cut) must
// leave at least 2 samples, matching nextDifficultyV1's trim-window guard.
func (b *Builder) DifficultyWindow(window, cut, lag uint32) *Builder {
	if window < 2 {
		return b.fail("difficulty window %d must be >= 2", window)
	}
	if 2*cut > window-2 {
		return b.fail("difficulty cut %d too large for window %d", cut, window)
	}
	b.params.DifficultyWindow = window
	b.params.DifficultyCut = cut
	b.params.DifficultyLag = lag
	return b
}

func (b *Builder) ClifThreshold(v uint64) *Builder {
	b.params.ClifThreshold = v
	return b
}

func (b *Builder) UpgradeHeightV2(v uint32) *Builder {
	b.params.UpgradeHeightV2 = v
	return b
}

func (b *Builder) DefaultDifficulty(v uint64) *Builder {
	b.params.DefaultDifficulty = v
	return b
}

func (b *Builder) FixedDifficulty(v uint64) *Builder {
	b.params.FixedDifficulty = v
	return b
}

func (b *Builder) GovernancePercent(v uint8) *Builder {
	b.params.GovernancePercent = v
	return b
}

func (b *Builder) GovernanceWindow(start, end uint32) *Builder {
	b.params.GovernanceHeightStart = start
	b.params.GovernanceHeightEnd = end
	return b
}

func (b *Builder) GovernanceIdentity(address, viewSecretKey string) *Builder {
	b.params.Governance = GovernanceIdentity{Address: address, ViewSecretKey: viewSecretKey}
	return b
}

func (b *Builder) FusionTxMinInputCount(v uint32) *Builder {
	b.params.FusionTxMinInputCount = v
	return b
}

func (b *Builder) FusionTxMinInOutRatio(v uint32) *Builder {
	b.params.FusionTxMinInOutRatio = v
	return b
}

func (b *Builder) Mixin(min, max uint32) *Builder {
	b.params.MinMixin = min
	b.params.MaxMixin = max
	return b
}

func (b *Builder) MinimumFee(v uint64) *Builder {
	b.params.MinimumFee = v
	return b
}

func (b *Builder) DefaultDustThreshold(v uint64) *Builder {
	b.params.DefaultDustThreshold = v
	return b
}

// NumberOfDecimalPlaces also sets the coin-unit divisor Coin = 10^n,
// computed by repeated multiplication rather than math.Pow to avoid any
// floating-point rounding entering a value consensus code divides by.
func (b *Builder) NumberOfDecimalPlaces(v uint8) *Builder {
	b.params.NumberOfDecimalPlaces = v
	coin := uint64(1)
	for i := uint8(0); i < v; i++ {
		coin *= 10
	}
	b.params.Coin = coin
	return b
}

func (b *Builder) UpgradeVotingThreshold(v uint8) *Builder {
	if v == 0 || v > 100 {
		return b.fail("upgrade voting threshold %d out of range (0, 100]", v)
	}
	b.params.UpgradeVotingThreshold = v
	return b
}

func (b *Builder) UpgradeWindow(v uint32) *Builder {
	if v == 0 {
		return b.fail("upgrade window cannot be zero")
	}
	b.params.UpgradeWindow = v
	return b
}

func (b *Builder) Testnet(v bool) *Builder {
	b.params.Testnet = v
	return b
}

func (b *Builder) Filenames(f Filenames) *Builder {
	b.params.Filenames = f
	return b
}

// Build applies the testnet overrides, derives FusionTxMaxSize and
// PrettyAmounts, and publishes the immutable ConsensusParameters. Returns
// the first InvalidParameter recorded by any setter, if any.
func (b *Builder) Build() (*ConsensusParameters, error) {
	if b.err != nil {
		return nil, b.err
	}

	p := b.params

	if p.Testnet {
		p.UpgradeHeightV2 = 100
		p.GovernancePercent = 10
		p.GovernanceHeightStart = 1
		p.GovernanceHeightEnd = 100
		p.Filenames = prefixFilenames(p.Filenames, "testnet_")
	}

	p.FusionTxMaxSize = uint64(p.BlockGrantedFullRewardZone) * 30 / 100
	p.PrettyAmounts = generatePrettyAmounts(p.MoneySupply)

	return &p, nil
}

func prefixFilenames(f Filenames, prefix string) Filenames {
	return Filenames{
		Blocks:            prefix + f.Blocks,
		BlocksCache:       prefix + f.BlocksCache,
		BlockIndexes:      prefix + f.BlockIndexes,
		TxPool:            prefix + f.TxPool,
		BlockchainIndices: prefix + f.BlockchainIndices,
	}
}

// generatePrettyAmounts builds every d*10^k for d in 1..9 that does not
// exceed moneySupply, strictly ascending (the last decade stops at the
// largest such value, so it may hold fewer than nine entries) — the
// canonical CryptoNote PRETTY_AMOUNTS table, generated rather than
// hard-coded so it always matches whatever MoneySupply was configured.
func generatePrettyAmounts(moneySupply uint64) []uint64 {
	var amounts []uint64
	for order := uint64(1); ; order *= 10 {
		overflowed := order > 0 && order > moneySupply
		for digit := uint64(1); digit <= 9; digit++ {
			v := digit * order
			if v/order != digit || v > moneySupply {
				overflowed = true
				break
			}
			amounts = append(amounts, v)
		}
		if overflowed {
			break
		}
		if order > (^uint64(0))/10 {
			break
		}
	}
	return amounts
}
