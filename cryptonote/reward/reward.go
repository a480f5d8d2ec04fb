// Package reward implements RewardEngine: the emission curve, consistency
// factor, size penalty, tail emission floor and governance split, grounded
// on original_source/lib/CryptoNoteCore/Currency.cpp's getBlockReward and on
// the teacher's consensus/monero/block/reward.go for the size-penalty
// arithmetic style.
package reward

import (
	"math"
	"math/big"

	"git.gammaspectra.live/P2Pool/consensuscore/cryptonote"
	"git.gammaspectra.live/P2Pool/consensuscore/cryptonote/params"
)

// Engine computes block rewards against a fixed ConsensusParameters.
type Engine struct {
	params *params.ConsensusParameters
}

func New(p *params.ConsensusParameters) *Engine {
	return &Engine{params: p}
}

// Result is the (reward, emission_change) pair block_reward returns.
type Result struct {
	Reward         uint64
	EmissionChange int64
}

// BlockReward computes (reward, emission_change) for a candidate block,
// failing with BlockTooLarge when currentBlockSize exceeds twice the
// effective median. blockTarget is the observed solve time used by the
// post-v2 consistency factor; pass params.DifficultyTarget when the caller
// has no better estimate.
func (e *Engine) BlockReward(majorVersion uint8, medianSize, currentBlockSize, alreadyGeneratedCoins, fee, height, blockTarget uint64) (Result, error) {
	p := e.params

	effectiveMedian := medianSize
	if uint64(p.BlockGrantedFullRewardZone) > effectiveMedian {
		effectiveMedian = uint64(p.BlockGrantedFullRewardZone)
	}

	if currentBlockSize > 2*effectiveMedian {
		return Result{}, cryptonote.NewError(cryptonote.BlockTooLarge,
			"block size %d exceeds twice effective median %d", currentBlockSize, effectiveMedian)
	}

	consistency := e.consistencyFactor(height, blockTarget)

	base := baseRewardBeforeFloor(p.MoneySupply, alreadyGeneratedCoins, p.EmissionSpeedFactor, consistency)
	if alreadyGeneratedCoins+p.TailEmissionReward >= p.MoneySupply || base < p.TailEmissionReward {
		base = p.TailEmissionReward
	}

	penalizedBase := penalize(base, effectiveMedian, currentBlockSize)

	penalizedFee := fee
	if p.CoinVersion == 1 {
		penalizedFee = penalize(fee, effectiveMedian, currentBlockSize)
	}

	emissionChange := int64(penalizedBase) - (int64(fee) - int64(penalizedFee))
	return Result{
		Reward:         penalizedBase + penalizedFee,
		EmissionChange: emissionChange,
	}, nil
}

// consistencyFactor implements §4.3 step 1. Before v2, or when
// DifficultyTarget is zero, the factor is neutral (1.0).
func (e *Engine) consistencyFactor(height, blockTarget uint64) float64 {
	p := e.params
	if height < uint64(p.UpgradeHeightV2) || p.DifficultyTarget == 0 {
		return 1.0
	}

	c := float64(blockTarget) / float64(p.DifficultyTarget)
	switch {
	case c > 1.0:
		c = math.Pow(c, 0.25)
		if c > 2.0 {
			c = 2.0
		}
	case c < 1.0:
		if c < 0.0 {
			c = 0.0
		}
	default:
		c = 1.0
	}
	return c
}

// baseRewardBeforeFloor is ((moneySupply - alreadyGenerated) >>
// emissionSpeedFactor) * consistency, evaluated as a single
// float64 multiplication against the right-shifted integer — the
// evaluation order fixed by §9's determinism note.
func baseRewardBeforeFloor(moneySupply, alreadyGenerated uint64, emissionSpeedFactor uint32, consistency float64) uint64 {
	remaining := moneySupply - alreadyGenerated
	shifted := remaining >> emissionSpeedFactor
	return uint64(float64(shifted) * consistency)
}

// penalize applies the canonical CryptoNote quadratic size penalty:
// unpenalized below the effective median, and base*(2M*B-B^2)/M^2 above
// it, where B is currentBlockSize and M is the effective median. The
// intermediate products can exceed 64 bits (base*2*M*B), so the whole
// numerator/denominator is carried through math/big rather than wrapping —
// the same "don't let an internal product silently wrap" discipline the
// teacher applies via lukechampine.com/uint128 in
// consensus/monero/block/reward.go, expressed here with the standard
// library's arbitrary-precision integer since the penalty's intermediate
// width varies with the configured median size rather than being fixed at
// 128 bits.
func penalize(base, effectiveMedian, currentBlockSize uint64) uint64 {
	if currentBlockSize <= effectiveMedian || effectiveMedian == 0 {
		return base
	}

	m := new(big.Int).SetUint64(effectiveMedian)
	b := new(big.Int).SetUint64(currentBlockSize)
	baseBig := new(big.Int).SetUint64(base)

	numerator := new(big.Int).Mul(m, b)
	numerator.Mul(numerator, big.NewInt(2))
	bSquared := new(big.Int).Mul(b, b)
	numerator.Sub(numerator, bSquared)

	result := new(big.Int).Mul(baseBig, numerator)
	denominator := new(big.Int).Mul(m, m)
	result.Div(result, denominator)

	return result.Uint64()
}

// MaxBlockCumulativeSize is re-exported for callers that only have a
// reward.Engine in hand.
func (e *Engine) MaxBlockCumulativeSize(height uint64) uint64 {
	return e.params.MaxBlockCumulativeSize(height)
}

// GovernanceReward returns the split owed to the governance address for a
// given base reward, zero if governance is not enabled at height or the
// chain has not yet minted its first coin (the genesis block pays no
// governance share).
func (e *Engine) GovernanceReward(height, alreadyGeneratedCoins, baseReward uint64) uint64 {
	if !e.params.GovernanceEnabled(height) || alreadyGeneratedCoins == 0 {
		return 0
	}
	return e.params.GovernanceReward(baseReward)
}
