// Package fusion implements FusionChecker: recognising fee-exempt
// consolidation transactions, grounded on
// original_source/lib/CryptoNoteCore/Currency.cpp's isFusionTransaction and
// isAmountApplicableInFusionTransactionInput.
package fusion

import (
	"sort"

	"git.gammaspectra.live/P2Pool/consensuscore/cryptonote/amount"
	"git.gammaspectra.live/P2Pool/consensuscore/cryptonote/params"
)

// Checker validates fusion transactions against a fixed
// ConsensusParameters.
type Checker struct {
	params *params.ConsensusParameters
	codec  *amount.Codec
}

func New(p *params.ConsensusParameters) *Checker {
	return &Checker{params: p, codec: amount.New(p)}
}

// dustThresholdForHeight is default_dust_threshold before v2, zero
// afterward — the post-v2 chain no longer needs a structural dust floor on
// fusion inputs.
func (c *Checker) dustThresholdForHeight(height uint64) uint64 {
	if height < uint64(c.params.UpgradeHeightV2) {
		return c.params.DefaultDustThreshold
	}
	return 0
}

// IsFusion is is_fusion: accept iff every structural and arithmetic
// constraint in §4.6 holds.
func (c *Checker) IsFusion(inputAmounts, outputAmounts []uint64, txSize, height uint64) bool {
	p := c.params

	if txSize > p.FusionTxMaxSize {
		return false
	}
	if uint32(len(inputAmounts)) < p.FusionTxMinInputCount {
		return false
	}
	if uint64(len(inputAmounts)) < uint64(len(outputAmounts))*uint64(p.FusionTxMinInOutRatio) {
		return false
	}

	if height < uint64(p.UpgradeHeightV2) {
		for _, a := range inputAmounts {
			if a < p.DefaultDustThreshold {
				return false
			}
		}
	}

	var sum uint64
	for _, a := range inputAmounts {
		sum += a
	}

	expected := amount.Decompose(sum, c.dustThresholdForHeight(height))

	gotSorted := make([]uint64, len(outputAmounts))
	copy(gotSorted, outputAmounts)
	sort.Slice(gotSorted, func(i, j int) bool { return gotSorted[i] < gotSorted[j] })

	return equalSlices(expected, gotSorted)
}

func equalSlices(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// IsApplicableInput is is_applicable_input, delegated to the amount codec
// which holds the swiss-table PrettyAmounts index.
func (c *Checker) IsApplicableInput(inputAmount, threshold, height uint64) (ok bool, powerOfTen int) {
	return c.codec.IsApplicableInput(inputAmount, threshold, c.params.DefaultDustThreshold)
}

// ApproximateMaxInputCount estimates how many ring inputs of the given
// mixin count fit into a transaction of targetSize bytes alongside
// outputCount outputs, grounded on Currency.cpp's
// getApproximateMaximumInputCount. Sizes below are fixed per-item byte
// costs: each input costs a 32-byte key image plus 8 bytes for each of its
// mixin+1 ring members, and each output costs 34 bytes (amount varint +
// one-time key).
func (c *Checker) ApproximateMaxInputCount(targetSize uint64, outputCount, mixin uint32) uint32 {
	const keyImageSize = 32
	const ringMemberSize = 8
	const outputSize = 34

	perOutput := uint64(outputCount) * outputSize
	if targetSize <= perOutput {
		return 0
	}
	remaining := targetSize - perOutput
	perInput := uint64(keyImageSize) + uint64(mixin+1)*ringMemberSize
	if perInput == 0 {
		return 0
	}
	return uint32(remaining / perInput)
}
