// Package block holds the Block, Transaction, Output and Input data model
// described in §3, deliberately minimal: transaction wire serialisation is
// an external collaborator concern, so these types carry just enough
// structure for RewardEngine, CoinbaseBuilder, FusionChecker and
// GenesisFactory to operate on. Grounded on the shape of the teacher's
// consensus/monero/block.Block and consensus/monero/transaction.Output,
// trimmed of every Salvium/Carrot-specific field.
package block

import (
	"git.gammaspectra.live/P2Pool/consensuscore/crypto"
)

// OutputTarget is the polymorphic variant a transaction output's target
// may take. Modeled as a tagged struct rather than an interface so the
// zero value is meaningful and equality comparisons stay cheap; the only
// variant this module constructs is KeyOutput, but additional variants
// (e.g. a future tagged-key or view-tag output) can be added as optional
// fields without breaking existing callers, mirroring how the teacher's
// own Output struct grew an optional ViewTag/AssetType alongside its
// original single-variant shape.
type OutputTarget struct {
	Key crypto.PublicKey
}

type Output struct {
	Amount uint64
	Target OutputTarget
}

// Input is polymorphic in the original protocol (key inputs spending ring
// members, vs the coinbase-only BaseInput); this module only ever
// constructs the coinbase variant.
type Input struct {
	BaseInput *BaseInput
}

// BaseInput is the sole input of a coinbase transaction: it carries no
// funds of its own, only the height it was mined at.
type BaseInput struct {
	BlockIndex uint64
}

type Transaction struct {
	Version    uint8
	UnlockTime uint64
	Inputs     []Input
	Outputs    []Output
	Extra      []byte
}

// SumOutputs adds every output amount, matching the overflow-tolerant
// accumulation a real chain node would apply (outputs are bounded and can
// never legitimately overflow a uint64 sum).
func (t *Transaction) SumOutputs() uint64 {
	var sum uint64
	for _, o := range t.Outputs {
		sum += o.Amount
	}
	return sum
}

type Block struct {
	MajorVersion uint8
	MinorVersion uint8
	Timestamp    uint64
	Nonce        uint32

	BaseTransaction Transaction

	// PreviousId and the rest of the chain-linkage/PoW fields are opaque
	// to this module: it only ever materialises the genesis block, whose
	// previous id is the zero hash and whose PoW fields are meaningless.
	PreviousId crypto.Hash
}
