// Package coinbase implements CoinbaseBuilder: constructing and verifying
// the single miner transaction a block pays out through, grounded on
// original_source/lib/CryptoNoteCore/Currency.cpp's constructMinerTx and
// validate_government_fee, with extra-field tag encoding adapted from the
// teacher's consensus/monero/transaction/extra.go.
package coinbase

import (
	"git.gammaspectra.live/P2Pool/consensuscore/crypto"
	"git.gammaspectra.live/P2Pool/consensuscore/cryptonote"
	"git.gammaspectra.live/P2Pool/consensuscore/cryptonote/amount"
	"git.gammaspectra.live/P2Pool/consensuscore/cryptonote/block"
	"git.gammaspectra.live/P2Pool/consensuscore/cryptonote/params"
	"git.gammaspectra.live/P2Pool/consensuscore/cryptonote/reward"
	"git.gammaspectra.live/P2Pool/consensuscore/internal/varint"
)

const (
	extraTagPubKey = 0x01
	extraTagNonce  = 0x02
)

// CurrentTransactionVersion is the version stamped on every transaction
// this module builds; wire-format evolution beyond this is out of scope.
const CurrentTransactionVersion = 2

// Builder constructs and verifies coinbase transactions.
type Builder struct {
	params  *params.ConsensusParameters
	reward  *reward.Engine
	deriver crypto.StealthDeriver

	governanceAddress    *crypto.AccountAddress
	governanceViewSecret crypto.SecretKey
}

func New(p *params.ConsensusParameters, deriver crypto.StealthDeriver) *Builder {
	return &Builder{
		params:  p,
		reward:  reward.New(p),
		deriver: deriver,
	}
}

// Request bundles the per-block observations ConstructMinerTx needs.
type Request struct {
	MajorVersion          uint8
	Height                uint64
	MedianSize            uint64
	AlreadyGeneratedCoins uint64
	CurrentBlockSize      uint64
	Fee                   uint64
	MinerAddress          crypto.AccountAddress
	ExtraNonce            []byte
	MaxOuts               int
	BlockTarget           uint64 // defaults to params.DifficultyTarget if zero
}

// ConstructMinerTx builds the coinbase transaction for Request, per §4.5.
func (b *Builder) ConstructMinerTx(req Request) (*block.Transaction, error) {
	if req.MaxOuts < 1 {
		return nil, cryptonote.NewError(cryptonote.InvalidParameter, "max_outs must be >= 1, got %d", req.MaxOuts)
	}

	blockTarget := req.BlockTarget
	if blockTarget == 0 {
		blockTarget = b.params.DifficultyTarget
	}

	txKeys, err := b.deriver.GenerateKeyPair()
	if err != nil {
		return nil, cryptonote.NewError(cryptonote.CryptoFailure, "generate tx key pair: %v", err)
	}

	extra := appendPubKeyTag(nil, txKeys.PublicKey)
	if len(req.ExtraNonce) > 0 {
		extra = appendNonceTag(extra, req.ExtraNonce)
	}

	result, err := b.reward.BlockReward(req.MajorVersion, req.MedianSize, req.CurrentBlockSize, req.AlreadyGeneratedCoins, req.Fee, req.Height, blockTarget)
	if err != nil {
		return nil, err
	}

	minerShare := result.Reward
	governanceReward := b.reward.GovernanceReward(req.Height, req.AlreadyGeneratedCoins, result.Reward)
	if governanceReward > 0 {
		minerShare = result.Reward - governanceReward
	}

	chunks := decomposeForOutputs(minerShare, req.MaxOuts)

	tx := &block.Transaction{
		Version:    CurrentTransactionVersion,
		UnlockTime: req.Height + uint64(b.params.MinedMoneyUnlockWindow),
		Inputs: []block.Input{
			{BaseInput: &block.BaseInput{BlockIndex: req.Height}},
		},
		Extra: extra,
	}

	derivation, ok := b.deriver.GenerateKeyDerivation(req.MinerAddress.ViewPublicKey, txKeys.SecretKey)
	if !ok {
		return nil, cryptonote.NewError(cryptonote.CryptoFailure, "generate_key_derivation failed for miner address")
	}

	for i, chunk := range chunks {
		outKey, ok := b.deriver.DerivePublicKey(derivation, uint64(i), req.MinerAddress.SpendPublicKey)
		if !ok {
			return nil, cryptonote.NewError(cryptonote.CryptoFailure, "derive_public_key failed at output %d", i)
		}
		tx.Outputs = append(tx.Outputs, block.Output{Amount: chunk, Target: block.OutputTarget{Key: outKey}})
	}

	if governanceReward > 0 {
		govAddress, ok := b.resolveGovernanceAddress()
		if !ok {
			return nil, cryptonote.NewError(cryptonote.CryptoFailure, "governance address could not be resolved")
		}
		govDerivation, ok := b.deriver.GenerateKeyDerivation(govAddress.ViewPublicKey, txKeys.SecretKey)
		if !ok {
			return nil, cryptonote.NewError(cryptonote.CryptoFailure, "generate_key_derivation failed for governance address")
		}
		pos := len(tx.Outputs)
		govKey, ok := b.deriver.DerivePublicKey(govDerivation, uint64(pos), govAddress.SpendPublicKey)
		if !ok {
			return nil, cryptonote.NewError(cryptonote.CryptoFailure, "derive_public_key failed for governance output")
		}
		tx.Outputs = append(tx.Outputs, block.Output{Amount: governanceReward, Target: block.OutputTarget{Key: govKey}})
	}

	if tx.SumOutputs() != result.Reward {
		return nil, cryptonote.NewError(cryptonote.RewardMismatch,
			"coinbase output sum %d != intended reward %d", tx.SumOutputs(), result.Reward)
	}

	return tx, nil
}

// decomposeForOutputs runs decompose_amount_into_digits and collapses
// trailing chunks (merging the last into the second-to-last, repeatedly)
// until the chunk count fits within maxOuts.
func decomposeForOutputs(amountValue uint64, maxOuts int) []uint64 {
	var chunks []uint64
	dustFn := func(dust uint64) { chunks = append(chunks, dust) }
	chunkFn := func(chunk uint64) { chunks = append(chunks, chunk) }
	// decompose_amount_into_digits with dust threshold 0: every nonzero
	// digit chunk is emitted directly, and no residual dust chunk survives
	// (there can be no sub-dust-threshold remainder when the threshold is
	// zero), matching ConstructMinerTx's call with a zero dust threshold.
	decomposeIntoDigitsZeroDust(amountValue, chunkFn, dustFn)

	for len(chunks) > maxOuts && len(chunks) >= 2 {
		n := len(chunks)
		chunks[n-2] += chunks[n-1]
		chunks = chunks[:n-1]
	}
	return chunks
}

func decomposeIntoDigitsZeroDust(amountValue uint64, chunkFn func(uint64), dustFn func(uint64)) {
	amount.DecomposeIntoDigits(amountValue, 0, chunkFn, dustFn)
}

func appendPubKeyTag(extra []byte, pub crypto.PublicKey) []byte {
	extra = append(extra, extraTagPubKey)
	extra = append(extra, pub[:]...)
	return extra
}

func appendNonceTag(extra []byte, nonce []byte) []byte {
	extra = append(extra, extraTagNonce)
	extra = varint.AppendUvarint(extra, uint64(len(nonce)))
	extra = append(extra, nonce...)
	return extra
}

// resolveGovernanceAddress returns the governance account cached by
// SetGovernanceAddress. It does no address-string parsing of its own; the
// host parses the address before handing it over. A Builder constructed
// without ever calling
// SetGovernanceAddress cannot pay a governance share.
func (b *Builder) resolveGovernanceAddress() (crypto.AccountAddress, bool) {
	if b.governanceAddress == nil {
		return crypto.AccountAddress{}, false
	}
	return *b.governanceAddress, true
}

// SetGovernanceAddress caches the already-parsed governance account and its
// view secret key so ConstructMinerTx and ValidateGovernmentFee do not
// re-parse params.GovernanceIdentity's address/secret strings on every
// call. Parsing the address-prefix/checksum happens once, outside this
// module, via crypto.AddressParser; the caller is expected to have done
// that (and decoded the hex view secret key) before calling this.
func (b *Builder) SetGovernanceAddress(addr crypto.AccountAddress, viewSecretKey crypto.SecretKey) {
	b.governanceAddress = &addr
	b.governanceViewSecret = viewSecretKey
}

// ValidateGovernmentFee scans a coinbase transaction's outputs, reconstructs
// the expected governance ephemeral keys, and checks their amount sum
// against governanceReward(sumOfAllOutputs). txPublicKey is the coinbase
// transaction's own public key (recovered from its extra field by the
// caller, since extra parsing is also the caller's concern once a real
// wire format is involved).
func (b *Builder) ValidateGovernmentFee(tx *block.Transaction, txPublicKey crypto.PublicKey) (bool, error) {
	govAddress, ok := b.resolveGovernanceAddress()
	if !ok {
		return false, cryptonote.NewError(cryptonote.CryptoFailure, "governance address not configured")
	}

	derivation, ok := b.deriver.GenerateKeyDerivation(txPublicKey, b.governanceViewSecret)
	if !ok {
		return false, cryptonote.NewError(cryptonote.CryptoFailure, "generate_key_derivation failed")
	}

	minerReward := tx.SumOutputs()
	expected := b.params.GovernanceReward(minerReward)

	var matched uint64
	for i, out := range tx.Outputs {
		expectedKey, ok := b.deriver.DerivePublicKey(derivation, uint64(i), govAddress.SpendPublicKey)
		if !ok {
			continue
		}
		if expectedKey == out.Target.Key {
			matched += out.Amount
		}
	}

	return matched == expected, nil
}
