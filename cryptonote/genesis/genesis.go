// Package genesis implements GenesisFactory: deterministically
// materialising the genesis block from a hard-coded coinbase blob,
// grounded on original_source/lib/CryptoNoteCore/Currency.cpp's
// generateGenesisBlock, with hex decoding via github.com/tmthrgd/go-hex as
// the teacher's types.Difficulty already does for its own hex codec paths.
package genesis

import (
	fasthex "github.com/tmthrgd/go-hex"

	"git.gammaspectra.live/P2Pool/consensuscore/crypto"
	"git.gammaspectra.live/P2Pool/consensuscore/cryptonote"
	"git.gammaspectra.live/P2Pool/consensuscore/cryptonote/block"
	"git.gammaspectra.live/P2Pool/consensuscore/cryptonote/coinbase"
)

// Deserializer turns a raw coinbase transaction blob into a block.Transaction.
// Transaction wire deserialisation is an external collaborator concern (§1);
// GenesisFactory only drives it against the hard-coded blob.
type Deserializer interface {
	DeserializeCoinbase(raw []byte) (*block.Transaction, error)
}

// Hasher computes the block identifier hash, cached after the first call.
type Hasher interface {
	Hash(b *block.Block) (crypto.Hash, error)
}

// Factory materialises and caches the genesis block.
type Factory struct {
	deserializer Deserializer
	hasher       Hasher

	block *block.Block
	hash  crypto.Hash
}

func New(deserializer Deserializer, hasher Hasher) *Factory {
	return &Factory{deserializer: deserializer, hasher: hasher}
}

// Genesis decodes coinbaseHex, builds the genesis block and caches its
// hash. Calling it more than once re-parses the blob but is otherwise
// idempotent; a host should call it once at startup and hold onto the
// result, per §3's "initialise once" lifecycle.
func (f *Factory) Genesis(coinbaseHex string, testnet bool) (*block.Block, crypto.Hash, error) {
	raw, err := fasthex.DecodeString(coinbaseHex)
	if err != nil {
		return nil, crypto.Hash{}, cryptonote.NewError(cryptonote.GenesisCorrupt, "hex decode failed: %v", err)
	}

	tx, err := f.deserializer.DeserializeCoinbase(raw)
	if err != nil {
		return nil, crypto.Hash{}, cryptonote.NewError(cryptonote.GenesisCorrupt, "coinbase deserialisation failed: %v", err)
	}

	nonce := uint32(70)
	if testnet {
		nonce++
	}

	b := &block.Block{
		MajorVersion:    1,
		MinorVersion:    0,
		Timestamp:       0,
		Nonce:           nonce,
		BaseTransaction: *tx,
	}

	hash, err := f.hasher.Hash(b)
	if err != nil {
		return nil, crypto.Hash{}, cryptonote.NewError(cryptonote.GenesisCorrupt, "genesis hash failed: %v", err)
	}

	f.block = b
	f.hash = hash
	return b, hash, nil
}

// Cached returns the previously materialised genesis block and hash, and
// false if Genesis has not been called yet.
func (f *Factory) Cached() (*block.Block, crypto.Hash, bool) {
	if f.block == nil {
		return nil, crypto.Hash{}, false
	}
	return f.block, f.hash, true
}

// SyntheticGenesisTransaction mints a zero-fee, zero-height coinbase
// transaction the way CurrencyBuilder.generateGenesisTransaction does when
// no hard-coded blob is supplied — useful for tests and for standing up a
// brand-new network from scratch. The hard-coded hex blob path (Genesis)
// remains the default/production path §4.7 describes.
func SyntheticGenesisTransaction(builder *coinbase.Builder, minerAddress crypto.AccountAddress) (*block.Transaction, error) {
	return builder.ConstructMinerTx(coinbase.Request{
		MajorVersion: 1,
		Height:       0,
		MinerAddress: minerAddress,
		MaxOuts:      1,
	})
}
