package crypto

import "context"

// StealthDeriver performs the one-time output key derivation used to build
// and verify coinbase outputs. The actual scalar/point arithmetic behind it
// (generate_key_derivation, derive_public_key) lives outside this module;
// it is supplied by whichever node or wallet embeds the consensus core.
type StealthDeriver interface {
	// GenerateKeyDerivation computes the shared derivation from a tx public
	// key and a recipient's secret view key. ok is false on an invalid key.
	GenerateKeyDerivation(txPublicKey PublicKey, viewSecretKey SecretKey) (KeyDerivation, bool)

	// DerivePublicKey computes the one-time output public key for output
	// index from a derivation and a recipient's spend public key.
	DerivePublicKey(derivation KeyDerivation, outputIndex uint64, spendPublicKey PublicKey) (PublicKey, bool)

	// GenerateKeyPair produces a fresh ephemeral (secret, public) key pair,
	// used as a transaction's own public key.
	GenerateKeyPair() (KeyPair, error)
}

// AccountAddress is the minimal shape of a parsed CryptoNote account or
// subaddress needed by the consensus core; it never parses base58 itself.
type AccountAddress struct {
	SpendPublicKey PublicKey
	ViewPublicKey  PublicKey
	IsSubaddress   bool
}

// AddressParser turns an address string into an AccountAddress. Base58
// decoding and checksum verification are not implemented in this module.
type AddressParser interface {
	ParseAccountAddressString(s string) (networkPrefix uint64, address AccountAddress, ok bool)
}

// LongHasher computes the proof-of-work hash of a block's hashing blob. The
// hashing algorithm itself (RandomX or otherwise) is external.
type LongHasher interface {
	BlockLongHash(ctx context.Context, majorVersion uint8, height uint64, hashingBlob []byte) (Hash, error)
}
