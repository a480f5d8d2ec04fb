// Package crypto defines the fixed-size key and hash value types the
// consensus core passes across its external interfaces, and the narrow
// collaborator interfaces it uses to reach the elliptic-curve and hashing
// primitives it does not implement itself.
package crypto

import (
	"encoding/hex"
)

// PublicKey is a compressed Ed25519-family public key. The curve math behind
// it is never performed in this module.
type PublicKey [32]byte

func (k PublicKey) String() string {
	return hex.EncodeToString(k[:])
}

// SecretKey is a scalar secret key.
type SecretKey [32]byte

func (k SecretKey) String() string {
	return hex.EncodeToString(k[:])
}

// KeyDerivation is the shared secret produced by generate_key_derivation.
type KeyDerivation [32]byte

func (k KeyDerivation) String() string {
	return hex.EncodeToString(k[:])
}

// Hash is a 32-byte Keccak/CryptoNight-family digest.
type Hash [32]byte

var ZeroHash Hash

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

func (h Hash) IsZero() bool {
	return h == ZeroHash
}

// KeyPair is a (secret, public) pair as produced by a fresh txkey generation
// ahead of constructing a coinbase transaction.
type KeyPair struct {
	SecretKey SecretKey
	PublicKey PublicKey
}
