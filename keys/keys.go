// Package keys is the primitive crypto adapter: a thin, stateless wrapper
// around secp256k1 key parsing, ECDSA signing/verification and the hash
// primitives the chain backends share. It never performs I/O and is safe for
// concurrent use.
//
// Signature formats:
//   - compact: 64 bytes, R‖S, each zero-padded big-endian to 32 bytes
//   - DER: variable length, as consumed by Bitcoin-style script
package keys

import (
	"bytes"
	"fmt"
	"math/big"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
)

const (
	// CompressedPubKeyLen is the length of a compressed secp256k1 public key.
	CompressedPubKeyLen = 33

	// UncompressedPubKeyLen is the length of an uncompressed secp256k1 public key.
	UncompressedPubKeyLen = 65

	// CompactSigLen is the length of a compact R‖S signature.
	CompactSigLen = 64

	// PrivateKeyLen is the length of a raw secp256k1 private key.
	PrivateKeyLen = 32
)

// PublicKey is a parsed secp256k1 public key.
type PublicKey struct {
	key *ec.PublicKey
	raw []byte // bytes as supplied by the caller
}

// ParsePublicKey decodes a compressed (33-byte) or uncompressed (65-byte)
// secp256k1 public key and checks it lies on the curve.
func ParsePublicKey(b []byte) (*PublicKey, error) {
	if len(b) != CompressedPubKeyLen && len(b) != UncompressedPubKeyLen {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidPublicKey, len(b))
	}
	pub, err := ec.PublicKeyFromBytes(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
	}
	// Decompression silently reduces an out-of-field x coordinate mod p, so a
	// malformed key can decode to a curve point that differs from what the
	// caller encoded. Require that re-encoding reproduces the input.
	enc := pub.Compressed()
	if !bytes.Equal(enc[1:], b[1:CompressedPubKeyLen]) ||
		(len(b) == CompressedPubKeyLen && enc[0] != b[0]) {
		return nil, fmt.Errorf("%w: point does not round-trip", ErrInvalidPublicKey)
	}
	return &PublicKey{key: pub, raw: append([]byte(nil), b...)}, nil
}

// Bytes returns the key exactly as it was supplied to ParsePublicKey.
func (p *PublicKey) Bytes() []byte { return p.raw }

// Compressed returns the 33-byte compressed encoding.
func (p *PublicKey) Compressed() []byte { return p.key.Compressed() }

// Hash160 returns RIPEMD160(SHA256(supplied bytes)), the signer identity
// used by UTXO chains.
func (p *PublicKey) Hash160() []byte { return bsvhash.Hash160(p.raw) }

// VerifyCompact checks a 64-byte R‖S signature against a digest.
func (p *PublicKey) VerifyCompact(digest, sig []byte) bool {
	if len(sig) != CompactSigLen {
		return false
	}
	s := &ec.Signature{
		R: new(big.Int).SetBytes(sig[:32]),
		S: new(big.Int).SetBytes(sig[32:]),
	}
	return s.Verify(digest, p.key)
}

// VerifyDER checks a DER-encoded signature against a digest.
func (p *PublicKey) VerifyDER(digest, sig []byte) bool {
	s, err := ec.ParseDERSignature(sig)
	if err != nil {
		return false
	}
	return s.Verify(digest, p.key)
}

// PrivateKey is a secp256k1 private key used only on the direct-sign path.
type PrivateKey struct {
	key *ec.PrivateKey
}

// ParsePrivateKey decodes a raw 32-byte private key.
func ParsePrivateKey(b []byte) (*PrivateKey, error) {
	if len(b) != PrivateKeyLen {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidPrivateKey, len(b))
	}
	priv, _ := ec.PrivateKeyFromBytes(b)
	return &PrivateKey{key: priv}, nil
}

// PublicKey derives the corresponding public key in compressed form.
func (k *PrivateKey) PublicKey() *PublicKey {
	pub := k.key.PubKey()
	return &PublicKey{key: pub, raw: pub.Compressed()}
}

// SignCompact produces a deterministic (RFC 6979) 64-byte R‖S signature.
func (k *PrivateKey) SignCompact(digest []byte) ([]byte, error) {
	sig, err := k.key.Sign(digest)
	if err != nil {
		return nil, fmt.Errorf("keys: sign: %w", err)
	}
	out := make([]byte, CompactSigLen)
	sig.R.FillBytes(out[:32])
	sig.S.FillBytes(out[32:])
	return out, nil
}

// SignDER produces a deterministic (RFC 6979) DER-encoded signature.
func (k *PrivateKey) SignDER(digest []byte) ([]byte, error) {
	sig, err := k.key.Sign(digest)
	if err != nil {
		return nil, fmt.Errorf("keys: sign: %w", err)
	}
	return sig.Serialize(), nil
}

// Hash160 returns RIPEMD160(SHA256(b)).
func Hash160(b []byte) []byte { return bsvhash.Hash160(b) }

// Sha256 returns SHA256(b).
func Sha256(b []byte) []byte { return bsvhash.Sha256(b) }
