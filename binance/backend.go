// Package binance implements the BNB Beacon Chain signing backend: canonical
// JSON sign-doc digests and amino transaction assembly.
package binance

import (
	"fmt"
	"strconv"

	"github.com/txforgeorg/libtxforge-go/coin"
	"github.com/txforgeorg/libtxforge-go/keys"
	"github.com/txforgeorg/libtxforge-go/txproto"
)

// defaultDenom is used when buildInput is called without an asset tag.
const defaultDenom = "BNB"

// Backend is the Beacon Chain backend. Stateless.
type Backend struct{}

func init() {
	coin.Register(Backend{})
}

// Coin returns coin.BinanceChain.
func (Backend) Coin() coin.Coin { return coin.BinanceChain }

// BuildInput builds a default send order. chainParam carries the chain id
// ("Binance-Chain-Tigris", "Binance-Chain-Nile", ...).
func (Backend) BuildInput(from, to, amount, asset, memo, chainParam string) (*txproto.SigningInput, error) {
	if _, err := decodeAddress(to); err != nil {
		return nil, fmt.Errorf("invalid to address: %w", err)
	}
	if _, err := decodeAddress(from); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if _, err := parseAmount(amount); err != nil {
		return nil, err
	}
	if asset == "" {
		asset = defaultDenom
	}
	return &txproto.SigningInput{
		Coin:       uint32(coin.BinanceChain),
		From:       from,
		To:         to,
		Amount:     amount,
		Asset:      asset,
		Memo:       memo,
		ChainParam: chainParam,
	}, nil
}

func parseAmount(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: %q", coin.ErrInvalidAmount, s)
	}
	return v, nil
}

// PreImageHashes returns the single SHA256 sign-doc digest. The Beacon Chain
// has exactly one signer, so the identity slot stays empty.
func (Backend) PreImageHashes(in *txproto.SigningInput) *txproto.PreSigningOutput {
	digest, code, msg := preImageDigest(in)
	if code != txproto.OK {
		return &txproto.PreSigningOutput{Error: code, ErrorMessage: msg}
	}
	return &txproto.PreSigningOutput{
		Digests: []txproto.DigestIdentity{{Digest: digest}},
	}
}

func preImageDigest(in *txproto.SigningInput) ([]byte, txproto.ErrorCode, string) {
	if _, err := decodeAddress(in.From); err != nil {
		return nil, txproto.ErrorInvalidAddress, "invalid from address"
	}
	if _, err := decodeAddress(in.To); err != nil {
		return nil, txproto.ErrorInvalidAddress, "invalid to address"
	}
	amount, err := parseAmount(in.Amount)
	if err != nil {
		return nil, txproto.ErrorInvalidParams, err.Error()
	}
	denom := in.Asset
	if denom == "" {
		denom = defaultDenom
	}
	doc, err := signDocBytes(in.ChainParam, in.From, in.To, denom, amount, in.Memo,
		in.AccountNumber, in.Sequence, in.Source)
	if err != nil {
		return nil, txproto.ErrorInvalidParams, err.Error()
	}
	return keys.Sha256(doc), txproto.OK, ""
}

// Compile verifies the single compact signature against the sign-doc digest
// and assembles the amino-encoded StdTx.
func (Backend) Compile(in *txproto.SigningInput, signatures, publicKeys [][]byte) (*txproto.SigningOutput, error) {
	if len(signatures) != 1 || len(publicKeys) != 1 {
		return &txproto.SigningOutput{
			Error:        txproto.ErrorInvalidParams,
			ErrorMessage: "exactly one signature and public key required",
		}, nil
	}

	pub, err := keys.ParsePublicKey(publicKeys[0])
	if err != nil || len(publicKeys[0]) != keys.CompressedPubKeyLen {
		return nil, fmt.Errorf("%w: need a 33-byte compressed secp256k1 key", coin.ErrInvalidPublicKey)
	}
	if len(signatures[0]) != keys.CompactSigLen {
		return &txproto.SigningOutput{
			Error:        txproto.ErrorInvalidParams,
			ErrorMessage: "signature must be 64-byte R||S",
		}, nil
	}

	digest, code, msg := preImageDigest(in)
	if code != txproto.OK {
		return &txproto.SigningOutput{Error: code, ErrorMessage: msg}, nil
	}
	if !pub.VerifyCompact(digest, signatures[0]) {
		return &txproto.SigningOutput{
			Error:        txproto.ErrorSigning,
			ErrorMessage: "signature does not verify against sign-doc digest",
		}, nil
	}

	fromKeyHash, _ := decodeAddress(in.From)
	toKeyHash, _ := decodeAddress(in.To)
	amount, _ := parseAmount(in.Amount)
	denom := in.Asset
	if denom == "" {
		denom = defaultDenom
	}

	order := encodeSendOrder(fromKeyHash, toKeyHash, denom, amount)
	sig := encodeSignature(publicKeys[0], signatures[0], in.AccountNumber, in.Sequence)
	return &txproto.SigningOutput{
		Encoded: encodeStdTx(order, sig, in.Memo, in.Source),
	}, nil
}

// Sign signs the sign-doc digest with the input's private key and reuses
// Compile for assembly.
func (b Backend) Sign(in *txproto.SigningInput) (*txproto.SigningOutput, error) {
	if len(in.PrivateKeys) != 1 {
		return &txproto.SigningOutput{
			Error:        txproto.ErrorInvalidParams,
			ErrorMessage: "direct signing requires exactly one private key",
		}, nil
	}
	priv, err := keys.ParsePrivateKey(in.PrivateKeys[0])
	if err != nil {
		return &txproto.SigningOutput{Error: txproto.ErrorInvalidParams, ErrorMessage: err.Error()}, nil
	}
	digest, code, msg := preImageDigest(in)
	if code != txproto.OK {
		return &txproto.SigningOutput{Error: code, ErrorMessage: msg}, nil
	}
	sig, err := priv.SignCompact(digest)
	if err != nil {
		return &txproto.SigningOutput{Error: txproto.ErrorSigning, ErrorMessage: err.Error()}, nil
	}
	return b.Compile(in, [][]byte{sig}, [][]byte{priv.PublicKey().Compressed()})
}
