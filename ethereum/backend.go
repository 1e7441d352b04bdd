package ethereum

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/txforgeorg/libtxforge-go/coin"
	"github.com/txforgeorg/libtxforge-go/keys"
	"github.com/txforgeorg/libtxforge-go/txproto"
)

// Backend is the Ethereum backend. Stateless.
type Backend struct{}

func init() {
	coin.Register(Backend{})
}

// Coin returns coin.Ethereum.
func (Backend) Coin() coin.Coin { return coin.Ethereum }

// BuildInput builds a default legacy transfer. asset and memo have no
// meaning for plain ETH transfers and are ignored; chainParam carries the
// decimal chain id, defaulting to mainnet when blank.
func (Backend) BuildInput(from, to, amount, _, _, chainParam string) (*txproto.SigningInput, error) {
	if _, err := parseAddress(to); err != nil {
		return nil, fmt.Errorf("invalid to address: %w", err)
	}
	if _, err := parseAddress(from); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if _, err := parseAmount(amount); err != nil {
		return nil, err
	}
	return &txproto.SigningInput{
		Coin:       uint32(coin.Ethereum),
		From:       from,
		To:         to,
		Amount:     amount,
		ChainParam: chainParam,
	}, nil
}

func parseAmount(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() <= 0 {
		return nil, fmt.Errorf("%w: %q", coin.ErrInvalidAmount, s)
	}
	return v, nil
}

func chainID(in *txproto.SigningInput) (*big.Int, error) {
	if in.ChainParam == "" {
		return big.NewInt(1), nil
	}
	id, ok := new(big.Int).SetString(in.ChainParam, 10)
	if !ok || id.Sign() <= 0 {
		return nil, fmt.Errorf("invalid chain id %q", in.ChainParam)
	}
	return id, nil
}

// buildUnsigned assembles the legacy transaction and its EIP-155 signer.
func buildUnsigned(in *txproto.SigningInput) (*types.Transaction, types.Signer, txproto.ErrorCode, string) {
	to, err := parseAddress(in.To)
	if err != nil {
		return nil, nil, txproto.ErrorInvalidAddress, "invalid to address"
	}
	amount, err := parseAmount(in.Amount)
	if err != nil {
		return nil, nil, txproto.ErrorInvalidParams, err.Error()
	}
	id, err := chainID(in)
	if err != nil {
		return nil, nil, txproto.ErrorInvalidParams, err.Error()
	}
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    new(big.Int).SetBytes(in.Nonce).Uint64(),
		GasPrice: new(big.Int).SetBytes(in.GasPrice),
		Gas:      new(big.Int).SetBytes(in.GasLimit).Uint64(),
		To:       &to,
		Value:    amount,
	})
	return tx, types.NewEIP155Signer(id), txproto.OK, ""
}

// PreImageHashes returns the single EIP-155 transaction digest. Ethereum
// has exactly one signer, so the identity slot stays empty.
func (Backend) PreImageHashes(in *txproto.SigningInput) *txproto.PreSigningOutput {
	tx, signer, code, msg := buildUnsigned(in)
	if code != txproto.OK {
		return &txproto.PreSigningOutput{Error: code, ErrorMessage: msg}
	}
	return &txproto.PreSigningOutput{
		Digests: []txproto.DigestIdentity{{Digest: signer.Hash(tx).Bytes()}},
	}
}

// Compile verifies the 65-byte recoverable signature against the transaction
// digest and produces the RLP-encoded signed transaction.
func (Backend) Compile(in *txproto.SigningInput, signatures, publicKeys [][]byte) (*txproto.SigningOutput, error) {
	if len(signatures) != 1 || len(publicKeys) != 1 {
		return &txproto.SigningOutput{
			Error:        txproto.ErrorInvalidParams,
			ErrorMessage: "exactly one signature and public key required",
		}, nil
	}
	pubBytes, err := normalizePubKey(publicKeys[0])
	if err != nil {
		return nil, err
	}
	if len(signatures[0]) != keys.CompactSigLen+1 {
		return &txproto.SigningOutput{
			Error:        txproto.ErrorInvalidParams,
			ErrorMessage: "signature must be 65-byte R||S||V",
		}, nil
	}

	tx, signer, code, msg := buildUnsigned(in)
	if code != txproto.OK {
		return &txproto.SigningOutput{Error: code, ErrorMessage: msg}, nil
	}
	digest := signer.Hash(tx).Bytes()
	if !crypto.VerifySignature(pubBytes, digest, signatures[0][:keys.CompactSigLen]) {
		return &txproto.SigningOutput{
			Error:        txproto.ErrorSigning,
			ErrorMessage: "signature does not verify against transaction digest",
		}, nil
	}

	signedTx, err := tx.WithSignature(signer, signatures[0])
	if err != nil {
		return &txproto.SigningOutput{Error: txproto.ErrorSigning, ErrorMessage: err.Error()}, nil
	}
	encoded, err := signedTx.MarshalBinary()
	if err != nil {
		return &txproto.SigningOutput{Error: txproto.ErrorSigning, ErrorMessage: err.Error()}, nil
	}
	return &txproto.SigningOutput{
		Encoded: encoded,
		TxID:    signedTx.Hash().Hex(),
	}, nil
}

// normalizePubKey accepts a compressed or uncompressed secp256k1 key and
// checks it parses. A malformed key is a caller-contract violation.
func normalizePubKey(b []byte) ([]byte, error) {
	switch len(b) {
	case keys.CompressedPubKeyLen:
		if _, err := crypto.DecompressPubkey(b); err != nil {
			return nil, fmt.Errorf("%w: %w", coin.ErrInvalidPublicKey, err)
		}
	case keys.UncompressedPubKeyLen:
		if _, err := crypto.UnmarshalPubkey(b); err != nil {
			return nil, fmt.Errorf("%w: %w", coin.ErrInvalidPublicKey, err)
		}
	default:
		return nil, fmt.Errorf("%w: need a 33- or 65-byte secp256k1 key", coin.ErrInvalidPublicKey)
	}
	return b, nil
}

// Sign signs the transaction digest with the input's private key and reuses
// Compile for assembly.
func (b Backend) Sign(in *txproto.SigningInput) (*txproto.SigningOutput, error) {
	if len(in.PrivateKeys) != 1 {
		return &txproto.SigningOutput{
			Error:        txproto.ErrorInvalidParams,
			ErrorMessage: "direct signing requires exactly one private key",
		}, nil
	}
	key, err := crypto.ToECDSA(in.PrivateKeys[0])
	if err != nil {
		return &txproto.SigningOutput{Error: txproto.ErrorInvalidParams, ErrorMessage: err.Error()}, nil
	}
	tx, signer, code, msg := buildUnsigned(in)
	if code != txproto.OK {
		return &txproto.SigningOutput{Error: code, ErrorMessage: msg}, nil
	}
	sig, err := crypto.Sign(signer.Hash(tx).Bytes(), key)
	if err != nil {
		return &txproto.SigningOutput{Error: txproto.ErrorSigning, ErrorMessage: err.Error()}, nil
	}
	return b.Compile(in, [][]byte{sig}, [][]byte{crypto.FromECDSAPub(&key.PublicKey)})
}
