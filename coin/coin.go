// Package coin defines chain identifiers, the per-chain signing backend
// capability interface, and the registry the compiler dispatches through.
package coin

import (
	"github.com/txforgeorg/libtxforge-go/txproto"
)

// Coin identifies a supported blockchain. Values follow the SLIP-44 coin
// type registry so the integer contract matches what external signers and
// hardware wallets already use.
type Coin uint32

const (
	// Bitcoin mainnet (UTXO model, segwit).
	Bitcoin Coin = 0

	// Ethereum mainnet (account model, EIP-155 legacy transfers).
	Ethereum Coin = 60

	// BinanceChain is the BNB Beacon Chain (account model, amino encoding).
	BinanceChain Coin = 714
)

// String returns the chain's conventional name.
func (c Coin) String() string {
	switch c {
	case Bitcoin:
		return "bitcoin"
	case Ethereum:
		return "ethereum"
	case BinanceChain:
		return "binance"
	default:
		return "unknown"
	}
}

// Backend is the capability set every chain implements. All methods are pure
// functions of their arguments: no backend retains state between calls, so a
// single registered instance serves concurrent callers.
//
// Error convention: domain failures travel inside the returned record's Error
// field; a non-nil Go error is reserved for caller-contract violations
// (ErrInvalidAddress, ErrInvalidPublicKey) that must not be retried as-is.
type Backend interface {
	// Coin returns the chain identifier this backend serves.
	Coin() Coin

	// BuildInput constructs a minimal default-mode transfer request. It
	// validates address syntax but selects no UTXOs and computes no fees.
	BuildInput(from, to, amount, asset, memo, chainParam string) (*txproto.SigningInput, error)

	// PreImageHashes computes every digest that must be signed, one per
	// required signature, paired with the signer identity that must produce
	// it. Deterministic: identical inputs yield identical outputs.
	PreImageHashes(in *txproto.SigningInput) *txproto.PreSigningOutput

	// Compile splices externally produced signatures into the final encoded
	// transaction. signatures[i] pairs with publicKeys[i]; the backend matches
	// each pair to its digest by the key's derived identity, never by the
	// pair's position relative to PreImageHashes output.
	Compile(in *txproto.SigningInput, signatures, publicKeys [][]byte) (*txproto.SigningOutput, error)

	// Sign is the direct-sign path: it signs every digest with the private
	// key(s) carried in the input and must produce bytes identical to what
	// Compile produces for the same logical transaction.
	Sign(in *txproto.SigningInput) (*txproto.SigningOutput, error)
}

// Planner is implemented by UTXO-model backends that resolve a fee/change
// plan before signing. Account-model backends do not implement it.
type Planner interface {
	// Plan selects UTXOs and computes fee and change. Failures (including
	// insufficient funds) are reported in the plan's Error field.
	Plan(in *txproto.SigningInput) *txproto.TransactionPlan
}
