// Package compiler is the byte-oriented façade over the per-chain backends.
// Every operation consumes and produces serialized records, so callers on
// any transport see the same four-stage pipeline: build an input, plan it,
// extract the digests to sign, and compile external signatures into a
// broadcastable transaction.
package compiler

import (
	"fmt"

	"github.com/txforgeorg/libtxforge-go/coin"
	"github.com/txforgeorg/libtxforge-go/txproto"

	_ "github.com/txforgeorg/libtxforge-go/binance"
	_ "github.com/txforgeorg/libtxforge-go/bitcoin"
	_ "github.com/txforgeorg/libtxforge-go/ethereum"
)

// BuildInput constructs a default signing input for a simple transfer and
// returns it serialized. Unknown coins and malformed transfer parameters are
// caller-contract violations and fail hard.
func BuildInput(c coin.Coin, from, to, amount, asset, memo, chainParam string) ([]byte, error) {
	backend, ok := coin.Lookup(c)
	if !ok {
		return nil, fmt.Errorf("%w: %v", coin.ErrUnsupportedCoin, c)
	}
	in, err := backend.BuildInput(from, to, amount, asset, memo, chainParam)
	if err != nil {
		return nil, err
	}
	return in.Marshal(), nil
}

// Plan selects inputs and computes the fee for a serialized signing input.
// Chains without a planning stage report unsupported_coin in the plan record.
func Plan(c coin.Coin, inputData []byte) []byte {
	backend, ok := coin.Lookup(c)
	if !ok {
		return planError(txproto.ErrorUnsupportedCoin)
	}
	planner, ok := backend.(coin.Planner)
	if !ok {
		return planError(txproto.ErrorUnsupportedCoin)
	}
	var in txproto.SigningInput
	if err := in.Unmarshal(inputData); err != nil {
		return planError(txproto.ErrorInvalidParams)
	}
	return planner.Plan(&in).Marshal()
}

func planError(code txproto.ErrorCode) []byte {
	return (&txproto.TransactionPlan{Error: code}).Marshal()
}

// PreImageHashes returns the serialized digest list for a serialized signing
// input. Domain failures are embedded in the output record.
func PreImageHashes(c coin.Coin, inputData []byte) []byte {
	backend, ok := coin.Lookup(c)
	if !ok {
		return (&txproto.PreSigningOutput{
			Error:        txproto.ErrorUnsupportedCoin,
			ErrorMessage: "no backend registered for coin " + c.String(),
		}).Marshal()
	}
	var in txproto.SigningInput
	if err := in.Unmarshal(inputData); err != nil {
		return (&txproto.PreSigningOutput{
			Error:        txproto.ErrorInvalidParams,
			ErrorMessage: err.Error(),
		}).Marshal()
	}
	return backend.PreImageHashes(&in).Marshal()
}

// CompileWithSignatures assembles a broadcastable transaction from a
// serialized signing input and externally produced signatures. Signatures
// are matched to inputs by signer identity, never by position. Malformed
// public keys fail hard; other failures are embedded in the output record.
func CompileWithSignatures(c coin.Coin, inputData []byte, signatures, publicKeys [][]byte) ([]byte, error) {
	backend, ok := coin.Lookup(c)
	if !ok {
		return (&txproto.SigningOutput{
			Error:        txproto.ErrorUnsupportedCoin,
			ErrorMessage: "no backend registered for coin " + c.String(),
		}).Marshal(), nil
	}
	var in txproto.SigningInput
	if err := in.Unmarshal(inputData); err != nil {
		return (&txproto.SigningOutput{
			Error:        txproto.ErrorInvalidParams,
			ErrorMessage: err.Error(),
		}).Marshal(), nil
	}
	out, err := backend.Compile(&in, signatures, publicKeys)
	if err != nil {
		return nil, err
	}
	return out.Marshal(), nil
}
