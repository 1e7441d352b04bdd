// Package signer is the direct-sign façade: one call from signing input to
// broadcastable transaction, using private keys carried in the input record.
// Each backend routes its Sign through the same assembly path as external
// signing, so the output is byte-identical to the staged pipeline.
package signer

import (
	"github.com/txforgeorg/libtxforge-go/coin"
	"github.com/txforgeorg/libtxforge-go/txproto"

	_ "github.com/txforgeorg/libtxforge-go/binance"
	_ "github.com/txforgeorg/libtxforge-go/bitcoin"
	_ "github.com/txforgeorg/libtxforge-go/ethereum"
)

// Sign signs a serialized input in one step. Domain failures are embedded in
// the output record; a hard error means the caller broke the contract.
func Sign(c coin.Coin, inputData []byte) ([]byte, error) {
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
	out, err := backend.Sign(&in)
	if err != nil {
		return nil, err
	}
	return out.Marshal(), nil
}
