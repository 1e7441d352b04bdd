package binance

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"

	"github.com/txforgeorg/libtxforge-go/coin"
)

// decodeAddress decodes a bech32 Beacon Chain address into its 20-byte key
// hash. Both the mainnet (bnb) and testnet (tbnb) prefixes are accepted.
func decodeAddress(addr string) ([]byte, error) {
	hrp, data, err := bech32.Decode(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", coin.ErrInvalidAddress, addr, err)
	}
	if hrp != "bnb" && hrp != "tbnb" {
		return nil, fmt.Errorf("%w: %q: %w", coin.ErrInvalidAddress, addr, ErrInvalidHRP)
	}
	keyHash, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", coin.ErrInvalidAddress, addr, err)
	}
	if len(keyHash) != 20 {
		return nil, fmt.Errorf("%w: %q: %w", coin.ErrInvalidAddress, addr, ErrInvalidKeyHash)
	}
	return keyHash, nil
}
