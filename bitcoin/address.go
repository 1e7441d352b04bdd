package bitcoin

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"

	"github.com/txforgeorg/libtxforge-go/coin"
)

// lockingScriptForAddress decodes a mainnet address (base58 P2PKH/P2SH or
// bech32 segwit) and returns its locking script.
func lockingScriptForAddress(addr string) ([]byte, error) {
	a, err := btcutil.DecodeAddress(addr, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", coin.ErrInvalidAddress, addr, err)
	}
	if !a.IsForNet(&chaincfg.MainNetParams) {
		return nil, fmt.Errorf("%w: %q is not a mainnet address", coin.ErrInvalidAddress, addr)
	}
	script, err := txscript.PayToAddrScript(a)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", coin.ErrInvalidAddress, addr, err)
	}
	return script, nil
}
