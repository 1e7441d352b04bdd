// Package ethereum implements the Ethereum signing backend: EIP-155 legacy
// transfers with RLP assembly via go-ethereum.
package ethereum

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"

	"github.com/txforgeorg/libtxforge-go/coin"
)

// parseAddress validates a 0x-prefixed hex address. Mixed-case addresses must
// carry a correct EIP-55 checksum; all-lower and all-upper forms are accepted
// as checksum-free.
func parseAddress(addr string) (common.Address, error) {
	if !common.IsHexAddress(addr) {
		return common.Address{}, fmt.Errorf("%w: %q", coin.ErrInvalidAddress, addr)
	}
	hex := strings.TrimPrefix(strings.TrimPrefix(addr, "0x"), "0X")
	if hex != strings.ToLower(hex) && hex != strings.ToUpper(hex) {
		if checksumAddress(strings.ToLower(hex)) != hex {
			return common.Address{}, fmt.Errorf("%w: %q: bad checksum", coin.ErrInvalidAddress, addr)
		}
	}
	return common.HexToAddress(addr), nil
}

// checksumAddress applies the EIP-55 casing rule to a lowercase hex address
// without its 0x prefix.
func checksumAddress(lowerHex string) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(lowerHex))
	digest := h.Sum(nil)

	out := []byte(lowerHex)
	for i, c := range out {
		if c < 'a' || c > 'f' {
			continue
		}
		nibble := digest[i/2]
		if i%2 == 0 {
			nibble >>= 4
		}
		if nibble&0x0F >= 8 {
			out[i] = c - 'a' + 'A'
		}
	}
	return string(out)
}
