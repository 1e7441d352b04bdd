package bitcoin

import "errors"

// ErrUnsupportedScript indicates a UTXO locking script is neither P2WPKH
// nor P2PKH, the two input kinds the compiler can produce digests for.
var ErrUnsupportedScript = errors.New("bitcoin: unsupported locking script")
