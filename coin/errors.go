package coin

import "errors"

var (
	// ErrUnsupportedCoin indicates no backend is registered for the chain identifier.
	ErrUnsupportedCoin = errors.New("coin: unsupported coin")

	// ErrInvalidAddress indicates a from/to address failed chain-specific validation.
	ErrInvalidAddress = errors.New("coin: invalid address")

	// ErrInvalidPublicKey indicates a supplied public key cannot be decoded
	// for the chain's signature scheme.
	ErrInvalidPublicKey = errors.New("coin: invalid public key")

	// ErrInvalidAmount indicates an amount string is not a valid positive
	// decimal integer for the chain.
	ErrInvalidAmount = errors.New("coin: invalid amount")
)
