package binance

import "errors"

var (
	// ErrInvalidHRP indicates a bech32 address does not carry the bnb/tbnb prefix.
	ErrInvalidHRP = errors.New("binance: address prefix must be bnb or tbnb")

	// ErrInvalidKeyHash indicates a decoded address payload is not 20 bytes.
	ErrInvalidKeyHash = errors.New("binance: address payload must be 20 bytes")
)
