package utxostore

import "errors"

var (
	// ErrNilParam indicates a required parameter was nil.
	ErrNilParam = errors.New("utxostore: nil parameter")

	// ErrInvalidUtxo indicates an output record is missing required fields.
	ErrInvalidUtxo = errors.New("utxostore: invalid utxo")

	// ErrDuplicateUtxo indicates the out-point is already tracked.
	ErrDuplicateUtxo = errors.New("utxostore: duplicate utxo")

	// ErrUtxoNotFound indicates no output is tracked for the out-point.
	ErrUtxoNotFound = errors.New("utxostore: utxo not found")
)
