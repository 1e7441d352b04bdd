package keys

import "errors"

var (
	// ErrInvalidPublicKey indicates the bytes are not a valid compressed or
	// uncompressed secp256k1 public key.
	ErrInvalidPublicKey = errors.New("keys: invalid public key")

	// ErrInvalidPrivateKey indicates the bytes are not a raw 32-byte private key.
	ErrInvalidPrivateKey = errors.New("keys: invalid private key")
)
