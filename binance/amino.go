package binance

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// Amino wire layout. Amino is protobuf wire format with 4-byte registered
// type prefixes; the Beacon Chain signs a canonical JSON document (signdoc.go)
// but broadcasts this encoding, so assembly must reproduce it byte for byte.
var (
	// stdTxPrefix tags the top-level auth/StdTx envelope.
	stdTxPrefix = []byte{0xF0, 0x62, 0x5D, 0xEE}

	// sendOrderPrefix tags a dex/TokenSend message.
	sendOrderPrefix = []byte{0x2A, 0x2C, 0x87, 0xFA}

	// pubKeyPrefix tags a tendermint/PubKeySecp256k1.
	pubKeyPrefix = []byte{0xEB, 0x5A, 0xE9, 0x87}
)

// appendIO encodes a send-order input or output: {1: address, 2: coins}.
func appendIO(addr []byte, denom string, amount int64) []byte {
	var coin []byte
	coin = protowire.AppendTag(coin, 1, protowire.BytesType)
	coin = protowire.AppendString(coin, denom)
	coin = protowire.AppendTag(coin, 2, protowire.VarintType)
	coin = protowire.AppendVarint(coin, uint64(amount))

	var io []byte
	io = protowire.AppendTag(io, 1, protowire.BytesType)
	io = protowire.AppendBytes(io, addr)
	io = protowire.AppendTag(io, 2, protowire.BytesType)
	io = protowire.AppendBytes(io, coin)
	return io
}

// encodeSendOrder encodes the prefixed send-order message:
// {1: input, 2: output} with single input and output.
func encodeSendOrder(fromKeyHash, toKeyHash []byte, denom string, amount int64) []byte {
	var body []byte
	body = protowire.AppendTag(body, 1, protowire.BytesType)
	body = protowire.AppendBytes(body, appendIO(fromKeyHash, denom, amount))
	body = protowire.AppendTag(body, 2, protowire.BytesType)
	body = protowire.AppendBytes(body, appendIO(toKeyHash, denom, amount))
	return append(append([]byte(nil), sendOrderPrefix...), body...)
}

// encodeSignature encodes the StdSignature block:
// {1: prefixed pubkey, 2: signature, 3: account_number, 4: sequence}.
// Zero account number and sequence are omitted, matching amino defaults.
func encodeSignature(pubKey, signature []byte, accountNumber, sequence uint64) []byte {
	prefixedKey := append(append([]byte(nil), pubKeyPrefix...), byte(len(pubKey)))
	prefixedKey = append(prefixedKey, pubKey...)

	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, prefixedKey)
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, signature)
	if accountNumber != 0 {
		b = protowire.AppendTag(b, 3, protowire.VarintType)
		b = protowire.AppendVarint(b, accountNumber)
	}
	if sequence != 0 {
		b = protowire.AppendTag(b, 4, protowire.VarintType)
		b = protowire.AppendVarint(b, sequence)
	}
	return b
}

// encodeStdTx wraps a prefixed message and a signature block into the
// length-prefixed StdTx envelope: {1: msgs, 2: signatures, 3: memo, 4: source}.
func encodeStdTx(prefixedMsg, signature []byte, memo string, source uint64) []byte {
	tx := append([]byte(nil), stdTxPrefix...)
	tx = protowire.AppendTag(tx, 1, protowire.BytesType)
	tx = protowire.AppendBytes(tx, prefixedMsg)
	tx = protowire.AppendTag(tx, 2, protowire.BytesType)
	tx = protowire.AppendBytes(tx, signature)
	if memo != "" {
		tx = protowire.AppendTag(tx, 3, protowire.BytesType)
		tx = protowire.AppendString(tx, memo)
	}
	if source != 0 {
		tx = protowire.AppendTag(tx, 4, protowire.VarintType)
		tx = protowire.AppendVarint(tx, source)
	}

	var out []byte
	out = protowire.AppendVarint(out, uint64(len(tx)))
	return append(out, tx...)
}
