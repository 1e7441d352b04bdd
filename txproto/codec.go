package txproto

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Wire schema. Field numbers are frozen; changing them breaks every external
// signer that parses these records.
//
//	OutPoint:          1 hash, 2 index, 3 sequence
//	Utxo:              1 out_point, 2 script, 3 amount
//	TransactionPlan:   1 amount, 2 available_amount, 3 fee, 4 change,
//	                   5 utxos (repeated), 6 error
//	SigningInput:      1 coin, 2 from, 3 to, 4 amount, 5 asset, 6 memo,
//	                   7 chain_param, 8 byte_fee, 9 gas_price, 10 gas_limit,
//	                   11 nonce, 12 sequence, 13 account_number, 14 source,
//	                   15 change_address, 16 use_max_amount,
//	                   17 utxos (repeated), 18 plan, 19 private_keys (repeated)
//	DigestIdentity:    1 digest, 2 identity
//	PreSigningOutput:  1 digests (repeated), 2 error, 3 error_message
//	SigningOutput:     1 encoded, 2 tx_id, 3 error, 4 error_message
//
// Marshaling is deterministic: fields are emitted in ascending field-number
// order and zero values are omitted. preImageHashes determinism depends on
// this, so every encoder below follows it.

func appendUint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, 1)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

// Marshal encodes the out point.
func (p *OutPoint) Marshal() []byte {
	var b []byte
	b = appendBytes(b, 1, p.Hash)
	b = appendUint(b, 2, uint64(p.Index))
	b = appendUint(b, 3, uint64(p.Sequence))
	return b
}

// Unmarshal decodes an out point, replacing the receiver's contents.
func (p *OutPoint) Unmarshal(data []byte) error {
	*p = OutPoint{}
	return walkFields(data, func(num protowire.Number, typ protowire.Type, val []byte, uval uint64) error {
		switch num {
		case 1:
			p.Hash = append([]byte(nil), val...)
		case 2:
			p.Index = uint32(uval)
		case 3:
			p.Sequence = uint32(uval)
		}
		return nil
	})
}

// Marshal encodes the UTXO.
func (u *Utxo) Marshal() []byte {
	var b []byte
	b = appendBytes(b, 1, u.OutPoint.Marshal())
	b = appendBytes(b, 2, u.Script)
	b = appendUint(b, 3, u.Amount)
	return b
}

// Unmarshal decodes a UTXO, replacing the receiver's contents.
func (u *Utxo) Unmarshal(data []byte) error {
	*u = Utxo{}
	return walkFields(data, func(num protowire.Number, typ protowire.Type, val []byte, uval uint64) error {
		switch num {
		case 1:
			return u.OutPoint.Unmarshal(val)
		case 2:
			u.Script = append([]byte(nil), val...)
		case 3:
			u.Amount = uval
		}
		return nil
	})
}

// Marshal encodes the plan.
func (p *TransactionPlan) Marshal() []byte {
	var b []byte
	b = appendUint(b, 1, p.Amount)
	b = appendUint(b, 2, p.AvailableAmount)
	b = appendUint(b, 3, p.Fee)
	b = appendUint(b, 4, p.Change)
	for i := range p.Utxos {
		b = appendBytes(b, 5, p.Utxos[i].Marshal())
	}
	b = appendUint(b, 6, uint64(p.Error))
	return b
}

// Unmarshal decodes a plan, replacing the receiver's contents.
func (p *TransactionPlan) Unmarshal(data []byte) error {
	*p = TransactionPlan{}
	return walkFields(data, func(num protowire.Number, typ protowire.Type, val []byte, uval uint64) error {
		switch num {
		case 1:
			p.Amount = uval
		case 2:
			p.AvailableAmount = uval
		case 3:
			p.Fee = uval
		case 4:
			p.Change = uval
		case 5:
			var u Utxo
			if err := u.Unmarshal(val); err != nil {
				return err
			}
			p.Utxos = append(p.Utxos, u)
		case 6:
			p.Error = ErrorCode(uval)
		}
		return nil
	})
}

// Marshal encodes the signing input.
func (in *SigningInput) Marshal() []byte {
	var b []byte
	b = appendUint(b, 1, uint64(in.Coin))
	b = appendString(b, 2, in.From)
	b = appendString(b, 3, in.To)
	b = appendString(b, 4, in.Amount)
	b = appendString(b, 5, in.Asset)
	b = appendString(b, 6, in.Memo)
	b = appendString(b, 7, in.ChainParam)
	b = appendUint(b, 8, in.ByteFee)
	b = appendBytes(b, 9, in.GasPrice)
	b = appendBytes(b, 10, in.GasLimit)
	b = appendBytes(b, 11, in.Nonce)
	b = appendUint(b, 12, in.Sequence)
	b = appendUint(b, 13, in.AccountNumber)
	b = appendUint(b, 14, in.Source)
	b = appendString(b, 15, in.ChangeAddress)
	b = appendBool(b, 16, in.UseMaxAmount)
	for i := range in.Utxos {
		b = appendBytes(b, 17, in.Utxos[i].Marshal())
	}
	if in.Plan != nil {
		b = protowire.AppendTag(b, 18, protowire.BytesType)
		b = protowire.AppendBytes(b, in.Plan.Marshal())
	}
	for _, k := range in.PrivateKeys {
		b = appendBytes(b, 19, k)
	}
	return b
}

// Unmarshal decodes a signing input, replacing the receiver's contents.
func (in *SigningInput) Unmarshal(data []byte) error {
	*in = SigningInput{}
	return walkFields(data, func(num protowire.Number, typ protowire.Type, val []byte, uval uint64) error {
		switch num {
		case 1:
			in.Coin = uint32(uval)
		case 2:
			in.From = string(val)
		case 3:
			in.To = string(val)
		case 4:
			in.Amount = string(val)
		case 5:
			in.Asset = string(val)
		case 6:
			in.Memo = string(val)
		case 7:
			in.ChainParam = string(val)
		case 8:
			in.ByteFee = uval
		case 9:
			in.GasPrice = append([]byte(nil), val...)
		case 10:
			in.GasLimit = append([]byte(nil), val...)
		case 11:
			in.Nonce = append([]byte(nil), val...)
		case 12:
			in.Sequence = uval
		case 13:
			in.AccountNumber = uval
		case 14:
			in.Source = uval
		case 15:
			in.ChangeAddress = string(val)
		case 16:
			in.UseMaxAmount = uval != 0
		case 17:
			var u Utxo
			if err := u.Unmarshal(val); err != nil {
				return err
			}
			in.Utxos = append(in.Utxos, u)
		case 18:
			in.Plan = new(TransactionPlan)
			return in.Plan.Unmarshal(val)
		case 19:
			in.PrivateKeys = append(in.PrivateKeys, append([]byte(nil), val...))
		}
		return nil
	})
}

// Marshal encodes one digest/identity pair.
func (d *DigestIdentity) Marshal() []byte {
	var b []byte
	b = appendBytes(b, 1, d.Digest)
	b = appendBytes(b, 2, d.Identity)
	return b
}

// Unmarshal decodes one digest/identity pair.
func (d *DigestIdentity) Unmarshal(data []byte) error {
	*d = DigestIdentity{}
	return walkFields(data, func(num protowire.Number, typ protowire.Type, val []byte, uval uint64) error {
		switch num {
		case 1:
			d.Digest = append([]byte(nil), val...)
		case 2:
			d.Identity = append([]byte(nil), val...)
		}
		return nil
	})
}

// Marshal encodes the pre-signing output.
func (o *PreSigningOutput) Marshal() []byte {
	var b []byte
	for i := range o.Digests {
		b = appendBytes(b, 1, o.Digests[i].Marshal())
	}
	b = appendUint(b, 2, uint64(o.Error))
	b = appendString(b, 3, o.ErrorMessage)
	return b
}

// Unmarshal decodes a pre-signing output, replacing the receiver's contents.
func (o *PreSigningOutput) Unmarshal(data []byte) error {
	*o = PreSigningOutput{}
	return walkFields(data, func(num protowire.Number, typ protowire.Type, val []byte, uval uint64) error {
		switch num {
		case 1:
			var d DigestIdentity
			if err := d.Unmarshal(val); err != nil {
				return err
			}
			o.Digests = append(o.Digests, d)
		case 2:
			o.Error = ErrorCode(uval)
		case 3:
			o.ErrorMessage = string(val)
		}
		return nil
	})
}

// Marshal encodes the signing output.
func (o *SigningOutput) Marshal() []byte {
	var b []byte
	b = appendBytes(b, 1, o.Encoded)
	b = appendString(b, 2, o.TxID)
	b = appendUint(b, 3, uint64(o.Error))
	b = appendString(b, 4, o.ErrorMessage)
	return b
}

// Unmarshal decodes a signing output, replacing the receiver's contents.
func (o *SigningOutput) Unmarshal(data []byte) error {
	*o = SigningOutput{}
	return walkFields(data, func(num protowire.Number, typ protowire.Type, val []byte, uval uint64) error {
		switch num {
		case 1:
			o.Encoded = append([]byte(nil), val...)
		case 2:
			o.TxID = string(val)
		case 3:
			o.Error = ErrorCode(uval)
		case 4:
			o.ErrorMessage = string(val)
		}
		return nil
	})
}

// walkFields iterates the top-level fields of a wire-format record and hands
// each to fn. Length-delimited fields arrive in val, varint fields in uval.
// Unknown fields and unexpected wire types are skipped, matching protobuf
// forward-compatibility rules.
func walkFields(data []byte, fn func(num protowire.Number, typ protowire.Type, val []byte, uval uint64) error) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return fmt.Errorf("txproto: malformed tag: %w", protowire.ParseError(n))
		}
		data = data[n:]

		var (
			val  []byte
			uval uint64
		)
		switch typ {
		case protowire.VarintType:
			v, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return fmt.Errorf("txproto: malformed varint in field %d: %w", num, protowire.ParseError(m))
			}
			uval = v
			data = data[m:]
		case protowire.BytesType:
			v, m := protowire.ConsumeBytes(data)
			if m < 0 {
				return fmt.Errorf("txproto: malformed bytes in field %d: %w", num, protowire.ParseError(m))
			}
			val = v
			data = data[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, data)
			if m < 0 {
				return fmt.Errorf("txproto: malformed field %d: %w", num, protowire.ParseError(m))
			}
			data = data[m:]
			continue
		}

		if err := fn(num, typ, val, uval); err != nil {
			return err
		}
	}
	return nil
}
