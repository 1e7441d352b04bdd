// Package bitcoin implements the Bitcoin signing backend: UTXO planning,
// per-input BIP143/legacy sighash computation, and segwit transaction
// assembly from externally supplied signatures.
package bitcoin

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/txforgeorg/libtxforge-go/coin"
	"github.com/txforgeorg/libtxforge-go/keys"
	"github.com/txforgeorg/libtxforge-go/txproto"
)

// txVersion is the transaction version the compiler emits.
const txVersion = 1

// Backend is the Bitcoin chain backend. Stateless; one registered instance
// serves all callers.
type Backend struct{}

func init() {
	coin.Register(Backend{})
}

// Coin returns coin.Bitcoin.
func (Backend) Coin() coin.Coin { return coin.Bitcoin }

// Plan selects UTXOs and computes fee and change; see planTransaction for
// the selection policy.
func (Backend) Plan(in *txproto.SigningInput) *txproto.TransactionPlan {
	return planTransaction(in)
}

// BuildInput builds a default-mode transfer spending back change to the
// sender. It validates both addresses; UTXOs and the plan come later.
func (Backend) BuildInput(from, to, amount, asset, memo, chainParam string) (*txproto.SigningInput, error) {
	if _, err := lockingScriptForAddress(to); err != nil {
		return nil, fmt.Errorf("invalid to address: %w", err)
	}
	if from != "" {
		if _, err := lockingScriptForAddress(from); err != nil {
			return nil, fmt.Errorf("invalid from address: %w", err)
		}
	}
	if _, err := strconv.ParseUint(amount, 10, 64); err != nil {
		return nil, fmt.Errorf("%w: %q", coin.ErrInvalidAmount, amount)
	}
	return &txproto.SigningInput{
		Coin:          uint32(coin.Bitcoin),
		From:          from,
		To:            to,
		Amount:        amount,
		Asset:         asset,
		Memo:          memo,
		ByteFee:       defaultByteFee,
		ChangeAddress: from,
	}, nil
}

// sigRequest is one required signature: the digest to sign, the identity
// (HASH160 of the controlling pubkey, lifted from the spent script) that must
// produce it, and the script kind that decides how the signature is spliced
// back in.
type sigRequest struct {
	digest   []byte
	identity []byte
	class    txscript.ScriptClass
}

// unsignedTx is the deterministic skeleton shared by PreImageHashes and
// Compile: the wire transaction in plan order plus one sigRequest per input.
type unsignedTx struct {
	tx       *wire.MsgTx
	plan     *txproto.TransactionPlan
	requests []sigRequest
}

// buildUnsigned resolves the plan (computing one when the input carries
// none), lays out the transaction in plan order, and derives every required
// digest. Failures are reported as an error code with a message, matching
// the embedded-error convention of the outer records.
func buildUnsigned(in *txproto.SigningInput) (*unsignedTx, txproto.ErrorCode, string) {
	plan := in.Plan
	if plan == nil {
		if len(in.Utxos) == 0 {
			return nil, txproto.ErrorInvalidParams, "no plan and no UTXOs"
		}
		plan = planTransaction(in)
	}
	if plan.Error != txproto.OK {
		return nil, plan.Error, "transaction plan failed"
	}
	if len(plan.Utxos) == 0 {
		return nil, txproto.ErrorInvalidParams, "plan selects no UTXOs"
	}

	tx := wire.NewMsgTx(txVersion)
	prevOuts := make(map[wire.OutPoint]*wire.TxOut, len(plan.Utxos))
	for i := range plan.Utxos {
		u := &plan.Utxos[i]
		h, err := chainhash.NewHash(u.OutPoint.Hash)
		if err != nil {
			return nil, txproto.ErrorInvalidParams, "UTXO hash must be 32 bytes"
		}
		op := wire.NewOutPoint(h, u.OutPoint.Index)
		txIn := wire.NewTxIn(op, nil, nil)
		txIn.Sequence = u.OutPoint.Sequence
		tx.AddTxIn(txIn)
		prevOuts[*op] = wire.NewTxOut(int64(u.Amount), u.Script)
	}

	toScript, err := lockingScriptForAddress(in.To)
	if err != nil {
		return nil, txproto.ErrorInvalidAddress, "invalid to address"
	}
	tx.AddTxOut(wire.NewTxOut(int64(plan.Amount), toScript))
	if plan.Change > 0 {
		changeAddr := in.ChangeAddress
		if changeAddr == "" {
			changeAddr = in.From
		}
		changeScript, err := lockingScriptForAddress(changeAddr)
		if err != nil {
			return nil, txproto.ErrorInvalidAddress, "invalid change address"
		}
		tx.AddTxOut(wire.NewTxOut(int64(plan.Change), changeScript))
	}

	fetcher := txscript.NewMultiPrevOutFetcher(prevOuts)
	sigHashes := txscript.NewTxSigHashes(tx, fetcher)

	requests := make([]sigRequest, 0, len(plan.Utxos))
	for i := range plan.Utxos {
		u := &plan.Utxos[i]
		class := txscript.GetScriptClass(u.Script)
		switch class {
		case txscript.WitnessV0PubKeyHashTy:
			digest, err := txscript.CalcWitnessSigHash(u.Script, sigHashes, txscript.SigHashAll, tx, i, int64(u.Amount))
			if err != nil {
				return nil, txproto.ErrorInvalidParams, "sighash computation failed"
			}
			requests = append(requests, sigRequest{digest: digest, identity: u.Script[2:22], class: class})
		case txscript.PubKeyHashTy:
			digest, err := txscript.CalcSignatureHash(u.Script, txscript.SigHashAll, tx, i)
			if err != nil {
				return nil, txproto.ErrorInvalidParams, "sighash computation failed"
			}
			requests = append(requests, sigRequest{digest: digest, identity: u.Script[3:23], class: class})
		default:
			return nil, txproto.ErrorInvalidParams, ErrUnsupportedScript.Error()
		}
	}
	return &unsignedTx{tx: tx, plan: plan, requests: requests}, txproto.OK, ""
}

// PreImageHashes returns one digest per required signature, in plan order.
// Identity is the HASH160 of the pubkey controlling the spent output; the
// same identity appears once per input it controls.
func (Backend) PreImageHashes(in *txproto.SigningInput) *txproto.PreSigningOutput {
	u, code, msg := buildUnsigned(in)
	if code != txproto.OK {
		return &txproto.PreSigningOutput{Error: code, ErrorMessage: msg}
	}
	out := &txproto.PreSigningOutput{}
	for _, r := range u.requests {
		out.Digests = append(out.Digests, txproto.DigestIdentity{
			Digest:   r.digest,
			Identity: r.identity,
		})
	}
	return out
}

// Compile splices externally supplied signatures into the final segwit
// transaction. Pairs are matched to inputs by the pubkey's HASH160 identity
// and cryptographic verification against the input's digest, never by
// position: when one identity controls several inputs, each candidate
// signature answers exactly the digest it verifies against.
func (Backend) Compile(in *txproto.SigningInput, signatures, publicKeys [][]byte) (*txproto.SigningOutput, error) {
	if len(signatures) == 0 || len(signatures) != len(publicKeys) {
		return &txproto.SigningOutput{
			Error:        txproto.ErrorInvalidParams,
			ErrorMessage: "signature and public key counts must match and be non-empty",
		}, nil
	}

	// Undecodable public keys are a caller-contract violation: hard failure.
	type pair struct {
		sig []byte
		pub *keys.PublicKey
	}
	byIdentity := make(map[string][]pair, len(publicKeys))
	for i := range publicKeys {
		pk, err := keys.ParsePublicKey(publicKeys[i])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", coin.ErrInvalidPublicKey, err)
		}
		id := string(pk.Hash160())
		byIdentity[id] = append(byIdentity[id], pair{sig: signatures[i], pub: pk})
	}

	u, code, msg := buildUnsigned(in)
	if code != txproto.OK {
		return &txproto.SigningOutput{Error: code, ErrorMessage: msg}, nil
	}
	if len(signatures) != len(u.requests) {
		return &txproto.SigningOutput{
			Error:        txproto.ErrorInvalidParams,
			ErrorMessage: fmt.Sprintf("have %d signatures, need %d", len(signatures), len(u.requests)),
		}, nil
	}

	for i, r := range u.requests {
		candidates, ok := byIdentity[string(r.identity)]
		if !ok {
			return &txproto.SigningOutput{
				Error:        txproto.ErrorInvalidParams,
				ErrorMessage: fmt.Sprintf("no signature for identity %x", r.identity),
			}, nil
		}
		var matched *pair
		for j := range candidates {
			if candidates[j].pub.VerifyDER(r.digest, candidates[j].sig) {
				matched = &candidates[j]
				break
			}
		}
		if matched == nil {
			return &txproto.SigningOutput{
				Error:        txproto.ErrorSigning,
				ErrorMessage: fmt.Sprintf("no signature verifies for input %d", i),
			}, nil
		}

		sigWithType := append(append([]byte(nil), matched.sig...), byte(txscript.SigHashAll))
		switch r.class {
		case txscript.WitnessV0PubKeyHashTy:
			u.tx.TxIn[i].Witness = wire.TxWitness{sigWithType, matched.pub.Bytes()}
		case txscript.PubKeyHashTy:
			scriptSig, err := txscript.NewScriptBuilder().
				AddData(sigWithType).
				AddData(matched.pub.Bytes()).
				Script()
			if err != nil {
				return &txproto.SigningOutput{Error: txproto.ErrorInvalidParams, ErrorMessage: "scriptSig build failed"}, nil
			}
			u.tx.TxIn[i].SignatureScript = scriptSig
		}
	}

	var buf bytes.Buffer
	if err := u.tx.Serialize(&buf); err != nil {
		return &txproto.SigningOutput{Error: txproto.ErrorInvalidParams, ErrorMessage: "serialize failed"}, nil
	}
	return &txproto.SigningOutput{
		Encoded: buf.Bytes(),
		TxID:    u.tx.TxHash().String(),
	}, nil
}

// Sign is the direct-sign path: it signs every digest with the matching
// private key from the input and reuses Compile for assembly, so both paths
// produce identical bytes by construction.
func (b Backend) Sign(in *txproto.SigningInput) (*txproto.SigningOutput, error) {
	if len(in.PrivateKeys) == 0 {
		return &txproto.SigningOutput{
			Error:        txproto.ErrorInvalidParams,
			ErrorMessage: "direct signing requires private keys",
		}, nil
	}

	type holder struct {
		priv *keys.PrivateKey
		pub  *keys.PublicKey
	}
	byIdentity := make(map[string]holder, len(in.PrivateKeys))
	for _, raw := range in.PrivateKeys {
		priv, err := keys.ParsePrivateKey(raw)
		if err != nil {
			return &txproto.SigningOutput{Error: txproto.ErrorInvalidParams, ErrorMessage: err.Error()}, nil
		}
		pub := priv.PublicKey()
		byIdentity[string(pub.Hash160())] = holder{priv: priv, pub: pub}
	}

	u, code, msg := buildUnsigned(in)
	if code != txproto.OK {
		return &txproto.SigningOutput{Error: code, ErrorMessage: msg}, nil
	}

	signatures := make([][]byte, 0, len(u.requests))
	publicKeys := make([][]byte, 0, len(u.requests))
	for _, r := range u.requests {
		h, ok := byIdentity[string(r.identity)]
		if !ok {
			return &txproto.SigningOutput{
				Error:        txproto.ErrorInvalidParams,
				ErrorMessage: fmt.Sprintf("no private key for identity %x", r.identity),
			}, nil
		}
		sig, err := h.priv.SignDER(r.digest)
		if err != nil {
			return &txproto.SigningOutput{Error: txproto.ErrorSigning, ErrorMessage: err.Error()}, nil
		}
		signatures = append(signatures, sig)
		publicKeys = append(publicKeys, h.pub.Compressed())
	}
	return b.Compile(in, signatures, publicKeys)
}
