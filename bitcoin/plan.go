package bitcoin

import (
	"sort"
	"strconv"

	"github.com/btcsuite/btcd/txscript"

	"github.com/txforgeorg/libtxforge-go/txproto"
)

// Size model, in weight units per BIP141. Signatures are assumed to be
// 72-byte DER (the worst common case) with a 33-byte compressed pubkey.
const (
	// defaultByteFee applies when the input carries no fee rate.
	defaultByteFee = 1

	// txOverheadBase is version + locktime.
	txOverheadBase = 8

	// inputBase is txid(32) + vout(4) + empty scriptSig length(1) + sequence(4).
	inputBase = 41

	// p2pkhScriptSigSize is push(sig72+hashtype) + push(pubkey33).
	p2pkhScriptSigSize = 1 + 72 + 1 + 33

	// p2wpkhWitnessSize is item count + push(sig72+hashtype) + push(pubkey33).
	p2wpkhWitnessSize = 1 + 1 + 72 + 1 + 33

	// segwitMarkerFlag is the two marker/flag bytes of a witness serialization.
	segwitMarkerFlag = 2
)

// varIntSize returns the serialized size of a Bitcoin compact-size integer.
func varIntSize(n int) int {
	switch {
	case n < 0xfd:
		return 1
	case n <= 0xffff:
		return 3
	case n <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// inputCost returns the virtual size one input of the given script kind adds
// to a transaction, used both for fee estimation and the dust cutoff.
func inputCost(script []byte) int {
	if txscript.GetScriptClass(script) == txscript.WitnessV0PubKeyHashTy {
		// base 41, witness 108: (41*3 + 41+108 + 3) / 4
		return (inputBase*3 + inputBase + p2wpkhWitnessSize + 3) / 4
	}
	return inputBase + p2pkhScriptSigSize
}

// estimateVSize returns the virtual size of a transaction spending the given
// inputs into the given output scripts, with all signatures still pending.
func estimateVSize(inputs []txproto.Utxo, outScripts [][]byte) int {
	base := txOverheadBase + varIntSize(len(inputs)) + varIntSize(len(outScripts))
	witness := 0
	hasWitness := false
	for i := range inputs {
		if txscript.GetScriptClass(inputs[i].Script) == txscript.WitnessV0PubKeyHashTy {
			base += inputBase
			witness += p2wpkhWitnessSize
			hasWitness = true
		} else {
			base += inputBase + p2pkhScriptSigSize
		}
	}
	for _, s := range outScripts {
		base += 8 + varIntSize(len(s)) + len(s)
	}
	total := base + witness
	if hasWitness {
		total += segwitMarkerFlag
	}
	// vsize = ceil(weight / 4), weight = 3*base + total
	return (base*3 + total + 3) / 4
}

// estimateFee is estimateVSize times the fee rate.
func estimateFee(inputs []txproto.Utxo, outScripts [][]byte, feeRate uint64) uint64 {
	return uint64(estimateVSize(inputs, outScripts)) * feeRate
}

// failedPlan is the zero plan carrying only an error code.
func failedPlan(code txproto.ErrorCode) *txproto.TransactionPlan {
	return &txproto.TransactionPlan{Error: code}
}

// planTransaction selects UTXOs and resolves the amount/fee/change split.
//
// Selection is deterministic "smallest sufficient suffix": candidates are
// sorted ascending by amount (out-point breaking ties), dust is dropped, and
// the smallest n is chosen such that the n largest candidates cover
// amount + fee(n). Selected inputs keep ascending order, so planned order can
// differ from the caller's declared order; callers must match signatures to
// digests by identity, not position.
func planTransaction(in *txproto.SigningInput) *txproto.TransactionPlan {
	if len(in.Utxos) == 0 {
		return failedPlan(txproto.ErrorInvalidParams)
	}

	feeRate := in.ByteFee
	if feeRate == 0 {
		feeRate = defaultByteFee
	}

	toScript, err := lockingScriptForAddress(in.To)
	if err != nil {
		return failedPlan(txproto.ErrorInvalidAddress)
	}

	// Drop inputs that cost more to spend than they are worth.
	candidates := make([]txproto.Utxo, 0, len(in.Utxos))
	for _, u := range in.Utxos {
		if u.Amount > feeRate*uint64(inputCost(u.Script)) {
			candidates = append(candidates, u)
		}
	}
	if len(candidates) == 0 {
		return failedPlan(txproto.ErrorInsufficientFunds)
	}
	sortUtxos(candidates)

	if in.UseMaxAmount {
		var total uint64
		for _, u := range candidates {
			total += u.Amount
		}
		fee := estimateFee(candidates, [][]byte{toScript}, feeRate)
		if total <= fee {
			return failedPlan(txproto.ErrorInsufficientFunds)
		}
		return &txproto.TransactionPlan{
			Amount:          total - fee,
			AvailableAmount: total,
			Fee:             fee,
			Change:          0,
			Utxos:           candidates,
		}
	}

	amount, perr := strconv.ParseUint(in.Amount, 10, 64)
	if perr != nil || amount == 0 {
		return failedPlan(txproto.ErrorInvalidParams)
	}

	changeAddr := in.ChangeAddress
	if changeAddr == "" {
		changeAddr = in.From
	}
	changeScript, err := lockingScriptForAddress(changeAddr)
	if err != nil {
		return failedPlan(txproto.ErrorInvalidAddress)
	}
	outScripts := [][]byte{toScript, changeScript}

	for n := 1; n <= len(candidates); n++ {
		selected := candidates[len(candidates)-n:]
		var total uint64
		for _, u := range selected {
			total += u.Amount
		}
		fee := estimateFee(selected, outScripts, feeRate)
		if total >= amount+fee {
			return &txproto.TransactionPlan{
				Amount:          amount,
				AvailableAmount: total,
				Fee:             fee,
				Change:          total - amount - fee,
				Utxos:           append([]txproto.Utxo(nil), selected...),
			}
		}
	}
	return failedPlan(txproto.ErrorInsufficientFunds)
}

// sortUtxos orders UTXOs ascending by amount, breaking ties by out-point so
// the plan is stable for a fixed candidate set.
func sortUtxos(utxos []txproto.Utxo) {
	sort.SliceStable(utxos, func(i, j int) bool {
		if utxos[i].Amount != utxos[j].Amount {
			return utxos[i].Amount < utxos[j].Amount
		}
		ci := string(utxos[i].OutPoint.Hash)
		cj := string(utxos[j].OutPoint.Hash)
		if ci != cj {
			return ci < cj
		}
		return utxos[i].OutPoint.Index < utxos[j].OutPoint.Index
	})
}
