package binance

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// The Beacon Chain signs SHA256 of a canonical JSON document: keys in
// alphabetical order, no whitespace, account metadata rendered as strings.
// Struct field order below IS the canonical key order; encoding/json
// preserves it, so these types must not be reordered.

type signDocCoin struct {
	Amount int64  `json:"amount"`
	Denom  string `json:"denom"`
}

type signDocIO struct {
	Address string        `json:"address"`
	Coins   []signDocCoin `json:"coins"`
}

type signDocMsg struct {
	Inputs  []signDocIO `json:"inputs"`
	Outputs []signDocIO `json:"outputs"`
}

type signDoc struct {
	AccountNumber string          `json:"account_number"`
	ChainID       string          `json:"chain_id"`
	Data          json.RawMessage `json:"data"`
	Memo          string          `json:"memo"`
	Msgs          []signDocMsg    `json:"msgs"`
	Sequence      string          `json:"sequence"`
	Source        string          `json:"source"`
}

// signDocBytes renders the canonical signing document for a single-transfer
// send order. Addresses appear in their bech32 form.
func signDocBytes(chainID, from, to, denom string, amount int64, memo string, accountNumber, sequence, source uint64) ([]byte, error) {
	coins := []signDocCoin{{Amount: amount, Denom: denom}}
	doc := signDoc{
		AccountNumber: strconv.FormatUint(accountNumber, 10),
		ChainID:       chainID,
		Data:          nil, // marshals as null
		Memo:          memo,
		Msgs: []signDocMsg{{
			Inputs:  []signDocIO{{Address: from, Coins: coins}},
			Outputs: []signDocIO{{Address: to, Coins: coins}},
		}},
		Sequence: strconv.FormatUint(sequence, 10),
		Source:   strconv.FormatUint(source, 10),
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("binance: marshal sign doc: %w", err)
	}
	return b, nil
}
