// Package txproto defines the schema-typed records exchanged across the
// transaction-compiler call boundary, together with their binary codec.
//
// Every compiler operation accepts and returns one of these records encoded
// in protobuf wire format, so a remote signer written in any language can
// participate in the pipeline using only the serialized bytes. Field numbers
// are a frozen external contract; see codec.go.
package txproto

// ErrorCode is the closed set of domain-level failure codes carried inside
// output records. Caller-contract violations (malformed addresses, undecodable
// public keys) are never encoded here; they surface as hard call failures.
type ErrorCode uint32

const (
	// OK means the operation succeeded.
	OK ErrorCode = 0

	// ErrorInvalidAddress means a from/to address failed chain-specific validation.
	ErrorInvalidAddress ErrorCode = 1

	// ErrorInvalidParams means the input record is structurally unusable:
	// missing UTXOs/plan on a UTXO chain, signature list length mismatch,
	// missing per-digest signature coverage, undecodable input bytes.
	ErrorInvalidParams ErrorCode = 2

	// ErrorSigning means a supplied signature failed cryptographic
	// verification against its matched digest and public key.
	ErrorSigning ErrorCode = 3

	// ErrorUnsupportedCoin means the chain identifier has no registered backend.
	ErrorUnsupportedCoin ErrorCode = 4

	// ErrorInsufficientFunds means the declared UTXO set cannot cover
	// amount plus fee.
	ErrorInsufficientFunds ErrorCode = 5
)

// String returns the stable name of the error code.
func (e ErrorCode) String() string {
	switch e {
	case OK:
		return "ok"
	case ErrorInvalidAddress:
		return "invalid_address"
	case ErrorInvalidParams:
		return "invalid_params"
	case ErrorSigning:
		return "signing_error"
	case ErrorUnsupportedCoin:
		return "unsupported_coin"
	case ErrorInsufficientFunds:
		return "insufficient_funds"
	default:
		return "unknown"
	}
}

// OutPoint references a prior transaction output.
type OutPoint struct {
	Hash     []byte // 32 bytes, internal byte order
	Index    uint32
	Sequence uint32
}

// Utxo is an unspent prior output offered to the planner. UTXOs are read-only
// inputs; the planner copies the ones it selects into the plan.
type Utxo struct {
	OutPoint OutPoint
	Script   []byte // locking script bytes
	Amount   uint64 // satoshis
}

// TransactionPlan is the planner's output: the selected inputs and the
// resolved amount/fee/change split. For a successful plan
// AvailableAmount == Amount + Fee + Change holds exactly.
type TransactionPlan struct {
	Amount          uint64 // final spend amount
	AvailableAmount uint64 // sum of selected UTXO amounts
	Fee             uint64
	Change          uint64
	Utxos           []Utxo // selected inputs, in signing order
	Error           ErrorCode
}

// SigningInput is a chain-tagged structured transaction request. It is built
// by buildInput, optionally enriched once with a plan, and then consumed
// read-only by preImageHashes and compileWithSignatures.
//
// Amount is a decimal string so 256-bit chains fit; UTXO chains additionally
// carry per-output satoshi amounts inside Utxos/Plan.
type SigningInput struct {
	Coin       uint32
	From       string
	To         string
	Amount     string
	Asset      string // currency tag: "BNB", "ETH", ...
	Memo       string
	ChainParam string // chain-specific: Binance chain id, Ethereum decimal chain id

	// UTXO-chain fee parameters.
	ByteFee       uint64 // fee rate, satoshis per virtual byte
	ChangeAddress string
	UseMaxAmount  bool
	Utxos         []Utxo
	Plan          *TransactionPlan

	// Account-chain parameters, big-endian byte encoded where 256-bit.
	GasPrice []byte
	GasLimit []byte
	Nonce    []byte

	// Binance account metadata.
	AccountNumber uint64
	Sequence      uint64
	Source        uint64

	// PrivateKeys is populated only on the direct-sign path; the external
	// compile path never reads it. Multi-input chains may need several keys.
	PrivateKeys [][]byte
}

// DigestIdentity is one required signature: the exact bytes to sign and the
// identity of the signer that must produce it. Identity is empty on
// single-signer chains; UTXO chains use HASH160 of the controlling public key.
type DigestIdentity struct {
	Digest   []byte
	Identity []byte
}

// PreSigningOutput lists every digest that must be signed, in the order the
// backend will consume them. Callers must match signatures to digests by
// identity, never by position: a plan is free to reorder inputs.
type PreSigningOutput struct {
	Digests      []DigestIdentity
	Error        ErrorCode
	ErrorMessage string
}

// SigningOutput is the terminal result: wire-ready transaction bytes plus
// echo metadata, or an error code with an empty payload.
type SigningOutput struct {
	Encoded      []byte
	TxID         string
	Error        ErrorCode
	ErrorMessage string
}
