package database

import (
	"fmt"
	"math"
	"time"

	"github.com/ardanlabs/utxochain/foundation/blockchain/keypair"
	"github.com/ardanlabs/utxochain/foundation/blockchain/validation"
)

// TxType tags a transaction as a wallet transfer or a miner payout.
type TxType string

// Set of transaction types.
const (
	TxRegular TxType = "regular"
	TxFee     TxType = "fee"
)

// ParseTxType validates the string is a known transaction type.
func ParseTxType(s string) (TxType, error) {
	switch t := TxType(s); t {
	case TxRegular, TxFee:
		return t, nil
	}

	return "", fmt.Errorf("unknown transaction type %q", s)
}

// =============================================================================

// Tx is an atomic set of inputs and outputs. The hash is computed once at
// construction and is the transaction's identity from then on.
type Tx struct {
	txType    TxType
	timestamp int64
	hash      string
	inputs    []TxInput
	outputs   []TxOutput
}

// NewTx constructs a transaction and fixes its hash. Fee transactions
// normally carry no inputs.
func NewTx(txType TxType, timestamp int64, inputs []TxInput, outputs []TxOutput) Tx {
	tx := Tx{
		txType:    txType,
		timestamp: timestamp,
		inputs:    append([]TxInput(nil), inputs...),
		outputs:   append([]TxOutput(nil), outputs...),
	}
	tx.hash = tx.ComputeHash()

	return tx
}

// NewRewardTx constructs the fee transaction paying a block's miner.
func NewRewardTx(out TxOutput) Tx {
	return NewTx(TxFee, time.Now().UTC().UnixMilli(), nil, []TxOutput{out})
}

// Type returns the transaction type.
func (tx Tx) Type() TxType {
	return tx.txType
}

// Timestamp returns the construction time in milliseconds since the epoch.
func (tx Tx) Timestamp() int64 {
	return tx.timestamp
}

// Hash returns the hash fixed at construction.
func (tx Tx) Hash() string {
	return tx.hash
}

// Inputs returns a copy of the inputs.
func (tx Tx) Inputs() []TxInput {
	return append([]TxInput(nil), tx.inputs...)
}

// Outputs returns a copy of the outputs.
func (tx Tx) Outputs() []TxOutput {
	return append([]TxOutput(nil), tx.outputs...)
}

// ComputeHash hashes the type, every input hash, every output hash and the
// timestamp, in that order.
func (tx Tx) ComputeHash() string {
	parts := make([]string, 0, len(tx.inputs)+len(tx.outputs)+2)
	parts = append(parts, string(tx.txType))
	for _, in := range tx.inputs {
		parts = append(parts, in.Hash())
	}
	for _, out := range tx.outputs {
		parts = append(parts, out.Hash())
	}
	parts = append(parts, fmt.Sprintf("%d", tx.timestamp))

	return hashOf(parts...)
}

// Fee returns what the inputs provide beyond the outputs. Transactions
// without inputs pay no fee.
func (tx Tx) Fee() int64 {
	if len(tx.inputs) == 0 {
		return 0
	}

	return int64(tx.InputAmount()) - int64(tx.OutputAmount())
}

// InputAmount returns the sum of the input amounts. A sum that does not
// fit in a uint64 is reported as math.MaxUint64.
func (tx Tx) InputAmount() uint64 {
	total, _ := tx.inputSum()
	return total
}

// OutputAmount returns the sum of the output amounts. A sum that does not
// fit in a uint64 is reported as math.MaxUint64.
func (tx Tx) OutputAmount() uint64 {
	total, _ := tx.outputSum()
	return total
}

func (tx Tx) inputSum() (uint64, bool) {
	var total uint64
	for _, in := range tx.inputs {
		var ok bool
		if total, ok = AddAmount(total, in.amount); !ok {
			return total, false
		}
	}
	return total, true
}

func (tx Tx) outputSum() (uint64, bool) {
	var total uint64
	for _, out := range tx.outputs {
		var ok bool
		if total, ok = AddAmount(total, out.amount); !ok {
			return total, false
		}
	}
	return total, true
}

// AddAmount adds two amounts. False is returned with math.MaxUint64 when
// the sum wraps.
func AddAmount(a, b uint64) (uint64, bool) {
	sum := a + b
	if sum < a {
		return math.MaxUint64, false
	}
	return sum, true
}

// Senders returns the distinct from addresses of the inputs.
func (tx Tx) Senders() []string {
	seen := make(map[string]bool)
	var senders []string
	for _, in := range tx.inputs {
		if !seen[in.fromAddress] {
			seen[in.fromAddress] = true
			senders = append(senders, in.fromAddress)
		}
	}
	return senders
}

// SignInputs signs every input spent from the keypair's address. Signing
// does not change the transaction hash.
func (tx *Tx) SignInputs(kp keypair.Keypair) error {
	inputs := append([]TxInput(nil), tx.inputs...)
	for i := range inputs {
		if inputs[i].fromAddress != kp.PublicKey {
			continue
		}

		if err := inputs[i].Sign(kp.PrivateKey); err != nil {
			return err
		}
	}

	tx.inputs = inputs
	return nil
}

// AttachOutputLineage tags every output with this transaction's hash.
func (tx *Tx) AttachOutputLineage() {
	outputs := append([]TxOutput(nil), tx.outputs...)
	for i := range outputs {
		outputs[i].AttachProducingTx(tx.hash)
	}
	tx.outputs = outputs
}

// IsValid checks the transaction against the rules for its type. The
// difficulty and expected fees bound what a fee transaction may pay out.
func (tx Tx) IsValid(difficulty int, totalExpectedFees uint64) validation.Result {
	if tx.ComputeHash() != tx.hash {
		return validation.Fail(validation.TamperedHash, "transaction hash %s does not match its content", short(tx.hash))
	}

	if tx.txType == TxFee {
		for _, out := range tx.outputs {
			if res := out.IsValid(); !res.Success {
				return res
			}
		}

		paid, ok := tx.outputSum()
		if !ok {
			return validation.Fail(validation.AmountOverflow, "fee transaction outputs overflow")
		}

		limit, _ := AddAmount(RewardAmount(difficulty), totalExpectedFees)
		if paid > limit {
			return validation.Fail(validation.ExcessiveFeeOrReward, "fee transaction pays %d, maximum is %d", paid, limit)
		}

		return validation.OK()
	}

	if len(tx.inputs) == 0 {
		return validation.Fail(validation.MissingInputs, "regular transaction has no inputs")
	}

	for _, in := range tx.inputs {
		if res := in.IsValid(); !res.Success {
			return res
		}
	}

	for _, out := range tx.outputs {
		if res := out.IsValid(); !res.Success {
			return res
		}
	}

	in, inOK := tx.inputSum()
	out, outOK := tx.outputSum()
	if !inOK || !outOK {
		return validation.Fail(validation.AmountOverflow, "transaction amounts overflow")
	}

	if in < out {
		return validation.Fail(validation.InsufficientInputAmount, "inputs provide %d, outputs require %d", in, out)
	}

	for _, out := range tx.outputs {
		if out.producingTxHash != "" && out.producingTxHash != tx.hash {
			return validation.Fail(validation.InvalidOutputLineage, "output %s is tagged with transaction %s", out, short(out.producingTxHash))
		}
	}

	return validation.OK()
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s:%s:in[%d]:out[%d]", tx.txType, short(tx.hash), len(tx.inputs), len(tx.outputs))
}
