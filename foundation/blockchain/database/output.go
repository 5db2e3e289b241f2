package database

import (
	"fmt"
	"strings"

	"github.com/ardanlabs/utxochain/foundation/blockchain/validation"
)

// TxOutput is a claim on value payable to an address. The producing
// transaction hash is not part of the output's hash, so it can be attached
// once the owning transaction is known.
type TxOutput struct {
	toAddress       string
	amount          uint64
	producingTxHash string
}

// NewTxOutput constructs an output paying the amount to the address.
func NewTxOutput(toAddress string, amount uint64) TxOutput {
	return TxOutput{
		toAddress: toAddress,
		amount:    amount,
	}
}

// ToAddress returns the address the output pays.
func (out TxOutput) ToAddress() string {
	return out.toAddress
}

// Amount returns the value of the output.
func (out TxOutput) Amount() uint64 {
	return out.amount
}

// ProducingTxHash returns the hash of the transaction that created this
// output, or an empty string if it was never attached.
func (out TxOutput) ProducingTxHash() string {
	return out.producingTxHash
}

// AttachProducingTx records the hash of the transaction that owns this
// output. It must always be the true owning transaction.
func (out *TxOutput) AttachProducingTx(hash string) {
	out.producingTxHash = hash
}

// Hash returns the hash of the address and amount.
func (out TxOutput) Hash() string {
	return hashOf(out.toAddress, itoa(out.amount))
}

// IsValid checks the output is payable.
func (out TxOutput) IsValid() validation.Result {
	if strings.TrimSpace(out.toAddress) == "" {
		return validation.Fail(validation.MissingAddress, "output has no destination address")
	}

	if out.amount < 1 {
		return validation.Fail(validation.NonPositiveAmount, "output amount must be greater than zero")
	}

	return validation.OK()
}

// String implements the fmt.Stringer interface for logging.
func (out TxOutput) String() string {
	return fmt.Sprintf("%s:%d", short(out.toAddress), out.amount)
}

// short trims long hex values for log output.
func short(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
