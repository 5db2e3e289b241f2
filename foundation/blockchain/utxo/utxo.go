// Package utxo provides the strategies used to decide which outputs an
// address has already spent.
package utxo

import (
	"fmt"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
)

// List of different matching strategies.
const (
	StrategyAmount  = "amount"
	StrategyLineage = "lineage"
)

// Map of different matching strategies with functions.
var strategies = map[string]Func{
	StrategyAmount:  amountMatch,
	StrategyLineage: lineageMatch,
}

// Func defines a function that takes every output ever paid to an address
// and every input ever spent by that address, both in chain order, and
// returns the outputs that remain unspent. Each input consumes at most
// one output.
type Func func(outputs []database.TxOutput, spent []database.TxInput) []database.TxOutput

// Retrieve returns the specified matching strategy function.
func Retrieve(strategy string) (Func, error) {
	fn, exists := strategies[strategy]
	if !exists {
		return nil, fmt.Errorf("strategy %q does not exist", strategy)
	}
	return fn, nil
}

// =============================================================================

// amountMatch removes the first output whose amount equals the amount of the
// input. When several outputs share an amount, the output consumed may not be
// the one the input referenced.
var amountMatch = func(outputs []database.TxOutput, spent []database.TxInput) []database.TxOutput {
	return consume(outputs, spent, func(out database.TxOutput, in database.TxInput) bool {
		return out.Amount() == in.Amount()
	})
}

// lineageMatch removes the output produced by the transaction the input
// references, preferring the output with the same amount.
var lineageMatch = func(outputs []database.TxOutput, spent []database.TxInput) []database.TxOutput {
	remaining := make([]database.TxOutput, len(outputs))
	copy(remaining, outputs)

	for _, in := range spent {
		idx := -1
		for i, out := range remaining {
			if out.ProducingTxHash() != in.PreviousTxHash() || out.Amount() < in.Amount() {
				continue
			}
			if idx == -1 || out.Amount() == in.Amount() {
				idx = i
			}
			if out.Amount() == in.Amount() {
				break
			}
		}

		if idx != -1 {
			remaining = append(remaining[:idx], remaining[idx+1:]...)
		}
	}

	return remaining
}

// consume walks the inputs and removes the first output the match function
// accepts for each one.
func consume(outputs []database.TxOutput, spent []database.TxInput, match func(database.TxOutput, database.TxInput) bool) []database.TxOutput {
	remaining := make([]database.TxOutput, len(outputs))
	copy(remaining, outputs)

	for _, in := range spent {
		for i, out := range remaining {
			if match(out, in) {
				remaining = append(remaining[:i], remaining[i+1:]...)
				break
			}
		}
	}

	return remaining
}
